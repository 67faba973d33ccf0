package repository

import (
	"context"
	"encoding/json"
	"time"

	"federation_video_service/internal/federation/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoModel 遠端影片在本地 catalog 的鏡像
// counter 欄位同時被 CounterRepository 以原生 SQL 更新，欄位名不可改
type VideoModel struct {
	ID          uint   `gorm:"primaryKey"`
	UUID        string `gorm:"type:varchar(36);uniqueIndex"`
	Name        string `gorm:"type:varchar(120)"`
	Description string `gorm:"type:varchar(3000)"`
	Category    int64
	Licence     int64
	Language    int64
	NSFW        bool
	Duration    int64
	Tags        string `gorm:"type:text"` // JSON array
	Files       string `gorm:"type:text"` // JSON array of file descriptors
	Views       int64
	Likes       int64
	Dislikes    int64
	ChannelUUID string `gorm:"type:varchar(36);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName videos
func (VideoModel) TableName() string { return "videos" }

// ChannelModel 遠端頻道在本地 catalog 的鏡像
type ChannelModel struct {
	ID          uint   `gorm:"primaryKey"`
	UUID        string `gorm:"type:varchar(36);uniqueIndex"`
	Name        string `gorm:"type:varchar(120)"`
	Description string `gorm:"type:varchar(500)"`
	OwnerUUID   string `gorm:"type:varchar(36);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName channels
func (ChannelModel) TableName() string { return "channels" }

// AuthorModel 遠端作者在本地 catalog 的鏡像
type AuthorModel struct {
	ID   uint   `gorm:"primaryKey"`
	UUID string `gorm:"type:varchar(36);uniqueIndex"`
	Name string `gorm:"type:varchar(50)"`
}

// TableName authors
func (AuthorModel) TableName() string { return "authors" }

// AbuseReportModel 遠端回報的濫用案件
type AbuseReportModel struct {
	ID               uint   `gorm:"primaryKey"`
	VideoUUID        string `gorm:"type:varchar(36);index"`
	ReportReason     string `gorm:"type:varchar(300)"`
	ReporterUsername string `gorm:"type:varchar(50)"`
	CreatedAt        time.Time
}

// TableName abuse_reports
func (AbuseReportModel) TableName() string { return "abuse_reports" }

// CatalogRepository 本地 catalog 的持久化（通過驗證的遠端實體才會進來）
type CatalogRepository interface {
	AutoMigrate() error
	AddVideo(ctx context.Context, video *domain.VideoPayload) error
	UpdateVideo(ctx context.Context, video *domain.VideoPayload) error
	RemoveVideo(ctx context.Context, uuid string) error
	AddAbuseReport(ctx context.Context, report *domain.AbuseReportPayload) error
	AddChannel(ctx context.Context, channel *domain.ChannelPayload) error
	UpdateChannel(ctx context.Context, channel *domain.ChannelPayload) error
	RemoveChannel(ctx context.Context, uuid string) error
	AddAuthor(ctx context.Context, author *domain.AuthorPayload) error
	RemoveAuthor(ctx context.Context, uuid string) error
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository 建立一個新的 CatalogRepository
func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// AutoMigrate 自動遷移 catalog 資料表
func (r *catalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&VideoModel{}, &ChannelModel{}, &AuthorModel{}, &AbuseReportModel{})
}

// AddVideo 同一 uuid 重送視為冪等，不產生重複列
func (r *catalogRepository) AddVideo(ctx context.Context, video *domain.VideoPayload) error {
	model, err := toVideoModel(video)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoNothing: true,
		}).
		Create(model).Error
}

// UpdateVideo 只更新可變欄位，channel 關聯建立後不可變
func (r *catalogRepository) UpdateVideo(ctx context.Context, video *domain.VideoPayload) error {
	model, err := toVideoModel(video)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&VideoModel{}).
		Where("uuid = ?", video.UUID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"category":    model.Category,
			"licence":     model.Licence,
			"language":    model.Language,
			"nsfw":        model.NSFW,
			"duration":    model.Duration,
			"tags":        model.Tags,
			"files":       model.Files,
			"views":       model.Views,
			"likes":       model.Likes,
			"dislikes":    model.Dislikes,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveVideo
func (r *catalogRepository) RemoveVideo(ctx context.Context, uuid string) error {
	return r.db.WithContext(ctx).Where("uuid = ?", uuid).Delete(&VideoModel{}).Error
}

// AddAbuseReport
func (r *catalogRepository) AddAbuseReport(ctx context.Context, report *domain.AbuseReportPayload) error {
	return r.db.WithContext(ctx).Create(&AbuseReportModel{
		VideoUUID:        report.VideoUUID,
		ReportReason:     report.ReportReason,
		ReporterUsername: report.ReporterUsername,
		CreatedAt:        time.Now().UTC(),
	}).Error
}

// AddChannel
func (r *catalogRepository) AddChannel(ctx context.Context, channel *domain.ChannelPayload) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoNothing: true,
		}).
		Create(toChannelModel(channel)).Error
}

// UpdateChannel
func (r *catalogRepository) UpdateChannel(ctx context.Context, channel *domain.ChannelPayload) error {
	result := r.db.WithContext(ctx).
		Model(&ChannelModel{}).
		Where("uuid = ?", channel.UUID).
		Updates(map[string]interface{}{
			"name":        channel.Name,
			"description": channel.Description,
			"updated_at":  channel.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveChannel 頻道刪除時一併移除底下的影片
func (r *catalogRepository) RemoveChannel(ctx context.Context, uuid string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("channel_uuid = ?", uuid).Delete(&VideoModel{}).Error; err != nil {
			return err
		}
		return tx.Where("uuid = ?", uuid).Delete(&ChannelModel{}).Error
	})
}

// AddAuthor
func (r *catalogRepository) AddAuthor(ctx context.Context, author *domain.AuthorPayload) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoNothing: true,
		}).
		Create(&AuthorModel{UUID: author.UUID, Name: author.Name}).Error
}

// RemoveAuthor 作者刪除時連同頻道與影片級聯移除
func (r *catalogRepository) RemoveAuthor(ctx context.Context, uuid string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var channels []ChannelModel
		if err := tx.Where("owner_uuid = ?", uuid).Find(&channels).Error; err != nil {
			return err
		}
		for _, channel := range channels {
			if err := tx.Where("channel_uuid = ?", channel.UUID).Delete(&VideoModel{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_uuid = ?", uuid).Delete(&ChannelModel{}).Error; err != nil {
			return err
		}
		return tx.Where("uuid = ?", uuid).Delete(&AuthorModel{}).Error
	})
}

func toVideoModel(video *domain.VideoPayload) (*VideoModel, error) {
	tags, err := json.Marshal(video.Tags)
	if err != nil {
		return nil, err
	}
	files, err := json.Marshal(video.Files)
	if err != nil {
		return nil, err
	}
	return &VideoModel{
		UUID:        video.UUID,
		Name:        video.Name,
		Description: video.Description,
		Category:    video.Category,
		Licence:     video.Licence,
		Language:    video.Language,
		NSFW:        video.NSFW,
		Duration:    video.Duration,
		Tags:        string(tags),
		Files:       string(files),
		Views:       video.Views,
		Likes:       video.Likes,
		Dislikes:    video.Dislikes,
		ChannelUUID: video.ChannelUUID,
		CreatedAt:   video.CreatedAt,
		UpdatedAt:   video.UpdatedAt,
	}, nil
}

func toChannelModel(channel *domain.ChannelPayload) *ChannelModel {
	return &ChannelModel{
		UUID:        channel.UUID,
		Name:        channel.Name,
		Description: channel.Description,
		OwnerUUID:   channel.OwnerUUID,
		CreatedAt:   channel.CreatedAt,
		UpdatedAt:   channel.UpdatedAt,
	}
}
