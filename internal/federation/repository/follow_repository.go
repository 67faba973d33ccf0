package repository

import (
	"context"
	"errors"
	"time"

	"federation_video_service/internal/federation/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowModel 定義 follow 資料表
// (follower_uuid, followed_uuid) 的唯一索引就是 Request 冪等性的儲存層依據
type FollowModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	FollowerUUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair"`
	FollowerType     string    `gorm:"not null"`
	FollowerHost     string    `gorm:"not null;index"`
	FollowedUUID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair"`
	FollowedType     string    `gorm:"not null"`
	FollowedHost     string    `gorm:"not null;index"`
	State            string    `gorm:"not null;index"`
	CreatedAt        time.Time
	LastTransitionAt time.Time
}

// TableName gorm table name
func (FollowModel) TableName() string {
	return "follows"
}

// FollowRepository definition follow relationship storage
type FollowRepository interface {
	AutoMigrate() error
	// Create insert a PENDING row; on a pair conflict nothing is written
	// and the existing row is returned (idempotent request under races)
	Create(ctx context.Context, follow *domain.FollowRelationship) (*domain.FollowRelationship, error)
	FindByPair(ctx context.Context, follower, followed uuid.UUID) (*domain.FollowRelationship, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.FollowRelationship, error)
	// UpdateState conditional transition, first writer wins:
	// UPDATE ... WHERE id = ? AND state = <from>; zero rows -> conflict
	UpdateState(ctx context.Context, id uuid.UUID, from, to domain.FollowState) error
	// Delete removes a row entirely (PENDING cancellation path)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query *domain.FollowQuery) ([]domain.FollowRelationship, int64, error)
	CountAccepted(ctx context.Context, actor uuid.UUID, direction domain.FollowDirection) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository create a FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&FollowModel{})
}

func (r *followRepository) Create(ctx context.Context, follow *domain.FollowRelationship) (*domain.FollowRelationship, error) {
	model := toModel(follow)

	// ON CONFLICT DO NOTHING：同一對 (follower, followed) 永遠不會有第二列
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_uuid"}, {Name: "followed_uuid"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, result.Error
	}

	// 不論是否有寫入，都以資料庫內容為準回傳
	return r.FindByPair(ctx, follow.Follower.UUID, follow.Followed.UUID)
}

func (r *followRepository) FindByPair(ctx context.Context, follower, followed uuid.UUID) (*domain.FollowRelationship, error) {
	var model FollowModel
	err := r.db.WithContext(ctx).
		Where("follower_uuid = ? AND followed_uuid = ?", follower, followed).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrFollowNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEntity(&model), nil
}

func (r *followRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.FollowRelationship, error) {
	var model FollowModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrFollowNotFound
	}
	if err != nil {
		return nil, err
	}
	return toEntity(&model), nil
}

func (r *followRepository) UpdateState(ctx context.Context, id uuid.UUID, from, to domain.FollowState) error {
	result := r.db.WithContext(ctx).
		Model(&FollowModel{}).
		Where("id = ? AND state = ?", id, string(from)).
		Updates(map[string]interface{}{
			"state":              string(to),
			"last_transition_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 列不存在或已被別的 transition 搶先，由 caller 重新查詢分辨
		var count int64
		if err := r.db.WithContext(ctx).Model(&FollowModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrFollowNotFound
		}
		return domain.ErrFollowStateConflict
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&FollowModel{}, "id = ?", id).Error
}

// List 依方向/狀態/actor 類型/host 子字串過濾，offset+count 分頁，created_at 排序
func (r *followRepository) List(ctx context.Context, query *domain.FollowQuery) ([]domain.FollowRelationship, int64, error) {
	tx := r.db.WithContext(ctx).Model(&FollowModel{})

	switch query.Direction {
	case domain.DirectionFollowers:
		tx = tx.Where("followed_uuid = ?", query.ActorUUID)
		if query.State != nil {
			tx = tx.Where("state = ?", string(*query.State))
		}
		if query.ActorType != nil {
			tx = tx.Where("follower_type = ?", string(*query.ActorType))
		}
		if query.Search != "" {
			tx = tx.Where("follower_host ILIKE ?", "%"+query.Search+"%")
		}
	case domain.DirectionFollowings:
		tx = tx.Where("follower_uuid = ?", query.ActorUUID)
		if query.State != nil {
			tx = tx.Where("state = ?", string(*query.State))
		}
		if query.ActorType != nil {
			tx = tx.Where("followed_type = ?", string(*query.ActorType))
		}
		if query.Search != "" {
			tx = tx.Where("followed_host ILIKE ?", "%"+query.Search+"%")
		}
	default:
		return nil, 0, errors.New("unknown follow direction")
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at ASC"
	if query.SortDesc {
		order = "created_at DESC"
	}

	var models []FollowModel
	if err := tx.Order(order).Offset(query.Start).Limit(query.Count).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	follows := make([]domain.FollowRelationship, 0, len(models))
	for i := range models {
		follows = append(follows, *toEntity(&models[i]))
	}
	return follows, total, nil
}

func (r *followRepository) CountAccepted(ctx context.Context, actor uuid.UUID, direction domain.FollowDirection) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&FollowModel{}).Where("state = ?", string(domain.FollowStateAccepted))
	if direction == domain.DirectionFollowers {
		tx = tx.Where("followed_uuid = ?", actor)
	} else {
		tx = tx.Where("follower_uuid = ?", actor)
	}
	var count int64
	err := tx.Count(&count).Error
	return count, err
}

func toModel(follow *domain.FollowRelationship) *FollowModel {
	return &FollowModel{
		ID:               follow.ID,
		FollowerUUID:     follow.Follower.UUID,
		FollowerType:     string(follow.Follower.Type),
		FollowerHost:     follow.Follower.Host,
		FollowedUUID:     follow.Followed.UUID,
		FollowedType:     string(follow.Followed.Type),
		FollowedHost:     follow.Followed.Host,
		State:            string(follow.State),
		CreatedAt:        follow.CreatedAt,
		LastTransitionAt: follow.LastTransitionAt,
	}
}

func toEntity(model *FollowModel) *domain.FollowRelationship {
	return &domain.FollowRelationship{
		ID: model.ID,
		Follower: domain.ActorRef{
			UUID: model.FollowerUUID,
			Type: domain.ActorType(model.FollowerType),
			Host: model.FollowerHost,
		},
		Followed: domain.ActorRef{
			UUID: model.FollowedUUID,
			Type: domain.ActorType(model.FollowedType),
			Host: model.FollowedHost,
		},
		State:            domain.FollowState(model.State),
		CreatedAt:        model.CreatedAt,
		LastTransitionAt: model.LastTransitionAt,
	}
}
