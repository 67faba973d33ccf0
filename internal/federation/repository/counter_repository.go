package repository

import (
	"context"
	"fmt"

	"federation_video_service/internal/federation/domain"
	errprocess "federation_video_service/pkg/err"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CounterRepository 套用已通過驗證的 QADU / event 差量到 catalog 的計數欄位
// 存在性檢查是 catalog 的責任；更新到不存在的 uuid 回報 not found
type CounterRepository interface {
	ApplyQadu(ctx context.Context, patch *domain.QaduPayload) error
	ApplyEvent(ctx context.Context, event *domain.EventPayload) error
}

type counterRepository struct {
	db *pgxpool.Pool
}

// NewCounterRepository create a CounterRepository
func NewCounterRepository(db *pgxpool.Pool) CounterRepository {
	return &counterRepository{db: db}
}

// ApplyQadu 只 SET 出現的欄位（sparse update，缺席欄位不動）
func (r *counterRepository) ApplyQadu(ctx context.Context, patch *domain.QaduPayload) error {
	queryStr := "UPDATE videos SET"
	params := []interface{}{}
	paramCount := 1

	if patch.Views != nil {
		queryStr += fmt.Sprintf(" views = $%d,", paramCount)
		params = append(params, *patch.Views)
		paramCount++
	}
	if patch.Likes != nil {
		queryStr += fmt.Sprintf(" likes = $%d,", paramCount)
		params = append(params, *patch.Likes)
		paramCount++
	}
	if patch.Dislikes != nil {
		queryStr += fmt.Sprintf(" dislikes = $%d,", paramCount)
		params = append(params, *patch.Dislikes)
		paramCount++
	}
	if len(params) == 0 {
		// 合法但空的 patch，沒事可做
		return nil
	}

	queryStr = queryStr[:len(queryStr)-1] + fmt.Sprintf(" WHERE uuid = $%d", paramCount)
	params = append(params, patch.UUID)

	tag, err := r.db.Exec(ctx, queryStr, params...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errprocess.Set("no video found with given uuid")
	}
	return nil
}

// ApplyEvent 事件是原子增量，直接在 SQL 端累加避免讀-改-寫競態
func (r *counterRepository) ApplyEvent(ctx context.Context, event *domain.EventPayload) error {
	var column string
	switch event.EventType {
	case domain.EventViews:
		column = "views"
	case domain.EventLikes:
		column = "likes"
	case domain.EventDislikes:
		column = "dislikes"
	default:
		return fmt.Errorf("unknown event type: %s", event.EventType)
	}

	queryStr := fmt.Sprintf("UPDATE videos SET %s = %s + $1 WHERE uuid = $2", column, column)
	tag, err := r.db.Exec(ctx, queryStr, event.Count, event.UUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errprocess.Set("no video found with given uuid")
	}
	return nil
}
