package app

import (
	"context"
	"errors"

	"federation_video_service/internal/federation/domain"
	"federation_video_service/internal/federation/repository"
	"federation_video_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FollowUseCase 這裡封裝 follow 關係的狀態機與查詢
type FollowUseCase interface {
	// Request idempotent：已存在 PENDING/ACCEPTED 就回傳既有關係
	Request(ctx context.Context, follower, followed domain.ActorRef) (*domain.FollowRelationship, error)
	Accept(ctx context.Context, id uuid.UUID) error
	Reject(ctx context.Context, id uuid.UUID) error
	Unfollow(ctx context.Context, id uuid.UUID) error
	// CancelPending 撤回還沒被回應的請求（刪除，不是狀態轉移）
	CancelPending(ctx context.Context, id uuid.UUID) error
	// IsEligible 每次傳送時評估，不快取：enqueue 到 send 之間狀態可能改變
	IsEligible(ctx context.Context, follower, followed uuid.UUID) (bool, error)
	List(ctx context.Context, query *domain.FollowQuery) ([]domain.FollowRelationship, int64, error)
	// CountAcceptedFollowings host 改名前的防呆：還在 following 別人就拒絕改名
	CountAcceptedFollowings(ctx context.Context, actor uuid.UUID) (int64, error)
}

type followUseCase struct {
	followRepo repository.FollowRepository
}

// NewFollowUseCase 建立一個新的 FollowUseCase
func NewFollowUseCase(followRepo repository.FollowRepository) FollowUseCase {
	return &followUseCase{followRepo: followRepo}
}

// Request
func (f *followUseCase) Request(ctx context.Context, follower, followed domain.ActorRef) (*domain.FollowRelationship, error) {
	existing, err := f.followRepo.FindByPair(ctx, follower.UUID, followed.UUID)
	if err != nil && !errors.Is(err, domain.ErrFollowNotFound) {
		return nil, err
	}

	if existing != nil {
		// PENDING / ACCEPTED 都是 no-op，不產生重複列
		if !existing.IsTerminal() {
			return existing, nil
		}
		// terminal 列擋住 unique pair，移除後重新建立全新關係
		if err := f.followRepo.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
	}

	follow := domain.NewFollowRequest(follower, followed)
	created, err := f.followRepo.Create(ctx, follow)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("follow requested",
		zap.String("follower", follower.UUID.String()),
		zap.String("followed", followed.UUID.String()),
		zap.String("state", string(created.State)),
	)
	return created, nil
}

// Accept 只接受 PENDING；並行時儲存層保證只有一個贏家
func (f *followUseCase) Accept(ctx context.Context, id uuid.UUID) error {
	return f.transition(ctx, id, domain.FollowStatePending, domain.FollowStateAccepted)
}

// Reject 只接受 PENDING，terminal
func (f *followUseCase) Reject(ctx context.Context, id uuid.UUID) error {
	return f.transition(ctx, id, domain.FollowStatePending, domain.FollowStateRejected)
}

// Unfollow 只接受 ACCEPTED，terminal；已複製的資料不受影響
func (f *followUseCase) Unfollow(ctx context.Context, id uuid.UUID) error {
	return f.transition(ctx, id, domain.FollowStateAccepted, domain.FollowStateUnfollowed)
}

// CancelPending
func (f *followUseCase) CancelPending(ctx context.Context, id uuid.UUID) error {
	follow, err := f.followRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if follow.State != domain.FollowStatePending {
		return domain.ErrFollowStateConflict
	}
	return f.followRepo.Delete(ctx, id)
}

// IsEligible
func (f *followUseCase) IsEligible(ctx context.Context, follower, followed uuid.UUID) (bool, error) {
	follow, err := f.followRepo.FindByPair(ctx, follower, followed)
	if errors.Is(err, domain.ErrFollowNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return follow.IsAccepted(), nil
}

// List
func (f *followUseCase) List(ctx context.Context, query *domain.FollowQuery) ([]domain.FollowRelationship, int64, error) {
	return f.followRepo.List(ctx, query)
}

// CountAcceptedFollowings
func (f *followUseCase) CountAcceptedFollowings(ctx context.Context, actor uuid.UUID) (int64, error) {
	return f.followRepo.CountAccepted(ctx, actor, domain.DirectionFollowings)
}

func (f *followUseCase) transition(ctx context.Context, id uuid.UUID, from, to domain.FollowState) error {
	err := f.followRepo.UpdateState(ctx, id, from, to)
	if errors.Is(err, domain.ErrFollowStateConflict) {
		// 輸掉 race 或非法轉移都是 StateConflict，caller 可重查狀態後再決定
		logger.Log.Warn("follow state conflict",
			zap.String("id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
	}
	return err
}
