package unit

import (
	"testing"

	"federation_video_service/internal/federation/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newPair() (domain.ActorRef, domain.ActorRef) {
	return domain.ActorRef{UUID: uuid.New(), Type: domain.ActorTypeApplication, Host: "pod-a.example.com"},
		domain.ActorRef{UUID: uuid.New(), Type: domain.ActorTypeApplication, Host: "pod-b.example.com"}
}

func TestFollowRequestStartsPending(t *testing.T) {
	follower, followed := newPair()
	follow := domain.NewFollowRequest(follower, followed)

	assert.Equal(t, domain.FollowStatePending, follow.State)
	assert.False(t, follow.IsTerminal(), "pending is not terminal")
	assert.False(t, follow.IsAccepted(), "pending does not deliver")
	assert.Equal(t, follow.CreatedAt, follow.LastTransitionAt)
}

func TestFollowAccept(t *testing.T) {
	follower, followed := newPair()
	follow := domain.NewFollowRequest(follower, followed)

	assert.NoError(t, follow.Accept())
	assert.Equal(t, domain.FollowStateAccepted, follow.State)
	assert.True(t, follow.IsAccepted())

	// 已經 ACCEPTED，不能再 Accept / Reject
	assert.ErrorIs(t, follow.Accept(), domain.ErrFollowStateConflict)
	assert.ErrorIs(t, follow.Reject(), domain.ErrFollowStateConflict)
}

func TestFollowReject(t *testing.T) {
	follower, followed := newPair()
	follow := domain.NewFollowRequest(follower, followed)

	assert.NoError(t, follow.Reject())
	assert.Equal(t, domain.FollowStateRejected, follow.State)
	assert.True(t, follow.IsTerminal(), "rejected is terminal")

	// terminal 之後沒有任何轉移
	assert.ErrorIs(t, follow.Accept(), domain.ErrFollowStateConflict)
	assert.ErrorIs(t, follow.Unfollow(), domain.ErrFollowStateConflict)
}

func TestFollowUnfollow(t *testing.T) {
	follower, followed := newPair()
	follow := domain.NewFollowRequest(follower, followed)

	// PENDING 不能直接 Unfollow（撤回是刪除，不是轉移）
	assert.ErrorIs(t, follow.Unfollow(), domain.ErrFollowStateConflict)

	assert.NoError(t, follow.Accept())
	assert.NoError(t, follow.Unfollow())
	assert.Equal(t, domain.FollowStateUnfollowed, follow.State)
	assert.True(t, follow.IsTerminal(), "unfollowed is terminal")
	assert.False(t, follow.IsAccepted(), "unfollowed no longer delivers")
}
