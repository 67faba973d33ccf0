package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// FollowState definition follow relationship state
type FollowState string

const (
	// FollowStatePending follow request issued, not yet answered
	FollowStatePending FollowState = "pending"
	// FollowStateAccepted followed actor accepted, deliveries flow
	FollowStateAccepted FollowState = "accepted"
	// FollowStateRejected followed actor rejected, terminal
	FollowStateRejected FollowState = "rejected"
	// FollowStateUnfollowed follower ended an accepted follow, terminal
	FollowStateUnfollowed FollowState = "unfollowed"
)

// ActorType definition federated actor type
type ActorType string

const (
	// ActorTypePerson a user account
	ActorTypePerson ActorType = "Person"
	// ActorTypeGroup a video channel
	ActorTypeGroup ActorType = "Group"
	// ActorTypeApplication the pod itself
	ActorTypeApplication ActorType = "Application"
)

// 狀態機錯誤，caller 可重新查詢狀態後再決定是否重試
var (
	// ErrFollowStateConflict transition attempted from an incompatible state
	ErrFollowStateConflict = errors.New("follow state conflict")
	// ErrFollowNotFound relationship does not exist
	ErrFollowNotFound = errors.New("follow relationship not found")
)

// ActorRef identifies a local or remote actor able to publish and follow
type ActorRef struct {
	UUID uuid.UUID `json:"uuid"`
	Type ActorType `json:"type"`
	Host string    `json:"host"`
}

// FollowRelationship directed subscription from Follower to Followed
// 唯一可持久化的核心實體，(follower, followed) 必須唯一
type FollowRelationship struct {
	ID               uuid.UUID
	Follower         ActorRef
	Followed         ActorRef
	State            FollowState
	CreatedAt        time.Time
	LastTransitionAt time.Time
}

// NewFollowRequest create a relationship in PENDING
func NewFollowRequest(follower, followed ActorRef) *FollowRelationship {
	now := time.Now().UTC()
	return &FollowRelationship{
		ID:               uuid.New(),
		Follower:         follower,
		Followed:         followed,
		State:            FollowStatePending,
		CreatedAt:        now,
		LastTransitionAt: now,
	}
}

// Accept move PENDING -> ACCEPTED
func (f *FollowRelationship) Accept() error {
	if f.State != FollowStatePending {
		return ErrFollowStateConflict
	}
	f.State = FollowStateAccepted
	f.LastTransitionAt = time.Now().UTC()
	return nil
}

// Reject move PENDING -> REJECTED (terminal)
func (f *FollowRelationship) Reject() error {
	if f.State != FollowStatePending {
		return ErrFollowStateConflict
	}
	f.State = FollowStateRejected
	f.LastTransitionAt = time.Now().UTC()
	return nil
}

// Unfollow move ACCEPTED -> UNFOLLOWED (terminal)
// PENDING 的取消是刪除，不是狀態轉移
func (f *FollowRelationship) Unfollow() error {
	if f.State != FollowStateAccepted {
		return ErrFollowStateConflict
	}
	f.State = FollowStateUnfollowed
	f.LastTransitionAt = time.Now().UTC()
	return nil
}

// IsTerminal no transition exists out of REJECTED or UNFOLLOWED
func (f *FollowRelationship) IsTerminal() bool {
	return f.State == FollowStateRejected || f.State == FollowStateUnfollowed
}

// IsAccepted eligibility for delivery, evaluated per send
func (f *FollowRelationship) IsAccepted() bool {
	return f.State == FollowStateAccepted
}

// FollowDirection definition list query direction
type FollowDirection string

const (
	// DirectionFollowers who follows the given actor
	DirectionFollowers FollowDirection = "followers"
	// DirectionFollowings whom the given actor follows
	DirectionFollowings FollowDirection = "followings"
)

// FollowQuery join conditions are used to list follow relationships
type FollowQuery struct {
	ActorUUID uuid.UUID
	Direction FollowDirection
	State     *FollowState
	ActorType *ActorType
	// Search substring matched against the peer actor host
	Search string
	Start  int
	Count  int
	// SortDesc order by created_at, descending when true
	SortDesc bool
}
