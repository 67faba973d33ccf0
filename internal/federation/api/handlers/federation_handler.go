package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"federation_video_service/internal/federation/app"
	"federation_video_service/internal/federation/domain"
	"federation_video_service/internal/federation/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderPodHost 遠端 pod 的 host，由上游簽章驗證層填入
const HeaderPodHost = "X-Pod-Host"

// FederationHandler definition federation inbox & follow handler
type FederationHandler struct {
	InboxUseCase    app.InboxUseCase
	FollowUseCase   app.FollowUseCase
	DeliveryUseCase app.DeliveryUseCase
	Aggregator      app.QaduAggregator
	ActivityLog     repository.ActivityLogRepository

	// PodActor 本 pod 的 application actor，outbox 的作者身分
	PodActor domain.ActorRef
}

// ReceiveActivities 接收遠端活動 batch，回傳整體 verdict 與逐筆結果
func (h *FederationHandler) ReceiveActivities(c *fiber.Ctx) error {
	var activities []domain.RemoteActivity
	if err := c.BodyParser(&activities); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	valid, verdicts := h.InboxUseCase.ProcessActivities(c.Context(), c.Get(HeaderPodHost), activities)
	status := http.StatusOK
	if !valid {
		// batch 內有被拒絕的活動；通過的那些已各自套用
		status = http.StatusUnprocessableEntity
	}
	return c.Status(status).JSON(fiber.Map{"valid": valid, "results": verdicts})
}

// ReceiveQadu 接收 sparse counter patch batch
func (h *FederationHandler) ReceiveQadu(c *fiber.Ctx) error {
	var batch []map[string]interface{}
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	valid := h.InboxUseCase.ProcessQadu(c.Context(), c.Get(HeaderPodHost), batch)
	if !valid {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"valid": false})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// ReceiveEvents 接收離散計數事件 batch
func (h *FederationHandler) ReceiveEvents(c *fiber.Ctx) error {
	var batch []map[string]interface{}
	if err := c.BodyParser(&batch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	valid := h.InboxUseCase.ProcessEvents(c.Context(), c.Get(HeaderPodHost), batch)
	if !valid {
		return c.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{"valid": false})
	}
	return c.JSON(fiber.Map{"valid": true})
}

// PublishActivity 本地活動 fan-out 給所有 ACCEPTED follower
func (h *FederationHandler) PublishActivity(c *fiber.Ctx) error {
	var activity domain.RemoteActivity
	if err := c.BodyParser(&activity); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	delivered, err := h.DeliveryUseCase.FanOutActivity(c.Context(), h.PodActor, activity)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"delivered": delivered})
}

// RecordCounterSnapshot 本地計數變動先進緩衝，由 flush loop 彙整送出
func (h *FederationHandler) RecordCounterSnapshot(c *fiber.Ctx) error {
	var patch domain.QaduPayload
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if patch.UUID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "uuid is required"})
	}

	if err := h.Aggregator.MarkDirty(c.Context(), patch); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(http.StatusAccepted)
}

// PublishCounterEvent 本地離散計數事件丟給分析端
func (h *FederationHandler) PublishCounterEvent(c *fiber.Ctx) error {
	var event domain.EventPayload
	if err := c.BodyParser(&event); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if event.UUID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "uuid is required"})
	}

	if err := h.DeliveryUseCase.PublishCounterEvent(c.Context(), &event); err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(http.StatusAccepted)
}

// followRequestBody request follow 的請求內容
type followRequestBody struct {
	Follower domain.ActorRef `json:"follower"`
	Followed domain.ActorRef `json:"followed"`
}

// RequestFollow 建立（或冪等回傳）一個 follow 請求
func (h *FederationHandler) RequestFollow(c *fiber.Ctx) error {
	var body followRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.Follower.UUID == uuid.Nil || body.Followed.UUID == uuid.Nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "follower and followed are required"})
	}

	follow, err := h.FollowUseCase.Request(c.Context(), body.Follower, body.Followed)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusCreated).JSON(follow)
}

// AcceptFollow PENDING -> ACCEPTED
func (h *FederationHandler) AcceptFollow(c *fiber.Ctx) error {
	return h.transition(c, h.FollowUseCase.Accept)
}

// RejectFollow PENDING -> REJECTED
func (h *FederationHandler) RejectFollow(c *fiber.Ctx) error {
	return h.transition(c, h.FollowUseCase.Reject)
}

// Unfollow ACCEPTED -> UNFOLLOWED
func (h *FederationHandler) Unfollow(c *fiber.Ctx) error {
	return h.transition(c, h.FollowUseCase.Unfollow)
}

// CancelFollow 撤回 PENDING 請求（刪除）
func (h *FederationHandler) CancelFollow(c *fiber.Ctx) error {
	return h.transition(c, h.FollowUseCase.CancelPending)
}

// ListFollowers list followers of an actor
func (h *FederationHandler) ListFollowers(c *fiber.Ctx) error {
	return h.list(c, domain.DirectionFollowers)
}

// ListFollowings list whom an actor follows
func (h *FederationHandler) ListFollowings(c *fiber.Ctx) error {
	return h.list(c, domain.DirectionFollowings)
}

// CheckEligibility delivery collaborator 查詢某 peer 是否該收到某作者的活動
func (h *FederationHandler) CheckEligibility(c *fiber.Ctx) error {
	follower, err := uuid.Parse(c.Query("follower"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid follower uuid"})
	}
	followed, err := uuid.Parse(c.Query("followed"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid followed uuid"})
	}

	eligible, err := h.FollowUseCase.IsEligible(c.Context(), follower, followed)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"eligible": eligible})
}

// ListRejectedActivities 某個遠端 pod 最近被拒絕的活動，排查惡意或版本漂移
func (h *FederationHandler) ListRejectedActivities(c *fiber.Ctx) error {
	host := c.Params("host")
	if host == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "host is required"})
	}
	limit := int64(c.QueryInt("limit", 50))

	entries, err := h.ActivityLog.FindRejectedByHost(c.Context(), host, limit)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"data": entries})
}

// CountUnknownActivityTypes 一段時間內收到多少未知活動類型（協定相容性訊號）
func (h *FederationHandler) CountUnknownActivityTypes(c *fiber.Ctx) error {
	since := time.Now().UTC().Add(-24 * time.Hour)
	if s := c.Query("since"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid since date"})
		}
		since = parsed
	}

	count, err := h.ActivityLog.CountUnknownType(c.Context(), since)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"count": count, "since": since})
}

// CanRenameHost host 改名前置檢查：還在 following 其他 pod 就不允許
func (h *FederationHandler) CanRenameHost(c *fiber.Ctx) error {
	actor, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid actor uuid"})
	}

	count, err := h.FollowUseCase.CountAcceptedFollowings(c.Context(), actor)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if count > 0 {
		return c.Status(http.StatusConflict).JSON(fiber.Map{
			"canRename":  false,
			"followings": count,
		})
	}
	return c.JSON(fiber.Map{"canRename": true})
}

func (h *FederationHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, id uuid.UUID) error) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid follow id"})
	}

	if err := fn(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrFollowNotFound):
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "follow not found"})
		case errors.Is(err, domain.ErrFollowStateConflict):
			// caller 可重新查詢目前狀態再決定
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": "state conflict"})
		default:
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *FederationHandler) list(c *fiber.Ctx, direction domain.FollowDirection) error {
	actor, err := uuid.Parse(c.Params("uuid"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid actor uuid"})
	}

	query := &domain.FollowQuery{
		ActorUUID: actor,
		Direction: direction,
		Search:    c.Query("search"),
		Start:     c.QueryInt("start", 0),
		Count:     c.QueryInt("count", 20),
		SortDesc:  c.Query("sort") == "-createdAt",
	}
	if s := c.Query("state"); s != "" {
		state := domain.FollowState(s)
		query.State = &state
	}
	if t := c.Query("actorType"); t != "" {
		actorType := domain.ActorType(t)
		query.ActorType = &actorType
	}

	follows, total, err := h.FollowUseCase.List(c.Context(), query)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"total": total, "data": follows})
}
