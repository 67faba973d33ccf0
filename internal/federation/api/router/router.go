package router

import (
	"federation_video_service/internal/federation/api/handlers"
	"federation_video_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册 federation 相关的路由
func RegisterRoutes(app *fiber.App, federationHandler *handlers.FederationHandler) {
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	// inbox：遠端 pod 打進來的資料面，簽章驗證在上游 gateway
	inboxRoutes := app.Group("/inbox")
	inboxRoutes.Post("/activities", federationHandler.ReceiveActivities)
	inboxRoutes.Post("/qadu", federationHandler.ReceiveQadu)
	inboxRoutes.Post("/events", federationHandler.ReceiveEvents)

	// outbox：本地變動往外送，需要 token
	outboxRoutes := app.Group("/outbox")
	outboxRoutes.Use(middlewares.JWTMiddleware())
	outboxRoutes.Post("/activities", federationHandler.PublishActivity)
	outboxRoutes.Post("/counters", federationHandler.RecordCounterSnapshot)
	outboxRoutes.Post("/events", federationHandler.PublishCounterEvent)

	// follow 关系查询
	app.Get("/actors/:uuid/followers", federationHandler.ListFollowers)
	app.Get("/actors/:uuid/followings", federationHandler.ListFollowings)
	app.Get("/follows/eligibility", federationHandler.CheckEligibility)

	// follow 管理，需要 token
	followRoutes := app.Group("/follows")
	followRoutes.Use(middlewares.JWTMiddleware())
	followRoutes.Post("/", federationHandler.RequestFollow)
	followRoutes.Post("/:id/accept", federationHandler.AcceptFollow)
	followRoutes.Post("/:id/reject", federationHandler.RejectFollow)
	followRoutes.Post("/:id/unfollow", federationHandler.Unfollow)
	followRoutes.Delete("/:id", federationHandler.CancelFollow)

	adminRoutes := app.Group("/admin")
	adminRoutes.Use(middlewares.JWTMiddleware())
	adminRoutes.Get("/actors/:uuid/can-rename-host", federationHandler.CanRenameHost)
	adminRoutes.Get("/hosts/:host/rejected-activities", federationHandler.ListRejectedActivities)
	adminRoutes.Get("/activities/unknown-type-count", federationHandler.CountUnknownActivityTypes)
}
