package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"federation_video_service/internal/federation/api/handlers"
	"federation_video_service/internal/federation/api/router"
	"federation_video_service/internal/federation/app"
	"federation_video_service/internal/federation/domain"
	"federation_video_service/internal/federation/repository"
	"federation_video_service/pkg/config"
	"federation_video_service/pkg/database"
	"federation_video_service/pkg/logger"
	testtool "federation_video_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.FederationService, config.EnvConfig.FederationServiceLogPath)

	cfg := config.LoadConfig[config.Federation](config.EnvConfig.FederationService, config.EnvConfig.FederationServiceYAMLPath)

	testtool.StartPprof()

	// 1. 連線 PostgreSQL（gorm：follow 狀態機與 catalog）
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		cfg.PostgreSQL.Host, cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Database, cfg.PostgreSQL.Port)
	db, err := database.NewGormConnection(database.Connection{
		ConnectStr: dsn,

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", dsn)),
			zap.Error(err),
		)
	}

	followRepo := repository.NewFollowRepository(db)
	if err := followRepo.AutoMigrate(); err != nil {
		log.Fatalf("資料表遷移失敗: %v", err)
	}
	catalogRepo := repository.NewCatalogRepository(db)
	if err := catalogRepo.AutoMigrate(); err != nil {
		log.Fatalf("資料表遷移失敗: %v", err)
	}

	// counter 更新走 pgxpool，不經過 gorm（atomic in-place UPDATE）
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr: fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
			cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database),

		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to postgreSQL pool after retries", zap.Error(err))
	}
	defer pool.Close()
	counterRepo := repository.NewCounterRepository(pool)

	// 2. MongoDB：活動審計紀錄
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d",
		cfg.MongoDB.User, cfg.MongoDB.Password, cfg.MongoDB.Host, cfg.MongoDB.Port)
	mongoDB, err := database.NewMongoDB(context.Background(), database.Connection{
		ConnectStr:    mongoURI,
		RetryCount:    cfg.MongoDB.RetryCount,
		RetryInterval: time.Duration(cfg.MongoDB.RetryInterval) * time.Second,
	}, cfg.MongoDB.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to mongoDB after retries", zap.Error(err))
	}
	defer mongoDB.Close(context.Background())
	activityLog := repository.NewMongoActivityLogRepository(mongoDB.Database)

	// 3. MinIO：遠端影片縮圖
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}
	thumbnails := repository.NewThumbnailStore(minioClient)

	// 4. RabbitMQ：對外傳送佇列
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: cfg.RabbitMQ.RetryInterval,
	})
	if err != nil {
		log.Fatalf("RabbitMQ 連線失敗: %v", err)
	}
	defer conn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, cfg.RabbitMQ.RetryInterval)
	if err != nil {
		log.Fatalf("取得 RabbitMQ Channel 失敗: %v", err)
	}
	defer rabbitChannel.Close()

	if _, err := rabbitChannel.QueueDeclare(
		domain.QueueName, // queue name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // arguments
	); err != nil {
		log.Fatalf("Queue Declare failed: %v", err)
	}
	rabbitRepo := database.NewRabbitRepository(rabbitChannel)

	// 5. Kafka：計數事件給分析端
	kafkaTopic := cfg.KafKa.Topic
	if kafkaTopic == "" {
		kafkaTopic = domain.CounterEventTopic
	}
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.KafKa.Brokers,
		Topic:         kafkaTopic,
		RetryCount:    cfg.KafKa.RetryCount,
		RetryInterval: cfg.KafKa.RetryInterval,
	})
	if err != nil {
		log.Fatalf("Kafka Writer 建立失敗: %v", err)
	}
	defer kafkaWriter.Close()

	// 6. Redis：本地計數差量的彙整緩衝
	masterName, sentinelAddrs := config.GetRedisSetting()
	qaduRedisRepo, err := database.NewRedisRepository[domain.QaduPayload](masterName, sentinelAddrs, cfg.Redis.RedisDB)
	if err != nil {
		log.Fatalf("Redis 連線失敗: %v", err)
	}

	// 7. 組裝 usecase
	inboxUseCase := app.NewInboxUseCase(catalogRepo, counterRepo, thumbnails, activityLog)
	followUseCase := app.NewFollowUseCase(followRepo)
	deliveryUseCase := app.NewDeliveryUseCase(followRepo, rabbitRepo, kafkaWriter)
	aggregator := app.NewQaduAggregator(qaduRedisRepo)

	actorUUID, err := uuid.Parse(cfg.ActorUUID)
	if err != nil {
		log.Fatalf("actor_uuid 格式錯誤: %v", err)
	}
	podActor := domain.ActorRef{
		UUID: actorUUID,
		Type: domain.ActorTypeApplication,
		Host: cfg.Host,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go app.RunQaduFlushLoop(ctx, cfg.QaduFlushInterval, aggregator, deliveryUseCase, podActor)

	// 傳送 worker：消化 queue 裡的 DeliveryJob，送往目標 pod
	consumer := app.NewConsumer(rabbitChannel, domain.QueueName)
	go consumer.StartConsumer(ctx)

	// 8. 建立 Fiber 應用
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.FederationServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	federationHandler := &handlers.FederationHandler{
		InboxUseCase:    inboxUseCase,
		FollowUseCase:   followUseCase,
		DeliveryUseCase: deliveryUseCase,
		Aggregator:      aggregator,
		ActivityLog:     activityLog,
		PodActor:        podActor,
	}
	router.RegisterRoutes(r, federationHandler)

	logger.Log.Info(fmt.Sprintf("FederationService listening on : %s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
