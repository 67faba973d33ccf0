package repository

import (
	"context"
	"time"

	"federation_video_service/internal/federation/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityLogEntry 一筆 inbound 活動的審計紀錄（原始 payload + 驗證結果）
type ActivityLogEntry struct {
	FromHost   string                 `bson:"from_host"`
	Type       string                 `bson:"type"`
	Valid      bool                   `bson:"valid"`
	Reason     string                 `bson:"reason,omitempty"`
	Data       map[string]interface{} `bson:"data,omitempty"`
	ReceivedAt time.Time              `bson:"received_at"`
}

// ActivityLogRepository definition inbound activity audit trail
// unknown action type 的紀錄是協定相容性訊號（遠端可能是較新版本）
type ActivityLogRepository interface {
	InsertEntries(ctx context.Context, entries []ActivityLogEntry) error
	FindRejectedByHost(ctx context.Context, host string, limit int64) ([]ActivityLogEntry, error)
	CountUnknownType(ctx context.Context, since time.Time) (int64, error)
}

type activityLogRepository struct {
	coll *mongo.Collection
}

// NewMongoActivityLogRepository create an ActivityLogRepository
func NewMongoActivityLogRepository(db *mongo.Database) ActivityLogRepository {
	return &activityLogRepository{
		coll: db.Collection("federation_activities"),
	}
}

func (r *activityLogRepository) InsertEntries(ctx context.Context, entries []ActivityLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(entries))
	for i := range entries {
		docs = append(docs, entries[i])
	}
	_, err := r.coll.InsertMany(ctx, docs)
	return err
}

// FindRejectedByHost 拉出某個遠端最近被拒絕的活動，排查惡意或版本漂移
func (r *activityLogRepository) FindRejectedByHost(ctx context.Context, host string, limit int64) ([]ActivityLogEntry, error) {
	filter := bson.M{"from_host": host, "valid": false}
	opts := options.Find().SetSort(bson.M{"received_at": -1}).SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []ActivityLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityLogRepository) CountUnknownType(ctx context.Context, since time.Time) (int64, error) {
	filter := bson.M{
		"valid":       false,
		"reason":      domain.ReasonUnknownActivityType,
		"received_at": bson.M{"$gte": since},
	}
	return r.coll.CountDocuments(ctx, filter)
}
