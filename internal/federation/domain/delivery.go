package domain

import "time"

// QueueName 傳送工作佇列名稱（RabbitMQ durable queue）
const QueueName = "federation_delivery"

// CounterEventTopic kafka topic for counter event analytics
const CounterEventTopic = "federation_counter_events"

// 對端 pod 的 inbox 路徑
const (
	// InboxActivitiesPath activity batch endpoint on the peer
	InboxActivitiesPath = "/inbox/activities"
	// InboxQaduPath sparse counter patch endpoint on the peer
	InboxQaduPath = "/inbox/qadu"
)

// DeliveryJob one outbound delivery to a single follower pod
// 由 delivery worker 消化，失敗 requeue 重試
type DeliveryJob struct {
	TargetHost string    `json:"targetHost"`
	Endpoint   string    `json:"endpoint"`
	Body       []byte    `json:"body"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// 驗證失敗的分類（錯誤分類學的一部分，verdict 本身仍是布林）
const (
	// ReasonNilPayload activity carried no data record
	ReasonNilPayload = "nil payload"
	// ReasonUnknownActivityType no checker registered for the declared type
	ReasonUnknownActivityType = "unknown action type"
	// ReasonMalformedPayload a field failed its validator
	ReasonMalformedPayload = "malformed payload"
)

// ActivityVerdict per-activity validation outcome, reported for observability
type ActivityVerdict struct {
	Index  int        `json:"index"`
	Type   ActionType `json:"type"`
	Valid  bool       `json:"valid"`
	Reason string     `json:"reason,omitempty"`
}
