package domain

// ActionType definition remote activity action
type ActionType string

// 遠端活動的動作類型（封閉集合，新增聯邦能力時只能新增項目）
const (
	// ActionAddVideo add a full video description
	ActionAddVideo ActionType = "add-video"
	// ActionUpdateVideo replace a full video description
	ActionUpdateVideo ActionType = "update-video"
	// ActionRemoveVideo remove a video by uuid
	ActionRemoveVideo ActionType = "remove-video"
	// ActionReportAbuse report a remote video
	ActionReportAbuse ActionType = "report-abuse"
	// ActionAddChannel add a video channel
	ActionAddChannel ActionType = "add-channel"
	// ActionUpdateChannel update a video channel
	ActionUpdateChannel ActionType = "update-channel"
	// ActionRemoveChannel remove a video channel by uuid
	ActionRemoveChannel ActionType = "remove-channel"
	// ActionAddAuthor add a video author
	ActionAddAuthor ActionType = "add-author"
	// ActionRemoveAuthor remove a video author by uuid
	ActionRemoveAuthor ActionType = "remove-author"
)

// RemoteActivity 一筆來自遠端伺服器的未信任活動
// Data 保持未解碼的 JSON 物件，欄位型別由 validators 逐一檢查
type RemoteActivity struct {
	Type ActionType             `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// EventType definition discrete counter event
type EventType string

const (
	// EventViews view count increments
	EventViews EventType = "views"
	// EventLikes like count increments
	EventLikes EventType = "likes"
	// EventDislikes dislike count increments
	EventDislikes EventType = "dislikes"
)

// EventTypes 所有合法的事件類型
var EventTypes = []string{
	string(EventViews),
	string(EventLikes),
	string(EventDislikes),
}

// QaduPayload sparse counter patch, absent fields stay untouched
// 用指標表達「欄位不存在」，避免 default-zero 誤判
type QaduPayload struct {
	UUID     string `json:"uuid"`
	Views    *int64 `json:"views,omitempty"`
	Likes    *int64 `json:"likes,omitempty"`
	Dislikes *int64 `json:"dislikes,omitempty"`
}

// EventPayload one discrete counter event
type EventPayload struct {
	UUID      string    `json:"uuid"`
	EventType EventType `json:"eventType"`
	Count     int64     `json:"count"`
}
