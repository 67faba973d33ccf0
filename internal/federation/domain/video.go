package domain

import "time"

// 影片欄位的邊界值（驗證器唯一的真實來源）
const (
	// VideoNameMinLength min length of a video name
	VideoNameMinLength = 1
	// VideoNameMaxLength max length of a video name
	VideoNameMaxLength = 120
	// VideoDescriptionMaxLength max length of a video description
	VideoDescriptionMaxLength = 3000
	// VideoDurationMax max duration in seconds
	VideoDurationMax = 8 * 3600
	// VideoTagsMaxCount max number of tags on one video
	VideoTagsMaxCount = 5
	// VideoTagMinLength min length of one tag
	VideoTagMinLength = 2
	// VideoTagMaxLength max length of one tag
	VideoTagMaxLength = 30
	// VideoFileInfoHashMinLength min length of a torrent info hash
	VideoFileInfoHashMinLength = 10
	// VideoFileInfoHashMaxLength max length of a torrent info hash
	VideoFileInfoHashMaxLength = 50
	// VideoThumbnailDataMaxLength max length of the base64 thumbnail payload
	VideoThumbnailDataMaxLength = 20000
	// VideoAbuseReasonMaxLength max length of an abuse report reason
	VideoAbuseReasonMaxLength = 300
	// VideoAbuseReporterMaxLength max length of the reporter display name
	VideoAbuseReporterMaxLength = 50

	// ChannelNameMinLength min length of a channel name
	ChannelNameMinLength = 1
	// ChannelNameMaxLength max length of a channel name
	ChannelNameMaxLength = 120
	// ChannelDescriptionMaxLength max length of a channel description
	ChannelDescriptionMaxLength = 500
	// AuthorNameMinLength min length of an author display name
	AuthorNameMinLength = 1
	// AuthorNameMaxLength max length of an author display name
	AuthorNameMaxLength = 50
)

// VideoCategories 影片分類（id -> 顯示名稱），封閉集合
var VideoCategories = map[int64]string{
	1:  "Music",
	2:  "Films",
	3:  "Vehicles",
	4:  "Art",
	5:  "Sports",
	6:  "Travels",
	7:  "Gaming",
	8:  "People",
	9:  "Comedy",
	10: "Entertainment",
	11: "News",
	12: "How To",
	13: "Education",
	14: "Activism",
	15: "Science & Technology",
	16: "Animals",
	17: "Kids",
	18: "Food",
}

// VideoLicences 授權（id -> 顯示名稱），封閉集合
var VideoLicences = map[int64]string{
	1: "Attribution",
	2: "Attribution - Share Alike",
	3: "Attribution - No Derivatives",
	4: "Attribution - Non Commercial",
	5: "Attribution - Non Commercial - Share Alike",
	6: "Attribution - Non Commercial - No Derivatives",
	7: "Public Domain Dedication",
}

// VideoLanguages 語言（id -> 顯示名稱），封閉集合
var VideoLanguages = map[int64]string{
	1:  "English",
	2:  "Spanish",
	3:  "Mandarin",
	4:  "Hindi",
	5:  "Arabic",
	6:  "Portuguese",
	7:  "Bengali",
	8:  "Russian",
	9:  "Japanese",
	10: "Punjabi",
	11: "German",
	12: "Korean",
	13: "French",
	14: "Italian",
}

// VideoFileExtnames 支援的影片容器格式
var VideoFileExtnames = []string{".mp4", ".webm", ".ogv"}

// VideoFileResolutions 支援的影片高度
var VideoFileResolutions = []int64{240, 360, 480, 720, 1080}

// VideoFileDescriptor one playable file of a video
type VideoFileDescriptor struct {
	InfoHash   string `json:"infoHash"`
	Extname    string `json:"extname"`
	Resolution int64  `json:"resolution"`
}

// VideoPayload canonical full-entity video description exchanged between pods
// ADD_VIDEO 需要 ChannelUUID 與 ThumbnailData，UPDATE_VIDEO 不需要（建立後不可變）
type VideoPayload struct {
	UUID          string                `json:"uuid"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Category      int64                 `json:"category"`
	Licence       int64                 `json:"licence"`
	Language      int64                 `json:"language"`
	NSFW          bool                  `json:"nsfw"`
	Duration      int64                 `json:"duration"`
	Tags          []string              `json:"tags"`
	Views         int64                 `json:"views"`
	Likes         int64                 `json:"likes"`
	Dislikes      int64                 `json:"dislikes"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
	Files         []VideoFileDescriptor `json:"files"`
	ChannelUUID   string                `json:"channelUUID,omitempty"`
	ThumbnailData string                `json:"thumbnailData,omitempty"`
}

// ChannelPayload video channel description exchanged between pods
type ChannelPayload struct {
	UUID        string    `json:"uuid"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	OwnerUUID   string    `json:"ownerUUID"`
}

// AuthorPayload video author description exchanged between pods
type AuthorPayload struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// AbuseReportPayload remote abuse report about one of our videos
type AbuseReportPayload struct {
	VideoUUID        string `json:"videoUUID"`
	ReportReason     string `json:"reportReason"`
	ReporterUsername string `json:"reporterUsername"`
}
