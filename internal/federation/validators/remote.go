package validators

import (
	"federation_video_service/internal/federation/domain"
	"federation_video_service/pkg"
)

// checker decides well-formedness of a full payload for one action type
type checker func(data map[string]interface{}) bool

// checkers 靜態註冊表：process start 建立一次，之後只讀。
// 新增聯邦能力 = 新增一個 entry，不改既有 entry 的語意。
var checkers = map[domain.ActionType]checker{
	domain.ActionAddVideo:      checkAddVideo,
	domain.ActionUpdateVideo:   checkUpdateVideo,
	domain.ActionRemoveVideo:   checkRemoveEntity,
	domain.ActionReportAbuse:   checkReportAbuse,
	domain.ActionAddChannel:    checkChannelPayload,
	domain.ActionUpdateChannel: checkChannelPayload,
	domain.ActionRemoveChannel: checkRemoveEntity,
	domain.ActionAddAuthor:     checkAddAuthor,
	domain.ActionRemoveAuthor:  checkRemoveEntity,
}

// IsEachRemoteActivityValid batch verdict over inbound activities.
// 空 batch 視為成功（polling 無工作是常態）；未知類型或 nil payload 一律拒絕。
func IsEachRemoteActivityValid(activities []domain.RemoteActivity) bool {
	for _, activity := range activities {
		if !IsRemoteActivityValid(activity) {
			return false
		}
	}
	return true
}

// IsRemoteActivityValid single-activity verdict
func IsRemoteActivityValid(activity domain.RemoteActivity) bool {
	ok, _ := RemoteActivityVerdict(activity)
	return ok
}

// RemoteActivityVerdict verdict plus a rejection reason for observability
func RemoteActivityVerdict(activity domain.RemoteActivity) (bool, string) {
	if activity.Data == nil {
		return false, domain.ReasonNilPayload
	}
	check, registered := checkers[activity.Type]
	if !registered {
		return false, domain.ReasonUnknownActivityType
	}
	if !check(activity.Data) {
		return false, domain.ReasonMalformedPayload
	}
	return true, ""
}

// IsEachRemoteQaduValid batch verdict over sparse counter patches.
// 每個出現的欄位各自驗證，缺席的欄位永遠合法（這就是 1 欄位 nudge 的機制）。
func IsEachRemoteQaduValid(batch []map[string]interface{}) bool {
	for _, data := range batch {
		if data == nil {
			return false
		}
		if !IsUUIDValid(data["uuid"]) {
			return false
		}
		if has(data, "views") && !IsVideoViewsValid(data["views"]) {
			return false
		}
		if has(data, "likes") && !IsVideoLikesValid(data["likes"]) {
			return false
		}
		if has(data, "dislikes") && !IsVideoDislikesValid(data["dislikes"]) {
			return false
		}
	}
	return true
}

// IsEachRemoteEventValid batch verdict over discrete counter events
func IsEachRemoteEventValid(batch []map[string]interface{}) bool {
	for _, data := range batch {
		if data == nil {
			return false
		}
		eventType, ok := toString(data["eventType"])
		if !ok {
			return false
		}
		if !IsUUIDValid(data["uuid"]) ||
			!pkg.Contains(domain.EventTypes, eventType) ||
			!IsVideoEventCountValid(data["count"]) {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------

func checkCommonVideoAttributes(video map[string]interface{}) bool {
	if !IsDatePairValid(video["createdAt"], video["updatedAt"]) ||
		!IsVideoCategoryValid(video["category"]) ||
		!IsVideoLicenceValid(video["licence"]) ||
		!IsVideoLanguageValid(video["language"]) ||
		!IsVideoNSFWValid(video["nsfw"]) ||
		!IsVideoDescriptionValid(video["description"]) ||
		!IsVideoDurationValid(video["duration"]) ||
		!IsVideoNameValid(video["name"]) ||
		!IsVideoTagsValid(video["tags"]) ||
		!IsUUIDValid(video["uuid"]) ||
		!IsVideoViewsValid(video["views"]) ||
		!IsVideoLikesValid(video["likes"]) ||
		!IsVideoDislikesValid(video["dislikes"]) {
		return false
	}

	files, ok := video["files"].([]interface{})
	// 完整影片至少要有一個檔案，且每個 descriptor 獨立驗證，沒有部分接受
	if !ok || len(files) == 0 {
		return false
	}
	for _, file := range files {
		descriptor, ok := file.(map[string]interface{})
		if !ok {
			return false
		}
		if !IsVideoFileInfoHashValid(descriptor["infoHash"]) ||
			!IsVideoFileExtnameValid(descriptor["extname"]) ||
			!IsVideoFileResolutionValid(descriptor["resolution"]) {
			return false
		}
	}
	return true
}

func checkAddVideo(video map[string]interface{}) bool {
	return checkCommonVideoAttributes(video) &&
		IsUUIDValid(video["channelUUID"]) &&
		IsVideoThumbnailDataValid(video["thumbnailData"])
}

// channelUUID 與 thumbnail 建立後不可變，update 不再要求
func checkUpdateVideo(video map[string]interface{}) bool {
	return checkCommonVideoAttributes(video)
}

func checkRemoveEntity(data map[string]interface{}) bool {
	return IsUUIDValid(data["uuid"])
}

func checkReportAbuse(abuse map[string]interface{}) bool {
	return IsUUIDValid(abuse["videoUUID"]) &&
		IsVideoAbuseReasonValid(abuse["reportReason"]) &&
		IsVideoAbuseReporterUsernameValid(abuse["reporterUsername"])
}

// add 與 update 使用同一組規則（原始協定行為，見 DESIGN.md）。
// channel 的兩個日期各自驗證即可，先後順序不在協定內。
func checkChannelPayload(channel map[string]interface{}) bool {
	return IsUUIDValid(channel["uuid"]) &&
		IsChannelNameValid(channel["name"]) &&
		IsChannelDescriptionValid(channel["description"]) &&
		IsDateValid(channel["createdAt"]) &&
		IsDateValid(channel["updatedAt"]) &&
		IsUUIDValid(channel["ownerUUID"])
}

func checkAddAuthor(author map[string]interface{}) bool {
	return IsUUIDValid(author["uuid"]) &&
		IsAuthorNameValid(author["name"])
}
