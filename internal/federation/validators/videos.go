package validators

import (
	"federation_video_service/internal/federation/domain"
	"federation_video_service/pkg"
)

// IsVideoNameValid check video name length bounds
func IsVideoNameValid(v interface{}) bool {
	return isStringBetween(v, domain.VideoNameMinLength, domain.VideoNameMaxLength)
}

// IsVideoDescriptionValid check video description length bound
func IsVideoDescriptionValid(v interface{}) bool {
	return isStringBetween(v, 0, domain.VideoDescriptionMaxLength)
}

// IsVideoCategoryValid check the category id belongs to the closed set
func IsVideoCategoryValid(v interface{}) bool {
	n, ok := toInteger(v)
	if !ok {
		return false
	}
	_, known := domain.VideoCategories[n]
	return known
}

// IsVideoLicenceValid check the licence id belongs to the closed set
func IsVideoLicenceValid(v interface{}) bool {
	n, ok := toInteger(v)
	if !ok {
		return false
	}
	_, known := domain.VideoLicences[n]
	return known
}

// IsVideoLanguageValid check the language id belongs to the closed set
func IsVideoLanguageValid(v interface{}) bool {
	n, ok := toInteger(v)
	if !ok {
		return false
	}
	_, known := domain.VideoLanguages[n]
	return known
}

// IsVideoNSFWValid nsfw must be a real boolean
func IsVideoNSFWValid(v interface{}) bool {
	return IsBooleanValid(v)
}

// IsVideoDurationValid duration is a positive integer number of seconds
func IsVideoDurationValid(v interface{}) bool {
	return isIntegerBetween(v, 1, domain.VideoDurationMax)
}

// IsVideoTagsValid tags is a bounded array of bounded strings
func IsVideoTagsValid(v interface{}) bool {
	tags, ok := v.([]interface{})
	if !ok || len(tags) > domain.VideoTagsMaxCount {
		return false
	}
	for _, tag := range tags {
		if !isStringBetween(tag, domain.VideoTagMinLength, domain.VideoTagMaxLength) {
			return false
		}
	}
	return true
}

// IsVideoViewsValid views counter is a non-negative integer
func IsVideoViewsValid(v interface{}) bool {
	return isIntegerBetween(v, 0, math64Max)
}

// IsVideoLikesValid likes counter is a non-negative integer
func IsVideoLikesValid(v interface{}) bool {
	return isIntegerBetween(v, 0, math64Max)
}

// IsVideoDislikesValid dislikes counter is a non-negative integer
func IsVideoDislikesValid(v interface{}) bool {
	return isIntegerBetween(v, 0, math64Max)
}

// IsVideoEventCountValid event count is a non-negative integer
// 正負號語意由事件類型決定，這裡只管數值形狀
func IsVideoEventCountValid(v interface{}) bool {
	return isIntegerBetween(v, 0, math64Max)
}

// IsVideoFileInfoHashValid torrent info hash length bounds
func IsVideoFileInfoHashValid(v interface{}) bool {
	return isStringBetween(v, domain.VideoFileInfoHashMinLength, domain.VideoFileInfoHashMaxLength)
}

// IsVideoFileExtnameValid container format belongs to the closed set
func IsVideoFileExtnameValid(v interface{}) bool {
	s, ok := toString(v)
	if !ok {
		return false
	}
	return pkg.Contains(domain.VideoFileExtnames, s)
}

// IsVideoFileResolutionValid file height belongs to the closed set
func IsVideoFileResolutionValid(v interface{}) bool {
	n, ok := toInteger(v)
	if !ok {
		return false
	}
	for _, r := range domain.VideoFileResolutions {
		if r == n {
			return true
		}
	}
	return false
}

// IsVideoThumbnailDataValid non-empty bounded thumbnail payload
func IsVideoThumbnailDataValid(v interface{}) bool {
	return isStringBetween(v, 1, domain.VideoThumbnailDataMaxLength)
}

// IsVideoAbuseReasonValid non-empty bounded abuse reason
func IsVideoAbuseReasonValid(v interface{}) bool {
	return isStringBetween(v, 1, domain.VideoAbuseReasonMaxLength)
}

// IsVideoAbuseReporterUsernameValid non-empty bounded reporter name
func IsVideoAbuseReporterUsernameValid(v interface{}) bool {
	return isStringBetween(v, 1, domain.VideoAbuseReporterMaxLength)
}

const math64Max = int64(^uint64(0) >> 1)
