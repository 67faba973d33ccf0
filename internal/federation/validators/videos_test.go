package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVideoNameValid(t *testing.T) {
	assert.True(t, IsVideoNameValid("a"))
	assert.True(t, IsVideoNameValid(strings.Repeat("a", 120)))
	assert.False(t, IsVideoNameValid(""))
	assert.False(t, IsVideoNameValid(strings.Repeat("a", 121)))
	assert.False(t, IsVideoNameValid(nil))
	assert.False(t, IsVideoNameValid(float64(42)))
}

func TestIsVideoDescriptionValid(t *testing.T) {
	// description 可以是空字串，但必須存在且是字串
	assert.True(t, IsVideoDescriptionValid(""))
	assert.True(t, IsVideoDescriptionValid(strings.Repeat("a", 3000)))
	assert.False(t, IsVideoDescriptionValid(strings.Repeat("a", 3001)))
	assert.False(t, IsVideoDescriptionValid(nil))
}

func TestIsVideoCategoryValid(t *testing.T) {
	assert.True(t, IsVideoCategoryValid(float64(1)))
	assert.True(t, IsVideoCategoryValid(float64(18)))
	assert.False(t, IsVideoCategoryValid(float64(0)))
	assert.False(t, IsVideoCategoryValid(float64(19)))
	assert.False(t, IsVideoCategoryValid("1"))
	assert.False(t, IsVideoCategoryValid(float64(1.5)))
}

func TestIsVideoLicenceValid(t *testing.T) {
	assert.True(t, IsVideoLicenceValid(float64(7)))
	assert.False(t, IsVideoLicenceValid(float64(8)))
}

func TestIsVideoLanguageValid(t *testing.T) {
	assert.True(t, IsVideoLanguageValid(float64(3)))
	assert.False(t, IsVideoLanguageValid(float64(15)))
}

func TestIsVideoNSFWValid(t *testing.T) {
	assert.True(t, IsVideoNSFWValid(true))
	assert.True(t, IsVideoNSFWValid(false))
	// JSON 的 "false" 字串不是布林
	assert.False(t, IsVideoNSFWValid("false"))
	assert.False(t, IsVideoNSFWValid(float64(0)))
	assert.False(t, IsVideoNSFWValid(nil))
}

func TestIsVideoDurationValid(t *testing.T) {
	assert.True(t, IsVideoDurationValid(float64(1)))
	assert.True(t, IsVideoDurationValid(float64(8*3600)))
	assert.False(t, IsVideoDurationValid(float64(0)))
	assert.False(t, IsVideoDurationValid(float64(8*3600+1)))
	assert.False(t, IsVideoDurationValid(float64(10.5)))
}

func TestIsVideoTagsValid(t *testing.T) {
	assert.True(t, IsVideoTagsValid([]interface{}{}))
	assert.True(t, IsVideoTagsValid([]interface{}{"go", "video"}))
	assert.True(t, IsVideoTagsValid([]interface{}{"a1", "b2", "c3", "d4", "e5"}))
	// 超過 5 個 tag
	assert.False(t, IsVideoTagsValid([]interface{}{"a1", "b2", "c3", "d4", "e5", "f6"}))
	// 單一 tag 太短
	assert.False(t, IsVideoTagsValid([]interface{}{"x"}))
	assert.False(t, IsVideoTagsValid([]interface{}{strings.Repeat("a", 31)}))
	assert.False(t, IsVideoTagsValid([]interface{}{float64(1)}))
	assert.False(t, IsVideoTagsValid("go,video"))
}

func TestIsVideoCounterValid(t *testing.T) {
	assert.True(t, IsVideoViewsValid(float64(0)))
	assert.True(t, IsVideoLikesValid(float64(12)))
	assert.True(t, IsVideoDislikesValid(int64(3)))
	assert.False(t, IsVideoViewsValid(float64(-1)))
	assert.False(t, IsVideoLikesValid(float64(3.7)))
	assert.False(t, IsVideoDislikesValid("3"))
}

func TestIsVideoFileDescriptorFields(t *testing.T) {
	assert.True(t, IsVideoFileInfoHashValid("abcdef1234"))
	assert.False(t, IsVideoFileInfoHashValid("short"))
	assert.False(t, IsVideoFileInfoHashValid(strings.Repeat("a", 51)))

	assert.True(t, IsVideoFileExtnameValid(".mp4"))
	assert.True(t, IsVideoFileExtnameValid(".webm"))
	assert.True(t, IsVideoFileExtnameValid(".ogv"))
	assert.False(t, IsVideoFileExtnameValid(".avi"))
	assert.False(t, IsVideoFileExtnameValid("mp4"))

	assert.True(t, IsVideoFileResolutionValid(float64(1080)))
	assert.False(t, IsVideoFileResolutionValid(float64(144)))
	assert.False(t, IsVideoFileResolutionValid(float64(4320)))
}

func TestIsVideoThumbnailDataValid(t *testing.T) {
	assert.True(t, IsVideoThumbnailDataValid("data"))
	assert.False(t, IsVideoThumbnailDataValid(""))
	assert.False(t, IsVideoThumbnailDataValid(strings.Repeat("a", 20001)))
}

func TestIsVideoAbuseFields(t *testing.T) {
	assert.True(t, IsVideoAbuseReasonValid("stolen content"))
	assert.False(t, IsVideoAbuseReasonValid(""))
	assert.False(t, IsVideoAbuseReasonValid(strings.Repeat("a", 301)))

	assert.True(t, IsVideoAbuseReporterUsernameValid("alice"))
	assert.False(t, IsVideoAbuseReporterUsernameValid(""))
	assert.False(t, IsVideoAbuseReporterUsernameValid(strings.Repeat("a", 51)))
}

func TestIsDatePairValid(t *testing.T) {
	assert.True(t, IsDatePairValid("2025-06-01T10:00:00Z", "2025-06-01T10:00:00Z"))
	assert.True(t, IsDatePairValid("2025-06-01T10:00:00Z", "2025-06-02T10:00:00Z"))
	// updatedAt 不能早於 createdAt
	assert.False(t, IsDatePairValid("2025-06-02T10:00:00Z", "2025-06-01T10:00:00Z"))
	assert.False(t, IsDatePairValid("yesterday", "2025-06-01T10:00:00Z"))
	assert.False(t, IsDatePairValid(nil, "2025-06-01T10:00:00Z"))
}

func TestIsUUIDValid(t *testing.T) {
	assert.True(t, IsUUIDValid("0f1b1f5d-6e9c-4a1a-9cbb-8c39b659e2a5"))
	assert.False(t, IsUUIDValid("not-a-uuid"))
	assert.False(t, IsUUIDValid(""))
	assert.False(t, IsUUIDValid(nil))
	assert.False(t, IsUUIDValid(float64(1)))
}
