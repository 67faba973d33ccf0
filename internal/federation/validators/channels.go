package validators

import "federation_video_service/internal/federation/domain"

// IsChannelNameValid check channel name length bounds
func IsChannelNameValid(v interface{}) bool {
	return isStringBetween(v, domain.ChannelNameMinLength, domain.ChannelNameMaxLength)
}

// IsChannelDescriptionValid check channel description length bound
func IsChannelDescriptionValid(v interface{}) bool {
	return isStringBetween(v, 0, domain.ChannelDescriptionMaxLength)
}
