package validators

import "federation_video_service/internal/federation/domain"

// IsAuthorNameValid check author display name length bounds
func IsAuthorNameValid(v interface{}) bool {
	return isStringBetween(v, domain.AuthorNameMinLength, domain.AuthorNameMaxLength)
}
