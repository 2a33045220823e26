package validation

import (
	"regexp"
	"strings"
)

var youTubePattern = regexp.MustCompile(`^(https?://)?((www|m)\.)?(youtube\.com|youtu\.be)/\S+$`)

// IsYouTubeURL reports whether raw points at youtube.com or youtu.be
func IsYouTubeURL(raw string) bool {
	return youTubePattern.MatchString(strings.TrimSpace(raw))
}

// ValidateYouTubeURL rejects anything that is not a YouTube URL
func ValidateYouTubeURL(raw string) error {
	if !IsYouTubeURL(raw) {
		return reject("youtubeLink", MsgInvalidYouTubeURL)
	}
	return nil
}
