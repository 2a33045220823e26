package validation

import (
	"fmt"

	"storefront-admin-service/internal/models"
)

const (
	// HomeImageCount is the exact number of images the home banner shows
	HomeImageCount = 3
	// SingleMediaCount is the exact number of items every other banner shows
	SingleMediaCount = 1
)

const (
	MsgNoMediaSelected   = "No media selected"
	MsgHomeImagesOnly    = "Home banner accepts images only"
	MsgSingleMediaOnly   = "This banner can only have 1 media item"
	MsgInvalidYouTubeURL = "Please enter a valid YouTube URL"
)

// AddMode says whether proposed media is added to or replaces the current items
type AddMode string

const (
	AddModeAppend  AddMode = "add"
	AddModeReplace AddMode = "replace"
)

// ParseAddMode defaults to append for anything but "replace"
func ParseAddMode(s string) AddMode {
	if AddMode(s) == AddModeReplace {
		return AddModeReplace
	}
	return AddModeAppend
}

// AddResult is an accepted mutation. Warning is set when the section is
// left in a state that is legal to edit but not yet legal to save.
type AddResult struct {
	Accepted []models.MediaItem
	Warning  string
}

// ValidateAdd decides whether proposed items may be added to a section that
// currently holds current
func ValidateAdd(kind models.SectionKind, current, proposed []models.MediaItem, mode AddMode) (*AddResult, error) {
	if len(proposed) == 0 {
		return nil, reject("media", MsgNoMediaSelected)
	}
	for _, item := range proposed {
		if !item.Kind.Valid() {
			return nil, reject("media", "Unsupported media type %q", item.Kind)
		}
	}

	existing := len(current)
	if mode == AddModeReplace {
		existing = 0
	}
	total := existing + len(proposed)

	result := &AddResult{Accepted: proposed}

	switch kind {
	case models.SectionKindHome:
		for _, item := range proposed {
			if item.Kind != models.MediaKindImage {
				return nil, reject("media", MsgHomeImagesOnly)
			}
		}
		if total > HomeImageCount {
			return nil, reject("media",
				"Home banner must have exactly %d images. Currently has %d, you can add at most %d more.",
				HomeImageCount, existing, HomeImageCount-existing)
		}
		result.Warning = HomeShortfall(total)

	case models.SectionKindSingleMediaPage:
		if len(proposed) > SingleMediaCount {
			return nil, reject("media", MsgSingleMediaOnly)
		}
		if item := proposed[0]; item.Kind == models.MediaKindYouTubeLink {
			if err := ValidateYouTubeURL(item.URL); err != nil {
				return nil, err
			}
		}
		if total > SingleMediaCount {
			return nil, reject("media", MsgSingleMediaOnly)
		}

	default:
		return nil, reject("section", "Unknown section kind %q", kind)
	}

	return result, nil
}

// HomeShortfall is the non-blocking warning for a home section holding n images
func HomeShortfall(n int) string {
	if n >= HomeImageCount {
		return ""
	}
	return fmt.Sprintf("Home banner needs exactly %d images; add %d more before saving.", HomeImageCount, HomeImageCount-n)
}

// ValidateSave checks the final item list of a section before it is submitted
func ValidateSave(kind models.SectionKind, final []models.MediaItem) error {
	switch kind {
	case models.SectionKindHome:
		if len(final) != HomeImageCount {
			return reject("media", "Home banner must have exactly %d images (currently has %d)",
				HomeImageCount, len(final))
		}
		for _, item := range final {
			if item.Kind != models.MediaKindImage {
				return reject("media", MsgHomeImagesOnly)
			}
		}
		return nil

	case models.SectionKindSingleMediaPage:
		if len(final) != SingleMediaCount {
			return reject("media", "This banner must have exactly %d media item (currently has %d)",
				SingleMediaCount, len(final))
		}
		item := final[0]
		if !item.Kind.Valid() {
			return reject("media", "Unsupported media type %q", item.Kind)
		}
		if item.Kind == models.MediaKindYouTubeLink {
			return ValidateYouTubeURL(item.URL)
		}
		return nil
	}
	return reject("section", "Unknown section kind %q", kind)
}
