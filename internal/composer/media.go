package composer

import (
	"sort"

	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/validation"
)

// Operation is the backend call a composed submission is sent with
type Operation string

const (
	// OperationCreate adds media to what the section already holds (POST)
	OperationCreate Operation = "create"
	// OperationUpdate replaces the section's media entirely (PUT)
	OperationUpdate Operation = "update"
)

const (
	MediaField       = "media"
	YouTubeLinkField = "youtubeLink"
)

// MediaSubmission is a composed banner save
type MediaSubmission struct {
	Operation Operation
	Payload   *Payload
}

func composeError(field, message string) error {
	return &validation.Error{Code: validation.CodeValidation, Field: field, Message: message}
}

// ComposeMediaSubmission builds the banner save for a section.
//
// Single-media sections are created when empty and replaced otherwise. The
// home section is replaced when exactly three fresh images are selected,
// since those satisfy the section on their own; any other selection is
// added to the images that remain.
func ComposeMediaSubmission(kind models.SectionKind, existingCount int, files []models.FileUpload, youtubeLink string) (*MediaSubmission, error) {
	if len(files) == 0 && youtubeLink == "" {
		return nil, composeError("media", "Nothing to save")
	}

	var op Operation
	switch kind {
	case models.SectionKindHome:
		if youtubeLink != "" {
			return nil, composeError(YouTubeLinkField, validation.MsgHomeImagesOnly)
		}
		if len(files) == validation.HomeImageCount {
			op = OperationUpdate
		} else {
			op = OperationCreate
		}

	case models.SectionKindSingleMediaPage:
		if len(files) > 0 && youtubeLink != "" {
			return nil, composeError("media", validation.MsgSingleMediaOnly)
		}
		if len(files) > validation.SingleMediaCount {
			return nil, composeError("media", validation.MsgSingleMediaOnly)
		}
		if existingCount == 0 {
			op = OperationCreate
		} else {
			op = OperationUpdate
		}

	default:
		return nil, composeError("section", "Unknown section kind")
	}

	payload := NewPayload()
	for _, f := range inSelectionOrder(files) {
		payload.AddFile(MediaField, f)
	}
	if youtubeLink != "" {
		payload.AddField(YouTubeLinkField, youtubeLink)
	}

	return &MediaSubmission{Operation: op, Payload: payload}, nil
}

// inSelectionOrder orders files by the position they were picked in,
// whatever order they were read in
func inSelectionOrder(files []models.FileUpload) []models.FileUpload {
	ordered := append([]models.FileUpload(nil), files...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SelectionIndex < ordered[j].SelectionIndex
	})
	return ordered
}
