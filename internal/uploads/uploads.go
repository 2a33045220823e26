package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/validation"
)

// Intake turns multipart file headers into tagged uploads
type Intake struct {
	maxBytes int64
}

// NewIntake creates an intake that refuses files larger than maxBytes
func NewIntake(maxBytes int64) *Intake {
	return &Intake{maxBytes: maxBytes}
}

// Read loads every file of a picker selection, keeping the selection order
// as SelectionIndex
func (in *Intake) Read(field string, headers []*multipart.FileHeader) ([]models.FileUpload, error) {
	files := make([]models.FileUpload, 0, len(headers))
	for i, header := range headers {
		f, err := in.ReadOne(field, header, i)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, nil
}

// ReadOne loads a single file
func (in *Intake) ReadOne(field string, header *multipart.FileHeader, index int) (*models.FileUpload, error) {
	if in.maxBytes > 0 && header.Size > in.maxBytes {
		return nil, &validation.Error{
			Code:    validation.CodeValidation,
			Field:   field,
			Message: fmt.Sprintf("%s is larger than %d MB", header.Filename, in.maxBytes/(1024*1024)),
		}
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}

	kind, contentType, err := KindOf(header.Header.Get("Content-Type"), data)
	if err != nil {
		return nil, &validation.Error{Code: validation.CodeValidation, Field: field, Message: fmt.Sprintf("%s: %s", header.Filename, err.Error())}
	}

	return &models.FileUpload{
		SelectionIndex: index,
		Filename:       header.Filename,
		ContentType:    contentType,
		Kind:           kind,
		Size:           int64(len(data)),
		Data:           data,
	}, nil
}

// KindOf tags a file as image or video from its declared content type,
// sniffing the content when the declared type says nothing useful
func KindOf(declared string, data []byte) (models.MediaKind, string, error) {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if kind, ok := kindFromContentType(contentType); ok {
		return kind, contentType, nil
	}

	detected := mimetype.Detect(data).String()
	if kind, ok := kindFromContentType(detected); ok {
		return kind, detected, nil
	}
	return "", "", fmt.Errorf("unsupported file type %q", detected)
}

func kindFromContentType(contentType string) (models.MediaKind, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaKindImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaKindVideo, true
	}
	return "", false
}
