package composer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"storefront-admin-service/internal/models"
)

// FormField is one non-file field of a payload. JSON fields hold an
// already-encoded JSON document.
type FormField struct {
	Name  string
	Value string
	JSON  bool
}

// FilePart is one file of a payload
type FilePart struct {
	Field string
	File  models.FileUpload
}

// Payload is a composed backend request body. It is encoded as
// multipart/form-data when it carries files and as a JSON object otherwise.
type Payload struct {
	Fields []FormField
	Files  []FilePart
}

// NewPayload returns an empty payload
func NewPayload() *Payload {
	return &Payload{}
}

// AddField appends a scalar field
func (p *Payload) AddField(name, value string) {
	p.Fields = append(p.Fields, FormField{Name: name, Value: value})
}

// AddJSON appends v as a single JSON-encoded field
func (p *Payload) AddJSON(name string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	p.Fields = append(p.Fields, FormField{Name: name, Value: string(data), JSON: true})
	return nil
}

// AddFile appends a file part under field
func (p *Payload) AddFile(field string, f models.FileUpload) {
	p.Files = append(p.Files, FilePart{Field: field, File: f})
}

// Field returns the value of the first field called name
func (p *Payload) Field(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FilesFor returns the files appended under field, in order
func (p *Payload) FilesFor(field string) []models.FileUpload {
	var files []models.FileUpload
	for _, part := range p.Files {
		if part.Field == field {
			files = append(files, part.File)
		}
	}
	return files
}

// HasFiles reports whether the payload must be sent as multipart
func (p *Payload) HasFiles() bool {
	return len(p.Files) > 0
}

// Encode renders the payload and returns the body with its content type
func (p *Payload) Encode() (*bytes.Buffer, string, error) {
	if !p.HasFiles() {
		return p.encodeJSON()
	}
	return p.encodeMultipart()
}

func (p *Payload) encodeJSON() (*bytes.Buffer, string, error) {
	obj := make(map[string]interface{}, len(p.Fields))
	for _, f := range p.Fields {
		if f.JSON {
			obj[f.Name] = json.RawMessage(f.Value)
		} else {
			obj[f.Name] = f.Value
		}
	}
	body := &bytes.Buffer{}
	if err := json.NewEncoder(body).Encode(obj); err != nil {
		return nil, "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return body, "application/json", nil
}

func (p *Payload) encodeMultipart() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range p.Fields {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	for _, part := range p.Files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, part.Field, PartFilename(part.File)))
		contentType := part.File.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		w, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", part.Field, err)
		}
		if _, err := w.Write(part.File.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", part.Field, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

// PartFilename returns a header-safe filename for an upload
func PartFilename(f models.FileUpload) string {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	base := slug.Make(strings.TrimSuffix(filepath.Base(f.Filename), filepath.Ext(f.Filename)))
	if base == "" {
		base = "upload"
	}
	if !slug.IsSlug(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	return base + ext
}
