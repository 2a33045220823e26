package models

import "strings"

// SectionKind identifies which media rules apply to a banner section
type SectionKind string

const (
	SectionKindHome            SectionKind = "home"
	SectionKindSingleMediaPage SectionKind = "singleMediaPage"
)

// HomeSection is the only section that carries the three-image banner
const HomeSection = "home"

// SectionKindFor maps a banner section name to its kind
func SectionKindFor(section string) SectionKind {
	if strings.EqualFold(strings.TrimSpace(section), HomeSection) {
		return SectionKindHome
	}
	return SectionKindSingleMediaPage
}

// MediaKind tags a piece of banner content
type MediaKind string

const (
	MediaKindImage       MediaKind = "image"
	MediaKindVideo       MediaKind = "video"
	MediaKindYouTubeLink MediaKind = "youtubeLink"
)

// Valid reports whether k is one of the supported media kinds
func (k MediaKind) Valid() bool {
	switch k {
	case MediaKindImage, MediaKindVideo, MediaKindYouTubeLink:
		return true
	}
	return false
}

// FileUpload is a file selected by an operator and not yet sent to the backend.
// SelectionIndex is the position in the original picker selection.
type FileUpload struct {
	SelectionIndex int       `json:"selectionIndex"`
	Filename       string    `json:"filename"`
	ContentType    string    `json:"contentType"`
	Kind           MediaKind `json:"kind"`
	Size           int64     `json:"size"`
	Data           []byte    `json:"data,omitempty"`
}

// MediaItem is one entry of a banner section: either remote media (URL),
// a YouTube link (URL) or a pending upload (File)
type MediaItem struct {
	Kind MediaKind   `json:"kind"`
	URL  string      `json:"url,omitempty"`
	File *FileUpload `json:"file,omitempty"`
}

// IsPending reports whether the item still has to be uploaded
func (m MediaItem) IsPending() bool {
	return m.File != nil
}

// MediaSlot is the media assignment of one banner section
type MediaSlot struct {
	Section string      `json:"section"`
	Kind    SectionKind `json:"kind"`
	Items   []MediaItem `json:"items"`
}

// NewMediaSlot builds an empty slot for a section
func NewMediaSlot(section string) *MediaSlot {
	return &MediaSlot{
		Section: section,
		Kind:    SectionKindFor(section),
		Items:   []MediaItem{},
	}
}

// BannerDraft is the in-progress edit of a banner section.
// Existing is the last reconciled snapshot from the backend; Pending holds
// items added since then.
type BannerDraft struct {
	Section  string      `json:"section"`
	Kind     SectionKind `json:"kind"`
	Existing []MediaItem `json:"existing"`
	Pending  []MediaItem `json:"pending"`
	Replace  bool        `json:"replace"`
	Warning  string      `json:"warning,omitempty"`
}

// PendingFiles returns the pending uploads in selection order
func (d *BannerDraft) PendingFiles() []FileUpload {
	files := make([]FileUpload, 0, len(d.Pending))
	for _, item := range d.Pending {
		if item.File != nil {
			files = append(files, *item.File)
		}
	}
	return files
}

// PendingLink returns the pending YouTube link, if any
func (d *BannerDraft) PendingLink() string {
	for _, item := range d.Pending {
		if item.Kind == MediaKindYouTubeLink && item.File == nil {
			return item.URL
		}
	}
	return ""
}

// Redacted returns a copy without file contents, for API responses
func (d *BannerDraft) Redacted() *BannerDraft {
	out := *d
	out.Existing = append([]MediaItem(nil), d.Existing...)
	out.Pending = redactItems(d.Pending)
	return &out
}

func redactItems(items []MediaItem) []MediaItem {
	out := make([]MediaItem, len(items))
	for i, item := range items {
		out[i] = item
		if item.File != nil {
			f := *item.File
			f.Data = nil
			out[i].File = &f
		}
	}
	return out
}
