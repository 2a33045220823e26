package models

import "time"

// MaxProductImages is the number of images a product may carry
const MaxProductImages = 4

// MaxSizeOptions is the number of size options a product may carry
const MaxSizeOptions = 3

// SizeName names a product size option
type SizeName string

const (
	SizeRegular   SizeName = "regular"
	SizeMedium    SizeName = "medium"
	SizeCollector SizeName = "collector"
)

// Valid reports whether s is one of the supported size names
func (s SizeName) Valid() bool {
	switch s {
	case SizeRegular, SizeMedium, SizeCollector:
		return true
	}
	return false
}

// SizeOption is one size a product is sold in
type SizeOption struct {
	Name  SizeName `json:"name"`
	Price float64  `json:"price"`
}

// Discount is a named percentage discount
type Discount struct {
	Title      string  `json:"title"`
	Percentage float64 `json:"percentage"`
}

// Product is a catalog product as returned by the storefront backend
type Product struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Price          float64      `json:"price"`
	Stock          int          `json:"stock"`
	Country        string       `json:"country"`
	Category       string       `json:"category"`
	SubCategory    string       `json:"subCategory"`
	Images         []string     `json:"images"`
	Keywords       []string     `json:"keywords"`
	Discounts      []Discount   `json:"discounts"`
	SizeOptions    []SizeOption `json:"sizeOptions"`
	Variants       []string     `json:"variants"`
	DefaultVariant string       `json:"defaultVariant,omitempty"`
	IsFeatured     bool         `json:"isFeatured"`
	IsBestSeller   bool         `json:"isBestSeller"`
	IsActive       bool         `json:"isActive"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
}

// DraftImage is one image slot of a product draft: a remote URL or a new file
type DraftImage struct {
	URL  string      `json:"url,omitempty"`
	File *FileUpload `json:"file,omitempty"`
}

// IsRemote reports whether the image is already stored by the backend
func (i DraftImage) IsRemote() bool {
	return i.File == nil && i.URL != ""
}

// ProductDraft is the composed, not-yet-submitted representation of a product
type ProductDraft struct {
	DraftID        string       `json:"draftId"`
	ProductID      string       `json:"productId,omitempty"`
	Title          string       `json:"title"`
	Description    string       `json:"description"`
	Price          float64      `json:"price"`
	Stock          int          `json:"stock"`
	Country        string       `json:"country"`
	Category       string       `json:"category"`
	SubCategory    string       `json:"subCategory"`
	Images         []DraftImage `json:"images"`
	Keywords       []string     `json:"keywords"`
	Discounts      []Discount   `json:"discounts"`
	SizeOptions    []SizeOption `json:"sizeOptions"`
	Variants       []string     `json:"variants"`
	DefaultVariant string       `json:"defaultVariant,omitempty"`
	RemovedImages  []string     `json:"removedImages"`
}

// IsUpdate reports whether the draft edits an existing product
func (d *ProductDraft) IsUpdate() bool {
	return d.ProductID != ""
}

// NewFiles returns the newly selected image files in draft order
func (d *ProductDraft) NewFiles() []FileUpload {
	files := []FileUpload{}
	for _, img := range d.Images {
		if img.File != nil {
			files = append(files, *img.File)
		}
	}
	return files
}

// RemoteImages returns the URLs of kept remote images in draft order
func (d *ProductDraft) RemoteImages() []string {
	urls := []string{}
	for _, img := range d.Images {
		if img.IsRemote() {
			urls = append(urls, img.URL)
		}
	}
	return urls
}

// HasVariant reports whether id is in the variant set
func (d *ProductDraft) HasVariant(id string) bool {
	for _, v := range d.Variants {
		if v == id {
			return true
		}
	}
	return false
}

// Redacted returns a copy without file contents, for API responses
func (d *ProductDraft) Redacted() *ProductDraft {
	out := *d
	out.Images = make([]DraftImage, len(d.Images))
	for i, img := range d.Images {
		out.Images[i] = img
		if img.File != nil {
			f := *img.File
			f.Data = nil
			out.Images[i].File = &f
		}
	}
	return &out
}

// DraftFromProduct hydrates a draft from a fetched product
func DraftFromProduct(draftID string, p *Product) *ProductDraft {
	d := &ProductDraft{
		DraftID:        draftID,
		ProductID:      p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Price:          p.Price,
		Stock:          p.Stock,
		Country:        p.Country,
		Category:       p.Category,
		SubCategory:    p.SubCategory,
		Keywords:       append([]string{}, p.Keywords...),
		Discounts:      append([]Discount{}, p.Discounts...),
		SizeOptions:    append([]SizeOption{}, p.SizeOptions...),
		Variants:       append([]string{}, p.Variants...),
		DefaultVariant: p.DefaultVariant,
		RemovedImages:  []string{},
	}
	d.Images = make([]DraftImage, 0, len(p.Images))
	for _, url := range p.Images {
		d.Images = append(d.Images, DraftImage{URL: url})
	}
	return d
}

// NewProductDraft builds an empty draft for a product that does not exist yet
func NewProductDraft(draftID string) *ProductDraft {
	return &ProductDraft{
		DraftID:       draftID,
		Images:        []DraftImage{},
		Keywords:      []string{},
		Discounts:     []Discount{},
		SizeOptions:   []SizeOption{},
		Variants:      []string{},
		RemovedImages: []string{},
	}
}

// UpdateProductDraftRequest patches the non-image fields of a draft.
// Nil fields are left unchanged.
type UpdateProductDraftRequest struct {
	Title          *string       `json:"title"`
	Description    *string       `json:"description"`
	Price          *float64      `json:"price" binding:"omitempty,gte=0"`
	Stock          *int          `json:"stock" binding:"omitempty,gte=0"`
	Country        *string       `json:"country"`
	Category       *string       `json:"category"`
	SubCategory    *string       `json:"subCategory"`
	Keywords       *[]string     `json:"keywords"`
	Discounts      *[]Discount   `json:"discounts"`
	SizeOptions    *[]SizeOption `json:"sizeOptions"`
	Variants       *[]string     `json:"variants"`
	DefaultVariant *string       `json:"defaultVariant"`
}

// ProductListParams filters the backend product list
type ProductListParams struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
}

// ToggleProductFieldRequest flips one boolean product flag
type ToggleProductFieldRequest struct {
	Field string `json:"field" binding:"required,oneof=isFeatured isBestSeller isActive"`
}
