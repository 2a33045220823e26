package previews

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"storefront-admin-service/internal/models"
)

const (
	defaultMaxDimension = 320
	previewQuality      = 70
	maxConcurrent       = 4
)

// Preview is a browser-displayable rendition of a selected file
type Preview struct {
	SelectionIndex int              `json:"selectionIndex"`
	Filename       string           `json:"filename"`
	Kind           models.MediaKind `json:"kind"`
	DataURL        string           `json:"dataUrl,omitempty"`
	Width          int              `json:"width,omitempty"`
	Height         int              `json:"height,omitempty"`
}

// Generator renders thumbnails for image uploads
type Generator struct {
	maxDimension int
	logger       *logrus.Entry
}

func NewGenerator(maxDimension int, logger *logrus.Logger) *Generator {
	if maxDimension <= 0 {
		maxDimension = defaultMaxDimension
	}
	return &Generator{
		maxDimension: maxDimension,
		logger:       logger.WithField("component", "previews"),
	}
}

// Generate renders previews concurrently. Completion order is not selection
// order, so results are placed by selection index.
func (g *Generator) Generate(ctx context.Context, files []models.FileUpload) ([]Preview, error) {
	results := make([]Preview, len(files))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrent)

	for i := range files {
		i, f := i, files[i]
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := g.render(f)
			if err != nil {
				return err
			}
			results[i] = p
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].SelectionIndex < results[b].SelectionIndex
	})
	return results, nil
}

func (g *Generator) render(f models.FileUpload) (Preview, error) {
	p := Preview{SelectionIndex: f.SelectionIndex, Filename: f.Filename, Kind: f.Kind}
	if f.Kind != models.MediaKindImage {
		return p, nil
	}

	img, err := imaging.Decode(bytes.NewReader(f.Data), imaging.AutoOrientation(true))
	if err != nil {
		return p, fmt.Errorf("cannot preview %s: %w", f.Filename, err)
	}
	thumb := imaging.Fit(img, g.maxDimension, g.maxDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(previewQuality)); err != nil {
		return p, fmt.Errorf("cannot encode preview for %s: %w", f.Filename, err)
	}

	bounds := thumb.Bounds()
	p.Width = bounds.Dx()
	p.Height = bounds.Dy()
	p.DataURL = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	g.logger.WithFields(logrus.Fields{
		"file":   f.Filename,
		"index":  f.SelectionIndex,
		"width":  p.Width,
		"height": p.Height,
	}).Debug("Preview rendered")
	return p, nil
}
