package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/events"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/repository"
	"storefront-admin-service/internal/validation"
)

const (
	defaultProductPage  = 1
	defaultProductLimit = 10
	maxProductLimit     = 100
)

// ProductService manages the catalog and product drafts. A draft is
// created empty or hydrated from a product, edited over several requests
// and submitted as one multipart payload.
type ProductService struct {
	api       clients.StorefrontAPI
	drafts    repository.DraftStore
	publisher AuditPublisher
	logger    *logrus.Entry
}

// NewProductService creates a new ProductService
func NewProductService(api clients.StorefrontAPI, drafts repository.DraftStore, publisher AuditPublisher, logger *logrus.Logger) *ProductService {
	return &ProductService{
		api:       api,
		drafts:    drafts,
		publisher: publisherOrNoop(publisher),
		logger:    logger.WithField("component", "product_service"),
	}
}

func productDraftKey(sess Session, draftID string) string {
	return "product:" + sess.draftOwner() + ":" + draftID
}

// List returns one page of products
func (s *ProductService) List(ctx context.Context, sess Session, params models.ProductListParams) (*models.ProductListResult, error) {
	if params.Page < 1 {
		params.Page = defaultProductPage
	}
	if params.Limit < 1 {
		params.Limit = defaultProductLimit
	}
	if params.Limit > maxProductLimit {
		params.Limit = maxProductLimit
	}
	return s.api.ListProducts(ctx, sess.Token, params)
}

// Get returns one product
func (s *ProductService) Get(ctx context.Context, sess Session, id string) (*models.Product, error) {
	return s.api.GetProduct(ctx, sess.Token, id)
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, sess Session, id string) error {
	if err := s.api.DeleteProduct(ctx, sess.Token, id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("Product deleted")
	s.publisher.PublishAdminAction(ctx, events.ProductDeleted, "product", id, sess.OperatorID, nil)
	return nil
}

// Toggle flips isFeatured, isBestSeller or isActive
func (s *ProductService) Toggle(ctx context.Context, sess Session, id, field string) (*models.Product, error) {
	product, err := s.api.ToggleProductField(ctx, sess.Token, id, field)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishAdminAction(ctx, events.ProductToggled, "product", id, sess.OperatorID,
		map[string]interface{}{"field": field})
	return product, nil
}

// CreateDraft starts a draft: empty for a new product, hydrated from the
// backend when productID is set
func (s *ProductService) CreateDraft(ctx context.Context, sess Session, productID string) (*models.ProductDraft, error) {
	draftID := uuid.New().String()

	var draft *models.ProductDraft
	if productID == "" {
		draft = models.NewProductDraft(draftID)
	} else {
		product, err := s.api.GetProduct(ctx, sess.Token, productID)
		if err != nil {
			return nil, err
		}
		draft = models.DraftFromProduct(draftID, product)
	}

	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetDraft loads a draft
func (s *ProductService) GetDraft(ctx context.Context, sess Session, draftID string) (*models.ProductDraft, error) {
	var draft models.ProductDraft
	if err := s.drafts.Load(ctx, productDraftKey(sess, draftID), &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// UpdateDraft applies the non-image fields of req to a draft
func (s *ProductService) UpdateDraft(ctx context.Context, sess Session, draftID string, req *models.UpdateProductDraftRequest) (*models.ProductDraft, error) {
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		draft.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		draft.Description = *req.Description
	}
	if req.Price != nil {
		draft.Price = *req.Price
	}
	if req.Stock != nil {
		draft.Stock = *req.Stock
	}
	if req.Country != nil {
		draft.Country = *req.Country
	}
	if req.Category != nil {
		draft.Category = *req.Category
	}
	if req.SubCategory != nil {
		draft.SubCategory = *req.SubCategory
	}
	if req.Keywords != nil {
		draft.Keywords = uniqueKeywords(*req.Keywords)
	}
	if req.Discounts != nil {
		draft.Discounts = *req.Discounts
	}
	if req.SizeOptions != nil {
		if len(*req.SizeOptions) > models.MaxSizeOptions {
			return nil, &validation.Error{Code: validation.CodeValidation, Field: "sizeOptions", Message: "A product can have at most 3 size options"}
		}
		draft.SizeOptions = *req.SizeOptions
	}
	if req.Variants != nil {
		draft.Variants = uniqueStrings(*req.Variants)
		if draft.DefaultVariant != "" && !draft.HasVariant(draft.DefaultVariant) {
			draft.DefaultVariant = ""
		}
	}
	if req.DefaultVariant != nil {
		draft.DefaultVariant = *req.DefaultVariant
		if err := validation.ValidateDefaultVariant(draft); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// AddImages stages new image files, at most four images in total
func (s *ProductService) AddImages(ctx context.Context, sess Session, draftID string, files []models.FileUpload) (*models.ProductDraft, error) {
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateProductImageAdd(len(draft.Images), len(files)); err != nil {
		return nil, err
	}

	next := 0
	for _, img := range draft.Images {
		if img.File != nil && img.File.SelectionIndex >= next {
			next = img.File.SelectionIndex + 1
		}
	}
	for i := range files {
		f := files[i]
		if f.Kind != models.MediaKindImage {
			return nil, &validation.Error{Code: validation.CodeValidation, Field: "images", Message: "Only image files can be used as product images"}
		}
		f.SelectionIndex = next + f.SelectionIndex
		draft.Images = append(draft.Images, models.DraftImage{File: &f})
	}

	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// RemoveImage drops an image by URL or by position. Remote images are
// recorded in removedImages once; new files are simply dropped.
func (s *ProductService) RemoveImage(ctx context.Context, sess Session, draftID, url string, index *int) (*models.ProductDraft, error) {
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}

	pos := -1
	switch {
	case url != "":
		for i, img := range draft.Images {
			if img.IsRemote() && img.URL == url {
				pos = i
				break
			}
		}
		if pos == -1 {
			// already removed
			if slices.Contains(draft.RemovedImages, url) {
				return draft, nil
			}
			return nil, &validation.Error{Code: validation.CodeValidation, Field: "url", Message: "Image is not part of this product"}
		}
	case index != nil:
		pos = *index
		if pos < 0 || pos >= len(draft.Images) {
			return nil, &validation.Error{Code: validation.CodeValidation, Field: "index", Message: "No image at that position"}
		}
	default:
		return nil, &validation.Error{Code: validation.CodeValidation, Field: "url", Message: "Image URL or index is required"}
	}

	removed := draft.Images[pos]
	draft.Images = append(draft.Images[:pos], draft.Images[pos+1:]...)
	if removed.IsRemote() && !slices.Contains(draft.RemovedImages, removed.URL) {
		draft.RemovedImages = append(draft.RemovedImages, removed.URL)
	}

	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// RestoreImage undoes the removal of a remote image
func (s *ProductService) RestoreImage(ctx context.Context, sess Session, draftID, url string) (*models.ProductDraft, error) {
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(draft.RemovedImages, url) {
		return draft, nil
	}
	if len(draft.Images) >= models.MaxProductImages {
		return nil, &validation.Error{Code: validation.CodeValidation, Field: "images",
			Message: "A product can have at most 4 images. Remove one before restoring."}
	}

	draft.RemovedImages = slices.DeleteFunc(draft.RemovedImages, func(u string) bool { return u == url })
	draft.Images = append(draft.Images, models.DraftImage{URL: url})

	if err := s.save(ctx, sess, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// DiscardDraft drops a draft. A submission already sent is not affected.
func (s *ProductService) DiscardDraft(ctx context.Context, sess Session, draftID string) error {
	return s.drafts.Delete(ctx, productDraftKey(sess, draftID))
}

// SubmitDraft validates, composes and sends the draft as a create or an
// update, then clears it
func (s *ProductService) SubmitDraft(ctx context.Context, sess Session, draftID string) (*models.Product, error) {
	key := productDraftKey(sess, draftID)
	release, err := s.drafts.AcquireLock(ctx, key)
	if err != nil {
		return nil, err
	}
	defer release()

	// loaded under the lock so a submit that finished meanwhile leaves nothing to resend
	draft, err := s.GetDraft(ctx, sess, draftID)
	if err != nil {
		return nil, err
	}

	payload, err := composer.ComposeProductSubmission(draft)
	if err != nil {
		s.logger.WithFields(logrus.Fields{"draft_id": draftID, "reason": err.Error()}).Debug("Product draft rejected")
		return nil, err
	}

	var product *models.Product
	eventType := events.ProductCreated
	if draft.IsUpdate() {
		eventType = events.ProductUpdated
		product, err = s.api.UpdateProduct(ctx, sess.Token, draft.ProductID, payload)
	} else {
		product, err = s.api.CreateProduct(ctx, sess.Token, payload)
	}
	if err != nil {
		return nil, err
	}

	resourceID := product.ID
	if resourceID == "" {
		resourceID = draft.ProductID
	}
	s.logger.WithFields(logrus.Fields{"draft_id": draftID, "product_id": resourceID}).Info("Product submitted")
	s.publisher.PublishAdminAction(ctx, eventType, "product", resourceID, sess.OperatorID,
		map[string]interface{}{"newImages": len(draft.NewFiles()), "removedImages": len(draft.RemovedImages)})

	if err := s.drafts.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("draft_id", draftID).Warn("Failed to clear product draft")
	}
	return product, nil
}

func (s *ProductService) save(ctx context.Context, sess Session, draft *models.ProductDraft) error {
	return s.drafts.Save(ctx, productDraftKey(sess, draft.DraftID), draft, 0)
}

// uniqueKeywords trims keywords and drops blanks and case-insensitive repeats
func uniqueKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, k := range in {
		k = strings.TrimSpace(k)
		if k == "" || seen[strings.ToLower(k)] {
			continue
		}
		seen[strings.ToLower(k)] = true
		out = append(out, k)
	}
	return out
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
