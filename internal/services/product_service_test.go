package services

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
	"storefront-admin-service/internal/repository"
	"storefront-admin-service/internal/validation"
)

func newProductService(api *MockStorefrontAPI) *ProductService {
	store := repository.NewMemoryDraftStore(time.Hour, time.Minute)
	return NewProductService(api, store, nil, testLogger())
}

func existingProduct() *models.Product {
	return &models.Product{
		ID:             "p1",
		Title:          "Mug",
		Price:          12.5,
		Stock:          3,
		Category:       "kitchen",
		Images:         []string{"https://cdn/1.png", "https://cdn/2.png"},
		Keywords:       []string{"mug"},
		Variants:       []string{"v1", "v2"},
		DefaultVariant: "v1",
	}
}

func jsonFieldOf(t *testing.T, p *composer.Payload, name string, dest interface{}) {
	t.Helper()
	raw, ok := p.Field(name)
	require.True(t, ok, "missing field %s", name)
	require.NoError(t, json.Unmarshal([]byte(raw), dest))
}

func TestProductService_RemovedImagesRecordedOnce(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	api.On("GetProduct", ctx, "tok", "p1").Return(existingProduct(), nil)

	draft, err := svc.CreateDraft(ctx, testSession, "p1")
	require.NoError(t, err)

	// remove, remove again, restore, remove
	_, err = svc.RemoveImage(ctx, testSession, draft.DraftID, "https://cdn/1.png", nil)
	require.NoError(t, err)
	_, err = svc.RemoveImage(ctx, testSession, draft.DraftID, "https://cdn/1.png", nil)
	require.NoError(t, err)
	restored, err := svc.RestoreImage(ctx, testSession, draft.DraftID, "https://cdn/1.png")
	require.NoError(t, err)
	assert.Empty(t, restored.RemovedImages)
	assert.Len(t, restored.Images, 2)

	final, err := svc.RemoveImage(ctx, testSession, draft.DraftID, "https://cdn/1.png", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn/1.png"}, final.RemovedImages)
	assert.Equal(t, []string{"https://cdn/2.png"}, final.RemoteImages())
}

func TestProductService_RemovingNewFileDoesNotRecord(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	draft, err := svc.CreateDraft(ctx, testSession, "")
	require.NoError(t, err)

	_, err = svc.AddImages(ctx, testSession, draft.DraftID, []models.FileUpload{imageFile(0, "a.png")})
	require.NoError(t, err)

	index := 0
	updated, err := svc.RemoveImage(ctx, testSession, draft.DraftID, "", &index)
	require.NoError(t, err)
	assert.Empty(t, updated.Images)
	assert.Empty(t, updated.RemovedImages)
}

func TestProductService_ImageLimit(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	api.On("GetProduct", ctx, "tok", "p1").Return(existingProduct(), nil)
	draft, err := svc.CreateDraft(ctx, testSession, "p1")
	require.NoError(t, err)

	_, err = svc.AddImages(ctx, testSession, draft.DraftID, []models.FileUpload{imageFile(0, "a.png"), imageFile(1, "b.png"), imageFile(2, "c.png")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 2 more")

	_, err = svc.AddImages(ctx, testSession, draft.DraftID, []models.FileUpload{videoFile(0, "v.mp4")})
	require.Error(t, err)
}

func TestProductService_DefaultVariantMustBeMember(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	api.On("GetProduct", ctx, "tok", "p1").Return(existingProduct(), nil)
	draft, err := svc.CreateDraft(ctx, testSession, "p1")
	require.NoError(t, err)

	bad := "v9"
	_, err = svc.UpdateDraft(ctx, testSession, draft.DraftID, &models.UpdateProductDraftRequest{DefaultVariant: &bad})
	require.Error(t, err)
	assert.Equal(t, validation.MsgDefaultVariantMember, err.Error())

	// shrinking the variant set clears a default that is no longer a member
	variants := []string{"v2"}
	updated, err := svc.UpdateDraft(ctx, testSession, draft.DraftID, &models.UpdateProductDraftRequest{Variants: &variants})
	require.NoError(t, err)
	assert.Empty(t, updated.DefaultVariant)
}

func TestProductService_SubmitCreate(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	draft, err := svc.CreateDraft(ctx, testSession, "")
	require.NoError(t, err)

	title, category := "Lamp", "home"
	price, stock := 40.0, 2
	keywords := []string{"light", " Light ", "", "desk"}
	sizes := []models.SizeOption{{Name: models.SizeRegular, Price: 40}, {Name: models.SizeCollector, Price: 90}}
	_, err = svc.UpdateDraft(ctx, testSession, draft.DraftID, &models.UpdateProductDraftRequest{
		Title: &title, Category: &category, Price: &price, Stock: &stock,
		Keywords: &keywords, SizeOptions: &sizes,
	})
	require.NoError(t, err)
	_, err = svc.AddImages(ctx, testSession, draft.DraftID, []models.FileUpload{imageFile(0, "lamp.png")})
	require.NoError(t, err)

	var sent *composer.Payload
	api.On("CreateProduct", ctx, "tok", mock.MatchedBy(func(p *composer.Payload) bool {
		sent = p
		return true
	})).Return(&models.Product{ID: "new-1", Title: "Lamp"}, nil)

	product, err := svc.SubmitDraft(ctx, testSession, draft.DraftID)
	require.NoError(t, err)
	assert.Equal(t, "new-1", product.ID)

	require.NotNil(t, sent)
	assert.Len(t, sent.FilesFor(composer.CreateImageField), 1)
	assert.Empty(t, sent.FilesFor(composer.UpdateImageField))

	var gotKeywords []string
	jsonFieldOf(t, sent, "keywords", &gotKeywords)
	assert.Equal(t, []string{"light", "desk"}, gotKeywords)

	_, hasImages := sent.Field("images")
	assert.False(t, hasImages)

	// the draft is cleared once the backend confirmed
	_, err = svc.GetDraft(ctx, testSession, draft.DraftID)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
}

func TestProductService_LateSubmitFindsNoDraft(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	store := &lateDraftStore{DraftStore: repository.NewMemoryDraftStore(time.Hour, time.Minute)}
	svc := NewProductService(api, store, nil, testLogger())

	draft, err := svc.CreateDraft(ctx, testSession, "")
	require.NoError(t, err)
	title, category := "Lamp", "home"
	price, stock := 40.0, 2
	_, err = svc.UpdateDraft(ctx, testSession, draft.DraftID, &models.UpdateProductDraftRequest{
		Title: &title, Category: &category, Price: &price, Stock: &stock,
	})
	require.NoError(t, err)
	_, err = svc.AddImages(ctx, testSession, draft.DraftID, []models.FileUpload{imageFile(0, "lamp.png")})
	require.NoError(t, err)

	api.On("CreateProduct", ctx, "tok", mock.Anything).Return(&models.Product{ID: "new-1"}, nil)

	var firstErr error
	store.beforeLock = func() {
		_, firstErr = svc.SubmitDraft(ctx, testSession, draft.DraftID)
	}

	_, err = svc.SubmitDraft(ctx, testSession, draft.DraftID)
	require.NoError(t, firstErr)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
	api.AssertNumberOfCalls(t, "CreateProduct", 1)
}

func TestProductService_DraftsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	owner := Session{Token: "tok", OperatorID: "op-1", DraftOwner: "op-1"}
	other := Session{Token: "forged", OperatorID: "op-1", DraftOwner: "hash-of-forged"}

	draft, err := svc.CreateDraft(ctx, owner, "")
	require.NoError(t, err)

	_, err = svc.GetDraft(ctx, other, draft.DraftID)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)
	_, err = svc.SubmitDraft(ctx, other, draft.DraftID)
	assert.ErrorIs(t, err, repository.ErrDraftNotFound)

	_, err = svc.GetDraft(ctx, owner, draft.DraftID)
	assert.NoError(t, err)
	api.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_SubmitUpdate(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	api.On("GetProduct", ctx, "tok", "p1").Return(existingProduct(), nil)
	draft, err := svc.CreateDraft(ctx, testSession, "p1")
	require.NoError(t, err)

	_, err = svc.RemoveImage(ctx, testSession, draft.DraftID, "https://cdn/2.png", nil)
	require.NoError(t, err)
	_, err = svc.AddImages(ctx, testSession, draft.DraftID, []models.FileUpload{imageFile(0, "new.png")})
	require.NoError(t, err)

	var sent *composer.Payload
	api.On("UpdateProduct", ctx, "tok", "p1", mock.MatchedBy(func(p *composer.Payload) bool {
		sent = p
		return true
	})).Return(existingProduct(), nil)

	_, err = svc.SubmitDraft(ctx, testSession, draft.DraftID)
	require.NoError(t, err)

	require.NotNil(t, sent)
	assert.Len(t, sent.FilesFor(composer.UpdateImageField), 1)

	var kept, removed []string
	jsonFieldOf(t, sent, "images", &kept)
	jsonFieldOf(t, sent, "removedImages", &removed)
	assert.Equal(t, []string{"https://cdn/1.png"}, kept)
	assert.Equal(t, []string{"https://cdn/2.png"}, removed)
}

func TestProductService_SubmitWithoutImagesFailsLocally(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	draft, err := svc.CreateDraft(ctx, testSession, "")
	require.NoError(t, err)
	title, category := "Lamp", "home"
	_, err = svc.UpdateDraft(ctx, testSession, draft.DraftID, &models.UpdateProductDraftRequest{Title: &title, Category: &category})
	require.NoError(t, err)

	_, err = svc.SubmitDraft(ctx, testSession, draft.DraftID)
	require.Error(t, err)
	assert.Equal(t, validation.MsgProductImageRequired, err.Error())
	api.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_ListDefaults(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	api.On("ListProducts", ctx, "tok", models.ProductListParams{Page: 1, Limit: 100, Search: "mug"}).
		Return(&models.ProductListResult{Products: []models.Product{}}, nil)

	_, err := svc.List(ctx, testSession, models.ProductListParams{Limit: 500, Search: "mug"})
	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestProductService_Export(t *testing.T) {
	ctx := context.Background()
	api := new(MockStorefrontAPI)
	svc := newProductService(api)

	api.On("ListProducts", ctx, "tok", models.ProductListParams{Page: 1, Limit: 100}).Return(&models.ProductListResult{
		Products:   []models.Product{*existingProduct()},
		Pagination: &models.PaginationInfo{Page: 1, TotalPages: 1},
	}, nil)

	buf, err := svc.Export(ctx, testSession, "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "p1", rows[1][0])
	assert.Equal(t, "Mug", rows[1][1])
}
