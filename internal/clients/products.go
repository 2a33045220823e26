package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"storefront-admin-service/internal/composer"
	"storefront-admin-service/internal/models"
)

// ListProducts fetches one page of the catalog
func (c *StorefrontClient) ListProducts(ctx context.Context, token string, params models.ProductListParams) (*models.ProductListResult, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	var raw json.RawMessage
	pagination, err := c.get(ctx, token, "/product", query, &raw)
	if err != nil {
		return nil, err
	}

	result := &models.ProductListResult{Products: []models.Product{}, Pagination: pagination}
	if len(raw) == 0 {
		return result, nil
	}
	// data is either the product array or {products, pagination}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &result.Products); err != nil {
			return nil, err
		}
		return result, nil
	}
	var page models.ProductListResult
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	if page.Products != nil {
		result.Products = page.Products
	}
	if page.Pagination != nil {
		result.Pagination = page.Pagination
	}
	return result, nil
}

// GetProduct fetches one product
func (c *StorefrontClient) GetProduct(ctx context.Context, token, id string) (*models.Product, error) {
	var product models.Product
	if _, err := c.get(ctx, token, "/product/"+pathID(id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct submits a composed product create payload
func (c *StorefrontClient) CreateProduct(ctx context.Context, token string, payload *composer.Payload) (*models.Product, error) {
	var product models.Product
	if err := c.sendPayload(ctx, token, http.MethodPost, "/product", payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct submits a composed product update payload
func (c *StorefrontClient) UpdateProduct(ctx context.Context, token, id string, payload *composer.Payload) (*models.Product, error) {
	var product models.Product
	if err := c.sendPayload(ctx, token, http.MethodPut, "/product/"+pathID(id), payload, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product
func (c *StorefrontClient) DeleteProduct(ctx context.Context, token, id string) error {
	return c.sendJSON(ctx, token, http.MethodDelete, "/product/"+pathID(id), nil, nil)
}

// ToggleProductField flips isFeatured, isBestSeller or isActive
func (c *StorefrontClient) ToggleProductField(ctx context.Context, token, id, field string) (*models.Product, error) {
	var product models.Product
	body := models.ToggleProductFieldRequest{Field: field}
	if err := c.sendJSON(ctx, token, http.MethodPatch, "/product/"+pathID(id)+"/toggle", body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
