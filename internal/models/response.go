package models

// PaginationInfo mirrors the backend's pagination block
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

// ProductListResult is a page of products
type ProductListResult struct {
	Products   []Product       `json:"products"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}

type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SuccessResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Message    *string         `json:"message,omitempty"`
	Warning    string          `json:"warning,omitempty"`
	Pagination *PaginationInfo `json:"pagination,omitempty"`
}
