package models

import "questionbank/internal/query"

// DataResponse wraps a single resource.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ListResponse wraps a collection. Pagination is only set by paginated
// endpoints and is serialised as {} when there are no neighbouring pages.
type ListResponse struct {
	Success    bool                        `json:"success"`
	Count      int                         `json:"count"`
	Pagination *query.PaginationDescriptor `json:"pagination,omitempty"`
	Data       any                         `json:"data"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
	Role    Role   `json:"role"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// uniform error payload
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
