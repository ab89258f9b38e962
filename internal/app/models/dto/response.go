package dto

// APIResponse is the envelope returned by every endpoint: Data on success,
// Error on failure, never both.
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// NewSuccessResponse wraps data in the standard response envelope
func NewSuccessResponse(data interface{}) *APIResponse {
	return &APIResponse{Data: data}
}

// SuccessResponse represents a standard message-only success body
type SuccessResponse struct {
	Message string `json:"message" example:"deleted"`
}

// PaginationInfo carries paging metadata on list responses
type PaginationInfo struct {
	CurrentPage int   `json:"currentPage" example:"1"`
	PageSize    int   `json:"pageSize" example:"10"`
	TotalItems  int64 `json:"totalItems" example:"42"`
	TotalPages  int   `json:"totalPages" example:"5"`
}
