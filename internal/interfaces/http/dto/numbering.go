package dto

import "time"

// GenerateNumbersRequest asks for one or more document numbers
type GenerateNumbersRequest struct {
	DocCode  string            `json:"doc_code" binding:"required,doc_code"`
	Context  map[string]string `json:"context"`
	Quantity int               `json:"quantity" binding:"omitempty,min=1,max=1000"`
}

// GenerateNumbersResponse carries the issued numbers in sequence order
type GenerateNumbersResponse struct {
	Numbers []string `json:"numbers"`
}

// PreviewNumberRequest asks for the number the next generation would issue
type PreviewNumberRequest struct {
	DocCode string            `json:"doc_code" binding:"required,doc_code"`
	Context map[string]string `json:"context"`
}

// PreviewNumberResponse carries a previewed number
type PreviewNumberResponse struct {
	Number string `json:"number"`
}

// SaveTemplateRequest creates or replaces the template of a document code
type SaveTemplateRequest struct {
	FormatString string `json:"format_string" binding:"required,max=255"`
	ResetRule    string `json:"reset_rule" binding:"max=255"`
	IsActive     *bool  `json:"is_active"`
}

// TemplateResponse is the API view of a document template
type TemplateResponse struct {
	ID           string    `json:"id"`
	DocCode      string    `json:"doc_code"`
	FormatString string    `json:"format_string"`
	ResetRule    string    `json:"reset_rule"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
