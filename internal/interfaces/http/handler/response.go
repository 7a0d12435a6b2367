package handler

import "github.com/shopfront/backend/internal/interfaces/http/dto"

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Status bool           `json:"Status" example:"false"`
	Errors *dto.ErrorInfo `json:"Errors"`
}

// SuccessResponse represents a success API response without payload for OpenAPI documentation
// @Description Success response without data
type SuccessResponse struct {
	Status bool `json:"Status" example:"true"`
}

// CountData reports how many rows an operation touched
// @Description Affected row count
type CountData struct {
	Count int64 `json:"count"`
}

// HealthData reports service health
// @Description Health check result
type HealthData struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
}
