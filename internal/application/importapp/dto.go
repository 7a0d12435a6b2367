package importapp

import "github.com/google/uuid"

// ImportResult reports the outcome of one import. Failures are values, not errors.
type ImportResult struct {
	Status   bool   `json:"Status"`
	Shop     string `json:"Shop,omitempty"`
	Imported int    `json:"Imported"`
	Retired  int    `json:"Retired"`
	Error    string `json:"Error,omitempty"`
	Code     string `json:"Code,omitempty"`
}

// ImportRequest asks for a feed to be fetched and imported
type ImportRequest struct {
	URL string `json:"url" binding:"required,url,max=2048"`
}

// AdminImportRequest imports a feed on behalf of a shop account
type AdminImportRequest struct {
	AccountID uuid.UUID `json:"account_id" binding:"required"`
	URL       string    `json:"url" binding:"required,url,max=2048"`
}

// ImportAccepted is returned when an import has been queued
type ImportAccepted struct {
	JobID string `json:"job_id"`
}
