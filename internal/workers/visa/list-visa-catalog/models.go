// internal/workers/visa/list-visa-catalog/models.go
package listcatalog

import (
	"time"

	"visa-workers/internal/models"
)

// Input optionally narrows the listing to some visa codes.
type Input struct {
	VisaCodes []string `json:"visaCodes,omitempty"`
}

type Output struct {
	CatalogVersion string            `json:"catalogVersion"`
	CatalogSource  string            `json:"catalogSource"`
	LoadedAt       time.Time         `json:"loadedAt"`
	Rules          []models.VisaRule `json:"rules"`
}

const InputSchema = `{
	"type": "object",
	"properties": {
		"visaCodes": {"type": "array", "items": {"type": "string"}}
	}
}`
