package receipt

import (
	"time"

	"github.com/nadzmil/resitku/internal/extraction"
)

// Receipt is a stored, scanned receipt: the canonical extraction record
// plus the uploaded image and bookkeeping metadata.
type Receipt struct {
	ID          string            `json:"id"`
	Record      extraction.Record `json:"record"`
	Filename    string            `json:"filename"`
	ContentType string            `json:"content_type"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
