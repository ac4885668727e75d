package scanning

import (
	"errors"

	"github.com/nadzmil/resitku/internal/extraction"
)

// ErrNoDocument is returned when the recognition service produced no
// document for the submitted image.
var ErrNoDocument = errors.New("no document returned by the recognition service")

// Processor defines the interface to the document-understanding service.
type Processor interface {
	// ProcessDocument submits a receipt image and returns the detected
	// entities. The returned document may carry zero entities; a missing
	// document is ErrNoDocument.
	ProcessDocument(imageData []byte, contentType string) (*extraction.Document, error)
	// Close releases the underlying client resources.
	Close() error
}
