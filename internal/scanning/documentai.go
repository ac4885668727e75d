package scanning

import (
	"context"
	"fmt"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/nadzmil/resitku/internal/extraction"
)

// DocumentAI implements the Processor interface using a Google Cloud
// Document AI expense processor.
type DocumentAI struct {
	client        *documentai.DocumentProcessorClient
	processorName string
}

// DocumentAIConfig holds the settings needed to reach a Document AI processor.
type DocumentAIConfig struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
}

// NewDocumentAI creates a new DocumentAI Processor instance
func NewDocumentAI(cfg DocumentAIConfig) (*DocumentAI, error) {
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("document ai project and processor id are required")
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}

	ctx := context.Background()
	opts := []option.ClientOption{
		// Regional processors are only reachable through their regional endpoint.
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating document ai client: %w", err)
	}

	return &DocumentAI{
		client:        client,
		processorName: fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, cfg.Location, cfg.ProcessorID),
	}, nil
}

// ProcessDocument submits a receipt image and returns the detected entities
func (d *DocumentAI) ProcessDocument(imageData []byte, contentType string) (*extraction.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// Normalize the payload (PDF/HEIC to PNG) before submission
	finalImageData, mimeType, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  finalImageData,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("processing document: %w", err)
	}

	doc := resp.GetDocument()
	if doc == nil {
		return nil, ErrNoDocument
	}

	return &extraction.Document{Entities: toEntities(doc.GetEntities())}, nil
}

// toEntities maps Document AI entities (including nested line-item
// properties) onto the extraction engine's input model.
func toEntities(entities []*documentaipb.Document_Entity) []*extraction.Entity {
	out := make([]*extraction.Entity, 0, len(entities))
	for _, e := range entities {
		if e == nil {
			continue
		}
		entity := &extraction.Entity{
			Type:        e.GetType(),
			MentionText: e.GetMentionText(),
			Confidence:  e.GetConfidence(),
			Properties:  toEntities(e.GetProperties()),
		}
		if nv := e.GetNormalizedValue(); nv != nil {
			if m := nv.GetMoneyValue(); m != nil {
				entity.NormalizedValue = &extraction.NormalizedValue{
					Money: &extraction.MoneyValue{
						Units:        m.GetUnits(),
						Nanos:        m.GetNanos(),
						CurrencyCode: m.GetCurrencyCode(),
					},
				}
			} else if dt := nv.GetDateValue(); dt != nil {
				entity.NormalizedValue = &extraction.NormalizedValue{
					Date: &extraction.DateValue{
						Year:  int(dt.GetYear()),
						Month: int(dt.GetMonth()),
						Day:   int(dt.GetDay()),
					},
				}
			}
		}
		out = append(out, entity)
	}
	return out
}

// Close closes the Document AI client
func (d *DocumentAI) Close() error {
	return d.client.Close()
}
