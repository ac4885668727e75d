package scanning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nadzmil/resitku/internal/extraction"
)

// documentScanPrompt asks the model to emit the same entity shape the
// Document AI processor produces, so both providers feed one extraction path.
const documentScanPrompt = `You are analyzing a retail receipt image. Detect every field listed below and report each detection as an entity object.

Entity types to detect:
- "total_amount": the final total or amount due
- "supplier_name": the merchant or store name
- "supplier_type": the kind of business (e.g. grocery, pharmacy), if identifiable
- "receipt_date": the transaction date
- "currency": the currency code, if printed
- "line_item": one purchased line; attach its cells as properties with types "line_item/description", "line_item/quantity", "line_item/unit_price" and "line_item/amount"

Return ONLY valid JSON in this exact format:
{
  "entities": [
    {
      "type": "total_amount",
      "mention_text": "RM 24.90",
      "confidence": 0.95,
      "properties": []
    }
  ]
}

Important:
- "mention_text" must be the exact text as printed on the receipt
- "confidence" must be a number between 0 and 1
- Emit one entity per detection; repeat a type if the receipt shows it more than once
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// Gemini implements the Processor interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Processor instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// ProcessDocument analyzes a receipt image and returns the detected entities
func (g *Gemini) ProcessDocument(imageData []byte, contentType string) (*extraction.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Prepare image data (convert to PNG if needed)
	finalImageData, _, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return nil, err
	}

	resp, err := g.model.GenerateContent(ctx,
		genai.ImageData("png", finalImageData),
		genai.Text(documentScanPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrNoDocument
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	doc, err := parseDocumentJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing entity data: %w", err)
	}

	return doc, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
