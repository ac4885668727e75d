package scanning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nadzmil/resitku/internal/extraction"
)

// Wire shapes for the entity JSON the Gemini provider asks the model to emit.
type documentPayload struct {
	Entities []entityPayload `json:"entities"`
}

type entityPayload struct {
	Type            string             `json:"type"`
	MentionText     string             `json:"mention_text"`
	Confidence      float32            `json:"confidence"`
	NormalizedValue *normalizedPayload `json:"normalized_value,omitempty"`
	Properties      []entityPayload    `json:"properties,omitempty"`
}

type normalizedPayload struct {
	MoneyValue *moneyPayload `json:"money_value,omitempty"`
	DateValue  *datePayload  `json:"date_value,omitempty"`
}

type moneyPayload struct {
	Units        int64  `json:"units"`
	Nanos        int32  `json:"nanos"`
	CurrencyCode string `json:"currency_code,omitempty"`
}

type datePayload struct {
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
	Day   int `json:"day,omitempty"`
}

// parseDocumentJSON parses the model's JSON response into a document,
// tolerating markdown fences and surrounding prose.
func parseDocumentJSON(text string) (*extraction.Document, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	// Models occasionally wrap the object in commentary; cut to the
	// outermost braces.
	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var payload documentPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	return &extraction.Document{Entities: payloadEntities(payload.Entities)}, nil
}

func payloadEntities(payloads []entityPayload) []*extraction.Entity {
	entities := make([]*extraction.Entity, 0, len(payloads))
	for _, p := range payloads {
		entity := &extraction.Entity{
			Type:        p.Type,
			MentionText: p.MentionText,
			Confidence:  p.Confidence,
			Properties:  payloadEntities(p.Properties),
		}
		if p.NormalizedValue != nil {
			if m := p.NormalizedValue.MoneyValue; m != nil {
				entity.NormalizedValue = &extraction.NormalizedValue{
					Money: &extraction.MoneyValue{Units: m.Units, Nanos: m.Nanos, CurrencyCode: m.CurrencyCode},
				}
			} else if d := p.NormalizedValue.DateValue; d != nil {
				entity.NormalizedValue = &extraction.NormalizedValue{
					Date: &extraction.DateValue{Year: d.Year, Month: d.Month, Day: d.Day},
				}
			}
		}
		entities = append(entities, entity)
	}
	return entities
}
