package extraction

import (
	"strings"
	"time"
)

// Composer converts a recognition document into a canonical receipt Record.
// It is a pure transformation: one call owns one accumulator, so a single
// Composer is safe to share across goroutines.
type Composer struct {
	now func() time.Time
}

// NewComposer creates a Composer using the wall clock.
func NewComposer() *Composer {
	return NewComposerWithClock(time.Now)
}

// NewComposerWithClock creates a Composer with a custom clock for testing.
// The clock only feeds the year default for partial structured dates.
func NewComposerWithClock(now func() time.Time) *Composer {
	return &Composer{now: now}
}

// Compose runs a single pass over the document's entities and assembles the
// canonical record. Unknown entity types are skipped and unparsable values
// resolve to nil; Compose never fails. A nil or empty document yields a
// record with nil scalars, an empty line-item slice and an empty
// confidence map.
func (c *Composer) Compose(doc *Document) *Record {
	record := &Record{
		LineItems:        []LineItem{},
		ConfidenceScores: map[string]float32{},
	}
	if doc == nil {
		return record
	}

	now := c.now()
	for _, entity := range doc.Entities {
		if entity == nil {
			continue
		}
		switch classifyEntity(entity.Type) {
		case FieldTotal:
			c.applyTotal(record, entity)
		case FieldSupplier:
			c.applySupplier(record, entity)
		case FieldSupplierType:
			// Single-detection field: last writer wins, no arbitration.
			supplierType := strings.TrimSpace(entity.MentionText)
			record.SupplierType = &supplierType
		case FieldDate:
			c.applyDate(record, entity, now)
		case FieldCurrency:
			c.applyCurrency(record, entity)
		case FieldLineItem:
			if item := assembleLineItem(entity); item != nil {
				record.LineItems = append(record.LineItems, *item)
			}
		}
	}
	return record
}

func (c *Composer) applyTotal(record *Record, entity *Entity) {
	amount, currency := resolveMoney(entity.MentionText, moneyValue(entity))
	if amount != nil && c.accept(record, FieldTotal, entity.Confidence, hasNumber(record.TotalAmount)) {
		record.TotalAmount = amount
		record.ConfidenceScores[string(FieldTotal)] = entity.Confidence
	}
	// Currency piggybacks on the total detection when none has been set
	// explicitly. It bypasses arbitration and leaves confidence untouched.
	if currency != "" && !hasText(record.Currency) {
		code := strings.ToUpper(currency)
		record.Currency = &code
	}
}

func (c *Composer) applySupplier(record *Record, entity *Entity) {
	name := strings.TrimSpace(entity.MentionText)
	if c.accept(record, FieldSupplier, entity.Confidence, hasText(record.SupplierName)) {
		record.SupplierName = &name
		record.ConfidenceScores[string(FieldSupplier)] = entity.Confidence
	}
}

func (c *Composer) applyDate(record *Record, entity *Entity, now time.Time) {
	date := resolveDate(entity.MentionText, dateValue(entity), now)
	if date != nil && c.accept(record, FieldDate, entity.Confidence, hasText(record.ReceiptDate)) {
		record.ReceiptDate = date
		record.ConfidenceScores[string(FieldDate)] = entity.Confidence
	}
}

func (c *Composer) applyCurrency(record *Record, entity *Entity) {
	code := strings.ToUpper(strings.TrimSpace(entity.MentionText))
	if c.accept(record, FieldCurrency, entity.Confidence, hasText(record.Currency)) {
		record.Currency = &code
		record.ConfidenceScores[string(FieldCurrency)] = entity.Confidence
	}
}

// accept decides whether a new detection takes a field: it wins when the
// field holds no value yet, or on strictly greater confidence. Ties keep
// the earlier detection. A zero total or empty string counts as "no value"
// here, matching the behavior downstream consumers already depend on.
func (c *Composer) accept(record *Record, field Field, confidence float32, hasValue bool) bool {
	if !hasValue {
		return true
	}
	return confidence > record.ConfidenceScores[string(field)]
}

func hasNumber(v *float64) bool {
	return v != nil && *v != 0
}

func hasText(v *string) bool {
	return v != nil && *v != ""
}

func moneyValue(entity *Entity) *MoneyValue {
	if entity.NormalizedValue == nil {
		return nil
	}
	return entity.NormalizedValue.Money
}

func dateValue(entity *Entity) *DateValue {
	if entity.NormalizedValue == nil {
		return nil
	}
	return entity.NormalizedValue.Date
}
