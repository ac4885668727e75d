package extraction

// Entity is a single typed, confidence-scored detection produced by the
// document recognition service. Line-item entities carry their cell-level
// detections in Properties.
type Entity struct {
	Type            string
	MentionText     string
	Confidence      float32
	NormalizedValue *NormalizedValue
	Properties      []*Entity
}

// NormalizedValue is the structured payload attached to an entity. At most
// one of Money or Date is set.
type NormalizedValue struct {
	Money *MoneyValue
	Date  *DateValue
}

// MoneyValue mirrors google.type.Money: Units is the whole-currency amount,
// Nanos the fractional part in billionths.
type MoneyValue struct {
	Units        int64
	Nanos        int32
	CurrencyCode string
}

// DateValue mirrors google.type.Date. Zero fields mean "not detected".
type DateValue struct {
	Year  int
	Month int
	Day   int
}

// Document is the recognition service's output for one receipt image.
type Document struct {
	Entities []*Entity
}

// Record is the canonical receipt produced by the composer. Scalar fields
// are nil when no usable detection was found.
type Record struct {
	TotalAmount      *float64           `json:"total_amount"`
	SupplierName     *string            `json:"supplier_name"`
	SupplierType     *string            `json:"supplier_type"`
	ReceiptDate      *string            `json:"receipt_date"`
	Currency         *string            `json:"currency"`
	LineItems        []LineItem         `json:"line_items"`
	ConfidenceScores map[string]float32 `json:"confidence_scores"`
}

// LineItem is one purchased product/service line on the receipt.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Amount      *float64 `json:"amount"`
}
