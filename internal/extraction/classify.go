package extraction

import "strings"

// Field is a canonical receipt field that detected entities compete for.
type Field string

const (
	FieldTotal        Field = "total_amount"
	FieldSupplier     Field = "supplier_name"
	FieldSupplierType Field = "supplier_type"
	FieldDate         Field = "receipt_date"
	FieldCurrency     Field = "currency"
	FieldLineItem     Field = "line_item"
	FieldUnknown      Field = ""
)

// entityFields maps the recognition service's entity type labels onto
// canonical fields. Labels are matched case-insensitively; anything outside
// this table is skipped.
var entityFields = map[string]Field{
	"total_amount": FieldTotal,
	"total":        FieldTotal,
	"net_amount":   FieldTotal,

	"supplier_name": FieldSupplier,
	"vendor_name":   FieldSupplier,
	"merchant_name": FieldSupplier,
	"receiver_name": FieldSupplier,

	"supplier_type": FieldSupplierType,
	"merchant_type": FieldSupplierType,

	"receipt_date":     FieldDate,
	"transaction_date": FieldDate,
	"purchase_date":    FieldDate,
	"invoice_date":     FieldDate,

	"currency": FieldCurrency,

	"line_item": FieldLineItem,
}

// lineItemFields maps line-item sub-property labels onto line-item columns.
var lineItemFields = map[string]Field{
	"line_item/description":  lineItemDescription,
	"line_item/product_code": lineItemDescription,
	"line_item/quantity":     lineItemQuantity,
	"line_item/unit_price":   lineItemUnitPrice,
	"line_item/amount":       lineItemAmount,
}

const (
	lineItemDescription Field = "description"
	lineItemQuantity    Field = "quantity"
	lineItemUnitPrice   Field = "unit_price"
	lineItemAmount      Field = "amount"
)

func classifyEntity(typeLabel string) Field {
	return entityFields[strings.ToLower(typeLabel)]
}

func classifyLineItemProperty(typeLabel string) Field {
	return lineItemFields[strings.ToLower(typeLabel)]
}
