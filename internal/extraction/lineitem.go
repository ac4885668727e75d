package extraction

import "strings"

// assembleLineItem builds one line item from a line_item entity's
// sub-properties. Returns nil when the item carries neither a description
// nor an amount, so noise rows never reach the output.
func assembleLineItem(entity *Entity) *LineItem {
	item := LineItem{}
	for _, prop := range entity.Properties {
		if prop == nil {
			continue
		}
		switch classifyLineItemProperty(prop.Type) {
		case lineItemDescription:
			if text := strings.TrimSpace(prop.MentionText); text != "" {
				item.Description = &text
			}
		case lineItemQuantity:
			if quantity := parseQuantity(prop.MentionText); quantity != nil {
				item.Quantity = quantity
			}
		case lineItemUnitPrice:
			if price, _ := parseMoneyText(prop.MentionText); price != nil {
				item.UnitPrice = price
			}
		case lineItemAmount:
			if amount, _ := parseMoneyText(prop.MentionText); amount != nil {
				item.Amount = amount
			}
		}
	}

	if item.Description == nil && item.Amount == nil {
		return nil
	}
	return &item
}
