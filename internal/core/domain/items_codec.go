package domain

import "restaurant_service/internal/core/codec"

// EncodeLineItem renders one item in the embedded wire shape:
// {"id":<int>,"name":"<escaped>","quantity":<int>,"price":<2dp>}
func EncodeLineItem(it LineItem) string {
	return codec.EncodeObject(
		codec.Int("id", it.MenuItemID),
		codec.String("name", it.Name),
		codec.Int("quantity", it.Quantity),
		codec.Money("price", it.Price),
	)
}

// EncodeLineItems renders the full embedded array; empty orders encode as "[]".
func EncodeLineItems(items []LineItem) string {
	frags := make([]string, 0, len(items))
	for _, it := range items {
		frags = append(frags, EncodeLineItem(it))
	}
	return codec.EncodeArray(frags)
}

// DecodeLineItems rebuilds item snapshots from the embedded array text.
// Malformed fields degrade to zero values; a non-positive quantity reads as 1
// so a corrupt row still lists instead of vanishing.
func DecodeLineItems(itemsText string) []LineItem {
	frags := codec.SplitTopLevelArray(itemsText)
	items := make([]LineItem, 0, len(frags))
	for _, frag := range frags {
		qty := codec.ExtractInt(frag, "quantity")
		if qty <= 0 {
			qty = 1
		}
		items = append(items, LineItem{
			MenuItemID: codec.ExtractInt(frag, "id"),
			Name:       codec.ExtractString(frag, "name"),
			Price:      codec.ExtractFloat(frag, "price"),
			Quantity:   qty,
		})
	}
	return items
}
