package httpin

import (
	"restaurant_service/internal/core/codec"
	"restaurant_service/internal/core/domain"
)

const orderDateLayout = "2006-01-02 15:04:05"

// renderOrder produces the order wire shape. The items array is embedded via
// Raw because it is already in wire form; prices render with two decimals.
func renderOrder(o domain.Order) string {
	return codec.EncodeObject(
		codec.Int("id", o.ID),
		codec.String("customer", o.CustomerName),
		codec.String("orderDate", o.CreatedAt.Format(orderDateLayout)),
		codec.Raw("items", domain.EncodeLineItems(o.Items)),
		codec.Money("price", o.TotalPrice),
		codec.Int("itemCount", o.ItemCount),
	)
}

func renderOrders(orders []domain.Order) string {
	frags := make([]string, 0, len(orders))
	for _, o := range orders {
		frags = append(frags, renderOrder(o))
	}
	return codec.EncodeArray(frags)
}

func renderMenuItem(m domain.MenuItem) string {
	return codec.EncodeObject(
		codec.Int("id", m.ID),
		codec.String("name", m.Name),
		codec.String("description", m.Description),
		codec.Money("price", m.Price),
		codec.String("category", m.Category),
	)
}

func renderMenu(items []domain.MenuItem) string {
	frags := make([]string, 0, len(items))
	for _, m := range items {
		frags = append(frags, renderMenuItem(m))
	}
	return codec.EncodeArray(frags)
}
