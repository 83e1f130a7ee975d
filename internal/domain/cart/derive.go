package cart

import "github.com/mmenu/backend/internal/domain/shared/valueobject"

// TotalItemCount is the sum of the quantities of all line items
func TotalItemCount(c Cart) int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum over line items of quantity x (product price +
// selected topping prices x their quantities). An empty cart totals zero in
// the default currency. Carts hold a single currency, which AddToCart.Plan
// and Restore enforce.
func TotalPrice(c Cart) valueobject.Money {
	total := valueobject.Zero(valueobject.DefaultCurrency)
	if len(c.items) > 0 {
		total = valueobject.Zero(c.items[0].Product.Price.Currency())
	}
	for _, item := range c.items {
		total = total.MustAdd(item.Subtotal())
	}
	return total
}

// QuantityOfProduct sums the quantities of every line item of a product,
// whatever its options and note
func QuantityOfProduct(c Cart, productID string) int {
	total := 0
	for _, item := range c.items {
		if item.Product.ID == productID {
			total += item.Quantity
		}
	}
	return total
}

// QuantityByProduct returns QuantityOfProduct for every product in the cart
func QuantityByProduct(c Cart) map[string]int {
	counts := make(map[string]int)
	for _, item := range c.items {
		counts[item.Product.ID] += item.Quantity
	}
	return counts
}

// QuantityByCategory sums quantities per product category
func QuantityByCategory(c Cart) map[string]int {
	counts := make(map[string]int)
	for _, item := range c.items {
		counts[item.Product.CategoryID] += item.Quantity
	}
	return counts
}
