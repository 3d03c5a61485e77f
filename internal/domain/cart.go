package domain

// CartLine pairs one product with a positive quantity. A cart holds at
// most one line per product id; repeated adds merge into the line.
type CartLine struct {
	Product  Product
	Quantity int
}

// Total is the line's price multiplied by its quantity.
func (l CartLine) Total() Money {
	return l.Product.Price.Mul(l.Quantity)
}
