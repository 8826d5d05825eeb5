package validation

// Event price bounds. The lower bound is inclusive, the upper bound
// exclusive: 9.99 is a valid price, 99.99 is not.
const (
	MinPrice = 9.99
	MaxPrice = 99.99
)

// InPriceRange reports whether MinPrice <= p < MaxPrice.
func InPriceRange(p float64) bool {
	return p >= MinPrice && p < MaxPrice
}
