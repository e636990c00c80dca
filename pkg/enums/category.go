package enums

import "strings"

// Category is a canonical clothing slot used by the outfit picker. Items may
// carry any free-text category; only these three participate in suggestions.
type Category string

const (
	CategoryTop    Category = "top"
	CategoryBottom Category = "bottom"
	CategoryShoes  Category = "shoes"
)

// OutfitSlots lists the categories an outfit suggestion draws from, in order.
func OutfitSlots() []Category {
	return []Category{CategoryTop, CategoryBottom, CategoryShoes}
}

// Matches reports whether the free-text category fills this slot.
func (c Category) Matches(raw string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), string(c))
}

func (c Category) String() string {
	return string(c)
}
