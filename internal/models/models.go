package models

// Product categories
const (
	CategorySleep    = "Sleep"
	CategoryRecovery = "Recovery"
	CategoryBeauty   = "Beauty"
	CategoryLighting = "Lighting"
	CategoryEMF      = "EMF"
	CategoryGlasses  = "Glasses"
)

// Product badges
const (
	BadgeSave       = "Save"
	BadgeBestseller = "Bestseller"
	BadgeNew        = "New"
	BadgeStaffPick  = "Staff Pick"
)

// Cart line kinds
const (
	KindProduct = "product"
	KindBundle  = "bundle"
)

// Product represents a catalog product. Prices are whole currency units.
// CompareAtPrice, Rating and ReviewsCount are optional; the zero value
// means absent.
type Product struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Subtitle       string   `json:"subtitle,omitempty"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	Price          int64    `json:"price"`
	CompareAtPrice int64    `json:"compareAtPrice,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	ReviewsCount   int      `json:"reviewsCount,omitempty"`
	Image          string   `json:"image"`
	Badge          string   `json:"badge,omitempty"`
	ShortBenefit   string   `json:"shortBenefit"`
	Description    string   `json:"description,omitempty"`
	Features       []string `json:"features,omitempty"`
}

// Bundle represents a promotional bundle referencing products by id.
// Item ids that do not resolve are dropped from derived product lists,
// never treated as errors.
type Bundle struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Items          []string `json:"items"`
	Price          int64    `json:"price"`
	CompareAtPrice int64    `json:"compareAtPrice"`
	SavingsLabel   string   `json:"savingsLabel,omitempty"`
	Image          string   `json:"image"`
	Tags           []string `json:"tags"`
	Featured       bool     `json:"featured,omitempty"`
}

// CartLine is one cart entry, keyed by the referenced product or bundle id.
// Exactly one of Product or Bundle is set, matching Kind. The snapshot is
// captured at add time and is not refreshed from the catalog afterwards.
type CartLine struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Quantity int      `json:"quantity"`
	Product  *Product `json:"product,omitempty"`
	Bundle   *Bundle  `json:"bundle,omitempty"`
}

// UnitPrice returns the snapshot price of the underlying item.
func (l CartLine) UnitPrice() int64 {
	switch l.Kind {
	case KindProduct:
		if l.Product != nil {
			return l.Product.Price
		}
	case KindBundle:
		if l.Bundle != nil {
			return l.Bundle.Price
		}
	}
	return 0
}

// UnitSavings returns compareAtPrice minus price for the snapshot, or 0
// when the snapshot carries no compare-at price.
func (l CartLine) UnitSavings() int64 {
	switch l.Kind {
	case KindProduct:
		if l.Product != nil && l.Product.CompareAtPrice > 0 {
			return l.Product.CompareAtPrice - l.Product.Price
		}
	case KindBundle:
		if l.Bundle != nil && l.Bundle.CompareAtPrice > 0 {
			return l.Bundle.CompareAtPrice - l.Bundle.Price
		}
	}
	return 0
}
