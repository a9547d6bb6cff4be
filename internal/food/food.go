// Package food provides the food item data model for gorestaurant.
package food

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Item is a single plate on the menu as the backend represents it.
type Item struct {
	// ID is assigned by the server and never changes afterwards.
	ID int `json:"id" yaml:"id"`
	// Name is the display name of the plate.
	Name string `json:"name" yaml:"name"`
	// Image is the URL of the plate's picture.
	Image string `json:"image" yaml:"image"`
	// Price is kept as text, exactly as the backend stores it (e.g. "19.90").
	Price string `json:"price" yaml:"price"`
	// Description is free text shown under the name.
	Description string `json:"description" yaml:"description"`
	// Available reports whether the plate can currently be ordered.
	Available bool `json:"available" yaml:"available"`
}

// Draft is the payload of the add and edit forms. It carries no
// server-assigned fields.
type Draft struct {
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Description string `json:"description"`
}

// DraftOf returns the editable fields of an item.
func DraftOf(it Item) Draft {
	return Draft{
		Name:        it.Name,
		Image:       it.Image,
		Price:       it.Price,
		Description: it.Description,
	}
}

// Normalize returns a copy of the draft with surrounding whitespace removed.
func (d Draft) Normalize() Draft {
	return Draft{
		Name:        strings.TrimSpace(d.Name),
		Image:       strings.TrimSpace(d.Image),
		Price:       strings.TrimSpace(d.Price),
		Description: strings.TrimSpace(d.Description),
	}
}

// FieldError describes an invalid draft field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the draft before it is sent to the backend.
func (d Draft) Validate() error {
	d = d.Normalize()
	if d.Name == "" {
		return &FieldError{Field: "name", Message: "is required"}
	}
	if d.Price != "" {
		p, err := ParsePrice(d.Price)
		if err != nil {
			return &FieldError{Field: "price", Message: err.Error()}
		}
		if p < 0 {
			return &FieldError{Field: "price", Message: "must not be negative"}
		}
	}
	return nil
}

// ParsePrice parses a plain decimal price. A comma is accepted as the
// decimal separator ("19,90"). Exponents, hex floats, NaN and Inf are not
// prices.
func ParsePrice(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case i == 0 && (r == '-' || r == '+'):
		default:
			return 0, fmt.Errorf("%q is not a decimal number", s)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	return v, nil
}

// NewItem builds the body of a create request: the draft with availability
// forced on. The ID is left zero for the server to assign.
func NewItem(d Draft) Item {
	return Item{
		Name:        d.Name,
		Image:       d.Image,
		Price:       d.Price,
		Description: d.Description,
		Available:   true,
	}
}

// Merge applies the draft to the selected item. ID and availability are
// taken from the selected item.
func Merge(selected Item, d Draft) Item {
	return Item{
		ID:          selected.ID,
		Name:        d.Name,
		Image:       d.Image,
		Price:       d.Price,
		Description: d.Description,
		Available:   selected.Available,
	}
}

// FormatPrice renders a price for display, falling back to the raw text
// when it does not parse.
func FormatPrice(price string) string {
	if price == "" {
		return "-"
	}
	v, err := ParsePrice(price)
	if err != nil {
		return price
	}
	return fmt.Sprintf("$ %.2f", v)
}
