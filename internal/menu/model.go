package menu

import (
	"bytes"
	"encoding/json"
	"slices"
)

// Category is a named group of menu items. Names are compared
// case-insensitively; that is the only identity a category has.
type Category struct {
	Category string `json:"category"`
	Items    []Item `json:"items"`
}

// Item is identified within its category by a case-insensitive name.
type Item struct {
	Name  string `json:"name"`
	Price Price  `json:"price"`
	Notes string `json:"notes"`
	Image string `json:"image,omitempty"`
}

// Price is a free-form display price such as "$12.50".
// Extraction sometimes yields bare numbers, which are kept as their literal text.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Price(n.String())
	return nil
}

// Clone deep-copies a menu so the result shares no slices with in.
func Clone(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = Category{Category: c.Category, Items: slices.Clone(c.Items)}
	}
	return out
}
