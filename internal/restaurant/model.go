package restaurant

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"menuchat/internal/menu"
	"menuchat/internal/offers"
)

// Record is everything stored for one restaurant, keyed by ID.
type Record struct {
	ID               string            `json:"id"`
	Name             string            `json:"name,omitempty"`
	Address          string            `json:"address,omitempty"`
	Phone            string            `json:"phone,omitempty"`
	Email            string            `json:"email,omitempty"`
	Hours            map[string]string `json:"hours,omitempty"`
	GoogleMapsURL    string            `json:"googleMapsUrl,omitempty"`
	GoogleReviewLink string            `json:"googleReviewLink,omitempty"`
	OrderingLinks    []OrderingLink    `json:"orderingLinks,omitempty"`

	Menu   []menu.Category   `json:"menu"`
	Offers []offers.Offer    `json:"offers"`
	FAQ    []json.RawMessage `json:"faq"`

	MetaSourceURL   string `json:"metaSourceUrl,omitempty"`
	MenuSourceURL   string `json:"menuSourceUrl,omitempty"`
	OffersSourceURL string `json:"offersSourceUrl,omitempty"`

	// Extra holds top-level keys this type does not model. They are kept
	// and written back untouched.
	Extra map[string]json.RawMessage `json:"-"`
}

type OrderingLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

var knownKeys = map[string]bool{
	"id": true, "name": true, "address": true, "phone": true, "email": true,
	"hours": true, "googleMapsUrl": true, "googleReviewLink": true,
	"orderingLinks": true, "menu": true, "offers": true, "faq": true,
	"metaSourceUrl": true, "menuSourceUrl": true, "offersSourceUrl": true,
}

// canonicalKey maps a top-level key onto the field encoding/json would
// decode it into. Field matching there is case-insensitive.
func canonicalKey(k string) (string, bool) {
	if knownKeys[k] {
		return k, true
	}
	for known := range knownKeys {
		if strings.EqualFold(k, known) {
			return known, true
		}
	}
	return k, false
}

// NewRecord returns the empty record an unseen id starts from.
func NewRecord(id string) *Record {
	return &Record{
		ID:     id,
		Menu:   []menu.Category{},
		Offers: []offers.Offer{},
		FAQ:    []json.RawMessage{},
	}
}

type recordFields Record

func (r Record) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(recordFields(r))
	if err != nil || len(r.Extra) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		if _, known := canonicalKey(k); !known {
			fields[k] = v
		}
	}
	return json.Marshal(fields)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var fields recordFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for k, v := range all {
		if _, known := canonicalKey(k); known {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = make(map[string]json.RawMessage)
		}
		fields.Extra[k] = v
	}

	*r = Record(fields)
	return nil
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Menu = menu.Clone(r.Menu)
	c.Offers = offers.Clone(r.Offers)
	c.FAQ = slices.Clone(r.FAQ)
	c.OrderingLinks = slices.Clone(r.OrderingLinks)
	if r.Hours != nil {
		c.Hours = make(map[string]string, len(r.Hours))
		for k, v := range r.Hours {
			c.Hours[k] = v
		}
	}
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// PrimaryLink is the link offered to customers when a question can't be
// answered: the maps URL, else the first ordering link.
func (r *Record) PrimaryLink() string {
	if r.GoogleMapsURL != "" {
		return r.GoogleMapsURL
	}
	for _, l := range r.OrderingLinks {
		if l.URL != "" {
			return l.URL
		}
	}
	return ""
}

func (r *Record) normalize() {
	if r.Menu == nil {
		r.Menu = []menu.Category{}
	}
	if r.Offers == nil {
		r.Offers = []offers.Offer{}
	}
	if r.FAQ == nil {
		r.FAQ = []json.RawMessage{}
	}
}

func sameJSON(a, b *Record) bool {
	x, err := json.Marshal(a)
	if err != nil {
		return false
	}
	y, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(x, y)
}
