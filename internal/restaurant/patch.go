package restaurant

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"menuchat/internal/core"
	"menuchat/internal/menu"
	"menuchat/internal/offers"
)

// Patch is a partial update to a Record.
//
// Menu and Offers are only applied when present as lists. Replace and
// ReplaceOffers switch them from merge/append to full replacement; the flags
// themselves are never stored. Every other key overwrites the record field of
// the same name.
type Patch struct {
	Menu          []menu.Category
	HasMenu       bool
	Offers        []offers.Offer
	HasOffers     bool
	Replace       bool
	ReplaceOffers bool

	Fields map[string]json.RawMessage
}

func MenuPatch(m []menu.Category, replace bool) Patch {
	return Patch{Menu: m, HasMenu: true, Replace: replace}
}

func OffersPatch(o []offers.Offer, replace bool) Patch {
	return Patch{Offers: o, HasOffers: true, ReplaceOffers: replace}
}

// FieldsPatch builds a shallow-overwrite patch from decoded top-level fields.
func FieldsPatch(fields map[string]json.RawMessage) Patch {
	var p Patch
	for k, v := range fields {
		p.set(k, v)
	}
	return p
}

// SetField overwrites a single top-level field.
func (p *Patch) SetField(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "encode field %q", key)
	}
	p.set(key, raw)
	return nil
}

func (p *Patch) set(key string, raw json.RawMessage) {
	key, _ = canonicalKey(key)

	switch {
	case key == "id":
		// the storage key always wins
	case strings.EqualFold(key, "replace"):
		p.Replace = truthy(raw)
	case strings.EqualFold(key, "replaceOffers"):
		p.ReplaceOffers = truthy(raw)
	default:
		if p.Fields == nil {
			p.Fields = make(map[string]json.RawMessage)
		}
		p.Fields[key] = raw
	}
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Patch{}
	for k, v := range raw {
		k, _ = canonicalKey(k)

		switch k {
		case "menu":
			if isList(v) {
				if err := json.Unmarshal(v, &p.Menu); err != nil {
					return eris.Wrap(err, "decode menu")
				}
				p.HasMenu = true
			}
		case "offers":
			if isList(v) {
				if err := json.Unmarshal(v, &p.Offers); err != nil {
					return eris.Wrap(err, "decode offers")
				}
				p.HasOffers = true
			}
		default:
			p.set(k, v)
		}
	}
	return nil
}

// Apply computes the record that results from applying p to existing.
// existing is not modified; on error nothing has changed.
func Apply(existing *Record, p Patch) (*Record, error) {
	next := existing.Clone()

	if len(p.Fields) > 0 {
		merged, err := overwriteFields(next, p.Fields)
		if err != nil {
			return nil, err
		}
		next = merged
	}
	next.ID = existing.ID

	// Menu and offers resolve against the existing record, not the patch fields.
	if p.HasMenu {
		if p.Replace {
			next.Menu = menu.Clone(p.Menu)
		} else {
			next.Menu = menu.Merge(existing.Menu, p.Menu)
		}
	} else {
		next.Menu = menu.Clone(existing.Menu)
	}

	if p.HasOffers {
		if p.ReplaceOffers {
			next.Offers = offers.Clone(p.Offers)
		} else {
			next.Offers = append(offers.Clone(existing.Offers), offers.Clone(p.Offers)...)
		}
	} else {
		next.Offers = offers.Clone(existing.Offers)
	}

	next.normalize()
	return next, nil
}

func overwriteFields(r *Record, fields map[string]json.RawMessage) (*Record, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, eris.Wrap(err, "encode record")
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, eris.Wrap(err, "decode record")
	}
	for k, v := range fields {
		all[k] = v
	}

	merged, err := json.Marshal(all)
	if err != nil {
		return nil, eris.Wrap(err, "encode patched record")
	}
	var out Record
	if err := json.Unmarshal(merged, &out); err != nil {
		return nil, eris.Wrap(core.ErrValidation, "patch field has the wrong type: "+err.Error())
	}
	return &out, nil
}

func isList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// truthy follows loose flag semantics: anything but false, 0, "", null is set.
func truthy(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "", "false", "null", "0", `""`:
		return false
	}
	return true
}
