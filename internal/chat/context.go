package chat

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"menuchat/internal/offers"
	"menuchat/internal/restaurant"
)

// Context is the data snapshot the model answers from: every record field
// plus the offers active at the time of the request.
type Context struct {
	Record       *restaurant.Record
	ActiveOffers []offers.Offer
}

func BuildContext(rec *restaurant.Record, now time.Time) Context {
	return Context{
		Record:       rec,
		ActiveOffers: offers.Active(rec.Offers, now),
	}
}

func (c Context) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(c.Record)
	if err != nil {
		return nil, eris.Wrap(err, "encode restaurant")
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, eris.Wrap(err, "flatten restaurant")
	}

	active, err := json.Marshal(c.ActiveOffers)
	if err != nil {
		return nil, eris.Wrap(err, "encode active offers")
	}
	fields["activeOffers"] = active

	return json.Marshal(fields)
}
