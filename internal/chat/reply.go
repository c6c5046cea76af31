package chat

import (
	"fmt"
	"strings"

	"menuchat/internal/restaurant"
)

const fallbackText = "Sorry, I can't fully answer that right now."

// Reply is what the customer sees. Degraded marks a fallback answer given
// because the model call failed.
type Reply struct {
	Text     string `json:"reply"`
	Degraded bool   `json:"-"`
}

// BuildReply returns the model text as is, or a fallback pointing the
// customer at the restaurant's phone and link when the call failed.
func BuildReply(text string, err error, rec *restaurant.Record) Reply {
	if err == nil && strings.TrimSpace(text) != "" {
		return Reply{Text: text}
	}
	return Reply{Text: fallbackText + contactClause(rec), Degraded: true}
}

func contactClause(rec *restaurant.Record) string {
	if rec == nil {
		return ""
	}
	phone := strings.TrimSpace(rec.Phone)
	link := rec.PrimaryLink()

	switch {
	case phone != "" && link != "":
		return fmt.Sprintf(" Please call us at %s or visit %s.", phone, link)
	case phone != "":
		return fmt.Sprintf(" Please call us at %s.", phone)
	case link != "":
		return fmt.Sprintf(" You can also visit %s.", link)
	default:
		return ""
	}
}
