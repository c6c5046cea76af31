package offers

import (
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout       = "2006-01-02"
	defaultStartTime = "00:00"
	defaultEndTime   = "23:59"
)

// IsActive reports whether o applies at now.
//
// Checks run in order: date window, weekday, time of day. Windows that cross
// midnight (end before start) are not supported and never match.
func IsActive(o Offer, now time.Time) bool {
	today := now.Format(dateLayout)
	if o.StartDate != "" && today < o.StartDate {
		return false
	}
	if o.EndDate != "" && today > o.EndDate {
		return false
	}

	if len(o.DaysOfWeek) > 0 && !containsDay(o.DaysOfWeek, int(now.Weekday())) {
		return false
	}

	if o.StartTime != "" || o.EndTime != "" {
		start, end := o.StartTime, o.EndTime
		if start == "" {
			start = defaultStartTime
		}
		if end == "" {
			end = defaultEndTime
		}

		current := now.Hour()*60 + now.Minute()

		// An unparseable bound imposes no constraint.
		if m, ok := minutesSinceMidnight(start); ok && current < m {
			return false
		}
		if m, ok := minutesSinceMidnight(end); ok && current > m {
			return false
		}
	}

	return true
}

// Active returns the offers active at now, in their original order.
func Active(all []Offer, now time.Time) []Offer {
	active := make([]Offer, 0, len(all))
	for _, o := range all {
		if IsActive(o, now) {
			active = append(active, o)
		}
	}
	return active
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

func minutesSinceMidnight(hhmm string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return h*60 + m, true
}
