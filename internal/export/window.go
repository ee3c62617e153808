package export

import (
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// Window is the inclusive epoch-second range defining which messages
// qualify for export.
type Window struct {
	Oldest int64
	Latest int64
	Label  string
}

// WindowForDates derives a window from a calendar date or date range in the
// given zone: from the first date's local midnight through the last second
// of the last date.
func WindowForDates(from, to string, loc *time.Location) (Window, error) {
	if to == "" {
		to = from
	}
	start, err := time.ParseInLocation(dateLayout, from, loc)
	if err != nil {
		return Window{}, errors.Wrapf(err, "invalid date %q", from)
	}
	end, err := time.ParseInLocation(dateLayout, to, loc)
	if err != nil {
		return Window{}, errors.Wrapf(err, "invalid date %q", to)
	}
	if end.Before(start) {
		return Window{}, errors.Errorf("date range %s to %s is inverted", from, to)
	}

	label := from
	if to != from {
		label = from + " to " + to
	}
	return Window{
		Oldest: start.Unix(),
		Latest: end.AddDate(0, 0, 1).Add(-time.Second).Unix(),
		Label:  label,
	}, nil
}
