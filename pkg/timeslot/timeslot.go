package timeslot

import (
	"errors"
	"strings"
	"time"
)

// Canonical is the wall-clock layout every stored appointment time uses,
// e.g. "09:30 AM". Conflict checks compare these strings byte for byte,
// so every accepted input must normalize through here first.
const Canonical = "03:04 PM"

// ErrMalformedTime is returned when the input cannot be parsed as a
// wall-clock time.
var ErrMalformedTime = errors.New("malformed time")

// inputLayouts are the accepted request formats, tried in order.
var inputLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"15:04",
}

// Normalize parses free-form time text and returns the canonical
// fixed-width representation. Case and surrounding whitespace are
// ignored: "10:00 am", "10:00 AM" and " 10:00 AM " all normalize to
// "10:00 AM".
func Normalize(text string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(text))
	for _, layout := range inputLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.Format(Canonical), nil
		}
	}
	return "", ErrMalformedTime
}
