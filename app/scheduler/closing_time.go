package scheduler

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joefazee/wagerbook/models"
)

var closingToken = regexp.MustCompile(`^([01]?\d|2[0-3])[hH]([0-5]\d)$`)

// ParseClosingTime reads a local "HHhMM" token such as "21h30" in loc. A
// time of day that has already passed today rolls over to tomorrow.
func ParseClosingTime(token string, now time.Time, loc *time.Location) (time.Time, error) {
	parts := closingToken.FindStringSubmatch(strings.TrimSpace(token))
	if parts == nil {
		return time.Time{}, models.ErrInvalidClosingTime
	}
	hour, _ := strconv.Atoi(parts[1])
	minute, _ := strconv.Atoi(parts[2])

	local := now.In(loc)
	closing := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !closing.After(local) {
		closing = time.Date(local.Year(), local.Month(), local.Day()+1, hour, minute, 0, 0, loc)
	}
	return closing, nil
}
