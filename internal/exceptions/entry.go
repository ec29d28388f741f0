package exceptions

import (
	"fmt"
	"strings"
	"time"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

// Entry is a stored waiver together with its provenance. An entry with a
// non-empty Problem is malformed and never suppresses anything.
type Entry struct {
	domain.ExceptionRecord
	Tier      domain.Tier
	Source    string
	Index     int
	ExpiresAt time.Time
	Problem   string
}

func (e Entry) Valid() bool {
	return e.Problem == ""
}

// ActiveAt reports whether the entry suppresses findings at now.
func (e Entry) ActiveAt(now time.Time) bool {
	return e.Valid() && !now.After(e.ExpiresAt)
}

func (e Entry) ExpiredAt(now time.Time) bool {
	return e.Valid() && now.After(e.ExpiresAt)
}

// Location identifies the record inside its source document.
func (e Entry) Location() string {
	src := e.Source
	if src == "" {
		src = "<inline>"
	}
	return fmt.Sprintf("%s[%d]", src, e.Index)
}

const endOfDay = 24*time.Hour - time.Second

// ParseExpiry returns the last instant (23:59:59 UTC) at which a record
// expiring on the given calendar date is still valid.
func ParseExpiry(value string) (time.Time, error) {
	day, err := time.ParseInLocation(domain.ExpiryLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("expires %q is not a YYYY-MM-DD date", value)
	}
	return day.Add(endOfDay), nil
}
