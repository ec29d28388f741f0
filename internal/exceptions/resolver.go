package exceptions

import (
	"time"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
)

type Resolver struct {
	store *Store
	now   time.Time
}

var _ domain.ExceptionResolver = (*Resolver)(nil)

func (r *Resolver) Now() time.Time {
	return r.now
}

// Resolve returns the first active entry covering ruleID and target, checking
// each tier in precedence order and the wildcard before the exact target.
// A wildcard target only matches wildcard entries.
func (r *Resolver) Resolve(ruleID, target string) (*Entry, bool) {
	if r == nil || r.store == nil {
		return nil, false
	}
	for _, t := range r.store.tables {
		if e := firstActive(t.wildcard[ruleID], r.now); e != nil {
			return e, true
		}
		if target == domain.Wildcard {
			continue
		}
		if e := firstActive(t.byTarget[ruleID][target], r.now); e != nil {
			return e, true
		}
	}
	return nil, false
}

func (r *Resolver) IsExcepted(ruleID, target string) bool {
	_, ok := r.Resolve(ruleID, target)
	return ok
}

func firstActive(entries []*Entry, now time.Time) *Entry {
	for _, e := range entries {
		if e.ActiveAt(now) {
			cp := *e
			return &cp
		}
	}
	return nil
}
