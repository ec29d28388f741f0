package exceptions

import (
	"time"

	"github.com/olusolaa/infra-policy-gate/internal/core/domain"
	"github.com/olusolaa/infra-policy-gate/internal/errors"
)

type tierTable struct {
	tier     domain.Tier
	entries  []*Entry
	wildcard map[string][]*Entry
	byTarget map[string]map[string][]*Entry
}

func newTierTable(tier domain.Tier) *tierTable {
	return &tierTable{
		tier:     tier,
		wildcard: make(map[string][]*Entry),
		byTarget: make(map[string]map[string][]*Entry),
	}
}

func (t *tierTable) add(e *Entry) {
	t.entries = append(t.entries, e)
	if !e.Valid() {
		return
	}
	if e.Resource == domain.Wildcard {
		t.wildcard[e.Rule] = append(t.wildcard[e.Rule], e)
		return
	}
	targets, ok := t.byTarget[e.Rule]
	if !ok {
		targets = make(map[string][]*Entry)
		t.byTarget[e.Rule] = targets
	}
	targets[e.Resource] = append(targets[e.Resource], e)
}

// Store keeps one lookup table per tier. It is immutable once built.
type Store struct {
	tables []*tierTable
}

// NewStore builds the tier tables from raw documents. Several documents may
// feed the same tier; their records keep document order. Malformed records are
// stored inert with their problem recorded.
func NewStore(docs ...domain.ExceptionDocument) (*Store, error) {
	s := &Store{tables: make([]*tierTable, 0, len(domain.Tiers))}
	byTier := make(map[domain.Tier]*tierTable, len(domain.Tiers))
	for _, tier := range domain.Tiers {
		t := newTierTable(tier)
		s.tables = append(s.tables, t)
		byTier[tier] = t
	}

	for _, doc := range docs {
		table, ok := byTier[doc.Tier]
		if !ok {
			return nil, errors.Newf(errors.CodeExceptionParseError, "unknown exception tier %q", doc.Tier)
		}
		for i, raw := range doc.Records {
			table.add(newEntry(doc, i, raw))
		}
	}
	return s, nil
}

// Empty returns a store with no records.
func Empty() *Store {
	s, _ := NewStore()
	return s
}

func newEntry(doc domain.ExceptionDocument, index int, raw any) *Entry {
	e := &Entry{Tier: doc.Tier, Source: doc.Source, Index: index}
	rec, err := decodeRecord(raw)
	e.ExceptionRecord = rec
	if err != nil {
		e.Problem = err.Error()
		return e
	}
	expiresAt, err := ParseExpiry(rec.Expires)
	if err != nil {
		e.Problem = err.Error()
		return e
	}
	e.ExpiresAt = expiresAt
	return e
}

// Entries returns every stored entry, organization tier first, each tier in
// document order.
func (s *Store) Entries() []Entry {
	if s == nil {
		return nil
	}
	var out []Entry
	for _, t := range s.tables {
		for _, e := range t.entries {
			out = append(out, *e)
		}
	}
	return out
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, t := range s.tables {
		n += len(t.entries)
	}
	return n
}

// UnknownRules returns well-formed entries whose rule is not known.
func (s *Store) UnknownRules(known func(ruleID string) bool) []Entry {
	var out []Entry
	for _, e := range s.Entries() {
		if e.Valid() && !known(e.Rule) {
			out = append(out, e)
		}
	}
	return out
}

// ResolverAt binds the store to one evaluation instant so that repeated
// lookups during a run always agree.
func (s *Store) ResolverAt(now time.Time) *Resolver {
	return &Resolver{store: s, now: now.UTC()}
}
