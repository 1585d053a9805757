// Package calendar produces the non-judicial day sets used by deadline
// arithmetic.  Holiday generation is a pure function of (jurisdiction, year):
// no wall clock, no randomness, safe for concurrent reads and caching.
package calendar

import (
	"sort"
	"time"
)

// Scope identifies the legal authority a holiday derives from.
type Scope string

const (
	ScopeFederal Scope = "FEDERAL"
	ScopeState   Scope = "STATE"
)

// Holiday is one non-judicial day in a jurisdiction's calendar.
type Holiday struct {
	Date  time.Time `json:"date"`
	Name  string    `json:"name"`
	Scope Scope     `json:"jurisdictionScope"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Generation rules
// ─────────────────────────────────────────────────────────────────────────────

// rule generates zero or one holiday for a given year.
type rule interface {
	generate(year int) Holiday
}

// fixedDate is a holiday on a fixed month/day.  When observed is true and the
// date falls on a weekend, the holiday shifts per federal convention:
// Saturday observes on the preceding Friday, Sunday on the following Monday.
type fixedDate struct {
	name     string
	month    time.Month
	day      int
	scope    Scope
	observed bool
}

func (r fixedDate) generate(year int) Holiday {
	d := time.Date(year, r.month, r.day, 0, 0, 0, 0, time.UTC)
	if r.observed {
		switch d.Weekday() {
		case time.Saturday:
			d = d.AddDate(0, 0, -1)
		case time.Sunday:
			d = d.AddDate(0, 0, 1)
		}
	}
	return Holiday{Date: d, Name: r.name, Scope: r.scope}
}

// nthWeekday is a floating holiday on the Nth given weekday of a month.
// n == -1 selects the last such weekday of the month.
type nthWeekday struct {
	name    string
	month   time.Month
	weekday time.Weekday
	n       int
	scope   Scope
}

func (r nthWeekday) generate(year int) Holiday {
	var d time.Time
	if r.n > 0 {
		first := time.Date(year, r.month, 1, 0, 0, 0, 0, time.UTC)
		offset := (int(r.weekday) - int(first.Weekday()) + 7) % 7
		d = first.AddDate(0, 0, offset+(r.n-1)*7)
	} else {
		last := time.Date(year, r.month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
		offset := (int(last.Weekday()) - int(r.weekday) + 7) % 7
		d = last.AddDate(0, 0, -offset)
	}
	return Holiday{Date: d, Name: r.name, Scope: r.scope}
}

// dayAfter derives a holiday one day after another rule's date, e.g. the day
// after Thanksgiving.  The 4th Friday of November is not always the day after
// the 4th Thursday, so the offset must be taken from the base rule.
type dayAfter struct {
	name string
	base rule
}

func (r dayAfter) generate(year int) Holiday {
	base := r.base.generate(year)
	return Holiday{Date: base.Date.AddDate(0, 0, 1), Name: r.name, Scope: base.Scope}
}

// ─────────────────────────────────────────────────────────────────────────────
// Jurisdiction calendars
// ─────────────────────────────────────────────────────────────────────────────

var federalRules = []rule{
	fixedDate{name: "New Year's Day", month: time.January, day: 1, scope: ScopeFederal, observed: true},
	nthWeekday{name: "Birthday of Martin Luther King, Jr.", month: time.January, weekday: time.Monday, n: 3, scope: ScopeFederal},
	nthWeekday{name: "Washington's Birthday", month: time.February, weekday: time.Monday, n: 3, scope: ScopeFederal},
	nthWeekday{name: "Memorial Day", month: time.May, weekday: time.Monday, n: -1, scope: ScopeFederal},
	fixedDate{name: "Juneteenth National Independence Day", month: time.June, day: 19, scope: ScopeFederal, observed: true},
	fixedDate{name: "Independence Day", month: time.July, day: 4, scope: ScopeFederal, observed: true},
	nthWeekday{name: "Labor Day", month: time.September, weekday: time.Monday, n: 1, scope: ScopeFederal},
	nthWeekday{name: "Columbus Day", month: time.October, weekday: time.Monday, n: 2, scope: ScopeFederal},
	fixedDate{name: "Veterans Day", month: time.November, day: 11, scope: ScopeFederal, observed: true},
	nthWeekday{name: "Thanksgiving Day", month: time.November, weekday: time.Thursday, n: 4, scope: ScopeFederal},
	fixedDate{name: "Christmas Day", month: time.December, day: 25, scope: ScopeFederal, observed: true},
}

// floridaRules covers the court holidays observed by Florida state courts.
// Florida courts do not close for Columbus Day but add the day after
// Thanksgiving.
var floridaRules = []rule{
	fixedDate{name: "New Year's Day", month: time.January, day: 1, scope: ScopeState, observed: true},
	nthWeekday{name: "Birthday of Martin Luther King, Jr.", month: time.January, weekday: time.Monday, n: 3, scope: ScopeState},
	nthWeekday{name: "Memorial Day", month: time.May, weekday: time.Monday, n: -1, scope: ScopeState},
	fixedDate{name: "Independence Day", month: time.July, day: 4, scope: ScopeState, observed: true},
	nthWeekday{name: "Labor Day", month: time.September, weekday: time.Monday, n: 1, scope: ScopeState},
	fixedDate{name: "Veterans Day", month: time.November, day: 11, scope: ScopeState, observed: true},
	nthWeekday{name: "Thanksgiving Day", month: time.November, weekday: time.Thursday, n: 4, scope: ScopeState},
	dayAfter{name: "Day After Thanksgiving", base: nthWeekday{name: "Thanksgiving Day", month: time.November, weekday: time.Thursday, n: 4, scope: ScopeState}},
	fixedDate{name: "Christmas Day", month: time.December, day: 25, scope: ScopeState, observed: true},
}

var jurisdictionRules = map[string][]rule{
	"federal":       federalRules,
	"florida_state": floridaRules,
}

// ─────────────────────────────────────────────────────────────────────────────
// Provider
// ─────────────────────────────────────────────────────────────────────────────

// Provider produces the holiday calendar for a jurisdiction and year.
type Provider interface {
	// HolidaysFor returns the date-ordered holidays for the jurisdiction and
	// year.  An unknown jurisdiction yields an empty, non-nil slice: a missing
	// holiday set must never block a filing, so the gap is surfaced as a
	// warning by callers rather than an error here.
	HolidaysFor(jurisdiction string, year int) []Holiday

	// Known reports whether the jurisdiction has a configured holiday calendar.
	Known(jurisdiction string) bool
}

// RuleProvider generates holidays from the built-in jurisdiction rule tables.
type RuleProvider struct{}

// NewRuleProvider returns the standard rule-based holiday provider.
func NewRuleProvider() *RuleProvider { return &RuleProvider{} }

func (p *RuleProvider) HolidaysFor(jurisdiction string, year int) []Holiday {
	rules, ok := jurisdictionRules[jurisdiction]
	if !ok {
		return []Holiday{}
	}
	out := make([]Holiday, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.generate(year))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (p *RuleProvider) Known(jurisdiction string) bool {
	_, ok := jurisdictionRules[jurisdiction]
	return ok
}

// Jurisdictions lists the jurisdictions with configured calendars, sorted.
func (p *RuleProvider) Jurisdictions() []string {
	out := make([]string, 0, len(jurisdictionRules))
	for j := range jurisdictionRules {
		out = append(out, j)
	}
	sort.Strings(out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Set — fast date membership built from a holiday list
// ─────────────────────────────────────────────────────────────────────────────

// Set is a date-indexed view over a holiday list, used by the arithmetic core
// for O(1) membership checks during day walks.
type Set struct {
	byDate map[time.Time]string
}

// NewSet builds a Set from one or more holiday lists.
func NewSet(lists ...[]Holiday) Set {
	byDate := make(map[time.Time]string)
	for _, list := range lists {
		for _, h := range list {
			byDate[h.Date] = h.Name
		}
	}
	return Set{byDate: byDate}
}

// Contains reports whether the date is a holiday in the set.
func (s Set) Contains(date time.Time) bool {
	_, ok := s.byDate[date]
	return ok
}

// NameOf returns the holiday name for the date, or "" if not a holiday.
func (s Set) NameOf(date time.Time) string {
	return s.byDate[date]
}

// Len returns the number of distinct holiday dates in the set.
func (s Set) Len() int { return len(s.byDate) }
