package docket

import (
	"fmt"
	"time"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
)

// AdvanceResult is the outcome of one date walk.
type AdvanceResult struct {
	// Landing is the final date after counting and final-day adjustment.
	Landing time.Time
	// Steps is the ordered audit trail of the walk, locally numbered from 1.
	Steps []AuditEntry
	// WeekendsSkipped counts distinct weekends skipped during the walk.  A
	// Saturday and the Sunday beside it count as one weekend.
	WeekendsSkipped int
	// HolidaysSkipped counts individual holiday dates skipped during the walk.
	HolidaysSkipped int
}

// Advance moves start by days under the given counting method.
//
// CALENDAR adds the days directly.  BUSINESS walks day by day skipping
// weekends, COURT skips weekends and holidays, and RETROGRADE is the COURT
// walk forced backward with the magnitude of days.  After counting, a landing
// date that is itself a non-judicial day under the method rolls forward, never
// backward, until it reaches a judicial day.
//
// days == 0 is idempotent: the start date is returned unchanged with no steps,
// even when it falls on a weekend or holiday.
func Advance(start time.Time, days int, method CountingMethod, holidays calendar.Set) AdvanceResult {
	start = NormalizeDate(start)
	if days == 0 {
		return AdvanceResult{Landing: start}
	}

	var log auditLog
	res := AdvanceResult{}

	switch method {
	case CountingCalendar:
		res.Landing = start.AddDate(0, 0, days)
		log.add(ActionAddBaseDays, fmt.Sprintf("added %d calendar days: %s -> %s",
			days, FormatDate(start), FormatDate(res.Landing)))

	case CountingBusiness, CountingCourt, CountingRetrograde:
		res.Landing = walk(start, days, method, holidays, &log, &res)

	default:
		// Unreachable for validated inputs; treat as calendar to stay total.
		res.Landing = start.AddDate(0, 0, days)
		log.add(ActionAddBaseDays, fmt.Sprintf("added %d calendar days: %s -> %s",
			days, FormatDate(start), FormatDate(res.Landing)))
	}

	adjustFinalDay(method, holidays, &log, &res)
	res.Steps = log.entries
	return res
}

// walk performs the day-by-day count for BUSINESS, COURT and RETROGRADE.
func walk(start time.Time, days int, method CountingMethod, holidays calendar.Set, log *auditLog, res *AdvanceResult) time.Time {
	dir := 1
	if days < 0 {
		dir = -1
	}
	if method == CountingRetrograde {
		dir = -1
	}
	n := days
	if n < 0 {
		n = -n
	}

	var lastWeekendSkipped time.Time
	cur := start
	counted := 0
	for counted < n {
		cur = cur.AddDate(0, 0, dir)
		if IsWeekend(cur) {
			log.add(ActionSkipWeekend, fmt.Sprintf("skipped %s (%s)", FormatDate(cur), cur.Weekday()))
			if lastWeekendSkipped.IsZero() || absDays(cur.Sub(lastWeekendSkipped)) > 1 {
				res.WeekendsSkipped++
			}
			lastWeekendSkipped = cur
			continue
		}
		if (method == CountingCourt || method == CountingRetrograde) && holidays.Contains(cur) {
			log.add(ActionSkipHoliday, fmt.Sprintf("skipped %s (%s)", FormatDate(cur), holidays.NameOf(cur)))
			res.HolidaysSkipped++
			continue
		}
		counted++
	}

	unit := "court"
	if method == CountingBusiness {
		unit = "business"
	}
	direction := "forward"
	if dir < 0 {
		direction = "backward"
	}
	log.add(ActionLanded, fmt.Sprintf("counted %d %s days %s: %s -> %s",
		n, unit, direction, FormatDate(start), FormatDate(cur)))
	return cur
}

// adjustFinalDay rolls the landing date forward off non-judicial days.
// BUSINESS counting treats only weekends as non-judicial; every other method
// also treats holidays as non-judicial.
func adjustFinalDay(method CountingMethod, holidays calendar.Set, log *auditLog, res *AdvanceResult) {
	skipHolidays := method != CountingBusiness
	for {
		switch {
		case IsWeekend(res.Landing):
			next := res.Landing.AddDate(0, 0, 1)
			log.add(ActionFinalDayAdjusted, fmt.Sprintf("deadline fell on %s (%s), rolled forward to %s",
				FormatDate(res.Landing), res.Landing.Weekday(), FormatDate(next)))
			res.Landing = next
		case skipHolidays && holidays.Contains(res.Landing):
			next := res.Landing.AddDate(0, 0, 1)
			log.add(ActionFinalDayAdjusted, fmt.Sprintf("deadline fell on %s (%s), rolled forward to %s",
				FormatDate(res.Landing), holidays.NameOf(res.Landing), FormatDate(next)))
			res.Landing = next
		default:
			return
		}
	}
}

func absDays(d time.Duration) int {
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}
