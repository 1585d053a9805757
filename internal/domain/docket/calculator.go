package docket

import (
	"fmt"
	"time"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/pkg/errors"
)

// maxBaseDays bounds the day count a single calculation may walk.  Procedural
// rules top out at a few years; anything beyond this is a malformed template.
const maxBaseDays = 3660

// CalculationInput carries everything one deadline computation needs.
type CalculationInput struct {
	TriggerDate  time.Time
	BaseDays     int
	Method       CountingMethod
	Service      ServiceMethod
	Jurisdiction string
}

// CalculationResult is the full outcome of one deadline computation, including
// the ordered audit trail required for legal defensibility.
type CalculationResult struct {
	TriggerDate      time.Time      `json:"triggerDate"`
	DeadlineDate     time.Time      `json:"deadlineDate"`
	BaseDays         int            `json:"baseDays"`
	ServiceDaysAdded int            `json:"serviceDaysAdded"`
	WeekendsSkipped  int            `json:"weekendsSkipped"`
	HolidaysSkipped  int            `json:"holidaysSkipped"`
	CountingMethod   CountingMethod `json:"countingMethod"`
	AuditLog         []AuditEntry   `json:"auditLog"`
}

// ConfigGaps returns the audit notes of configuration-gap steps, so callers
// can surface warnings without re-deriving them.
func (r *CalculationResult) ConfigGaps() []string {
	var out []string
	for _, e := range r.AuditLog {
		if e.Action == ActionConfigGap {
			out = append(out, e.Notes)
		}
	}
	return out
}

// Calculator computes deadlines from trigger dates.  It is pure: two calls
// with identical inputs produce identical results, audit text included.
type Calculator struct {
	holidays   calendar.Provider
	extensions ExtensionResolver
}

// NewCalculator wires a calculator from its two lookup collaborators.
func NewCalculator(holidays calendar.Provider, extensions ExtensionResolver) *Calculator {
	return &Calculator{holidays: holidays, extensions: extensions}
}

// Calculate runs one deadline computation.
//
// The audit log is assembled in a fixed order: trigger recording, service
// extension resolution (with any configuration-gap warnings), the arithmetic
// walk, and final-day adjustment, renumbered into one sequence.
func (c *Calculator) Calculate(in CalculationInput) (*CalculationResult, error) {
	if err := c.validate(in); err != nil {
		return nil, err
	}
	start := NormalizeDate(in.TriggerDate)

	var log auditLog
	log.add(ActionRecordTrigger, fmt.Sprintf("trigger date %s (%s), base days %d, method %s, service %s, jurisdiction %s",
		FormatDate(start), start.Weekday(), in.BaseDays, in.Method, in.Service, in.Jurisdiction))

	if !c.holidays.Known(in.Jurisdiction) && in.Method != CountingBusiness {
		log.add(ActionConfigGap, fmt.Sprintf("no holiday calendar configured for %q, proceeding without holiday skips",
			in.Jurisdiction))
	}

	ext, total := 0, in.BaseDays
	if in.Service != ServicePersonal {
		days, known := c.extensions.Extension(in.Jurisdiction, in.Service)
		if !known {
			log.add(ActionConfigGap, fmt.Sprintf("no service extension table configured for %q, adding 0 days for %s",
				in.Jurisdiction, in.Service))
		}
		if days > 0 {
			ext = days
			// An extension lengthens the time allowed regardless of the
			// counting direction.
			if in.BaseDays < 0 {
				total -= days
			} else {
				total += days
			}
			log.add(ActionAddServiceDays, fmt.Sprintf("service by %s adds %d days: %d -> %d total days",
				in.Service, days, in.BaseDays, total))
		}
	}

	holidaySet := c.holidaySetFor(in.Jurisdiction, start, total)
	adv := Advance(start, total, in.Method, holidaySet)
	log.extend(adv.Steps)

	return &CalculationResult{
		TriggerDate:      start,
		DeadlineDate:     adv.Landing,
		BaseDays:         in.BaseDays,
		ServiceDaysAdded: ext,
		WeekendsSkipped:  adv.WeekendsSkipped,
		HolidaysSkipped:  adv.HolidaysSkipped,
		CountingMethod:   in.Method,
		AuditLog:         log.entries,
	}, nil
}

func (c *Calculator) validate(in CalculationInput) error {
	if in.TriggerDate.IsZero() {
		return errors.New(errors.ErrCodeInvalidDate, "trigger date is required")
	}
	if !in.Method.Valid() {
		return errors.Newf(errors.ErrCodeValidation, "unknown counting method %q", in.Method)
	}
	if !in.Service.Valid() {
		return errors.Newf(errors.ErrCodeValidation, "unknown service method %q", in.Service)
	}
	if in.Jurisdiction == "" {
		return errors.New(errors.ErrCodeValidation, "jurisdiction is required")
	}
	if in.BaseDays > maxBaseDays || in.BaseDays < -maxBaseDays {
		return errors.Newf(errors.ErrCodeInvalidDayCount, "base days %d out of range [%d, %d]",
			in.BaseDays, -maxBaseDays, maxBaseDays)
	}
	return nil
}

// holidaySetFor builds a membership set covering every year the walk can
// touch.  The span doubles the day count to account for skipped days and pads
// for the final-day adjustment.
func (c *Calculator) holidaySetFor(jurisdiction string, start time.Time, days int) calendar.Set {
	span := days
	if span < 0 {
		span = -span
	}
	span = span*2 + 14

	from := start.AddDate(0, 0, -span).Year()
	to := start.AddDate(0, 0, span).Year()
	lists := make([][]calendar.Holiday, 0, to-from+1)
	for y := from; y <= to; y++ {
		lists = append(lists, c.holidays.HolidaysFor(jurisdiction, y))
	}
	return calendar.NewSet(lists...)
}
