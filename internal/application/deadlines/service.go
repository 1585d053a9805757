// Package deadlines exposes the deadline computation operations consumed by
// the HTTP API and the CLI: one-off calculations, holiday calendar listings
// and calendar-file export.
package deadlines

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/LexDocket/internal/domain/calendar"
	"github.com/turtacn/LexDocket/internal/domain/docket"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexDocket/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/LexDocket/pkg/errors"
)

// JurisdictionLister enumerates jurisdictions with configured data, used by
// the holidays listing to help callers discover what is onboarded.
type JurisdictionLister interface {
	Jurisdictions() []string
}

// Service answers deadline computation requests.
type Service struct {
	calc     *docket.Calculator
	holidays calendar.Provider
	log      logging.Logger
	metrics  *prometheus.EngineMetrics
}

// NewService wires the computation service.
func NewService(calc *docket.Calculator, holidays calendar.Provider,
	log logging.Logger, metrics *prometheus.EngineMetrics) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopEngineMetrics()
	}
	return &Service{calc: calc, holidays: holidays, log: log.Named("deadlines"), metrics: metrics}
}

// ---------------------------------------------------------------------------
// Calculation
// ---------------------------------------------------------------------------

// CalculateRequest is the boundary DTO for a one-off deadline calculation.
// Dates arrive as ISO-8601 strings and enums as raw strings; everything is
// validated here before it reaches the calculator.
type CalculateRequest struct {
	TriggerDate    string `json:"triggerDate" binding:"required"`
	BaseDays       int    `json:"baseDays"`
	CountingMethod string `json:"countingMethod" binding:"required"`
	ServiceMethod  string `json:"serviceMethod" binding:"required"`
	Jurisdiction   string `json:"jurisdiction" binding:"required"`
}

// Calculate validates the request and runs one deadline computation.
func (s *Service) Calculate(req CalculateRequest) (*docket.CalculationResult, error) {
	start := time.Now()

	triggerDate, err := docket.ParseDate(req.TriggerDate)
	if err != nil {
		return nil, err
	}
	method, err := docket.ParseCountingMethod(req.CountingMethod)
	if err != nil {
		return nil, err
	}
	service, err := docket.ParseServiceMethod(req.ServiceMethod)
	if err != nil {
		return nil, err
	}

	result, err := s.calc.Calculate(docket.CalculationInput{
		TriggerDate:  triggerDate,
		BaseDays:     req.BaseDays,
		Method:       method,
		Service:      service,
		Jurisdiction: req.Jurisdiction,
	})
	if err != nil {
		s.metrics.CalculationsTotal.Inc(string(method), "error")
		return nil, err
	}

	s.metrics.CalculationsTotal.Inc(string(method), "success")
	s.metrics.CalculationDuration.Observe(time.Since(start).Seconds(), string(method))
	for _, gap := range result.ConfigGaps() {
		s.metrics.ConfigurationGapsTotal.Inc("calculation")
		s.log.Warn("configuration gap during calculation",
			logging.String("jurisdiction", req.Jurisdiction),
			logging.String("detail", gap))
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Holiday listing
// ---------------------------------------------------------------------------

// Holidays returns the holiday calendar for a jurisdiction and year.  Unlike
// calculation, which degrades gracefully on unknown jurisdictions, the
// listing endpoint reports them so operators can spot onboarding gaps.
func (s *Service) Holidays(jurisdiction string, year int) ([]calendar.Holiday, error) {
	if year < 1900 || year > 2200 {
		return nil, errors.Newf(errors.ErrCodeValidation, "year %d out of range", year)
	}
	if !s.holidays.Known(jurisdiction) {
		err := errors.Newf(errors.ErrCodeJurisdictionUnknown,
			"no holiday calendar configured for %q", jurisdiction)
		if lister, ok := s.holidays.(JurisdictionLister); ok {
			return nil, err.WithDetail("configured: " + strings.Join(lister.Jurisdictions(), ", "))
		}
		return nil, err
	}
	return s.holidays.HolidaysFor(jurisdiction, year), nil
}

// ---------------------------------------------------------------------------
// Calendar export
// ---------------------------------------------------------------------------

// ExportICal renders a trigger's deadlines as an iCalendar document for
// import into external calendar systems.  Output is deterministic for a
// given cascade state.
func (s *Service) ExportICal(trigger *docket.Trigger, deadlines []*docket.Deadline) []byte {
	sorted := make([]*docket.Deadline, len(deadlines))
	copy(sorted, deadlines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DeadlineDate.Before(sorted[j].DeadlineDate)
	})

	var b strings.Builder
	writeICalLine(&b, "BEGIN:VCALENDAR")
	writeICalLine(&b, "VERSION:2.0")
	writeICalLine(&b, "PRODID:-//LexDocket//Deadline Engine//EN")
	writeICalLine(&b, "CALSCALE:GREGORIAN")
	writeICalLine(&b, "METHOD:PUBLISH")

	for _, d := range sorted {
		if d.Status == docket.DeadlineCancelled {
			continue
		}
		writeICalLine(&b, "BEGIN:VEVENT")
		writeICalLine(&b, "UID:"+d.ID.String()+"@lexdocket")
		writeICalLine(&b, "DTSTAMP:"+d.UpdatedAt.UTC().Format("20060102T150405Z"))
		writeICalLine(&b, "DTSTART;VALUE=DATE:"+d.DeadlineDate.Format("20060102"))
		writeICalLine(&b, "SUMMARY:"+escapeICalText(d.Title))
		desc := fmt.Sprintf("Rule: %s. Trigger: %s on %s.",
			d.ApplicableRule, trigger.TriggerType, docket.FormatDate(trigger.TriggerDate))
		writeICalLine(&b, "DESCRIPTION:"+escapeICalText(desc))
		writeICalLine(&b, "CATEGORIES:"+strings.ToUpper(string(d.Priority)))
		writeICalLine(&b, "PRIORITY:"+icalPriority(d.Priority))
		writeICalLine(&b, "STATUS:CONFIRMED")
		writeICalLine(&b, "TRANSP:TRANSPARENT")
		writeICalLine(&b, "END:VEVENT")
	}

	writeICalLine(&b, "END:VCALENDAR")
	return []byte(b.String())
}

// writeICalLine appends a CRLF-terminated content line, folding at 75 octets
// per RFC 5545.  Continuation lines fold one octet earlier to stay within the
// limit after their leading space.
func writeICalLine(b *strings.Builder, line string) {
	const limit = 75
	width := limit
	for len(line) > width {
		b.WriteString(line[:width])
		b.WriteString("\r\n ")
		line = line[width:]
		width = limit - 1
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeICalText(s string) string {
	r := strings.NewReplacer("\\", "\\\\", ";", "\\;", ",", "\\,", "\n", "\\n")
	return r.Replace(s)
}

// icalPriority maps deadline priorities onto the 1..9 iCalendar scale.
func icalPriority(p docket.Priority) string {
	switch p {
	case docket.PriorityFatal:
		return "1"
	case docket.PriorityCritical:
		return "2"
	case docket.PriorityImportant:
		return "4"
	case docket.PriorityStandard:
		return "5"
	case docket.PriorityInformational:
		return "9"
	}
	return "5"
}
