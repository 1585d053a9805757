package docket

// AuditAction is the machine-readable tag on a calculation audit step.
// Downstream consumers (UI, compliance export) branch on these tags instead of
// parsing prose.
type AuditAction string

const (
	ActionRecordTrigger    AuditAction = "RECORD_TRIGGER"
	ActionAddServiceDays   AuditAction = "ADD_SERVICE_DAYS"
	ActionAddBaseDays      AuditAction = "ADD_BASE_DAYS"
	ActionSkipWeekend      AuditAction = "SKIP_WEEKEND"
	ActionSkipHoliday      AuditAction = "SKIP_HOLIDAY"
	ActionFinalDayAdjusted AuditAction = "FINAL_DAY_ADJUSTED"
	ActionLanded           AuditAction = "LANDED"
	ActionConfigGap        AuditAction = "CONFIG_GAP"
)

// AuditEntry is one step of a calculation audit log.  Steps are strictly
// increasing 1-based integers; the log is append-only and fully reproducible
// from the same inputs.
type AuditEntry struct {
	Step   int         `json:"step"`
	Action AuditAction `json:"action"`
	Notes  string      `json:"notes"`
}

// auditLog accumulates entries and assigns step numbers on append, so that
// interleaved contributions from the calculator and the arithmetic core come
// out sequentially numbered.
type auditLog struct {
	entries []AuditEntry
}

func (l *auditLog) add(action AuditAction, notes string) {
	l.entries = append(l.entries, AuditEntry{
		Step:   len(l.entries) + 1,
		Action: action,
		Notes:  notes,
	})
}

// extend appends pre-built entries, renumbering them to continue the sequence.
func (l *auditLog) extend(entries []AuditEntry) {
	for _, e := range entries {
		l.add(e.Action, e.Notes)
	}
}
