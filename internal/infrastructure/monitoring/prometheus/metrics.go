package prometheus

// EngineMetrics bundles every instrument the deadline engine records.
// Construct one per process with NewEngineMetrics and pass it down by pointer.
type EngineMetrics struct {
	CalculationsTotal         Counter
	CalculationDuration       Histogram
	CascadeExpansionsTotal    Counter
	CascadeDeadlinesGenerated Histogram
	RecalculationsTotal       Counter
	RecalculationConflicts    Counter
	HolidayCacheHits          Counter
	HolidayCacheMisses        Counter
	ConfigurationGapsTotal    Counter

	HTTPRequestsTotal   Counter
	HTTPRequestDuration Histogram
}

// NewEngineMetrics registers all engine instruments against the collector.
func NewEngineMetrics(c MetricsCollector) *EngineMetrics {
	return &EngineMetrics{
		CalculationsTotal: c.NewCounter(
			"calculations_total",
			"Number of deadline calculations performed, by counting method and outcome.",
			"method", "outcome",
		),
		CalculationDuration: c.NewHistogram(
			"calculation_duration_seconds",
			"Time spent computing a single deadline.",
			[]float64{.0001, .0005, .001, .005, .01, .05, .1},
			"method",
		),
		CascadeExpansionsTotal: c.NewCounter(
			"cascade_expansions_total",
			"Number of trigger cascade expansions, by outcome.",
			"outcome",
		),
		CascadeDeadlinesGenerated: c.NewHistogram(
			"cascade_deadlines_generated",
			"Number of deadlines produced per cascade expansion.",
			[]float64{1, 2, 5, 10, 20, 50},
		),
		RecalculationsTotal: c.NewCounter(
			"recalculations_total",
			"Number of trigger recalculations, by outcome.",
			"outcome",
		),
		RecalculationConflicts: c.NewCounter(
			"recalculation_conflicts_total",
			"Number of completed deadlines flagged as conflicts during recalculation.",
		),
		HolidayCacheHits: c.NewCounter(
			"holiday_cache_hits_total",
			"Holiday calendar lookups served from cache.",
		),
		HolidayCacheMisses: c.NewCounter(
			"holiday_cache_misses_total",
			"Holiday calendar lookups that fell through to the source provider.",
		),
		ConfigurationGapsTotal: c.NewCounter(
			"configuration_gaps_total",
			"Calculations that proceeded despite missing jurisdiction configuration.",
			"kind",
		),
		HTTPRequestsTotal: c.NewCounter(
			"http_requests_total",
			"HTTP requests served, by method, route and status.",
			"method", "route", "status",
		),
		HTTPRequestDuration: c.NewHistogram(
			"http_request_duration_seconds",
			"HTTP request latency, by method and route.",
			nil,
			"method", "route",
		),
	}
}

// NewNopEngineMetrics returns an EngineMetrics backed by discarding instruments.
func NewNopEngineMetrics() *EngineMetrics {
	return NewEngineMetrics(NewNopCollector())
}
