package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents      int
	KindDistribution map[string]int // event kind → count of dispatched events
	MaxBacklog       int
	MaxOccupied      int
	FirstTime        float64
	LastTime         float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindDistribution: make(map[string]int),
	}
	if st == nil || len(st.Events) == 0 {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	summary.FirstTime = st.Events[0].Time
	summary.LastTime = st.Events[len(st.Events)-1].Time
	for _, e := range st.Events {
		summary.KindDistribution[e.Kind]++
		summary.MaxBacklog = max(summary.MaxBacklog, e.Backlog)
		summary.MaxOccupied = max(summary.MaxOccupied, e.ServersOccupied)
	}

	return summary
}
