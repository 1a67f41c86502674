// Package report renders simulation results as human-readable text, CSV
// rows, or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/inference-sim/mdc-sim/sim"
	"github.com/inference-sim/mdc-sim/sim/analytic"
	"github.com/inference-sim/mdc-sim/sim/trace"
)

// Format selects an output renderer.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, csv or json)", s)
	}
}

// WriteText prints r in the classic report layout. ref, if non-nil, adds a
// closed-form comparison section.
func WriteText(w io.Writer, r *sim.RunResult, ref *analytic.Reference) error {
	c := r.Config
	s := r.Stats
	sum := r.Summary
	p := &printer{w: w}

	p.printf("Simulation DONE!\n")
	p.printf("Simulation took %.2f secs.\n", r.Elapsed.Seconds())
	p.printf("Run ID: %s (seed %d)\n", r.RunID, r.Seed)
	p.printf("\n")
	p.printf("Input parameters:\n")
	p.printf("  l = %v\n", c.ArrivalRate)
	p.printf("  u = %v (d = %.2g)\n", c.ServiceRate, c.ServiceTime())
	p.printf("  c = %d\n", c.ServerCount)
	p.printf("  endtime = %v\n", c.Horizon)
	p.printf("\n")
	p.printf("Simulation results:\n")
	p.printf("  number of input events: %d\n", s.Arrivals)
	p.printf("  number of done events: %d\n", s.Completions)
	p.printf("  queue depth at end: %d\n", r.ResidualBacklog)
	p.printf("  in progress at end: %d\n", r.ResidualEvents)
	p.printf("  average queue depth: %.2f\n", sum.AvgQueueDepth)
	p.printf("  max queue depth: %d\n", s.MaxQueueDepth)
	p.printf("  average wait time: %.2f\n", sum.AvgWaitTime)
	p.printf("  average completion time: %.2f\n", sum.AvgCompletionTime)
	p.printf("  utilization: %.3f\n", sum.Utilization)
	p.printf("  P(wait_time = 0): %.2f\n", sum.PWaitZero)
	p.printf("  P(wait_time <= %.2f): %.3f\n", c.WaitThreshold, sum.PWaitWithin)
	p.printf("  P(wait_time > %.2f): %.3f\n", c.WaitThreshold, sum.PWaitOver)
	if sum.NoCompletions {
		p.printf("  note: no job completed before the horizon; averages and probabilities are undefined\n")
	}
	if sum.QueueDepthUndefined {
		p.printf("  note: horizon <= 0; time averages are undefined\n")
	}

	if ref != nil {
		p.printf("\n")
		kind := "exact"
		if !ref.Exact {
			kind = "approximate"
		}
		p.printf("Analytic reference (%s, %s):\n", ref.Model, kind)
		p.printf("  utilization: %.3f\n", ref.Utilization)
		if !ref.Stable {
			p.printf("  unstable: utilization >= 1, the backlog grows without bound\n")
		} else {
			p.printf("  mean wait time: %.4f\n", ref.MeanWait)
			p.printf("  mean completion time: %.4f\n", ref.MeanCompletion)
			p.printf("  mean queue depth: %.4f\n", ref.MeanQueueDepth)
		}
	}

	if r.Trace.Enabled() {
		ts := trace.Summarize(r.Trace)
		p.printf("\n")
		p.printf("Event trace:\n")
		p.printf("  dispatched events: %d (%d arrivals, %d completions)\n",
			ts.TotalEvents, ts.KindDistribution[sim.KindArrival.String()], ts.KindDistribution[sim.KindCompletion.String()])
		p.printf("  max backlog after a transition: %d\n", ts.MaxBacklog)
	}
	return p.err
}

// printer remembers the first write error so the layout code stays flat.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// CSVHeader lists the CSV columns: the input parameters followed by the
// run statistics.
var CSVHeader = []string{
	"l", "u", "c", "twait", "endtime",
	"input_events", "done_events", "queue_end_len", "events_end_len",
	"avg_queue_depth", "max_queue_depth", "avg_wait_time", "avg_completion_time",
	"served_immediately", "wait_lt_twait", "wait_gt_twait",
	"utilization", "seed", "run_id",
}

// CSVWriter writes one row per result, emitting the header before the
// first row.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewCSVWriter creates a CSVWriter on w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write appends r as a row.
func (cw *CSVWriter) Write(r *sim.RunResult) error {
	if !cw.wroteHeader {
		if err := cw.w.Write(CSVHeader); err != nil {
			return err
		}
		cw.wroteHeader = true
	}
	return cw.w.Write(csvRow(r))
}

// Flush writes buffered rows and reports any write error.
func (cw *CSVWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func csvRow(r *sim.RunResult) []string {
	c := r.Config
	s := r.Stats
	sum := r.Summary
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	i := func(v int64) string { return strconv.FormatInt(v, 10) }
	return []string{
		f(c.ArrivalRate), f(c.ServiceRate), strconv.Itoa(c.ServerCount), f(c.WaitThreshold), f(c.Horizon),
		i(s.Arrivals), i(s.Completions), strconv.Itoa(r.ResidualBacklog), strconv.Itoa(r.ResidualEvents),
		f(sum.AvgQueueDepth), strconv.Itoa(s.MaxQueueDepth), f(sum.AvgWaitTime), f(sum.AvgCompletionTime),
		f(sum.PWaitZero), f(sum.PWaitWithin), f(sum.PWaitOver),
		f(sum.Utilization), i(r.Seed), r.RunID,
	}
}

// jsonResult is the JSON view of a RunResult. Undefined values are null.
type jsonResult struct {
	RunID   string  `json:"run_id"`
	Seed    int64   `json:"seed"`
	L       float64 `json:"l"`
	U       float64 `json:"u"`
	C       int     `json:"c"`
	TWait   float64 `json:"twait"`
	EndTime float64 `json:"endtime"`

	InputEvents       int64   `json:"input_events"`
	DoneEvents        int64   `json:"done_events"`
	ServiceStarts     int64   `json:"service_starts"`
	ServedImmediately int64   `json:"served_immediately_count"`
	Waited            int64   `json:"waited_count"`
	WaitLeCount       int64   `json:"wait_le_twait_count"`
	WaitGtCount       int64   `json:"wait_gt_twait_count"`
	MaxQueueDepth     int     `json:"max_queue_depth"`
	PeakQueueDepth    int     `json:"peak_queue_depth"`
	QueueEndLen       int     `json:"queue_end_len"`
	InServiceEnd      int     `json:"in_service_end"`
	EventsEndLen      int     `json:"events_end_len"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`

	AvgQueueDepth     *float64 `json:"avg_queue_depth"`
	AvgWaitTime       *float64 `json:"avg_wait_time"`
	AvgCompletionTime *float64 `json:"avg_completion_time"`
	Utilization       *float64 `json:"utilization"`
	PWaitZero         *float64 `json:"p_wait_zero"`
	PWaitLe           *float64 `json:"p_wait_le_twait"`
	PWaitGt           *float64 `json:"p_wait_gt_twait"`

	NoCompletions       bool `json:"no_completions"`
	QueueDepthUndefined bool `json:"queue_depth_undefined"`
}

// defined maps NaN and ±Inf to nil so the value encodes as JSON null.
func defined(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func toJSON(r *sim.RunResult) jsonResult {
	c, s, sum := r.Config, r.Stats, r.Summary
	return jsonResult{
		RunID: r.RunID, Seed: r.Seed,
		L: c.ArrivalRate, U: c.ServiceRate, C: c.ServerCount, TWait: c.WaitThreshold, EndTime: c.Horizon,

		InputEvents:       s.Arrivals,
		DoneEvents:        s.Completions,
		ServiceStarts:     s.ServiceStarts,
		ServedImmediately: s.ServedImmediately,
		Waited:            s.Waited,
		WaitLeCount:       s.WaitWithinThreshold,
		WaitGtCount:       s.WaitOverThreshold,
		MaxQueueDepth:     s.MaxQueueDepth,
		PeakQueueDepth:    s.PeakQueueDepth,
		QueueEndLen:       r.ResidualBacklog,
		InServiceEnd:      r.ResidualInService,
		EventsEndLen:      r.ResidualEvents,
		ElapsedSeconds:    r.Elapsed.Seconds(),

		AvgQueueDepth:     defined(sum.AvgQueueDepth),
		AvgWaitTime:       defined(sum.AvgWaitTime),
		AvgCompletionTime: defined(sum.AvgCompletionTime),
		Utilization:       defined(sum.Utilization),
		PWaitZero:         defined(sum.PWaitZero),
		PWaitLe:           defined(sum.PWaitWithin),
		PWaitGt:           defined(sum.PWaitOver),

		NoCompletions:       sum.NoCompletions,
		QueueDepthUndefined: sum.QueueDepthUndefined,
	}
}

// WriteJSON encodes results as an indented JSON array.
func WriteJSON(w io.Writer, results ...*sim.RunResult) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = toJSON(r)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
