package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/mdc-sim/sim"
	"github.com/inference-sim/mdc-sim/sim/analytic"
)

// scriptedResult runs a small single-server simulation with fixed draws:
// arrivals at 0.1, 0.2 and 1.2, service time 0.5.
func scriptedResult(t *testing.T, horizon float64, traced bool) *sim.RunResult {
	t.Helper()
	cfg := sim.Config{ArrivalRate: 1, ServiceRate: 2, ServerCount: 1, WaitThreshold: 0.3, Horizon: horizon, Trace: traced}
	s, err := sim.NewSimulator(cfg.WithSeed(7), sim.NewScriptedSampler(0.1, 0.1, 1.0))
	require.NoError(t, err)
	return s.Run()
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "csv", "json"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteText_ContainsClassicSections(t *testing.T) {
	// GIVEN a finished run and its analytic reference
	r := scriptedResult(t, 10, true)
	ref, err := analytic.MDc(1, 2, 1)
	require.NoError(t, err)

	// WHEN rendered as text
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r, &ref))
	out := buf.String()

	// THEN the input, results, reference and trace sections are present
	assert.Contains(t, out, "Simulation DONE!")
	assert.Contains(t, out, "  c = 1\n")
	assert.Contains(t, out, "number of input events: 3")
	assert.Contains(t, out, "number of done events: 3")
	assert.Contains(t, out, "P(wait_time <= 0.30): 0.667")
	assert.Contains(t, out, "P(wait_time > 0.30): 0.333")
	assert.Contains(t, out, "Analytic reference (M/D/c, exact)")
	assert.Contains(t, out, "dispatched events: 6 (3 arrivals, 3 completions)")
	assert.NotContains(t, out, "undefined")
}

func TestWriteText_DegenerateRun_Notes(t *testing.T) {
	// GIVEN a run with horizon 0
	r := scriptedResult(t, 0, false)

	// WHEN rendered as text
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r, nil))

	// THEN both undefined notes are printed and no reference section
	assert.Contains(t, buf.String(), "no job completed before the horizon")
	assert.Contains(t, buf.String(), "horizon <= 0")
	assert.NotContains(t, buf.String(), "Analytic reference")
}

func TestCSVWriter_HeaderOnceThenRows(t *testing.T) {
	// GIVEN two results
	r1 := scriptedResult(t, 10, false)
	r2 := scriptedResult(t, 1, false)

	// WHEN written through one CSVWriter
	var buf bytes.Buffer
	cw := NewCSVWriter(&buf)
	require.NoError(t, cw.Write(r1))
	require.NoError(t, cw.Write(r2))
	require.NoError(t, cw.Flush())

	// THEN the output parses as a header plus two rows of equal width
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, CSVHeader, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, len(CSVHeader))
	}
	assert.Equal(t, "3", rows[1][5], "input_events")
	assert.Equal(t, "3", rows[1][6], "done_events")
	assert.Equal(t, "2", rows[2][5], "input_events at horizon 1")
	assert.Equal(t, "1", rows[2][6], "done_events at horizon 1")
}

func TestWriteJSON_UndefinedValuesAreNull(t *testing.T) {
	// GIVEN a degenerate run (NaN averages) and a normal run
	degenerate := scriptedResult(t, 0, false)
	normal := scriptedResult(t, 10, false)

	// WHEN encoded as JSON
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, degenerate, normal))

	// THEN NaN fields decode as null and defined fields as numbers
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Nil(t, out[0]["avg_wait_time"])
	assert.Nil(t, out[0]["avg_queue_depth"])
	assert.Equal(t, true, out[0]["no_completions"])
	assert.Equal(t, true, out[0]["queue_depth_undefined"])
	assert.InDelta(t, 0.4/3, out[1]["avg_wait_time"], 1e-9)
	assert.Equal(t, float64(3), out[1]["done_events"])
	assert.Equal(t, float64(7), out[1]["seed"])
}
