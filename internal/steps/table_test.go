package steps_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kweyjibo/input-range/internal/steps"
)

func TestNewTable_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		min         float64
		max         float64
		segments    []steps.Segment
		expectError bool
	}{
		{
			name: "single default segment",
			min:  0, max: 10,
		},
		{
			name: "two segments",
			min:  0, max: 25,
			segments: []steps.Segment{{Delta: 1, Max: 5}, {Delta: 5, Max: 25}},
		},
		{
			name: "max below min",
			min:  10, max: 5,
			expectError: true,
		},
		{
			name: "zero delta",
			min:  0, max: 10,
			segments:    []steps.Segment{{Delta: 0, Max: 10}},
			expectError: true,
		},
		{
			name: "negative delta",
			min:  0, max: 10,
			segments:    []steps.Segment{{Delta: -1, Max: 10}},
			expectError: true,
		},
		{
			name: "non monotonic max",
			min:  0, max: 25,
			segments:    []steps.Segment{{Delta: 1, Max: 10}, {Delta: 1, Max: 5}},
			expectError: true,
		},
		{
			name: "fractional step count",
			min:  0, max: 10,
			segments:    []steps.Segment{{Delta: 3, Max: 10}},
			expectError: true,
		},
		{
			name: "last segment does not reach max",
			min:  0, max: 25,
			segments:    []steps.Segment{{Delta: 1, Max: 5}},
			expectError: true,
		},
		{
			name: "zero width segment",
			min:  0, max: 10,
			segments:    []steps.Segment{{Delta: 1, Max: 0}},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := steps.NewTable(tc.min, tc.max, tc.segments)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, table)

			// total step width always covers the full track
			assert.InDelta(t, 100.0,
				float64(table.NumSteps())*table.StepPct(), 1e-9)
		})
	}
}

func TestTable_PercentFor(t *testing.T) {
	testCases := []struct {
		name            string
		min             float64
		max             float64
		segments        []steps.Segment
		value           float64
		expectedPercent float64
	}{
		{
			name: "uniform table midpoint",
			min:  0, max: 10,
			value:           5,
			expectedPercent: 50,
		},
		{
			name: "uniform table min",
			min:  0, max: 10,
			value:           0,
			expectedPercent: 0,
		},
		{
			name: "uniform table max",
			min:  0, max: 10,
			value:           10,
			expectedPercent: 100,
		},
		{
			name: "two segments boundary",
			min:  0, max: 25,
			segments:        []steps.Segment{{Delta: 1, Max: 5}, {Delta: 5, Max: 25}},
			value:           5,
			expectedPercent: 500.0 / 9.0,
		},
		{
			name: "two segments inside coarse segment",
			min:  0, max: 25,
			segments:        []steps.Segment{{Delta: 1, Max: 5}, {Delta: 5, Max: 25}},
			value:           10,
			expectedPercent: 600.0 / 9.0,
		},
		{
			name: "below min clamps to zero",
			min:  0, max: 10,
			value:           -3,
			expectedPercent: 0,
		},
		{
			name: "above max clamps to hundred",
			min:  0, max: 10,
			value:           999,
			expectedPercent: 100,
		},
		{
			name: "nonzero min",
			min:  10, max: 20,
			value:           15,
			expectedPercent: 50,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := steps.NewTable(tc.min, tc.max, tc.segments)
			require.NoError(t, err)

			assert.InDelta(t, tc.expectedPercent, table.PercentFor(tc.value), 1e-9)
		})
	}
}

func TestTable_ValueAt(t *testing.T) {
	testCases := []struct {
		name            string
		min             float64
		max             float64
		segments        []steps.Segment
		rawPercent      float64
		expectedValue   float64
		expectedSnapped float64
	}{
		{
			name: "snaps down between boundaries",
			min:  0, max: 10,
			rawPercent:      53,
			expectedValue:   5,
			expectedSnapped: 50,
		},
		{
			name: "exact boundary stays put",
			min:  0, max: 10,
			rawPercent:      70,
			expectedValue:   7,
			expectedSnapped: 70,
		},
		{
			name: "negative percent clamps to min",
			min:  0, max: 10,
			rawPercent:      -20,
			expectedValue:   0,
			expectedSnapped: 0,
		},
		{
			name: "overshoot clamps to max",
			min:  0, max: 10,
			rawPercent:      140,
			expectedValue:   10,
			expectedSnapped: 100,
		},
		{
			name: "two segments resolves coarse step",
			min:  0, max: 25,
			segments:        []steps.Segment{{Delta: 1, Max: 5}, {Delta: 5, Max: 25}},
			rawPercent:      70,
			expectedValue:   10,
			expectedSnapped: 600.0 / 9.0,
		},
		{
			name: "full track",
			min:  0, max: 25,
			segments:        []steps.Segment{{Delta: 1, Max: 5}, {Delta: 5, Max: 25}},
			rawPercent:      100,
			expectedValue:   25,
			expectedSnapped: 100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := steps.NewTable(tc.min, tc.max, tc.segments)
			require.NoError(t, err)

			value, snapped := table.ValueAt(tc.rawPercent)
			assert.InDelta(t, tc.expectedValue, value, 1e-9)
			assert.InDelta(t, tc.expectedSnapped, snapped, 1e-9)
		})
	}
}

func TestTable_RoundTrip(t *testing.T) {
	tables := []struct {
		name     string
		min      float64
		max      float64
		segments []steps.Segment
	}{
		{name: "uniform", min: 0, max: 10},
		{name: "two segments", min: 0, max: 25, segments: []steps.Segment{{Delta: 1, Max: 5}, {Delta: 5, Max: 25}}},
		{name: "three segments", min: 0, max: 1000, segments: []steps.Segment{
			{Delta: 5, Max: 100}, {Delta: 25, Max: 500}, {Delta: 100, Max: 1000},
		}},
		{name: "nonzero min", min: 50, max: 150, segments: []steps.Segment{
			{Delta: 2, Max: 100}, {Delta: 10, Max: 150},
		}},
	}

	for _, tc := range tables {
		t.Run(tc.name, func(t *testing.T) {
			table, err := steps.NewTable(tc.min, tc.max, tc.segments)
			require.NoError(t, err)

			// every step boundary survives value -> percent -> value
			for n := 0; n <= table.NumSteps(); n++ {
				boundary := table.ValueAtStep(n)
				pct := table.PercentFor(boundary)
				value, snapped := table.ValueAt(pct)
				assert.InDeltaf(t, boundary, value, 1e-9,
					"step %d (value %v, percent %v)", n, boundary, pct)
				assert.InDeltaf(t, pct, snapped, 1e-9,
					"step %d snapped percent must match", n)
			}
		})
	}
}

// A table whose StepPct is not representable exactly (100/9 here) yields
// percentages that round a hair below the boundary; the snap must absorb
// that residue instead of dropping a full step.
func TestTable_RoundTripFloatResidue(t *testing.T) {
	table, err := steps.NewTable(0, 25, []steps.Segment{
		{Delta: 1, Max: 5}, {Delta: 5, Max: 25},
	})
	require.NoError(t, err)

	for _, boundary := range []float64{3, 10, 15} {
		value, _ := table.ValueAt(table.PercentFor(boundary))
		assert.InDeltaf(t, boundary, value, 1e-9, "boundary %v", boundary)
	}
}

func TestTable_PercentForMonotonic(t *testing.T) {
	table, err := steps.NewTable(0, 25, []steps.Segment{
		{Delta: 1, Max: 5}, {Delta: 5, Max: 25},
	})
	require.NoError(t, err)

	prev := -1.0
	for v := 0.0; v <= 25.0; v += 0.25 {
		pct := table.PercentFor(v)
		assert.GreaterOrEqual(t, pct, prev, "percent must not decrease at value %v", v)
		assert.GreaterOrEqual(t, pct, 0.0)
		assert.LessOrEqual(t, pct, 100.0)
		prev = pct
	}
}

func TestTable_Stepping(t *testing.T) {
	table, err := steps.NewTable(0, 25, []steps.Segment{
		{Delta: 1, Max: 5}, {Delta: 5, Max: 25},
	})
	require.NoError(t, err)

	testCases := []struct {
		name  string
		value float64
		up    float64
		down  float64
	}{
		{name: "fine segment", value: 3, up: 4, down: 2},
		{name: "boundary crosses into coarse", value: 5, up: 10, down: 4},
		{name: "coarse segment", value: 15, up: 20, down: 10},
		{name: "saturates at max", value: 25, up: 25, down: 20},
		{name: "saturates at min", value: 0, up: 1, down: 0},
		{name: "off-boundary drops to boundary below", value: 7.5, up: 10, down: 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.up, table.StepUp(tc.value), 1e-9)
			assert.InDelta(t, tc.down, table.StepDown(tc.value), 1e-9)
		})
	}
}

func TestTable_ClampCoercion(t *testing.T) {
	table, err := steps.NewTable(0, 10, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, table.Clamp(math.NaN()))
	assert.Equal(t, 0.0, table.Clamp(-5))
	assert.Equal(t, 10.0, table.Clamp(999))
	assert.Equal(t, 7.0, table.Clamp(7))
}
