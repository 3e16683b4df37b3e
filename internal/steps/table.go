// Package steps compiles piecewise step tables and maps values to track
// positions and back. A table splits [min, max] into ordered segments,
// each with its own value increment per step, so a slider can be coarse
// in one part of the range and fine in another.
package steps

import (
	"errors"
	"fmt"
	"math"
)

// integerStepsEpsilon bounds how far a segment's step count may be from a
// whole number before the table is rejected as misconfigured.
const integerStepsEpsilon = 1e-6

// Segment is one declarative piece of a step table. Max is the inclusive
// upper bound of the covered value range; the lower bound is the previous
// segment's Max (or the table minimum for the first segment).
type Segment struct {
	Delta float64
	Max   float64
}

type compiledSegment struct {
	delta float64
	lower float64
	max   float64
	steps int
}

// Table is an immutable, validated step table.
type Table struct {
	min      float64
	max      float64
	segments []compiledSegment
	numSteps int
	stepPct  float64
}

// NewTable compiles and validates a step table. When no segments are
// given a single segment {Delta: 1, Max: max} is assumed. Validation is
// strict: misconfigured tables are rejected here instead of surfacing as
// NaN percentages later.
func NewTable(min, max float64, segments []Segment) (*Table, error) {
	if max <= min {
		return nil, fmt.Errorf("max %v must be greater than min %v", max, min)
	}

	if len(segments) == 0 {
		segments = []Segment{{Delta: 1, Max: max}}
	}

	t := &Table{min: min, max: max}
	cursor := min
	for i, seg := range segments {
		if seg.Delta <= 0 {
			return nil, fmt.Errorf("segment %d: delta %v must be positive", i, seg.Delta)
		}
		if seg.Max <= cursor {
			return nil, fmt.Errorf("segment %d: max %v must be greater than %v", i, seg.Max, cursor)
		}

		steps := (seg.Max - cursor) / seg.Delta
		rounded := math.Round(steps)
		if math.Abs(steps-rounded) > integerStepsEpsilon || rounded < 1 {
			return nil, fmt.Errorf("segment %d: range %v..%v is not a whole number of %v steps",
				i, cursor, seg.Max, seg.Delta)
		}

		t.segments = append(t.segments, compiledSegment{
			delta: seg.Delta,
			lower: cursor,
			max:   seg.Max,
			steps: int(rounded),
		})
		t.numSteps += int(rounded)
		cursor = seg.Max
	}

	if cursor != max {
		return nil, fmt.Errorf("last segment ends at %v, table max is %v", cursor, max)
	}
	if t.numSteps <= 0 {
		return nil, errors.New("table has no steps")
	}

	t.stepPct = 100 / float64(t.numSteps)
	return t, nil
}

func (t *Table) Min() float64 { return t.min }

func (t *Table) Max() float64 { return t.max }

// NumSteps is the total number of quantization steps across all segments.
func (t *Table) NumSteps() int { return t.numSteps }

// StepPct is the track percentage covered by exactly one step.
func (t *Table) StepPct() float64 { return t.stepPct }

// Clamp coerces v into [min, max]. NaN coerces to min, matching the
// treatment of unparseable input.
func (t *Table) Clamp(v float64) float64 {
	if math.IsNaN(v) || v < t.min {
		return t.min
	}
	if v > t.max {
		return t.max
	}
	return v
}

// PercentFor maps a value to its track position in [0, 100]. Each segment
// below the value contributes its covered span divided by its delta, so
// the result is the (possibly fractional) number of steps below the value
// times StepPct. This is the exact inverse of ValueAt for values on step
// boundaries.
func (t *Table) PercentFor(value float64) float64 {
	value = t.Clamp(value)

	consumed := 0.0
	for _, seg := range t.segments {
		if value <= seg.lower {
			break
		}
		upper := math.Min(value, seg.max)
		consumed += (upper - seg.lower) / seg.delta
	}

	return clampPct(consumed * t.stepPct)
}

// ValueAt maps a raw track percentage, e.g. derived from a pointer
// position, to a quantized value. The position is snapped down to the
// nearest step boundary first so the handle lands exactly on step lines;
// the snapped percentage is returned alongside the value and should drive
// rendering directly rather than being re-derived.
func (t *Table) ValueAt(rawPct float64) (float64, float64) {
	// flooring with a small tolerance keeps boundaries stable: a
	// percentage produced by PercentFor may carry float residue just
	// below the boundary and must not lose a whole step to it
	stepsLeft := int(math.Floor(rawPct/t.stepPct + integerStepsEpsilon))
	snapped := clampPct(float64(stepsLeft) * t.stepPct)
	return t.ValueAtStep(stepsLeft), snapped
}

// ValueAtStep resolves the value sitting exactly n steps above the table
// minimum. n is clamped to [0, NumSteps].
func (t *Table) ValueAtStep(n int) float64 {
	if n <= 0 {
		return t.min
	}
	if n >= t.numSteps {
		return t.max
	}

	value := t.min
	for _, seg := range t.segments {
		take := seg.steps
		if n < take {
			take = n
		}
		value += float64(take) * seg.delta
		n -= take
		if n == 0 {
			break
		}
	}
	return value
}

// StepIndex counts the whole steps at or below value.
func (t *Table) StepIndex(value float64) int {
	value = t.Clamp(value)

	index := 0
	for _, seg := range t.segments {
		if value >= seg.max {
			index += seg.steps
			continue
		}
		if value > seg.lower {
			index += int(math.Floor((value-seg.lower)/seg.delta + integerStepsEpsilon))
		}
		break
	}
	return index
}

// StepUp returns the value one quantization step above value, saturating
// at the table maximum.
func (t *Table) StepUp(value float64) float64 {
	return t.ValueAtStep(t.StepIndex(value) + 1)
}

// StepDown returns the value one quantization step below value,
// saturating at the table minimum. A value between two boundaries drops
// to the boundary below it.
func (t *Table) StepDown(value float64) float64 {
	index := t.StepIndex(value)
	if t.ValueAtStep(index) < t.Clamp(value) {
		return t.ValueAtStep(index)
	}
	return t.ValueAtStep(index - 1)
}

func clampPct(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
