package schema

import (
	"encoding/json"
	"strconv"
)

// Series is a cumulative time-series as returned by the API, oldest value first.
type Series []float64

// First returns the oldest value and whether the series had one.
func (s Series) First() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[0], true
}

// Last returns the newest value and whether the series had one.
func (s Series) Last() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// FirstOrZero returns the oldest value, or zero for an empty series.
func (s Series) FirstOrZero() float64 {
	v, _ := s.First()
	return v
}

// LastOrZero returns the newest value, or zero for an empty series.
func (s Series) LastOrZero() float64 {
	v, _ := s.Last()
	return v
}

// CapacityAccuracy is a percentage that may be undefined when the
// planned work it is measured against is zero.
type CapacityAccuracy struct {
	value int
	valid bool
}

// AccuracyOf returns a numeric capacity accuracy.
func AccuracyOf(v int) CapacityAccuracy {
	return CapacityAccuracy{value: v, valid: true}
}

// NotApplicable returns the undefined capacity accuracy.
func NotApplicable() CapacityAccuracy {
	return CapacityAccuracy{}
}

// Value returns the percentage and whether it is defined.
func (c CapacityAccuracy) Value() (int, bool) {
	return c.value, c.valid
}

// IsNotApplicable reports whether the accuracy is undefined.
func (c CapacityAccuracy) IsNotApplicable() bool {
	return !c.valid
}

// Pointer returns nil for the undefined accuracy, for nullable storage columns.
func (c CapacityAccuracy) Pointer() *int {
	if !c.valid {
		return nil
	}
	v := c.value
	return &v
}

// String renders the accuracy, using NotApplicableText when undefined.
func (c CapacityAccuracy) String() string {
	if !c.valid {
		return NotApplicableText
	}
	return strconv.Itoa(c.value)
}

// MarshalJSON encodes the undefined accuracy as null.
func (c CapacityAccuracy) MarshalJSON() ([]byte, error) {
	if !c.valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// UnmarshalJSON accepts a number or null.
func (c *CapacityAccuracy) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = NotApplicable()
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = AccuracyOf(v)
	return nil
}
