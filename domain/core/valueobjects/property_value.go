package valueobjects

import (
	"math"

	pkgerrors "nodetree/pkg/errors"
)

// PropertyValue is a finite real number.
type PropertyValue struct {
	value float64
}

// NewPropertyValue rejects NaN and infinities.
func NewPropertyValue(v float64) (PropertyValue, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return PropertyValue{}, pkgerrors.NewBusinessRuleError("Invalid value for PropertyValue")
	}
	return PropertyValue{value: v}, nil
}

// Float64 returns the numeric value
func (v PropertyValue) Float64() float64 {
	return v.value
}

func (v PropertyValue) Equals(other PropertyValue) bool {
	return v.value == other.value
}
