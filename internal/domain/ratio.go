package domain

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Ratio is a computed ratio that may be undefined.
// A zero denominator yields an undefined ratio, which is distinct from a computed zero.
type Ratio struct {
	value   decimal.Decimal
	defined bool
}

// NewRatio returns a defined ratio with the given value
func NewRatio(v decimal.Decimal) Ratio {
	return Ratio{value: v, defined: true}
}

// UndefinedRatio returns the sentinel for a ratio with a zero denominator
func UndefinedRatio() Ratio {
	return Ratio{}
}

// Divide returns numerator / denominator, or the undefined sentinel when the denominator is zero
func Divide(numerator, denominator decimal.Decimal) Ratio {
	if denominator.IsZero() {
		return UndefinedRatio()
	}
	return NewRatio(numerator.Div(denominator))
}

// IsDefined reports whether the ratio has a value
func (r Ratio) IsDefined() bool { return r.defined }

// Value returns the ratio value and whether it is defined
func (r Ratio) Value() (decimal.Decimal, bool) { return r.value, r.defined }

// Equal reports whether both ratios are undefined, or both are defined with equal values
func (r Ratio) Equal(o Ratio) bool {
	if r.defined != o.defined {
		return false
	}
	return !r.defined || r.value.Equal(o.value)
}

// Clamp bounds a defined ratio to [-limit, limit] and reports whether it changed
func (r Ratio) Clamp(limit decimal.Decimal) (Ratio, bool) {
	if !r.defined {
		return r, false
	}
	if r.value.GreaterThan(limit) {
		return NewRatio(limit), true
	}
	if lower := limit.Neg(); r.value.LessThan(lower) {
		return NewRatio(lower), true
	}
	return r, false
}

// NullDecimal converts the ratio for a nullable numeric column
func (r Ratio) NullDecimal() decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: r.value, Valid: r.defined}
}

// RatioFromNullDecimal is the inverse of NullDecimal
func RatioFromNullDecimal(d decimal.NullDecimal) Ratio {
	if !d.Valid {
		return UndefinedRatio()
	}
	return NewRatio(d.Decimal)
}

func (r Ratio) String() string {
	if !r.defined {
		return "undefined"
	}
	return r.value.String()
}

// MarshalJSON encodes an undefined ratio as null
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = UndefinedRatio()
		return nil
	}
	var v decimal.Decimal
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = NewRatio(v)
	return nil
}
