package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDivide_ZeroDenominatorIsUndefined(t *testing.T) {
	r := Divide(decimal.NewFromInt(100), decimal.Zero)

	assert.False(t, r.IsDefined())
	assert.Equal(t, "undefined", r.String())
	assert.False(t, r.Equal(NewRatio(decimal.Zero)), "undefined must not equal a computed zero")
}

func TestDivide(t *testing.T) {
	r := Divide(decimal.NewFromInt(1), decimal.NewFromInt(4))

	v, ok := r.Value()
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("0.25")))
}

func TestRatio_Clamp(t *testing.T) {
	limit := DefaultRatioStorageLimit

	tests := []struct {
		name        string
		ratio       Ratio
		want        Ratio
		wantClamped bool
	}{
		{"within range", NewRatio(decimal.RequireFromString("0.08")), NewRatio(decimal.RequireFromString("0.08")), false},
		{"above limit", NewRatio(decimal.NewFromInt(42)), NewRatio(limit), true},
		{"below negative limit", NewRatio(decimal.NewFromInt(-42)), NewRatio(limit.Neg()), true},
		{"undefined stays undefined", UndefinedRatio(), UndefinedRatio(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := tt.ratio.Clamp(limit)
			assert.Equal(t, tt.wantClamped, clamped)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestRatio_JSON(t *testing.T) {
	type payload struct {
		Defined   Ratio `json:"defined"`
		Undefined Ratio `json:"undefined"`
	}

	data, err := json.Marshal(payload{
		Defined:   NewRatio(decimal.RequireFromString("0.0837")),
		Undefined: UndefinedRatio(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"defined":"0.0837","undefined":null}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Defined.Equal(NewRatio(decimal.RequireFromString("0.0837"))))
	assert.False(t, decoded.Undefined.IsDefined())
}

func TestMetricsResult_ForStorage_KeepsUnclampedOriginal(t *testing.T) {
	result := &MetricsResult{
		PropertyID:       uuid.New(),
		CapRate:          NewRatio(decimal.RequireFromString("0.055")),
		CashOnCashReturn: NewRatio(decimal.NewFromInt(25)),
		DSCR:             UndefinedRatio(),
	}

	stored, clamped := result.ForStorage(DefaultRatioStorageLimit)

	assert.Equal(t, []string{"cash_on_cash_return"}, clamped)
	assert.True(t, stored.CashOnCashReturn.Equal(NewRatio(DefaultRatioStorageLimit)))
	assert.True(t, stored.CapRate.Equal(result.CapRate))
	assert.False(t, stored.DSCR.IsDefined())
	require.Len(t, stored.Warnings, 1)
	assert.Equal(t, WarningRatioClamped, stored.Warnings[0].Code)

	// The caller's copy keeps the diagnostic value
	assert.True(t, result.CashOnCashReturn.Equal(NewRatio(decimal.NewFromInt(25))))
	assert.Empty(t, result.Warnings)
}
