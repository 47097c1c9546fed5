package profilestate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddPromotes(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"int32+int32", Int32(2), Int32(3), Int32(5)},
		{"int32+int64", Int32(2), Int64(3), Int64(5)},
		{"int64+float32", Int64(2), Float32(0.5), Float32(2.5)},
		{"float32+float64", Float32(1.5), Float64(0.25), Float64(1.75)},
		{"int32 wraps", Int32(math.MaxInt32), Int32(1), Int32(math.MinInt32)},
		{"int64 wraps", Int64(math.MaxInt64), Int32(1), Int64(math.MinInt64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Add(tt.a, tt.b)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubtractPromotes(t *testing.T) {
	got, ok := Subtract(Int64(10), Int32(3))
	assert.True(t, ok)
	assert.Equal(t, Int64(7), got)

	got, ok = Subtract(Int32(math.MinInt32), Int32(1))
	assert.True(t, ok)
	assert.Equal(t, Int32(math.MaxInt32), got)

	got, ok = Subtract(Float64(1), Int64(3))
	assert.True(t, ok)
	assert.Equal(t, Float64(-2), got)
}

func TestFloatOverflowFollowsIEEE(t *testing.T) {
	got, ok := Add(Float64(math.MaxFloat64), Float64(math.MaxFloat64))
	assert.True(t, ok)
	assert.True(t, math.IsInf(float64(got.(Float64)), 1))

	got, ok = Add(Float32(math.MaxFloat32), Float32(math.MaxFloat32))
	assert.True(t, ok)
	assert.True(t, math.IsInf(float64(got.(Float32)), 1))

	got, _ = Subtract(Float64(math.Inf(1)), Float64(math.Inf(1)))
	assert.True(t, math.IsNaN(float64(got.(Float64))))
}

func TestInt64PromotesToFloat32WithSingleRounding(t *testing.T) {
	// 2^54 + 2^30 + 1 lies just above the midpoint between two float32
	// neighbours; going through float64 first would land on the midpoint
	// and round down to 2^54.
	n := Int64(1<<54 + 1<<30 + 1)
	got, ok := Add(n, Float32(0))
	assert.True(t, ok)
	assert.Equal(t, Float32(1<<54+1<<31), got)

	got, ok = Subtract(Float32(0), n)
	assert.True(t, ok)
	assert.Equal(t, Float32(-(1<<54 + 1<<31)), got)
}

func TestArithmeticRejectsNonNumbers(t *testing.T) {
	for _, v := range []Value{String("1"), Bool(true), Null{}, NewObject(), ArrayOf(1), nil} {
		_, ok := Add(Int64(1), v)
		assert.False(t, ok)
		_, ok = Subtract(v, Int64(1))
		assert.False(t, ok)
		_, ok = Negate(v)
		assert.False(t, ok)
	}
}

func TestNegateKeepsKind(t *testing.T) {
	tests := []struct {
		in, want Value
	}{
		{Int32(5), Int32(-5)},
		{Int64(-5), Int64(5)},
		{Float32(1.5), Float32(-1.5)},
		{Float64(2), Float64(-2)},
		{Int32(math.MinInt32), Int32(math.MinInt32)},
		{Int64(math.MinInt64), Int64(math.MinInt64)},
	}
	for _, tt := range tests {
		got, ok := Negate(tt.in)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
}
