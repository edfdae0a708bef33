package row

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Null{}},
		{"value passthrough", String("x"), String("x")},
		{"string", "hello", String("hello")},
		{"bytes", []byte("raw"), String("raw")},
		{"bool", true, Bool(true)},
		{"int", 42, Int(42)},
		{"int8", int8(-3), Int(-3)},
		{"uint32", uint32(7), Int(7)},
		{"huge uint64", uint64(math.MaxUint64), Float(float64(uint64(math.MaxUint64)))},
		{"float64", 1.5, Float(1.5)},
		{"json int", json.Number("12"), Int(12)},
		{"json float", json.Number("12.5"), Float(12.5)},
		{"time", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), String("2024-01-02T03:04:05Z")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromAny_RejectsComposites(t *testing.T) {
	_, err := FromAny(map[string]any{"a": 1})
	assert.Error(t, err)

	_, err = FromAny(json.Number("not-a-number"))
	assert.Error(t, err)
}

func TestAsFloat(t *testing.T) {
	f, ok := AsFloat(Int(3))
	assert.True(t, ok)
	assert.Equal(t, 3.0, f)

	f, ok = AsFloat(Float(2.5))
	assert.True(t, ok)
	assert.Equal(t, 2.5, f)

	for _, v := range []Value{Null{}, String("3"), Bool(true)} {
		_, ok := AsFloat(v)
		assert.False(t, ok, "%T is not numeric", v)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Int(3), Normalize(Float(3.0)))
	assert.Equal(t, Float(3.5), Normalize(Float(3.5)))
	assert.Equal(t, String("3"), Normalize(String("3")))
	assert.Equal(t, Null{}, Normalize(nil))
	assert.True(t, math.IsNaN(float64(Normalize(Float(math.NaN())).(Float))))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Null{}, ""},
		{String("a|b"), "a|b"},
		{Int(-12), "-12"},
		{Float(0.25), "0.25"},
		{Float(300), "300"},
		{Float(math.NaN()), "NaN"},
		{Float(math.Inf(1)), "+Inf"},
		{Bool(false), "false"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in))
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", TypeName(Null{}))
	assert.Equal(t, "string", TypeName(String("")))
	assert.Equal(t, "int", TypeName(Int(0)))
	assert.Equal(t, "float", TypeName(Float(0)))
	assert.Equal(t, "bool", TypeName(Bool(false)))
}

func TestValues_AreComparable(t *testing.T) {
	seen := map[Value]int{}
	for _, v := range []Value{String("a"), Int(1), Float(1.5), Bool(true), Null{}, String("a")} {
		seen[v]++
	}
	assert.Equal(t, 2, seen[String("a")])
	assert.Equal(t, 1, seen[Null{}])
}

func TestFloat_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Value{"avg": Float(math.NaN()), "sum": Float(300)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"avg":"NaN","sum":300}`, string(data))
}
