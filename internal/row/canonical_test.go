package row

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Row(t *testing.T) {
	data, err := MarshalCanonical(Row{
		"name":  String("ada"),
		"age":   Int(36),
		"score": Float(9.5),
		"admin": Bool(true),
		"email": Null{},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"admin":true,"age":36,"email":null,"name":"ada","score":9.5}`, string(data))
}

func TestMarshalCanonical_Deterministic(t *testing.T) {
	r := Row{"z": Int(1), "a": Int(2), "m": Int(3), "b": Int(4)}
	first, err := MarshalCanonical(r)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := MarshalCanonical(r)
		require.NoError(t, err)
		require.Equal(t, first, again, "canonical JSON must be deterministic")
	}
}

func TestMarshalCanonical_NoHTMLEscape(t *testing.T) {
	data, err := MarshalCanonical(String("<a & b>"))
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(data))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	// "e" + combining acute accent normalizes to the single code point U+00E9.
	data, err := MarshalCanonical(String("e\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonical_LineSeparators(t *testing.T) {
	data, err := MarshalCanonical(String("a\u2028b\u2029"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029\"", string(data))

	// A literal backslash followed by the text u2028 must stay escaped.
	data, err = MarshalCanonical(String(`a\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028"`, string(data))
}

func TestMarshalCanonical_Floats(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{300, `300`},
		{0.1, `0.1`},
		{-2.5, `-2.5`},
		{1e21, `1e+21`},
		{1e-7, `1e-7`},
		{math.NaN(), `"NaN"`},
		{math.Inf(1), `"+Inf"`},
		{math.Inf(-1), `"-Inf"`},
	}

	for _, tt := range tests {
		data, err := MarshalCanonical(Float(tt.in))
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(data))
	}
}

func TestMarshalCanonical_Composites(t *testing.T) {
	data, err := MarshalCanonical([]Row{{"b": Int(1), "a": Int(2)}, {}})
	require.NoError(t, err)
	assert.Equal(t, `[{"a":2,"b":1},{}]`, string(data))

	data, err = MarshalCanonical(map[string]any{"list": []any{1, "x", nil, map[string]any{"k": json.Number("2")}}})
	require.NoError(t, err)
	assert.Equal(t, `{"list":[1,"x",null,{"k":2}]}`, string(data))
}

func TestMarshalCanonical_Unsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)

	_, err = MarshalCanonical([]any{struct{}{}})
	assert.ErrorContains(t, err, "array[0]")
}

func TestRow_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Row{{"b": String("x"), "a": Float(math.NaN())}})
	require.NoError(t, err)
	assert.Equal(t, `[{"a":"NaN","b":"x"}]`, string(data))
}
