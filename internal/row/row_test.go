package row

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_Get(t *testing.T) {
	r := Row{"name": String("ada"), "gone": nil}

	assert.Equal(t, String("ada"), r.Get("name"))
	assert.Equal(t, Null{}, r.Get("missing"))
	assert.Equal(t, Null{}, r.Get("gone"))
	assert.True(t, r.Has("gone"))
	assert.False(t, r.Has("missing"))
}

func TestRow_Project(t *testing.T) {
	r := Row{"a": Int(1), "b": Int(2), "c": Int(3)}

	got := r.Project("c", "a", "z")
	assert.Equal(t, Row{"c": Int(3), "a": Int(1), "z": Null{}}, got)
	assert.Len(t, r, 3, "source row untouched")
}

func TestRow_Clone(t *testing.T) {
	r := Row{"a": Int(1)}
	c := r.Clone()
	c["a"] = Int(2)
	assert.Equal(t, Int(1), r["a"])
}

func TestRow_SortedKeys(t *testing.T) {
	r := Row{"b": Null{}, "a": Null{}, "aa": Null{}, "B": Null{}}
	assert.Equal(t, []string{"B", "a", "aa", "b"}, r.SortedKeys())
}

func TestCompareKeysRFC8785_UTF16Order(t *testing.T) {
	// U+FB33 (BMP) sorts after U+1D11E (surrogate pair 0xD834...) in UTF-16,
	// but before it in UTF-8 byte order.
	assert.Equal(t, 1, compareKeysRFC8785("\uFB33", "\U0001D11E"))
	assert.Equal(t, 0, compareKeysRFC8785("x", "x"))
	assert.Equal(t, -1, compareKeysRFC8785("x", "xy"))
}

func TestRowsEqual(t *testing.T) {
	assert.True(t, RowsEqual(Row{"a": Int(1)}, Row{"a": Float(1)}))
	assert.False(t, RowsEqual(Row{"a": Int(1)}, Row{"a": Int(2)}))
	assert.False(t, RowsEqual(Row{"a": Int(1)}, Row{"b": Int(1)}))
	assert.False(t, RowsEqual(Row{"a": Int(1)}, Row{"a": Int(1), "b": Int(1)}))
}

func TestFromMap_FlattensNesting(t *testing.T) {
	got, err := FromMap(map[string]any{
		"id":      1,
		"address": map[string]any{"city": "Oslo", "geo": map[string]any{"lat": 59.9}},
		"tags":    []any{"a", "b"},
		"note":    nil,
	})
	require.NoError(t, err)

	assert.Equal(t, Row{
		"id":              Int(1),
		"address.city":    String("Oslo"),
		"address.geo.lat": Float(59.9),
		"tags":            String(`["a","b"]`),
		"note":            Null{},
	}, got)
}

func TestFromMap_RejectsUnsupported(t *testing.T) {
	_, err := FromMap(map[string]any{"ch": make(chan int)})
	assert.ErrorContains(t, err, `field "ch"`)
}
