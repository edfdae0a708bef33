package query

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount(t *testing.T) {
	assert.Equal(t, 3, Count(Of(1, 2, 3)))
	assert.Equal(t, 0, Count(New[int]()))
	assert.Equal(t, 1, CountWhere(Of(1, 2, 3), isEven))
}

func TestSum_NarrowTypeDoesNotOverflow(t *testing.T) {
	got := Sum(Of(100, 100, 100), func(n int) int8 { return int8(n) })
	assert.Equal(t, 300.0, got)
}

func TestSumOf(t *testing.T) {
	assert.Equal(t, 6.5, SumOf(Of(1.5, 2.0, 3.0)))
	assert.Equal(t, 0.0, SumOf(New[int]()))
}

func TestTrySum(t *testing.T) {
	got, err := TrySum(Of("1.5", "2.5"), func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	_, err = TrySum(Of("1", "x"), func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
	assert.Error(t, err)
}

func TestAverage(t *testing.T) {
	got := Average(Of(person{"a", 10}, person{"b", 20}, person{"c", 60}), age)
	assert.Equal(t, 30.0, got)
	assert.Equal(t, 2.0, AverageOf(Of(1, 2, 3)))
}

func TestAverage_EmptyIsNaN(t *testing.T) {
	var got float64
	assert.NotPanics(t, func() {
		got = Average(New[person](), age)
	})
	assert.True(t, math.IsNaN(got), "average of nothing is 0/0")
	assert.True(t, math.IsNaN(AverageOf(New[int]())))
}

func TestTryAverage(t *testing.T) {
	got, err := TryAverage(Of(2.0, 4.0), func(f float64) (float64, error) { return f, nil })
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	got, err = TryAverage(New[float64](), func(f float64) (float64, error) { return f, nil })
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	boom := errors.New("boom")
	_, err = TryAverage(Of(1.0), func(float64) (float64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func TestMaxMin(t *testing.T) {
	src := Of(person{"a", 30}, person{"b", 50}, person{"c", 10})

	assert.Equal(t, "b", Max(src, age).OrElse(person{}).Name)
	assert.Equal(t, "c", Min(src, age).OrElse(person{}).Name)
}

func TestMaxMin_FirstWinsTies(t *testing.T) {
	src := Of(person{"first-low", 1}, person{"first-high", 9}, person{"second-high", 9}, person{"second-low", 1})

	assert.Equal(t, "first-high", Max(src, age).OrElse(person{}).Name)
	assert.Equal(t, "first-low", Min(src, age).OrElse(person{}).Name)
}

func TestMaxMin_EmptyIsAbsent(t *testing.T) {
	assert.False(t, Max(New[person](), age).IsPresent())
	assert.False(t, Min(New[person](), age).IsPresent())
	assert.False(t, MaxOf(New[int]()).IsPresent())
}

func TestMaxMin_KeyCalledOncePerElement(t *testing.T) {
	calls := 0
	Max(Of(3, 1, 2), func(n int) int {
		calls++
		return n
	})
	assert.Equal(t, 3, calls)
}

func TestMaxOfMinOf(t *testing.T) {
	assert.Equal(t, 9, MaxOf(Of(3, 9, 1)).OrElse(0))
	assert.Equal(t, 1, MinOf(Of(3, 9, 1)).OrElse(0))
	assert.Equal(t, "pear", MaxOf(Of("apple", "pear", "fig")).OrElse(""))
}

func TestMaxFuncMinFunc(t *testing.T) {
	byLen := func(a, b int) int { return a - b }
	src := Of("aa", "b", "cccc", "dddd")

	assert.Equal(t, "cccc", MaxFunc(src, func(s string) int { return len(s) }, byLen).OrElse(""))
	assert.Equal(t, "b", MinFunc(src, func(s string) int { return len(s) }, byLen).OrElse(""))
}
