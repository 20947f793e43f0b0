package core

import (
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func testDataset(t *testing.T) *Dataset {
	d, err := FromRows([]string{"a", "b", "c"}, [][]interface{}{
		{1, "x", nil},
		{2, "y", 3.5},
		{3, "z", math.NaN()},
	})
	if !assert.NoError(t, err) {
		assert.FailNow(t, "构造数据失败")
	}
	return d
}

func TestFromRows(t *testing.T) {
	d := testDataset(t)
	assert.Equal(t, 3, d.NumRows())
	assert.Equal(t, []string{"a", "b", "c"}, d.Columns())

	v, err := d.Value("a", 0)
	assert.NoError(t, err)
	assert.Equal(t, float64(1), v)

	// NaN统一转换为nil
	v, _ = d.Value("c", 2)
	assert.Nil(t, v)

	/*
		行长度不一致
	*/
	_, err = FromRows([]string{"a"}, [][]interface{}{{1, 2}})
	assert.Error(t, err)

	/*
		列名重复
	*/
	_, err = FromRows([]string{"a", "a"}, nil)
	assert.Error(t, err)
}

func TestDataset_Copy(t *testing.T) {
	d := testDataset(t)
	c := d.Copy()
	s, _ := c.Column("a")
	s.Values[0] = 100.0
	assert.NoError(t, c.Drop([]string{"b"}))

	v, _ := d.Value("a", 0)
	assert.Equal(t, float64(1), v)
	assert.True(t, d.HasColumn("b"))
}

func TestDataset_Select(t *testing.T) {
	d := testDataset(t)
	s, err := d.Select([]string{"c", "a"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, s.Columns())
	assert.Equal(t, 3, s.NumRows())

	_, err = d.Select([]string{"missing"})
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestDataset_DropAndRename(t *testing.T) {
	d := testDataset(t)
	err := d.Drop([]string{"b", "nope"})
	assert.True(t, errors.Is(err, ErrColumnNotFound))
	// 失败时不做任何修改
	assert.Equal(t, 3, d.NumColumns())

	assert.NoError(t, d.Drop([]string{"b"}))
	assert.Equal(t, []string{"a", "c"}, d.Columns())

	assert.NoError(t, d.Rename(map[string]string{"a": "alpha"}))
	assert.Equal(t, []string{"alpha", "c"}, d.Columns())
	_, err = d.Column("a")
	assert.Error(t, err)

	err = d.Rename(map[string]string{"alpha": "c"})
	assert.Error(t, err)

	/*
		删除所有列后没有行
	*/
	assert.NoError(t, d.Drop([]string{"alpha", "c"}))
	assert.Equal(t, 0, d.NumColumns())
	assert.Equal(t, 0, d.NumRows())
}

func TestDataset_SetColumnAndFilter(t *testing.T) {
	d := testDataset(t)
	err := d.SetColumn(NewSeries("d", []interface{}{1.0}))
	assert.Error(t, err)

	assert.NoError(t, d.SetColumn(NewSeries("d", []interface{}{1.0, 2.0, 3.0})))
	assert.Equal(t, "d", d.Columns()[3])

	assert.Error(t, d.AddSeries(NewSeries("d", []interface{}{1.0, 2.0, 3.0})))
	assert.NoError(t, d.AddSeries(NewSeries("e", []interface{}{1.0, 2.0, 3.0})))

	f := d.FilterRows([]bool{false, true, true})
	assert.Equal(t, 2, f.NumRows())
	v, _ := f.Value("d", 0)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, 3, d.NumRows())
}

func TestValueHelpers(t *testing.T) {
	assert.True(t, IsMissing(nil))
	assert.True(t, IsMissing(math.NaN()))
	assert.False(t, IsMissing(""))

	assert.True(t, Equal(1, 1.0))
	assert.False(t, Equal(nil, nil))
	assert.False(t, Equal("1", 1))

	assert.Equal(t, "1.5", Format(1.5))
	assert.Equal(t, "3", Format(3))
	assert.Equal(t, "2020-01-02", Format(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", Format(nil))

	na := NASet(DefaultNAValues)
	assert.Nil(t, ParseCell("NA", na))
	assert.Equal(t, 12.0, ParseCell("12", na))
	assert.Equal(t, " x ", ParseCell(" x ", na))
	assert.Equal(t, true, ParseCell("True", na))

	tm, ok := ParseTime("2021-03-04")
	assert.True(t, ok)
	assert.Equal(t, 2021, tm.Year())
	tm, ok = ParseTime("12/25/2020")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2020, 12, 25, 0, 0, 0, 0, time.UTC), tm)
	tm, _ = ParseTime("01/02/2020")
	assert.Equal(t, time.January, tm.Month())
	_, ok = ParseTime("not a date")
	assert.False(t, ok)
}
