package transform

import (
	"testing"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMinimumPercentageFilter(t *testing.T) {
	_, err := NewMinimumPercentageFilter(MinimumPercentageFilterConfig{
		MinimumPercentageMeta: map[string]float64{"a": 1.5},
	})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	data := mustDataset(t, []string{"a"}, [][]interface{}{{"A"}, {"A"}, {"A"}, {"B"}})
	filter, err := NewMinimumPercentageFilter(MinimumPercentageFilterConfig{
		MinimumPercentageMeta: map[string]float64{"a": 0.5},
	})
	assert.NoError(t, err)

	out, err := assertNotMutated(t, filter, data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"A", "A", "A", OtherCategory}, columnValues(t, out, "a"))

	/*
		比较是严格大于，缺失值不参与计数且保持缺失
	*/
	data = mustDataset(t, []string{"a"}, [][]interface{}{{"A"}, {"B"}, {nil}, {nil}})
	out, err = filter.Transform(data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{OtherCategory, OtherCategory, nil, nil}, columnValues(t, out, "a"))

	/*
		受限类别列追加other类别
	*/
	data = mustDataset(t, []string{"a"}, [][]interface{}{{"x"}, {"x"}, {"y"}})
	s, _ := data.Column("a")
	s.Categories = []string{"x", "y"}
	out, err = filter.Transform(data)
	assert.NoError(t, err)
	s, _ = out.Column("a")
	assert.Equal(t, []string{"x", "y", OtherCategory}, s.Categories)
}

func TestBinarizer(t *testing.T) {
	data := mustDataset(t, []string{"answer"}, [][]interface{}{{"yes"}, {"no"}, {"yes"}})
	binarizer, err := NewBinarizer(BinarizerConfig{BinarizerMeta: map[string]interface{}{"answer": "yes"}})
	assert.NoError(t, err)

	out, err := assertNotMutated(t, binarizer, data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 0.0, 1.0}, columnValues(t, out, "answer_is_yes"))

	/*
		三个类别
	*/
	data = mustDataset(t, []string{"answer"}, [][]interface{}{{"yes"}, {"no"}, {"maybe"}})
	out, err = binarizer.Transform(data)
	assert.True(t, errors.Is(err, ErrNotBinary))
	assert.Nil(t, out)
	assert.False(t, data.HasColumn("answer_is_yes"))

	/*
		缺失值也算作一个类别
	*/
	data = mustDataset(t, []string{"answer"}, [][]interface{}{{"yes"}, {"no"}, {nil}})
	_, err = binarizer.Transform(data)
	assert.True(t, errors.Is(err, ErrNotBinary))

	/*
		数值参考值
	*/
	data = mustDataset(t, []string{"flag"}, [][]interface{}{{1}, {2}})
	binarizer, _ = NewBinarizer(BinarizerConfig{BinarizerMeta: map[string]interface{}{"flag": 2}})
	out, err = binarizer.Transform(data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{0.0, 1.0}, columnValues(t, out, "flag_is_2"))

	_, err = NewBinarizer(BinarizerConfig{BinarizerMeta: map[string]interface{}{"flag": nil}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestEncoder(t *testing.T) {
	meta := map[string]interface{}{"M": "male", "F": "female"}
	encoder, err := NewEncoder(EncoderConfig{EncoderMeta: map[string]map[string]interface{}{"sex": meta}})
	assert.NoError(t, err)

	data := mustDataset(t, []string{"sex"}, [][]interface{}{{"M"}, {"F"}, {"X"}, {nil}})
	out, err := assertNotMutated(t, encoder, data)
	assert.NoError(t, err)
	// 映射表中没有的值保持原样
	assert.Equal(t, []interface{}{"male", "female", "X", nil}, columnValues(t, out, "sex"))
	assert.Len(t, meta, 2)

	/*
		数值取值与数值替换
	*/
	encoder, _ = NewEncoder(EncoderConfig{EncoderMeta: map[string]map[string]interface{}{
		"level": {"1": "low", "2": 20},
	}})
	data = mustDataset(t, []string{"level"}, [][]interface{}{{1}, {2}, {3}})
	out, err = encoder.Transform(data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{"low", 20.0, 3.0}, columnValues(t, out, "level"))

	_, err = encoder.Transform(mustDataset(t, []string{"x"}, [][]interface{}{{1}}))
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))
}

func TestDumminizer(t *testing.T) {
	data := mustDataset(t, []string{"color", "n"}, [][]interface{}{
		{"red", 1},
		{"blue", 2},
		{nil, 3},
		{"red", 4},
	})
	dumminizer, err := NewDumminizer(DumminizerConfig{DummiesColumns: []string{"color"}})
	assert.NoError(t, err)

	out, err := assertNotMutated(t, dumminizer, data)
	assert.NoError(t, err)
	assert.Equal(t, []string{"n", "color_blue", "color_red"}, out.Columns())
	assert.Equal(t, []interface{}{0.0, 1.0, 0.0, 0.0}, columnValues(t, out, "color_blue"))
	assert.Equal(t, []interface{}{1.0, 0.0, 0.0, 1.0}, columnValues(t, out, "color_red"))

	/*
		数值列按数值排序
	*/
	data = mustDataset(t, []string{"k"}, [][]interface{}{{10}, {9}})
	dumminizer, _ = NewDumminizer(DumminizerConfig{DummiesColumns: []string{"k"}})
	out, err = dumminizer.Transform(data)
	assert.NoError(t, err)
	assert.Equal(t, []string{"k_9", "k_10"}, out.Columns())

	/*
		受限类别列按类别顺序，未出现的类别也生成列
	*/
	data = mustDataset(t, []string{"k"}, [][]interface{}{{"b"}})
	s, _ := data.Column("k")
	s.Categories = []string{"b", "a"}
	out, err = dumminizer.Transform(data)
	assert.NoError(t, err)
	assert.Equal(t, []string{"k_b", "k_a"}, out.Columns())

	dumminizer, _ = NewDumminizer(DumminizerConfig{DummiesColumns: []string{"none"}})
	_, err = dumminizer.Transform(data)
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))
}
