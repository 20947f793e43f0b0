package transform

import (
	"testing"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMissingInputer(t *testing.T) {
	_, err := NewMissingInputer(MissingInputerConfig{DefaultNumericalMissingColumns: []string{"a"}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
	_, err = NewMissingInputer(MissingInputerConfig{DefaultCategoricalMissingColumns: []string{"a"}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	zero := 0.0
	unknown := "unknown"
	inputer, err := NewMissingInputer(MissingInputerConfig{
		DefaultNumericalMissingColumns:   []string{"n", "m"},
		DefaultCategoricalMissingColumns: []string{"c", "band"},
		OtherMissingMeta:                 map[string]interface{}{"m": -1, "z": "none"},
		DefaultFillMeta:                  DefaultFill{Numerical: &zero, Categorical: &unknown},
	})
	assert.NoError(t, err)

	data := mustDataset(t, []string{"n", "m", "c", "band", "z"}, [][]interface{}{
		{nil, nil, nil, nil, nil},
		{1, 2, "x", "(0, 1]", "y"},
	})
	s, _ := data.Column("band")
	s.Categories = []string{"(0, 1]"}

	out, err := assertNotMutated(t, inputer, data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{0.0, 1.0}, columnValues(t, out, "n"))
	// 按列指定的值覆盖默认值
	assert.Equal(t, []interface{}{-1.0, 2.0}, columnValues(t, out, "m"))
	assert.Equal(t, []interface{}{"unknown", "x"}, columnValues(t, out, "c"))
	assert.Equal(t, []interface{}{"none", "y"}, columnValues(t, out, "z"))

	s, _ = out.Column("band")
	assert.Equal(t, []interface{}{"unknown", "(0, 1]"}, s.Values)
	assert.Equal(t, []string{"(0, 1]", "unknown"}, s.Categories)
	s, _ = out.Column("c")
	assert.False(t, s.IsCategorical())

	_, err = inputer.Transform(mustDataset(t, []string{"n"}, [][]interface{}{{nil}}))
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))
}

func TestCustomTransformer(t *testing.T) {
	data := mustDataset(t, []string{"a"}, [][]interface{}{{1}, {2}})

	/*
		未注册的名字原样返回
	*/
	custom, _ := NewCustomTransformer(CustomTransformerConfig{CustomTransformerName: "missing"})
	out, err := assertNotMutated(t, custom, data)
	assert.NoError(t, err)
	assert.Equal(t, data.Columns(), out.Columns())

	custom, _ = NewCustomTransformer(CustomTransformerConfig{CustomTransformerName: "v0"})
	out, err = custom.Transform(data)
	assert.NoError(t, err)
	assert.Equal(t, columnValues(t, data, "a"), columnValues(t, out, "a"))

	RegisterCustom("double_a", func(data *core.Dataset) (*core.Dataset, error) {
		s, err := data.Column("a")
		if err != nil {
			return nil, err
		}
		for i, v := range s.Values {
			f, _ := core.ToFloat(v)
			s.Values[i] = f * 2
		}
		return data, nil
	})
	custom, _ = NewCustomTransformer(CustomTransformerConfig{CustomTransformerName: "double_a"})
	out, err = assertNotMutated(t, custom, data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{2.0, 4.0}, columnValues(t, out, "a"))

	_, ok := LookupCustom("double_a")
	assert.True(t, ok)
}
