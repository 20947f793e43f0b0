package transform

import (
	"math"
	"testing"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewScaler(t *testing.T) {
	_, err := NewScaler(ScalerConfig{ScaleMeta: []ScaleSpec{{Scaler: "robust", Columns: []string{"a"}}}})
	assert.True(t, errors.Is(err, ErrUnknownOperation))

	_, err = NewScaler(ScalerConfig{ScaleMeta: []ScaleSpec{{Scaler: ScalerMinMax}}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	one := 1.0
	_, err = NewScaler(ScalerConfig{ScaleMeta: []ScaleSpec{
		{Scaler: ScalerMinMax, Columns: []string{"a"}, Params: ScalerParams{VMin: &one, VMax: &one}},
	}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = NewScaler(ScalerConfig{ScaleMeta: []ScaleSpec{
		{Scaler: ScalerStandard, Columns: []string{"a"}, Params: ScalerParams{VMin: &one}},
	}})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestScaler(t *testing.T) {
	data := mustDataset(t, []string{"a", "b", "c", "d", "e"}, [][]interface{}{
		{0, 10, 1, 5, 7},
		{5, 20, 2, 15, 7},
		{10, nil, 3, 25, 7},
	})
	vMin, vMax := -1.0, 1.0
	scaler, err := NewScaler(ScalerConfig{ScaleMeta: []ScaleSpec{
		{Scaler: ScalerMinMax, Columns: []string{"a"}},
		{Scaler: ScalerMinMax, Columns: []string{"b"}, Params: ScalerParams{VMin: &vMin, VMax: &vMax}},
		{Scaler: ScalerStandard, Columns: []string{"c"}},
		{Scaler: ScalerMinMaxMultiple, Columns: []string{"a", "d"}},
		{Scaler: ScalerMinMax, Columns: []string{"e"}},
	}})
	assert.NoError(t, err)

	out, err := assertNotMutated(t, scaler, data)
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{-1.0, 1.0, nil}, columnValues(t, out, "b"))
	assert.Equal(t, []interface{}{-1.0, 0.0, 1.0}, columnValues(t, out, "c"))
	// a先被缩放到[0,1]，再与d共同计算最小最大值
	assert.Equal(t, []interface{}{0.0, 0.02, 0.04}, roundAll(columnValues(t, out, "a")))
	assert.Equal(t, []interface{}{0.2, 0.6, 1.0}, roundAll(columnValues(t, out, "d")))
	// 取值全部相同时无法缩放
	assert.Equal(t, []interface{}{nil, nil, nil}, columnValues(t, out, "e"))

	_, err = scaler.Transform(mustDataset(t, []string{"a"}, [][]interface{}{{1}}))
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))

	scaler, _ = NewScaler(ScalerConfig{ScaleMeta: []ScaleSpec{{Scaler: ScalerStandard, Columns: []string{"s"}}}})
	_, err = scaler.Transform(mustDataset(t, []string{"s"}, [][]interface{}{{"x"}}))
	assert.Error(t, err)
}

func roundAll(values []interface{}) []interface{} {
	result := make([]interface{}, len(values))
	for i, v := range values {
		if f, ok := v.(float64); ok {
			result[i] = math.Round(f*1e6) / 1e6
		}
	}
	return result
}
