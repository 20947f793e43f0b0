package utils

import (
	"math"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
)

// GetSortedPositionValue 返回arr排序后第pos个值，arr会被部分重排
func GetSortedPositionValue(arr []float64, pos int) float64 {
	if pos < 0 || pos >= len(arr) {
		return math.NaN()
	}

	l := 0
	r := len(arr) - 1
	for l < r {
		idx := Partition(arr, l, r)
		if idx == pos {
			break
		} else if idx < pos {
			l = idx + 1
		} else {
			r = idx - 1
		}
	}

	return arr[pos]
}

func Partition(arr []float64, l, r int) int {
	slice := arr[l : r+1]

	if len(slice) == 0 {
		return 0
	}
	m := len(slice) / 2
	slice[0], slice[m] = slice[m], slice[0]
	pivot := slice[0]

	i := 0
	j := len(slice) - 1

	for i < j {
		for i < j && slice[j] > pivot {
			j--
		}
		slice[i] = slice[j]

		for i < j && slice[i] <= pivot {
			i++
		}
		slice[j] = slice[i]
	}
	slice[i] = pivot

	return l + i
}

// Quantile 线性插值计算分位数，q取值[0,1]。不会修改values
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 || q < 0 || q > 1 {
		return math.NaN()
	}
	arr := make([]float64, len(values))
	copy(arr, values)

	pos := q * float64(len(arr)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	lv := GetSortedPositionValue(arr, lower)
	if lower == upper {
		return lv
	}
	uv := GetSortedPositionValue(arr, upper)
	return lv + (uv-lv)*(pos-float64(lower))
}

// NumericValues 取出列中所有非缺失的数值
func NumericValues(values []interface{}) ([]float64, error) {
	result := make([]float64, 0, len(values))
	for i, v := range values {
		if core.IsMissing(v) {
			continue
		}
		f, ok := core.ToFloat(v)
		if !ok {
			return nil, &NotNumericError{Row: i, Value: v}
		}
		result = append(result, f)
	}
	return result, nil
}

func FormatRecord(record []interface{}) []string {
	result := make([]string, len(record))
	for i, v := range record {
		result[i] = core.Format(v)
	}
	return result
}

func MinMax(values []float64) (float64, float64) {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func Mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Std 样本标准差（自由度n-1）
func Std(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
