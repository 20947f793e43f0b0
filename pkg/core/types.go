package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var ErrColumnNotFound = errors.New("列不存在")

var ErrInvalidConfig = errors.New("配置错误")

// 读取文件时默认视为缺失值的字符串
var DefaultNAValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "null", "NULL", "None", "#N/A", "<NA>"}

const DateLayout = "2006-01-02"

const DateTimeLayout = "2006-01-02 15:04:05"

var timeLayouts = []string{
	DateLayout,
	DateTimeLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006/01/02",
	// 斜杠分隔时月份在前，如12/25/2020
	"1/2/2006",
	"1/2/2006 15:04:05",
}

// 单元格的取值只有nil、float64、string、bool与time.Time五种，nil表示缺失
func IsMissing(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// Normalize 把配置文件或数据库驱动给出的值转换为单元格取值
func Normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		if math.IsNaN(float64(x)) {
			return nil
		}
		return float64(x)
	case float64:
		if math.IsNaN(x) {
			return nil
		}
		return x
	case []byte:
		return string(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	}
	return v
}

func ToFloat(v interface{}) (float64, bool) {
	switch x := Normalize(v).(type) {
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// Equal 比较两个单元格取值。缺失值与任何值都不相等
func Equal(a, b interface{}) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return false
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

// Format 把单元格取值转换为输出文件中的字符串
func Format(v interface{}) string {
	v = Normalize(v)
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(DateLayout)
		}
		return x.Format(DateTimeLayout)
	}
	return fmt.Sprint(v)
}

// ParseCell 解析文件中的一个单元格。naValues中的字符串视为缺失
func ParseCell(raw string, naValues map[string]struct{}) interface{} {
	if _, ok := naValues[raw]; ok {
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Normalize(f)
	}
	switch raw {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	return raw
}

func ParseTime(v interface{}) (time.Time, bool) {
	switch x := Normalize(v).(type) {
	case time.Time:
		return x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func NASet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
