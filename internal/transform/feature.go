package transform

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/packagewjx/ds-toolbelt/internal/utils"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

const daysPerYear = 365.25

type FeatureSpec struct {
	Operation   string                 `yaml:"operation"`
	FeatureName string                 `yaml:"feature_name"`
	Columns     []string               `yaml:"columns"`
	Params      map[string]interface{} `yaml:"params,omitempty"`
}

type FeatureTransformerConfig struct {
	TransformerMeta []FeatureSpec `yaml:"transformer_meta"`
}

type paramSpec struct {
	name     string
	numeric  bool
	required bool
}

type featureFunc func(f *FeatureTransformer, in []*core.Series, p featureParams) ([]interface{}, error)

type featureOperation struct {
	minColumns int
	// 0表示不限制
	maxColumns int
	params     []paramSpec
	apply      featureFunc
}

var featureOperations = map[string]featureOperation{
	"duplicated_flag": {minColumns: 1, apply: duplicatedFlag},
	"no_show_flag": {minColumns: 2, maxColumns: 2, apply: noShowFlag, params: []paramSpec{
		{name: "first_column_value", required: true},
		{name: "second_column_value", required: true},
	}},
	"add": {minColumns: 2, maxColumns: 2, apply: binaryOp(func(a, b float64) float64 {
		return a + b
	})},
	"subtract": {minColumns: 2, maxColumns: 2, apply: binaryOp(func(a, b float64) float64 {
		return a - b
	})},
	"round": {minColumns: 1, maxColumns: 1, apply: roundOp, params: []paramSpec{
		{name: "decimals", numeric: true},
	}},
	"floor": {minColumns: 1, maxColumns: 1, apply: floorOp},
	"multiply": {minColumns: 1, apply: multiplyOp},
	"divide": {minColumns: 2, maxColumns: 2, apply: binaryOp(func(a, b float64) float64 {
		return a / b
	})},
	"divide_constant": {minColumns: 1, maxColumns: 1, apply: divideConstant, params: []paramSpec{
		{name: "constant", numeric: true, required: true},
	}},
	"fix_texts": {minColumns: 1, maxColumns: 1, apply: stringOp(NormalizeText)},
	"growth_rate": {minColumns: 2, maxColumns: 2, apply: binaryOp(func(a, b float64) float64 {
		return (a - b) / b
	})},
	"date_diff": {minColumns: 2, maxColumns: 2, apply: dateDiff},
	"calculate_age": {minColumns: 1, maxColumns: 1, apply: calculateAge, params: []paramSpec{
		{name: "n_digits", numeric: true},
	}},
	"date_to_month": {minColumns: 1, maxColumns: 1, apply: dateToMonth},
	"fix_zipcodes": {minColumns: 1, maxColumns: 1, apply: stringOp(strings.NewReplacer(" ", "", "-", "").Replace)},
	"inequality_flag": {minColumns: 1, maxColumns: 1, apply: inequalityFlag, params: []paramSpec{
		{name: "threshold", numeric: true, required: true},
	}},
}

// FeatureOperations 返回支持的特征操作名
func FeatureOperations() []string {
	names := make([]string, 0, len(featureOperations))
	for name := range featureOperations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type featureParams map[string]interface{}

func (p featureParams) number(name string, def float64) float64 {
	v, ok := p[name]
	if !ok {
		return def
	}
	f, _ := core.ToFloat(v)
	return f
}

type FeatureOption func(f *FeatureTransformer)

// WithClock 指定计算年龄时使用的时钟
func WithClock(clock clockwork.Clock) FeatureOption {
	return func(f *FeatureTransformer) {
		f.clock = clock
	}
}

// FeatureTransformer 按配置顺序构造新特征，每项配置写入恰好一个新列
type FeatureTransformer struct {
	stateless
	cfg   FeatureTransformerConfig
	clock clockwork.Clock
}

func NewFeatureTransformer(cfg FeatureTransformerConfig, opts ...FeatureOption) (*FeatureTransformer, error) {
	for i, spec := range cfg.TransformerMeta {
		if err := checkFeatureSpec(spec); err != nil {
			return nil, errors.Wrapf(err, "transformer_meta第%d项", i)
		}
	}
	f := &FeatureTransformer{cfg: cfg, clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func checkFeatureSpec(spec FeatureSpec) error {
	op, ok := featureOperations[spec.Operation]
	if !ok {
		return errors.Wrapf(ErrUnknownOperation, "特征操作%q", spec.Operation)
	}
	if spec.FeatureName == "" {
		return invalidConfig("操作%s缺少feature_name", spec.Operation)
	}
	n := len(spec.Columns)
	if n < op.minColumns || (op.maxColumns > 0 && n > op.maxColumns) {
		if op.maxColumns == 0 {
			return invalidConfig("操作%s至少需要%d列，现在为%d列", spec.Operation, op.minColumns, n)
		}
		if op.minColumns == op.maxColumns {
			return invalidConfig("操作%s需要%d列，现在为%d列", spec.Operation, op.minColumns, n)
		}
		return invalidConfig("操作%s需要%d到%d列，现在为%d列", spec.Operation, op.minColumns, op.maxColumns, n)
	}

	known := make(map[string]paramSpec, len(op.params))
	for _, ps := range op.params {
		known[ps.name] = ps
		v, ok := spec.Params[ps.name]
		if !ok {
			if ps.required {
				return invalidConfig("操作%s缺少参数%s", spec.Operation, ps.name)
			}
			continue
		}
		if _, isNum := core.ToFloat(v); ps.numeric && (!isNum || core.IsMissing(v)) {
			return invalidConfig("操作%s的参数%s必须是数值，现在为%v", spec.Operation, ps.name, v)
		}
	}
	for name := range spec.Params {
		if _, ok := known[name]; !ok {
			return invalidConfig("操作%s不支持参数%s", spec.Operation, name)
		}
	}
	if spec.Operation == "divide_constant" {
		if c, _ := core.ToFloat(spec.Params["constant"]); c == 0 {
			return invalidConfig("操作divide_constant的参数constant不能为0")
		}
	}
	return nil
}

func (f *FeatureTransformer) Kind() Kind {
	return KindFeatureTransformer
}

func (f *FeatureTransformer) Config() interface{} {
	return f.cfg
}

func (f *FeatureTransformer) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	for _, spec := range f.cfg.TransformerMeta {
		op, ok := featureOperations[spec.Operation]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownOperation, "特征操作%q", spec.Operation)
		}
		in := make([]*core.Series, len(spec.Columns))
		for i, column := range spec.Columns {
			s, err := out.Column(column)
			if err != nil {
				return nil, errors.Wrapf(err, "构造特征%s", spec.FeatureName)
			}
			in[i] = s
		}
		values, err := op.apply(f, in, spec.Params)
		if err != nil {
			return nil, errors.Wrapf(err, "构造特征%s", spec.FeatureName)
		}
		if err := out.SetColumn(core.NewSeries(spec.FeatureName, values)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// finite 非有限的计算结果视为缺失
func finite(x float64) interface{} {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return x
}

func flag(b bool) interface{} {
	if b {
		return 1.0
	}
	return 0.0
}

// numbers 取出一行中各列的数值，有缺失时ok为false
func numbers(in []*core.Series, row int) (values []float64, ok bool, err error) {
	values = make([]float64, len(in))
	for i, s := range in {
		v := s.Values[row]
		if core.IsMissing(v) {
			return nil, false, nil
		}
		f, isNum := core.ToFloat(v)
		if !isNum {
			return nil, false, errors.Wrapf(&utils.NotNumericError{Row: row, Value: v}, "列%s", s.Name)
		}
		values[i] = f
	}
	return values, true, nil
}

func numericOp(in []*core.Series, fn func(values []float64) float64) ([]interface{}, error) {
	result := make([]interface{}, in[0].Len())
	for row := range result {
		values, ok, err := numbers(in, row)
		if err != nil {
			return nil, err
		}
		if ok {
			result[row] = finite(fn(values))
		}
	}
	return result, nil
}

func binaryOp(fn func(a, b float64) float64) featureFunc {
	return func(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
		return numericOp(in, func(values []float64) float64 {
			return fn(values[0], values[1])
		})
	}
}

func multiplyOp(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
	return numericOp(in, func(values []float64) float64 {
		product := 1.0
		for _, v := range values {
			product *= v
		}
		return product
	})
}

// roundHalfEven 按银行家舍入保留decimals位小数
func roundHalfEven(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(x*p) / p
}

func roundOp(_ *FeatureTransformer, in []*core.Series, p featureParams) ([]interface{}, error) {
	decimals := int(p.number("decimals", 0))
	return numericOp(in, func(values []float64) float64 {
		return roundHalfEven(values[0], decimals)
	})
}

func floorOp(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
	return numericOp(in, func(values []float64) float64 {
		return math.Floor(values[0])
	})
}

func divideConstant(_ *FeatureTransformer, in []*core.Series, p featureParams) ([]interface{}, error) {
	c := p.number("constant", 1)
	return numericOp(in, func(values []float64) float64 {
		return values[0] / c
	})
}

func inequalityFlag(_ *FeatureTransformer, in []*core.Series, p featureParams) ([]interface{}, error) {
	threshold := p.number("threshold", 0)
	result := make([]interface{}, in[0].Len())
	for row := range result {
		values, ok, err := numbers(in, row)
		if err != nil {
			return nil, err
		}
		result[row] = flag(ok && values[0] < threshold)
	}
	return result, nil
}

func duplicatedFlag(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
	n := in[0].Len()
	keys := make([]string, n)
	counts := make(map[string]int, n)
	for row := 0; row < n; row++ {
		keys[row] = rowKey(in, row)
		counts[keys[row]]++
	}
	result := make([]interface{}, n)
	for row := range result {
		result[row] = flag(counts[keys[row]] > 1)
	}
	return result, nil
}

func noShowFlag(_ *FeatureTransformer, in []*core.Series, p featureParams) ([]interface{}, error) {
	first, second := core.Normalize(p["first_column_value"]), core.Normalize(p["second_column_value"])
	result := make([]interface{}, in[0].Len())
	for row := range result {
		result[row] = flag(!core.Equal(in[0].Values[row], first) && core.Equal(in[1].Values[row], second))
	}
	return result, nil
}

func stringOp(fn func(string) string) featureFunc {
	return func(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
		result := make([]interface{}, in[0].Len())
		for row, v := range in[0].Values {
			if core.IsMissing(v) {
				continue
			}
			result[row] = fn(core.Format(v))
		}
		return result, nil
	}
}

// dates 解析一行中各列的日期，有缺失时ok为false，无法解析时返回错误
func dates(in []*core.Series, row int) (values []time.Time, ok bool, err error) {
	values = make([]time.Time, len(in))
	for i, s := range in {
		v := s.Values[row]
		if core.IsMissing(v) {
			return nil, false, nil
		}
		t, isTime := core.ParseTime(v)
		if !isTime {
			return nil, false, errors.Errorf("列%s第%d行的值%v不是日期", s.Name, row, v)
		}
		values[i] = t
	}
	return values, true, nil
}

// wholeDays 与时间差的天数部分一致，向下取整
func wholeDays(d time.Duration) float64 {
	return math.Floor(d.Hours() / 24)
}

func dateDiff(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
	result := make([]interface{}, in[0].Len())
	for row := range result {
		values, ok, err := dates(in, row)
		if err != nil {
			return nil, err
		}
		if ok {
			result[row] = roundHalfEven(wholeDays(values[0].Sub(values[1]))/daysPerYear, 1)
		}
	}
	return result, nil
}

func calculateAge(f *FeatureTransformer, in []*core.Series, p featureParams) ([]interface{}, error) {
	digits := int(p.number("n_digits", 1))
	now := f.clock.Now()
	result := make([]interface{}, in[0].Len())
	for row := range result {
		values, ok, err := dates(in, row)
		if err != nil {
			return nil, err
		}
		if ok {
			result[row] = roundHalfEven(wholeDays(now.Sub(values[0]))/daysPerYear, digits)
		}
	}
	return result, nil
}

// dateToMonth 把日期截断到当月1日，无法解析的值视为缺失
func dateToMonth(_ *FeatureTransformer, in []*core.Series, _ featureParams) ([]interface{}, error) {
	result := make([]interface{}, in[0].Len())
	for row, v := range in[0].Values {
		t, ok := core.ParseTime(v)
		if !ok {
			continue
		}
		result[row] = time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	}
	return result, nil
}
