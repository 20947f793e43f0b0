package transform

import (
	"fmt"
	"sort"
	"time"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

// 低频类别被替换成的类别
const OtherCategory = "other"

// cellKey 返回区分类型的取值键，缺失值的键都相同
func cellKey(v interface{}) string {
	if core.IsMissing(v) {
		return "<nil>"
	}
	return fmt.Sprintf("%T:%s", core.Normalize(v), core.Format(v))
}

type MinimumPercentageFilterConfig struct {
	MinimumPercentageMeta map[string]float64 `yaml:"minimum_percentage_meta"`
}

type MinimumPercentageFilter struct {
	stateless
	cfg MinimumPercentageFilterConfig
}

func NewMinimumPercentageFilter(cfg MinimumPercentageFilterConfig) (*MinimumPercentageFilter, error) {
	for column, pct := range cfg.MinimumPercentageMeta {
		if pct < 0 || pct > 1 {
			return nil, invalidConfig("minimum_percentage_meta的列%s比例必须在[0,1]之间，现在为%v", column, pct)
		}
	}
	return &MinimumPercentageFilter{cfg: cfg}, nil
}

func (m *MinimumPercentageFilter) Kind() Kind {
	return KindMinimumPercentageFilter
}

func (m *MinimumPercentageFilter) Config() interface{} {
	return m.cfg
}

func (m *MinimumPercentageFilter) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	columns := make([]string, 0, len(m.cfg.MinimumPercentageMeta))
	for column := range m.cfg.MinimumPercentageMeta {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		s, err := out.Column(column)
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int)
		for _, v := range s.Values {
			if !core.IsMissing(v) {
				counts[cellKey(v)]++
			}
		}
		threshold := m.cfg.MinimumPercentageMeta[column] * float64(s.NonMissing())
		replaced := false
		for i, v := range s.Values {
			if core.IsMissing(v) {
				continue
			}
			if !(float64(counts[cellKey(v)]) > threshold) {
				s.Values[i] = OtherCategory
				replaced = true
			}
		}
		if replaced {
			s.AddCategory(OtherCategory)
		}
	}
	return out, nil
}

type BinarizerConfig struct {
	BinarizerMeta map[string]interface{} `yaml:"binarizer_meta"`
}

// Binarizer 对恰好有两个取值的列生成<列名>_is_<取值>的0/1列
type Binarizer struct {
	stateless
	cfg BinarizerConfig
}

func NewBinarizer(cfg BinarizerConfig) (*Binarizer, error) {
	for column, v := range cfg.BinarizerMeta {
		if core.IsMissing(v) {
			return nil, invalidConfig("binarizer_meta的列%s缺少参考值", column)
		}
	}
	return &Binarizer{cfg: cfg}, nil
}

func (b *Binarizer) Kind() Kind {
	return KindBinarizer
}

func (b *Binarizer) Config() interface{} {
	return b.cfg
}

func (b *Binarizer) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	columns := make([]string, 0, len(b.cfg.BinarizerMeta))
	for column := range b.cfg.BinarizerMeta {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		s, err := out.Column(column)
		if err != nil {
			return nil, err
		}
		distinct := make(map[string]struct{})
		for _, v := range s.Values {
			distinct[cellKey(v)] = struct{}{}
		}
		if len(distinct) != 2 {
			return nil, errors.Wrapf(ErrNotBinary, "列%s有%d个类别", column, len(distinct))
		}

		ref := core.Normalize(b.cfg.BinarizerMeta[column])
		values := make([]interface{}, s.Len())
		for i, v := range s.Values {
			if core.Equal(v, ref) {
				values[i] = 1.0
			} else {
				values[i] = 0.0
			}
		}
		name := fmt.Sprintf("%s_is_%s", column, core.Format(ref))
		if err := out.SetColumn(core.NewSeries(name, values)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type EncoderConfig struct {
	EncoderMeta map[string]map[string]interface{} `yaml:"encoder_meta"`
}

// Encoder 按映射表替换取值。数据中有而映射表中没有的取值保持原样
type Encoder struct {
	stateless
	cfg EncoderConfig
}

func NewEncoder(cfg EncoderConfig) (*Encoder, error) {
	for column, meta := range cfg.EncoderMeta {
		if meta == nil {
			return nil, invalidConfig("encoder_meta的列%s缺少映射表", column)
		}
	}
	return &Encoder{cfg: cfg}, nil
}

func (e *Encoder) Kind() Kind {
	return KindEncoder
}

func (e *Encoder) Config() interface{} {
	return e.cfg
}

func (e *Encoder) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	columns := make([]string, 0, len(e.cfg.EncoderMeta))
	for column := range e.cfg.EncoderMeta {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		s, err := out.Column(column)
		if err != nil {
			return nil, err
		}
		meta := e.cfg.EncoderMeta[column]
		for i, v := range s.Values {
			if core.IsMissing(v) {
				continue
			}
			if replacement, ok := meta[core.Format(v)]; ok {
				s.Values[i] = core.Normalize(replacement)
			}
		}
		if s.IsCategorical() {
			categories := make([]string, 0, len(s.Categories))
			seen := make(map[string]struct{}, len(s.Categories))
			for _, c := range s.Categories {
				mapped := c
				if replacement, ok := meta[c]; ok {
					mapped = core.Format(replacement)
				}
				if _, ok := seen[mapped]; !ok {
					seen[mapped] = struct{}{}
					categories = append(categories, mapped)
				}
			}
			s.Categories = categories
		}
	}
	return out, nil
}

type DumminizerConfig struct {
	DummiesColumns []string `yaml:"dummies_columns"`
}

// Dumminizer 把类别列展开为<列名>_<取值>的0/1列，原列删除，新列追加在最后
type Dumminizer struct {
	stateless
	cfg DumminizerConfig
}

func NewDumminizer(cfg DumminizerConfig) (*Dumminizer, error) {
	return &Dumminizer{cfg: cfg}, nil
}

func (d *Dumminizer) Kind() Kind {
	return KindDumminizer
}

func (d *Dumminizer) Config() interface{} {
	return d.cfg
}

func (d *Dumminizer) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	if err := out.CheckColumns(d.cfg.DummiesColumns); err != nil {
		return nil, err
	}

	dummies := make([]*core.Series, 0)
	for _, column := range d.cfg.DummiesColumns {
		s, _ := out.Column(column)
		for _, category := range dummyCategories(s) {
			values := make([]interface{}, s.Len())
			for i, v := range s.Values {
				if !core.IsMissing(v) && core.Format(v) == category {
					values[i] = 1.0
				} else {
					values[i] = 0.0
				}
			}
			dummies = append(dummies, core.NewSeries(fmt.Sprintf("%s_%s", column, category), values))
		}
	}

	if err := out.Drop(d.cfg.DummiesColumns); err != nil {
		return nil, err
	}
	for _, s := range dummies {
		if err := out.AddSeries(s); err != nil {
			return nil, errors.Wrap(err, "生成哑变量失败")
		}
	}
	return out, nil
}

// dummyCategories 受限类别列按类别顺序，其他列按取值排序
func dummyCategories(s *core.Series) []string {
	if s.IsCategorical() {
		return append([]string{}, s.Categories...)
	}
	seen := make(map[string]struct{})
	distinct := make([]interface{}, 0)
	for _, v := range s.Values {
		if core.IsMissing(v) {
			continue
		}
		key := cellKey(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.SliceStable(distinct, func(i, j int) bool {
		return lessCell(distinct[i], distinct[j])
	})

	categories := make([]string, 0, len(distinct))
	names := make(map[string]struct{}, len(distinct))
	for _, v := range distinct {
		name := core.Format(v)
		if _, ok := names[name]; ok {
			continue
		}
		names[name] = struct{}{}
		categories = append(categories, name)
	}
	return categories
}

// lessCell 依次为布尔值、数值、时间与字符串，同类型按自然顺序比较
func lessCell(a, b interface{}) bool {
	ra, rb := cellRank(a), cellRank(b)
	if ra != rb {
		return ra < rb
	}
	switch x := a.(type) {
	case float64:
		return x < b.(float64)
	case bool:
		return !x && b.(bool)
	case time.Time:
		return x.Before(b.(time.Time))
	}
	return core.Format(a) < core.Format(b)
}

func cellRank(v interface{}) int {
	switch v.(type) {
	case bool:
		return 0
	case float64:
		return 1
	case time.Time:
		return 2
	}
	return 3
}
