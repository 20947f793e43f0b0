package transform

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/packagewjx/ds-toolbelt/internal/utils"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

const BinnedSuffix = "_categ"

const DefaultQuantilePrecision = 1

type BinSpec struct {
	VarName string    `yaml:"var_name"`
	Bins    []float64 `yaml:"bins"`
	Labels  []string  `yaml:"bins_labels"`
}

type BinnerConfig struct {
	CutMeta       map[string][]float64 `yaml:"bins_cut_meta"`
	QcutMeta      map[string]int       `yaml:"bins_qcut_meta"`
	QcutPrecision *int                 `yaml:"bins_qcut_precision,omitempty"`
	OtherMeta     map[string]BinSpec   `yaml:"bins_other_meta"`
}

// Binner 对数值列分箱，结果写入新列，原列不变。同一类配置按列名排序后依次执行
type Binner struct {
	stateless
	cfg       BinnerConfig
	precision int
}

func NewBinner(cfg BinnerConfig) (*Binner, error) {
	for column, edges := range cfg.CutMeta {
		if err := checkEdges(edges); err != nil {
			return nil, errors.Wrapf(err, "bins_cut_meta的列%s", column)
		}
	}
	for column, q := range cfg.QcutMeta {
		if q < 1 {
			return nil, invalidConfig("bins_qcut_meta的列%s分位数数量必须大于0，现在为%d", column, q)
		}
	}
	for column, spec := range cfg.OtherMeta {
		if spec.VarName == "" {
			return nil, invalidConfig("bins_other_meta的列%s缺少var_name", column)
		}
		if err := checkEdges(spec.Bins); err != nil {
			return nil, errors.Wrapf(err, "bins_other_meta的列%s", column)
		}
		if len(spec.Labels) != len(spec.Bins)-1 {
			return nil, invalidConfig("bins_other_meta的列%s有%d个边界，标签数量应为%d，现在为%d",
				column, len(spec.Bins), len(spec.Bins)-1, len(spec.Labels))
		}
	}

	precision := DefaultQuantilePrecision
	if cfg.QcutPrecision != nil {
		if *cfg.QcutPrecision < 0 {
			return nil, invalidConfig("bins_qcut_precision不能为负数")
		}
		precision = *cfg.QcutPrecision
	}
	return &Binner{cfg: cfg, precision: precision}, nil
}

func checkEdges(edges []float64) error {
	if len(edges) < 2 {
		return invalidConfig("至少需要2个边界，现在为%d个", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return invalidConfig("边界必须严格递增：%v", edges)
		}
	}
	return nil
}

func (b *Binner) Kind() Kind {
	return KindBinner
}

func (b *Binner) Config() interface{} {
	return b.cfg
}

func (b *Binner) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()

	for _, column := range sortedKeys(b.cfg.CutMeta) {
		edges := b.cfg.CutMeta[column]
		if err := binColumn(out, column, column+BinnedSuffix, edges, intervalLabels(edges, -1)); err != nil {
			return nil, err
		}
	}

	qcutColumns := make([]string, 0, len(b.cfg.QcutMeta))
	for column := range b.cfg.QcutMeta {
		qcutColumns = append(qcutColumns, column)
	}
	sort.Strings(qcutColumns)
	for _, column := range qcutColumns {
		s, err := out.Column(column)
		if err != nil {
			return nil, err
		}
		edges, err := quantileEdges(s, b.cfg.QcutMeta[column], b.precision)
		if err != nil {
			return nil, errors.Wrapf(err, "列%s按分位数分箱失败", column)
		}
		if err := binColumn(out, column, column+BinnedSuffix, edges, intervalLabels(edges, b.precision)); err != nil {
			return nil, err
		}
	}

	otherColumns := make([]string, 0, len(b.cfg.OtherMeta))
	for column := range b.cfg.OtherMeta {
		otherColumns = append(otherColumns, column)
	}
	sort.Strings(otherColumns)
	for _, column := range otherColumns {
		spec := b.cfg.OtherMeta[column]
		if err := binColumn(out, column, spec.VarName, spec.Bins, spec.Labels); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func binColumn(data *core.Dataset, column, target string, edges []float64, labels []string) error {
	s, err := data.Column(column)
	if err != nil {
		return err
	}
	values := make([]interface{}, s.Len())
	for i, v := range s.Values {
		if core.IsMissing(v) {
			continue
		}
		f, ok := core.ToFloat(v)
		if !ok {
			return errors.Wrapf(&utils.NotNumericError{Row: i, Value: v}, "列%s无法分箱", column)
		}
		if idx := bucket(f, edges); idx >= 0 {
			values[i] = labels[idx]
		}
	}
	return data.SetColumn(&core.Series{
		Name:       target,
		Values:     values,
		Categories: append([]string{}, labels...),
	})
}

// bucket 返回f所在区间的下标，第一个区间包含下边界。不在任何区间内返回-1
func bucket(f float64, edges []float64) int {
	if f == edges[0] {
		return 0
	}
	for i := 1; i < len(edges); i++ {
		if f > edges[i-1] && f <= edges[i] {
			return i - 1
		}
	}
	return -1
}

func quantileEdges(s *core.Series, q, precision int) ([]float64, error) {
	values, err := utils.NumericValues(s.Values)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("没有可用于计算分位数的数据")
	}
	edges := make([]float64, q+1)
	for k := 0; k <= q; k++ {
		edges[k] = utils.Quantile(values, float64(k)/float64(q))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, fmt.Errorf("分位数边界重复：%s", formatEdges(edges, precision))
		}
	}
	return edges, nil
}

func intervalLabels(edges []float64, precision int) []string {
	labels := make([]string, len(edges)-1)
	for i := 1; i < len(edges); i++ {
		left := "("
		if i == 1 {
			left = "["
		}
		labels[i-1] = fmt.Sprintf("%s%s, %s]", left, formatEdge(edges[i-1], precision), formatEdge(edges[i], precision))
	}
	return labels
}

func formatEdge(f float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	p := math.Pow(10, float64(precision))
	return strconv.FormatFloat(math.Round(f*p)/p, 'f', precision, 64)
}

func formatEdges(edges []float64, precision int) string {
	s := make([]string, len(edges))
	for i, e := range edges {
		s[i] = formatEdge(e, precision)
	}
	return fmt.Sprint(s)
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
