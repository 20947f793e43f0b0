package transform

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

type CleanerConfig struct {
	VariableColumns  []string `yaml:"variable_columns"`
	DuplicateColumns []string `yaml:"duplicate_columns"`
}

// Cleaner 投影到需要的列，去掉字符串首尾空白，空白字符串视为缺失，按需去重
type Cleaner struct {
	stateless
	cfg CleanerConfig
}

func NewCleaner(cfg CleanerConfig) (*Cleaner, error) {
	if len(cfg.VariableColumns) == 0 {
		return nil, invalidConfig("variable_columns不能为空")
	}
	return &Cleaner{cfg: cfg}, nil
}

func (c *Cleaner) Kind() Kind {
	return KindCleaner
}

func (c *Cleaner) Config() interface{} {
	return c.cfg
}

func (c *Cleaner) Transform(data *core.Dataset) (*core.Dataset, error) {
	out, err := data.Select(c.cfg.VariableColumns)
	if err != nil {
		return nil, err
	}

	for _, name := range out.Columns() {
		s, _ := out.Column(name)
		for i, v := range s.Values {
			str, ok := v.(string)
			if !ok {
				continue
			}
			str = strings.TrimSpace(str)
			if str == "" {
				s.Values[i] = nil
			} else {
				s.Values[i] = str
			}
		}
	}

	if len(c.cfg.DuplicateColumns) > 0 {
		keep, err := firstOccurrence(out, c.cfg.DuplicateColumns)
		if err != nil {
			return nil, err
		}
		out = out.FilterRows(keep)
	}
	return out, nil
}

// rowKey 把一行在给定列上的取值拼接成可比较的键，缺失值之间视为相同
func rowKey(series []*core.Series, row int) string {
	b := strings.Builder{}
	for _, s := range series {
		b.WriteString(cellKey(s.Values[row]))
		b.WriteByte(0)
	}
	return b.String()
}

func subsetSeries(data *core.Dataset, columns []string) ([]*core.Series, error) {
	series := make([]*core.Series, len(columns))
	for i, c := range columns {
		s, err := data.Column(c)
		if err != nil {
			return nil, err
		}
		series[i] = s
	}
	return series, nil
}

func firstOccurrence(data *core.Dataset, columns []string) ([]bool, error) {
	series, err := subsetSeries(data, columns)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, data.NumRows())
	keep := make([]bool, data.NumRows())
	for i := 0; i < data.NumRows(); i++ {
		key := rowKey(series, i)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keep[i] = true
	}
	return keep, nil
}

type FilterConfig struct {
	NotNullColumns     []string               `yaml:"filter_notnull_columns"`
	OtherMeta          map[string]interface{} `yaml:"filter_other_meta"`
	CustomQueryColumns []string               `yaml:"filter_custom_query_columns"`
}

// Filter 依次按非空列、等值条件、查询表达式过滤行
type Filter struct {
	stateless
	cfg     FilterConfig
	queries []*query
}

type query struct {
	source     string
	program    *vm.Program
	identifier []string
}

type identifierCollector struct {
	names []string
}

func (c *identifierCollector) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IdentifierNode); ok {
		c.names = append(c.names, n.Value)
	}
}

func NewFilter(cfg FilterConfig) (*Filter, error) {
	queries := make([]*query, len(cfg.CustomQueryColumns))
	for i, q := range cfg.CustomQueryColumns {
		tree, err := parser.Parse(q)
		if err != nil {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "查询表达式%s语法错误：%v", q, err)
		}
		collector := &identifierCollector{}
		ast.Walk(&tree.Node, collector)

		program, err := expr.Compile(q)
		if err != nil {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "查询表达式%s无法编译：%v", q, err)
		}
		queries[i] = &query{
			source:     q,
			program:    program,
			identifier: collector.names,
		}
	}
	return &Filter{cfg: cfg, queries: queries}, nil
}

func (f *Filter) Kind() Kind {
	return KindFilter
}

func (f *Filter) Config() interface{} {
	return f.cfg
}

func (f *Filter) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()

	if len(f.cfg.NotNullColumns) > 0 {
		series, err := subsetSeries(out, f.cfg.NotNullColumns)
		if err != nil {
			return nil, err
		}
		keep := make([]bool, out.NumRows())
		for i := range keep {
			keep[i] = true
			for _, s := range series {
				if core.IsMissing(s.Values[i]) {
					keep[i] = false
					break
				}
			}
		}
		out = out.FilterRows(keep)
	}

	if len(f.cfg.OtherMeta) > 0 {
		keep := make([]bool, out.NumRows())
		for i := range keep {
			keep[i] = true
		}
		for column, expected := range f.cfg.OtherMeta {
			s, err := out.Column(column)
			if err != nil {
				return nil, err
			}
			for i, v := range s.Values {
				if !core.Equal(v, expected) {
					keep[i] = false
				}
			}
		}
		out = out.FilterRows(keep)
	}

	for _, q := range f.queries {
		keep, err := q.eval(out)
		if err != nil {
			return nil, err
		}
		out = out.FilterRows(keep)
	}
	return out, nil
}

func (q *query) eval(data *core.Dataset) ([]bool, error) {
	if err := data.CheckColumns(q.identifier); err != nil {
		return nil, errors.Wrapf(err, "查询表达式%s", q.source)
	}

	keep := make([]bool, data.NumRows())
	for i := range keep {
		row := data.Row(i)
		out, err := expr.Run(q.program, row)
		if err != nil {
			// 与缺失值比较的结果视为false
			if hasMissing(row, q.identifier) {
				continue
			}
			return nil, errors.Wrapf(err, "第%d行执行查询表达式%s出错", i, q.source)
		}
		b, ok := out.(bool)
		if !ok {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "查询表达式%s的结果不是布尔值", q.source)
		}
		keep[i] = b
	}
	return keep, nil
}

func hasMissing(row map[string]interface{}, columns []string) bool {
	for _, c := range columns {
		if core.IsMissing(row[c]) {
			return true
		}
	}
	return false
}
