package core

import (
	"fmt"

	"github.com/pkg/errors"
)

type Series struct {
	Name   string
	Values []interface{}
	// 非nil时表示该列是受限类别列，取值只能是其中之一
	Categories []string
}

func NewSeries(name string, values []interface{}) *Series {
	return &Series{Name: name, Values: values}
}

func (s *Series) Len() int {
	return len(s.Values)
}

func (s *Series) Copy() *Series {
	c := &Series{
		Name:   s.Name,
		Values: make([]interface{}, len(s.Values)),
	}
	copy(c.Values, s.Values)
	if s.Categories != nil {
		c.Categories = make([]string, len(s.Categories))
		copy(c.Categories, s.Categories)
	}
	return c
}

func (s *Series) IsCategorical() bool {
	return s.Categories != nil
}

// AddCategory 扩充受限类别列的类别集合。非类别列不做处理
func (s *Series) AddCategory(category string) {
	if s.Categories == nil {
		return
	}
	for _, c := range s.Categories {
		if c == category {
			return
		}
	}
	s.Categories = append(s.Categories, category)
}

func (s *Series) NonMissing() int {
	cnt := 0
	for _, v := range s.Values {
		if !IsMissing(v) {
			cnt++
		}
	}
	return cnt
}

// Dataset 按列存储的表格数据，列有序且列名唯一
type Dataset struct {
	series []*Series
	index  map[string]int
	rows   int
}

func NewDataset(columns ...string) *Dataset {
	d := &Dataset{
		series: make([]*Series, 0, len(columns)),
		index:  make(map[string]int),
	}
	for _, c := range columns {
		_ = d.SetColumn(NewSeries(c, []interface{}{}))
	}
	return d
}

// FromRows 由行数据构造Dataset，每行的长度必须与列数相同
func FromRows(columns []string, rows [][]interface{}) (*Dataset, error) {
	d := &Dataset{
		series: make([]*Series, len(columns)),
		index:  make(map[string]int, len(columns)),
		rows:   len(rows),
	}
	for ci, c := range columns {
		if _, ok := d.index[c]; ok {
			return nil, fmt.Errorf("列名%s重复", c)
		}
		d.index[c] = ci
		d.series[ci] = NewSeries(c, make([]interface{}, len(rows)))
	}
	for ri, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("第%d行数据长度为%d，与列数%d不一致", ri, len(row), len(columns))
		}
		for ci, v := range row {
			d.series[ci].Values[ri] = Normalize(v)
		}
	}
	return d, nil
}

func FromSeries(series ...*Series) (*Dataset, error) {
	d := NewDataset()
	for _, s := range series {
		if d.HasColumn(s.Name) {
			return nil, fmt.Errorf("列名%s重复", s.Name)
		}
		if err := d.SetColumn(s); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dataset) Copy() *Dataset {
	c := &Dataset{
		series: make([]*Series, len(d.series)),
		index:  make(map[string]int, len(d.index)),
		rows:   d.rows,
	}
	for i, s := range d.series {
		c.series[i] = s.Copy()
		c.index[s.Name] = i
	}
	return c
}

func (d *Dataset) Columns() []string {
	names := make([]string, len(d.series))
	for i, s := range d.series {
		names[i] = s.Name
	}
	return names
}

func (d *Dataset) NumRows() int {
	return d.rows
}

func (d *Dataset) NumColumns() int {
	return len(d.series)
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column 返回内部的列，修改会直接作用于本Dataset
func (d *Dataset) Column(name string) (*Series, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "列%s", name)
	}
	return d.series[i], nil
}

func (d *Dataset) Value(column string, row int) (interface{}, error) {
	s, err := d.Column(column)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= d.rows {
		return nil, fmt.Errorf("行号%d超出范围[0,%d)", row, d.rows)
	}
	return s.Values[row], nil
}

func (d *Dataset) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(d.series))
	for _, s := range d.series {
		row[s.Name] = s.Values[i]
	}
	return row
}

func (d *Dataset) Record(i int) []interface{} {
	record := make([]interface{}, len(d.series))
	for ci, s := range d.series {
		record[ci] = s.Values[i]
	}
	return record
}

// CheckColumns 检查所有列都存在，返回第一个不存在的列的错误
func (d *Dataset) CheckColumns(names []string) error {
	for _, n := range names {
		if !d.HasColumn(n) {
			return errors.Wrapf(ErrColumnNotFound, "列%s", n)
		}
	}
	return nil
}

// Select 按给定顺序投影出新的Dataset
func (d *Dataset) Select(names []string) (*Dataset, error) {
	if err := d.CheckColumns(names); err != nil {
		return nil, err
	}
	result := NewDataset()
	result.rows = d.rows
	for _, n := range names {
		if result.HasColumn(n) {
			return nil, fmt.Errorf("列名%s重复", n)
		}
		result.index[n] = len(result.series)
		result.series = append(result.series, d.series[d.index[n]].Copy())
	}
	return result, nil
}

func (d *Dataset) Drop(names []string) error {
	if err := d.CheckColumns(names); err != nil {
		return err
	}
	dropSet := make(map[string]struct{}, len(names))
	for _, n := range names {
		dropSet[n] = struct{}{}
	}
	kept := make([]*Series, 0, len(d.series))
	for _, s := range d.series {
		if _, ok := dropSet[s.Name]; !ok {
			kept = append(kept, s)
		}
	}
	d.series = kept
	if len(d.series) == 0 {
		d.rows = 0
	}
	d.reindex()
	return nil
}

func (d *Dataset) Rename(mapping map[string]string) error {
	for old := range mapping {
		if !d.HasColumn(old) {
			return errors.Wrapf(ErrColumnNotFound, "列%s", old)
		}
	}
	seen := make(map[string]struct{}, len(d.series))
	for _, s := range d.series {
		name := s.Name
		if n, ok := mapping[name]; ok {
			name = n
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("重命名后列名%s重复", name)
		}
		seen[name] = struct{}{}
	}
	for _, s := range d.series {
		if n, ok := mapping[s.Name]; ok {
			s.Name = n
		}
	}
	d.reindex()
	return nil
}

// SetColumn 替换同名列，不存在则追加到最后
func (d *Dataset) SetColumn(s *Series) error {
	if len(d.series) > 0 && s.Len() != d.rows {
		return fmt.Errorf("列%s长度为%d，与数据行数%d不一致", s.Name, s.Len(), d.rows)
	}
	if len(d.series) == 0 {
		d.rows = s.Len()
	}
	if i, ok := d.index[s.Name]; ok {
		d.series[i] = s
		return nil
	}
	d.index[s.Name] = len(d.series)
	d.series = append(d.series, s)
	return nil
}

// AddSeries 追加新列，同名列已存在时返回错误
func (d *Dataset) AddSeries(s *Series) error {
	if d.HasColumn(s.Name) {
		return fmt.Errorf("列%s已存在", s.Name)
	}
	return d.SetColumn(s)
}

// FilterRows 保留keep为true的行，行号重新从0开始连续编号
func (d *Dataset) FilterRows(keep []bool) *Dataset {
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	result := &Dataset{
		series: make([]*Series, len(d.series)),
		index:  make(map[string]int, len(d.series)),
		rows:   n,
	}
	for ci, s := range d.series {
		values := make([]interface{}, 0, n)
		for ri, v := range s.Values {
			if keep[ri] {
				values = append(values, v)
			}
		}
		c := &Series{Name: s.Name, Values: values}
		if s.Categories != nil {
			c.Categories = append([]string{}, s.Categories...)
		}
		result.series[ci] = c
		result.index[s.Name] = ci
	}
	return result
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.series))
	for i, s := range d.series {
		d.index[s.Name] = i
	}
}
