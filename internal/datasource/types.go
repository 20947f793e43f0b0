package datasource

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
)

type DataFormat string

const (
	CSV  = DataFormat("csv")
	XLSX = DataFormat("xlsx")
)

// LoadOptions 读取数据时的选项，不同格式只使用其中的一部分
type LoadOptions struct {
	// csv分隔符，默认为逗号
	Separator string `yaml:"sep,omitempty"`
	// 视为缺失值的字符串，为空时使用core.DefaultNAValues
	NAValues []string `yaml:"na_values,omitempty"`
	// 需要解析为日期的列
	ParseDates []string `yaml:"parse_dates,omitempty"`
	// 文件编码，如utf-8、latin1、gbk
	Encoding string `yaml:"encoding,omitempty"`
	// xlsx工作表名，为空时读取第一个
	SheetName string `yaml:"sheet_name,omitempty"`
	// 从数据库读取时执行的查询，为空时读取整张表
	Query string `yaml:"query,omitempty"`
}

func (o LoadOptions) naSet() map[string]struct{} {
	if o.NAValues == nil {
		return core.NASet(core.DefaultNAValues)
	}
	return core.NASet(o.NAValues)
}

func (o LoadOptions) key() string {
	return fmt.Sprintf("%q|%q|%q|%q|%q|%q", o.Separator, o.NAValues, o.ParseDates, o.Encoding, o.SheetName, o.Query)
}

type DataFileLoader interface {
	Load(r io.Reader, opts LoadOptions) (*core.Dataset, error)
}

type DataFileWriter interface {
	Write(w io.Writer, data *core.Dataset) error
}

// FormatOf 根据文件扩展名判断格式
func FormatOf(path string) (DataFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xlsx":
		return XLSX, nil
	}
	return "", fmt.Errorf("不支持的文件格式：%s", path)
}

func NewDataLoader(format DataFormat) DataFileLoader {
	switch format {
	case CSV:
		return &csvLoader{}
	case XLSX:
		return &xlsxLoader{}
	default:
		return nil
	}
}

func NewDataWriter(format DataFormat) DataFileWriter {
	switch format {
	case CSV:
		return &csvWriter{}
	case XLSX:
		return &xlsxWriter{}
	default:
		return nil
	}
}

// parseDates 把指定列中能解析的值转换为日期
func parseDates(data *core.Dataset, columns []string) error {
	for _, c := range columns {
		s, err := data.Column(c)
		if err != nil {
			return err
		}
		for i, v := range s.Values {
			if t, ok := core.ParseTime(v); ok {
				s.Values[i] = t
			}
		}
	}
	return nil
}

// buildDataset 由表头和字符串记录构造Dataset，记录长度不足的用缺失值补齐
func buildDataset(header []string, records [][]string, opts LoadOptions) (*core.Dataset, error) {
	na := opts.naSet()
	rows := make([][]interface{}, len(records))
	for ri, record := range records {
		if len(record) > len(header) {
			return nil, fmt.Errorf("第%d行有%d个字段，多于表头的%d个", ri+1, len(record), len(header))
		}
		row := make([]interface{}, len(header))
		for ci, raw := range record {
			row[ci] = core.ParseCell(raw, na)
		}
		rows[ri] = row
	}
	data, err := core.FromRows(header, rows)
	if err != nil {
		return nil, err
	}
	if err := parseDates(data, opts.ParseDates); err != nil {
		return nil, err
	}
	return data, nil
}
