package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/packagewjx/ds-toolbelt/internal/utils"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

type csvLoader struct {
}

func (c *csvLoader) Load(r io.Reader, opts LoadOptions) (*core.Dataset, error) {
	if opts.Encoding != "" && !isUTF8(opts.Encoding) {
		enc, err := htmlindex.Get(opts.Encoding)
		if err != nil {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "不支持的编码%s", opts.Encoding)
		}
		r = transform.NewReader(r, enc.NewDecoder())
	}

	reader := csv.NewReader(r)
	if opts.Separator != "" {
		sep, size := utf8.DecodeRuneInString(opts.Separator)
		if size != len(opts.Separator) {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "分隔符必须是单个字符，现在为%q", opts.Separator)
		}
		reader.Comma = sep
	}
	// 允许行尾缺少字段
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return core.NewDataset(), nil
	} else if err != nil {
		return nil, errors.Wrap(err, "读取表头出错")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records := make([][]string, 0, 16)
	var record []string
	for record, err = reader.Read(); err == nil; record, err = reader.Read() {
		records = append(records, record)
	}
	if err != io.EOF {
		return nil, errors.Wrap(err, "读取数据出错")
	}

	return buildDataset(header, records, opts)
}

func isUTF8(encoding string) bool {
	e := strings.ToLower(strings.ReplaceAll(encoding, "-", ""))
	return e == "utf8" || e == "utf8sig"
}

type csvWriter struct {
}

func (c *csvWriter) Write(w io.Writer, data *core.Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(data.Columns()); err != nil {
		return errors.Wrap(err, "写入表头错误")
	}
	for i := 0; i < data.NumRows(); i++ {
		if err := writer.Write(utils.FormatRecord(data.Record(i))); err != nil {
			return errors.Wrap(err, fmt.Sprintf("写入第%d行数据错误", i))
		}
	}
	writer.Flush()
	return writer.Error()
}
