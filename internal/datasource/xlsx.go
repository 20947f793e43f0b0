package datasource

import (
	"fmt"
	"io"
	"time"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

type xlsxLoader struct {
}

func (x *xlsxLoader) Load(r io.Reader, opts LoadOptions) (*core.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "打开xlsx文件出错")
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := opts.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx文件中没有工作表")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "读取工作表%s出错", sheet)
	}
	if len(rows) == 0 {
		return core.NewDataset(), nil
	}
	return buildDataset(rows[0], rows[1:], opts)
}

type xlsxWriter struct {
}

func (x *xlsxWriter) Write(w io.Writer, data *core.Dataset) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	header := make([]interface{}, data.NumColumns())
	for i, c := range data.Columns() {
		header[i] = c
	}
	if err := f.SetSheetRow(defaultSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "写入表头错误")
	}
	for i := 0; i < data.NumRows(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		record := data.Record(i)
		for ci, v := range record {
			// 日期按文本写入，读取时与csv的处理一致
			if t, ok := v.(time.Time); ok {
				record[ci] = core.Format(t)
			}
		}
		if err := f.SetSheetRow(defaultSheet, cell, &record); err != nil {
			return errors.Wrap(err, fmt.Sprintf("写入第%d行数据错误", i))
		}
	}
	return f.Write(w)
}
