package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewExtracting(t *testing.T) {
	static := datasource.NewStatic(t.TempDir())
	_, err := NewExtracting(ExtractingParams{Env: "staging"}, static, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = NewExtracting(ExtractingParams{Env: EnvProd}, static, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = NewExtracting(ExtractingParams{Env: EnvLocal, Files: map[string]ExtractFile{
		"sales": {InputPath: "raw/sales.csv"},
	}}, static, nil)
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestExtracting_Local(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "raw", "sales.csv"), "Código;Valor %;Data-Venda\n1;10;2020-01-01\n2;20;2020-02-01\n")
	writeFile(t, filepath.Join(dir, "raw", "stores.csv"), "Store Name\nCentral\n")

	transform.RegisterCustom("extract_test_sales", func(data *core.Dataset) (*core.Dataset, error) {
		return data.FilterRows([]bool{false, true}), nil
	})

	extracting, err := NewExtracting(ExtractingParams{
		Env: EnvLocal,
		Files: map[string]ExtractFile{
			"extract_test_sales": {
				InputPath:  "raw/sales.csv",
				OutputPath: "interim/sales.csv",
				Specs:      datasource.LoadOptions{Separator: ";"},
			},
			"stores": {
				InputPath:  "raw/stores.csv",
				OutputPath: "interim/stores.csv",
			},
		},
	}, datasource.NewStatic(dir), nil)
	if !assert.NoError(t, err) {
		assert.FailNow(t, "构造失败")
	}

	err = extracting.Transform()
	assert.True(t, errors.Is(err, ErrDataNotLoaded))

	assert.NoError(t, extracting.Execute())
	assert.Equal(t, StateSaved, extracting.State())

	content, err := os.ReadFile(filepath.Join(dir, "interim", "sales.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "codigo,valor_pct,datavenda\n2,20,2020-02-01\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "interim", "stores.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "store_name\nCentral\n", string(content))
}

func TestExtracting_Prod(t *testing.T) {
	dir := t.TempDir()
	table, err := datasource.NewTable(datasource.DriverSQLite, filepath.Join(dir, "warehouse.db"))
	if !assert.NoError(t, err) {
		assert.FailNow(t, "打开数据库失败")
	}
	source, _ := core.FromRows([]string{"Order ID", "Amount"}, [][]interface{}{{1, 9.5}, {2, 3}})
	if !assert.NoError(t, table.Write(source, "orders")) {
		assert.FailNow(t, "写入表失败")
	}

	writeFile(t, filepath.Join(dir, "params", "extracting.yaml"), `
env: prod
files:
  orders:
    input_path: orders
    output_path: raw/orders.csv
  big_orders:
    query: SELECT * FROM orders WHERE Amount > 5
    output_path: raw/big_orders.csv
`)
	extracting, err := NewExtractingFromFile(filepath.Join(dir, "params", "extracting.yaml"), datasource.NewStatic(dir), table)
	if !assert.NoError(t, err) {
		assert.FailNow(t, "构造失败")
	}
	assert.NoError(t, extracting.Execute())

	content, err := os.ReadFile(filepath.Join(dir, "raw", "orders.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "order_id,amount\n1,9.5\n2,3\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "raw", "big_orders.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "order_id,amount\n1,9.5\n", string(content))
	assert.Equal(t, 1, extracting.Data("big_orders").NumRows())
}
