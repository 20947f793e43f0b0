package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func writeFile(t *testing.T, path, content string) {
	if !assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755)) {
		assert.FailNow(t, "创建目录失败")
	}
	if !assert.NoError(t, os.WriteFile(path, []byte(content), 0644)) {
		assert.FailNow(t, "写入测试文件失败")
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

const rawCSV = "id,name,age,city\n1, Ana ,31,Lisboa\n1,Ana,31,Porto\n2,Bob,,Porto\n3,  ,45,Lisboa\n"

func TestStep_Execute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "raw.csv"), rawCSV)

	step, err := NewCleaning(CleaningParams{
		CleanerConfig: transform.CleanerConfig{
			VariableColumns:  []string{"id", "name", "age"},
			DuplicateColumns: []string{"id"},
		},
		FilterConfig: transform.FilterConfig{
			NotNullColumns: []string{"age"},
		},
	}, Options{
		InputPath:  "raw.csv",
		OutputPath: "interim/clean.csv",
		Interactor: datasource.NewStatic(dir),
	})
	if !assert.NoError(t, err) {
		assert.FailNow(t, "构造清洗步骤失败")
	}
	assert.Equal(t, StateConstructed, step.State())
	assert.Equal(t, "cleaning", step.Name())
	assert.Len(t, step.Transformers(), 2)

	assert.NoError(t, step.Execute())
	assert.Equal(t, StateSaved, step.State())

	content, err := os.ReadFile(filepath.Join(dir, "interim", "clean.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "id,name,age\n1,Ana,31\n3,,45\n", string(content))
}

func TestStep_TransformBeforeLoad(t *testing.T) {
	dir := t.TempDir()
	step, err := NewFeatureEngineering(FeatureEngineeringParams{}, Options{
		OutputPath: "out.csv",
		Interactor: datasource.NewStatic(dir),
	})
	assert.NoError(t, err)

	err = step.Transform()
	assert.True(t, errors.Is(err, ErrDataNotLoaded))
	_, err = step.Save()
	assert.True(t, errors.Is(err, ErrDataNotLoaded))
	assert.Equal(t, StateConstructed, step.State())
	assert.False(t, fileExists(filepath.Join(dir, "out.csv")))

	/*
		没有输入
	*/
	err = step.Execute()
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
	assert.False(t, fileExists(filepath.Join(dir, "out.csv")))
}

func TestStep_InputData(t *testing.T) {
	data, _ := core.FromRows([]string{"a", "b"}, [][]interface{}{{1, "x"}, {2, "y"}})
	step, err := NewFeatureEngineering(FeatureEngineeringParams{
		SelectorConfig:   transform.SelectorConfig{SelectionDropColumns: []string{"a"}},
		DumminizerConfig: transform.DumminizerConfig{DummiesColumns: []string{"b"}},
	}, Options{InputData: data})
	assert.NoError(t, err)

	assert.NoError(t, step.Load())
	assert.NoError(t, step.Transform())
	assert.Equal(t, StateTransformed, step.State())
	assert.Equal(t, []string{"b_x", "b_y"}, step.Data().Columns())
	// 传入的数据不会被修改
	assert.Equal(t, []string{"a", "b"}, data.Columns())

	/*
		没有输出路径
	*/
	_, err = step.Save()
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestStep_FatalTransform(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "raw.csv"), rawCSV)
	step, err := NewPreprocessing(PreprocessingParams{
		BinarizerConfig: transform.BinarizerConfig{BinarizerMeta: map[string]interface{}{"id": 1}},
	}, Options{
		InputPath:  "raw.csv",
		OutputPath: "out.csv",
		Interactor: datasource.NewStatic(dir),
	})
	assert.NoError(t, err)

	err = step.Execute()
	assert.True(t, errors.Is(err, transform.ErrNotBinary))
	// 读取成功后转换失败，数据仍是读取的数据，没有写入文件
	assert.Equal(t, StateLoaded, step.State())
	assert.Equal(t, 4, step.Data().NumRows())
	assert.False(t, fileExists(filepath.Join(dir, "out.csv")))
}

func TestStep_InvalidParams(t *testing.T) {
	_, err := NewCleaning(CleaningParams{}, Options{})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = NewPreprocessing(PreprocessingParams{
		FeatureTransformerConfig: transform.FeatureTransformerConfig{TransformerMeta: []transform.FeatureSpec{
			{Operation: "nope", FeatureName: "x", Columns: []string{"a"}},
		}},
	}, Options{})
	assert.True(t, errors.Is(err, transform.ErrUnknownOperation))
}

func TestStep_FromFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "raw.csv"), "name,born,Income\nAna,2000-01-01,1000\nBob,1990-01-01,\n")
	writeFile(t, filepath.Join(dir, "params", "preprocessing.yaml"), `
rename_meta:
  Income: income
bins_cut_meta:
  income: [0, 500, 2000]
transformer_meta:
  - operation: calculate_age
    feature_name: age
    columns: [born]
    params:
      n_digits: 0
default_numerical_missing_columns: [income]
default_fill_meta:
  numerical: 0
`)

	step, err := NewPreprocessingFromFile(filepath.Join(dir, "params", "preprocessing.yaml"), Options{
		InputPath:  "raw.csv",
		InputSpecs: datasource.LoadOptions{ParseDates: []string{"born"}},
		OutputPath: "processed.csv",
		Interactor: datasource.NewStatic(dir),
		Clock:      clockwork.NewFakeClockAt(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	if !assert.NoError(t, err) {
		assert.FailNow(t, "读取参数失败")
	}
	assert.NoError(t, step.Execute())

	content, err := os.ReadFile(filepath.Join(dir, "processed.csv"))
	assert.NoError(t, err)
	assert.Equal(t, "name,born,income,income_categ,age\n"+
		"Ana,2000-01-01,1000,\"(500, 2000]\",20\n"+
		"Bob,1990-01-01,0,,30\n", string(content))

	/*
		未知的参数键
	*/
	writeFile(t, filepath.Join(dir, "params", "bad.yaml"), "variable_colums: [a]\n")
	_, err = NewCleaningFromFile(filepath.Join(dir, "params", "bad.yaml"), Options{})
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))

	_, err = NewFeatureEngineeringFromFile(filepath.Join(dir, "params", "none.yaml"), Options{})
	assert.Error(t, err)
}
