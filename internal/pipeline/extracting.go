package pipeline

import (
	"log"
	"os"
	"sort"

	"github.com/packagewjx/ds-toolbelt/internal/config"
	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

type ExtractFile struct {
	// local环境下为文件路径，prod环境下为表名
	InputPath  string                 `yaml:"input_path"`
	OutputPath string                 `yaml:"output_path"`
	Specs      datasource.LoadOptions `yaml:"specs,omitempty"`
	// prod环境下执行的查询，为空时读取整张表
	Query string `yaml:"query,omitempty"`
}

type ExtractingParams struct {
	Env   string                 `yaml:"env"`
	Files map[string]ExtractFile `yaml:"files"`
}

// Extracting 从本地文件或数据库读取原始数据，规范列名后写到本地文件
type Extracting struct {
	params   ExtractingParams
	files    DataInteractor
	tables   DataInteractor
	keys     []string
	datasets map[string]*core.Dataset
	state    State
	logger   *log.Logger
}

// NewExtracting files用于local环境的读取与所有结果的写入，tables用于prod环境的读取
func NewExtracting(params ExtractingParams, files, tables DataInteractor) (*Extracting, error) {
	if params.Env != EnvLocal && params.Env != EnvProd {
		return nil, errors.Wrapf(core.ErrInvalidConfig, "env只能是%s或%s，现在为%q", EnvLocal, EnvProd, params.Env)
	}
	if files == nil {
		return nil, errors.Wrap(core.ErrInvalidConfig, "没有指定文件读写器")
	}
	if params.Env == EnvProd && tables == nil {
		return nil, errors.Wrap(core.ErrInvalidConfig, "prod环境需要指定数据库")
	}

	keys := make([]string, 0, len(params.Files))
	for key, meta := range params.Files {
		if meta.InputPath == "" && (params.Env == EnvLocal || meta.Query == "") {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "文件%s缺少input_path", key)
		}
		if meta.OutputPath == "" {
			return nil, errors.Wrapf(core.ErrInvalidConfig, "文件%s缺少output_path", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Extracting{
		params: params,
		files:  files,
		tables: tables,
		keys:   keys,
		state:  StateConstructed,
		logger: log.New(os.Stdout, StageExtracting+": ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}, nil
}

func NewExtractingFromFile(paramsPath string, files, tables DataInteractor) (*Extracting, error) {
	params := ExtractingParams{}
	if err := config.LoadParams(paramsPath, &params); err != nil {
		return nil, err
	}
	return NewExtracting(params, files, tables)
}

func (e *Extracting) State() State {
	return e.state
}

// Data 返回名为key的文件的当前数据
func (e *Extracting) Data(key string) *core.Dataset {
	return e.datasets[key]
}

func (e *Extracting) Load() error {
	datasets := make(map[string]*core.Dataset, len(e.keys))
	for _, key := range e.keys {
		meta := e.params.Files[key]
		var data *core.Dataset
		var err error
		if e.params.Env == EnvProd {
			opts := meta.Specs
			opts.Query = meta.Query
			data, err = e.tables.Load(meta.InputPath, opts)
		} else {
			data, err = e.files.Load(meta.InputPath, meta.Specs)
		}
		if err != nil {
			return errors.Wrapf(err, "读取%s出错", key)
		}
		e.logger.Printf("读取%s完成，共%d行", key, data.NumRows())
		datasets[key] = data
	}
	e.datasets = datasets
	e.state = StateLoaded
	return nil
}

func (e *Extracting) Transform() error {
	if e.datasets == nil {
		e.logger.Println("没有找到数据，请先执行Load")
		return ErrDataNotLoaded
	}
	result := make(map[string]*core.Dataset, len(e.datasets))
	for _, key := range e.keys {
		data, err := e.transform(key, e.datasets[key])
		if err != nil {
			return errors.Wrapf(err, "转换%s出错", key)
		}
		result[key] = data
	}
	e.datasets = result
	e.state = StateTransformed
	return nil
}

func (e *Extracting) transform(key string, data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	mapping := make(map[string]string, out.NumColumns())
	for _, c := range out.Columns() {
		mapping[c] = transform.NormalizeName(c)
	}
	if err := out.Rename(mapping); err != nil {
		return nil, errors.Wrap(err, "规范列名出错")
	}

	fn, ok := transform.LookupCustom(key)
	if !ok {
		e.logger.Printf("没有找到%s的自定义转换", key)
		return out, nil
	}
	e.logger.Printf("正在执行%s的自定义转换", key)
	return fn(out)
}

// Save 把每个文件写到output_path，返回写入的路径
func (e *Extracting) Save() ([]string, error) {
	if e.datasets == nil {
		e.logger.Println("没有找到数据，请先执行Load")
		return nil, ErrDataNotLoaded
	}
	paths := make([]string, 0, len(e.keys))
	for _, key := range e.keys {
		path := e.params.Files[key].OutputPath
		if err := e.files.Write(e.datasets[key], path); err != nil {
			return paths, errors.Wrapf(err, "保存%s出错", key)
		}
		paths = append(paths, path)
	}
	e.state = StateSaved
	return paths, nil
}

func (e *Extracting) Execute() error {
	if err := e.Load(); err != nil {
		return err
	}
	if err := e.Transform(); err != nil {
		return err
	}
	paths, err := e.Save()
	if err != nil {
		return err
	}
	e.logger.Printf("%s执行完成，共写入%d个文件", StageExtracting, len(paths))
	return nil
}
