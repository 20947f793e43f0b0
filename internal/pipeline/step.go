package pipeline

import (
	"fmt"
	"log"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

var ErrDataNotLoaded = errors.New("数据未加载，请先执行Load")

type State int

const (
	StateConstructed State = iota
	StateLoaded
	StateTransformed
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateLoaded:
		return "loaded"
	case StateTransformed:
		return "transformed"
	case StateSaved:
		return "saved"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// DataInteractor 表格数据的读写
type DataInteractor interface {
	Load(path string, opts datasource.LoadOptions) (*core.Dataset, error)
	Write(data *core.Dataset, path string) error
}

type Options struct {
	InputPath  string
	InputSpecs datasource.LoadOptions
	// 不为nil时直接使用该数据，不再读取InputPath
	InputData  *core.Dataset
	OutputPath string
	Interactor DataInteractor
	Logger     *log.Logger
	// 计算年龄等依赖当前时间的特征时使用，为nil时使用系统时钟
	Clock clockwork.Clock
}

// Step 一个处理阶段：读取数据，依次执行Transformer，保存结果
type Step struct {
	name   string
	opts   Options
	chain  transform.Chain
	data   *core.Dataset
	state  State
	logger *log.Logger
}

func newStep(name string, chain transform.Chain, opts Options) *Step {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, name+": ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix)
	}
	return &Step{
		name:   name,
		opts:   opts,
		chain:  chain,
		state:  StateConstructed,
		logger: logger,
	}
}

func (s *Step) Name() string {
	return s.name
}

func (s *Step) State() State {
	return s.state
}

// Transformers 按执行顺序返回本阶段的Transformer
func (s *Step) Transformers() []transform.Transformer {
	return append([]transform.Transformer{}, s.chain...)
}

// Data 返回当前的数据，未加载时为nil
func (s *Step) Data() *core.Dataset {
	return s.data
}

func (s *Step) Load() error {
	if s.opts.InputData != nil {
		s.data = s.opts.InputData.Copy()
		s.state = StateLoaded
		s.logger.Printf("使用传入的数据，共%d行%d列", s.data.NumRows(), s.data.NumColumns())
		return nil
	}
	if s.opts.InputPath == "" {
		return errors.Wrap(core.ErrInvalidConfig, "没有指定输入路径")
	}
	if s.opts.Interactor == nil {
		return errors.Wrap(core.ErrInvalidConfig, "没有指定数据读写器")
	}

	data, err := s.opts.Interactor.Load(s.opts.InputPath, s.opts.InputSpecs)
	if err != nil {
		return errors.Wrapf(err, "%s读取数据出错", s.name)
	}
	s.data = data
	s.state = StateLoaded
	return nil
}

// Transform 依次执行所有Transformer。出错时数据保持执行前的状态
func (s *Step) Transform() error {
	if s.data == nil {
		s.logger.Println("没有找到数据，请先执行Load")
		return ErrDataNotLoaded
	}
	data, err := s.chain.Transform(s.data)
	if err != nil {
		return errors.Wrapf(err, "%s转换数据出错", s.name)
	}
	s.data = data
	s.state = StateTransformed
	s.logger.Printf("转换完成，共%d行%d列", data.NumRows(), data.NumColumns())
	return nil
}

// Save 写入数据，返回写入的路径
func (s *Step) Save() (string, error) {
	if s.data == nil {
		s.logger.Println("没有找到数据，请先执行Load")
		return "", ErrDataNotLoaded
	}
	if s.opts.OutputPath == "" {
		return "", errors.Wrap(core.ErrInvalidConfig, "没有指定输出路径")
	}
	if s.opts.Interactor == nil {
		return "", errors.Wrap(core.ErrInvalidConfig, "没有指定数据读写器")
	}
	if err := s.opts.Interactor.Write(s.data, s.opts.OutputPath); err != nil {
		return "", errors.Wrapf(err, "%s保存数据出错", s.name)
	}
	s.state = StateSaved
	return s.opts.OutputPath, nil
}

// Execute 依次执行Load、Transform与Save，任何一步出错立即返回，已产生的效果不会回滚
func (s *Step) Execute() error {
	if err := s.Load(); err != nil {
		return err
	}
	if err := s.Transform(); err != nil {
		return err
	}
	path, err := s.Save()
	if err != nil {
		return err
	}
	s.logger.Printf("%s执行完成，结果已保存到%s", s.name, path)
	return nil
}
