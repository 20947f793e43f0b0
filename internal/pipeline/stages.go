package pipeline

import (
	"github.com/packagewjx/ds-toolbelt/internal/config"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/pkg/errors"
)

const (
	StageCleaning           = "cleaning"
	StagePreprocessing      = "preprocessing"
	StageFeatureEngineering = "feature_engineering"
	StageExtracting         = "extracting"
)

type CleaningParams struct {
	transform.CleanerConfig `yaml:",inline"`
	transform.FilterConfig  `yaml:",inline"`
}

type PreprocessingParams struct {
	transform.DropperConfig                 `yaml:",inline"`
	transform.RenamerConfig                 `yaml:",inline"`
	transform.BinnerConfig                  `yaml:",inline"`
	transform.MinimumPercentageFilterConfig `yaml:",inline"`
	transform.BinarizerConfig               `yaml:",inline"`
	transform.EncoderConfig                 `yaml:",inline"`
	transform.FeatureTransformerConfig      `yaml:",inline"`
	transform.CustomTransformerConfig       `yaml:",inline"`
	transform.MissingInputerConfig          `yaml:",inline"`
}

type FeatureEngineeringParams struct {
	transform.SelectorConfig   `yaml:",inline"`
	transform.DumminizerConfig `yaml:",inline"`
	transform.ScalerConfig     `yaml:",inline"`
}

// chainBuilder 依次构造Transformer，遇到第一个错误后不再构造
type chainBuilder struct {
	chain transform.Chain
	err   error
}

func (b *chainBuilder) add(t transform.Transformer, err error) {
	if b.err != nil {
		return
	}
	if err != nil {
		b.err = err
		return
	}
	b.chain = append(b.chain, t)
}

// NewCleaning 清洗：Cleaner之后执行Filter
func NewCleaning(params CleaningParams, opts Options) (*Step, error) {
	b := &chainBuilder{}
	b.add(transform.NewCleaner(params.CleanerConfig))
	b.add(transform.NewFilter(params.FilterConfig))
	if b.err != nil {
		return nil, errors.Wrapf(b.err, "构造%s出错", StageCleaning)
	}
	return newStep(StageCleaning, b.chain, opts), nil
}

// NewPreprocessing 预处理，执行顺序与PreprocessingParams中字段的顺序相同
func NewPreprocessing(params PreprocessingParams, opts Options) (*Step, error) {
	var featureOpts []transform.FeatureOption
	if opts.Clock != nil {
		featureOpts = append(featureOpts, transform.WithClock(opts.Clock))
	}

	b := &chainBuilder{}
	b.add(transform.NewDropper(params.DropperConfig))
	b.add(transform.NewRenamer(params.RenamerConfig))
	b.add(transform.NewBinner(params.BinnerConfig))
	b.add(transform.NewMinimumPercentageFilter(params.MinimumPercentageFilterConfig))
	b.add(transform.NewBinarizer(params.BinarizerConfig))
	b.add(transform.NewEncoder(params.EncoderConfig))
	b.add(transform.NewFeatureTransformer(params.FeatureTransformerConfig, featureOpts...))
	b.add(transform.NewCustomTransformer(params.CustomTransformerConfig))
	b.add(transform.NewMissingInputer(params.MissingInputerConfig))
	if b.err != nil {
		return nil, errors.Wrapf(b.err, "构造%s出错", StagePreprocessing)
	}
	return newStep(StagePreprocessing, b.chain, opts), nil
}

// NewFeatureEngineering 特征工程：Selector、Dumminizer、Scaler
func NewFeatureEngineering(params FeatureEngineeringParams, opts Options) (*Step, error) {
	b := &chainBuilder{}
	b.add(transform.NewSelector(params.SelectorConfig))
	b.add(transform.NewDumminizer(params.DumminizerConfig))
	b.add(transform.NewScaler(params.ScalerConfig))
	if b.err != nil {
		return nil, errors.Wrapf(b.err, "构造%s出错", StageFeatureEngineering)
	}
	return newStep(StageFeatureEngineering, b.chain, opts), nil
}

func NewCleaningFromFile(paramsPath string, opts Options) (*Step, error) {
	params := CleaningParams{}
	if err := config.LoadParams(paramsPath, &params); err != nil {
		return nil, err
	}
	return NewCleaning(params, opts)
}

func NewPreprocessingFromFile(paramsPath string, opts Options) (*Step, error) {
	params := PreprocessingParams{}
	if err := config.LoadParams(paramsPath, &params); err != nil {
		return nil, err
	}
	return NewPreprocessing(params, opts)
}

func NewFeatureEngineeringFromFile(paramsPath string, opts Options) (*Step, error) {
	params := FeatureEngineeringParams{}
	if err := config.LoadParams(paramsPath, &params); err != nil {
		return nil, err
	}
	return NewFeatureEngineering(params, opts)
}
