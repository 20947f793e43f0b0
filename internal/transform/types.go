package transform

import (
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

type Kind string

const (
	KindCleaner                 = Kind("cleaner")
	KindFilter                  = Kind("filter")
	KindDropper                 = Kind("dropper")
	KindRenamer                 = Kind("renamer")
	KindBinner                  = Kind("binner")
	KindMinimumPercentageFilter = Kind("minimum_percentage_filter")
	KindBinarizer               = Kind("binarizer")
	KindEncoder                 = Kind("encoder")
	KindFeatureTransformer      = Kind("feature_transformer")
	KindCustomTransformer       = Kind("custom_transformer")
	KindMissingInputer          = Kind("missing_inputer")
	KindSelector                = Kind("selector")
	KindDumminizer              = Kind("dumminizer")
	KindScaler                  = Kind("scaler")
)

// Transformer 根据构造时确定的配置把一个Dataset映射为新的Dataset。
// Transform不会修改传入的Dataset。
type Transformer interface {
	Kind() Kind
	Fit(data *core.Dataset, target *core.Series) error
	Transform(data *core.Dataset) (*core.Dataset, error)
}

// Configurable 能导出自身配置的Transformer，用于持久化
type Configurable interface {
	Transformer
	Config() interface{}
}

var ErrNotBinary = errors.New("二值化的列必须恰好有2个类别")

var ErrUnknownOperation = errors.New("未知的操作")

// 无状态的Transformer嵌入此类型，Fit不做任何事
type stateless struct{}

func (stateless) Fit(*core.Dataset, *core.Series) error {
	return nil
}

func FitTransform(t Transformer, data *core.Dataset, target *core.Series) (*core.Dataset, error) {
	if err := t.Fit(data, target); err != nil {
		return nil, errors.Wrapf(err, "%s拟合失败", t.Kind())
	}
	return t.Transform(data)
}

// Chain 依次执行多个Transformer，前一个的输出作为后一个的输入
type Chain []Transformer

func (c Chain) Transform(data *core.Dataset) (*core.Dataset, error) {
	var err error
	for _, t := range c {
		data, err = t.Transform(data)
		if err != nil {
			return nil, errors.Wrapf(err, "执行%s出错", t.Kind())
		}
	}
	return data, nil
}

func invalidConfig(format string, args ...interface{}) error {
	return errors.Wrapf(core.ErrInvalidConfig, format, args...)
}
