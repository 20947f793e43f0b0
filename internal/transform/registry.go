package transform

import (
	"github.com/pkg/errors"
)

// Kinds 返回所有Transformer类型
func Kinds() []Kind {
	return []Kind{
		KindCleaner, KindFilter, KindDropper, KindRenamer, KindBinner, KindMinimumPercentageFilter,
		KindBinarizer, KindEncoder, KindFeatureTransformer, KindCustomTransformer, KindMissingInputer,
		KindSelector, KindDumminizer, KindScaler,
	}
}

// Restore 根据类型和保存的配置重新构造Transformer。unmarshal把保存的配置解码到传入的指针中
func Restore(kind Kind, unmarshal func(interface{}) error) (Transformer, error) {
	switch kind {
	case KindCleaner:
		return restore(unmarshal, NewCleaner)
	case KindFilter:
		return restore(unmarshal, NewFilter)
	case KindDropper:
		return restore(unmarshal, NewDropper)
	case KindRenamer:
		return restore(unmarshal, NewRenamer)
	case KindBinner:
		return restore(unmarshal, NewBinner)
	case KindMinimumPercentageFilter:
		return restore(unmarshal, NewMinimumPercentageFilter)
	case KindBinarizer:
		return restore(unmarshal, NewBinarizer)
	case KindEncoder:
		return restore(unmarshal, NewEncoder)
	case KindFeatureTransformer:
		return restore(unmarshal, func(cfg FeatureTransformerConfig) (*FeatureTransformer, error) {
			return NewFeatureTransformer(cfg)
		})
	case KindCustomTransformer:
		return restore(unmarshal, NewCustomTransformer)
	case KindMissingInputer:
		return restore(unmarshal, NewMissingInputer)
	case KindSelector:
		return restore(unmarshal, NewSelector)
	case KindDumminizer:
		return restore(unmarshal, NewDumminizer)
	case KindScaler:
		return restore(unmarshal, NewScaler)
	}
	return nil, errors.Wrapf(ErrUnknownOperation, "Transformer类型%q", kind)
}

func restore[C any, T Transformer](unmarshal func(interface{}) error, build func(C) (T, error)) (Transformer, error) {
	var cfg C
	if err := unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "解析配置失败")
	}
	t, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return t, nil
}
