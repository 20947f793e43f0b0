package transform

import (
	"sort"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
)

type DefaultFill struct {
	Numerical   *float64 `yaml:"numerical,omitempty"`
	Categorical *string  `yaml:"categorical,omitempty"`
}

type MissingInputerConfig struct {
	DefaultNumericalMissingColumns   []string               `yaml:"default_numerical_missing_columns"`
	DefaultCategoricalMissingColumns []string               `yaml:"default_categorical_missing_columns"`
	OtherMissingMeta                 map[string]interface{} `yaml:"other_missing_meta"`
	DefaultFillMeta                  DefaultFill            `yaml:"default_fill_meta"`
}

// MissingInputer 依次用数值默认值、类别默认值和按列指定的值填充缺失，后者可以覆盖前两者
type MissingInputer struct {
	stateless
	cfg MissingInputerConfig
}

func NewMissingInputer(cfg MissingInputerConfig) (*MissingInputer, error) {
	if len(cfg.DefaultNumericalMissingColumns) > 0 && cfg.DefaultFillMeta.Numerical == nil {
		return nil, invalidConfig("配置了default_numerical_missing_columns但default_fill_meta缺少numerical")
	}
	if len(cfg.DefaultCategoricalMissingColumns) > 0 && cfg.DefaultFillMeta.Categorical == nil {
		return nil, invalidConfig("配置了default_categorical_missing_columns但default_fill_meta缺少categorical")
	}
	for column, v := range cfg.OtherMissingMeta {
		if core.IsMissing(v) {
			return nil, invalidConfig("other_missing_meta的列%s缺少填充值", column)
		}
	}
	return &MissingInputer{cfg: cfg}, nil
}

func (m *MissingInputer) Kind() Kind {
	return KindMissingInputer
}

func (m *MissingInputer) Config() interface{} {
	return m.cfg
}

func (m *MissingInputer) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	if len(m.cfg.DefaultNumericalMissingColumns) > 0 {
		if err := fillMissing(out, m.withoutOverrides(m.cfg.DefaultNumericalMissingColumns), *m.cfg.DefaultFillMeta.Numerical); err != nil {
			return nil, err
		}
	}
	if len(m.cfg.DefaultCategoricalMissingColumns) > 0 {
		if err := fillMissing(out, m.withoutOverrides(m.cfg.DefaultCategoricalMissingColumns), *m.cfg.DefaultFillMeta.Categorical); err != nil {
			return nil, err
		}
	}

	columns := make([]string, 0, len(m.cfg.OtherMissingMeta))
	for column := range m.cfg.OtherMissingMeta {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	for _, column := range columns {
		if err := fillMissing(out, []string{column}, m.cfg.OtherMissingMeta[column]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// withoutOverrides 去掉other_missing_meta中配置的列，这些列只用指定的值填充
func (m *MissingInputer) withoutOverrides(columns []string) []string {
	result := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := m.cfg.OtherMissingMeta[c]; !ok {
			result = append(result, c)
		}
	}
	return result
}

func fillMissing(data *core.Dataset, columns []string, fill interface{}) error {
	if err := data.CheckColumns(columns); err != nil {
		return err
	}
	fill = core.Normalize(fill)
	for _, column := range columns {
		s, _ := data.Column(column)
		filled := false
		for i, v := range s.Values {
			if core.IsMissing(v) {
				s.Values[i] = fill
				filled = true
			}
		}
		if filled {
			s.AddCategory(core.Format(fill))
		}
	}
	return nil
}
