package transform

import (
	"math"

	"github.com/packagewjx/ds-toolbelt/internal/utils"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

const (
	ScalerMinMax         = "minmax"
	ScalerStandard       = "standard"
	ScalerMinMaxMultiple = "minmax_multiple_columns"
)

type ScalerParams struct {
	VMin *float64 `yaml:"v_min,omitempty"`
	VMax *float64 `yaml:"v_max,omitempty"`
}

func (p ScalerParams) bounds() (float64, float64) {
	vMin, vMax := 0.0, 1.0
	if p.VMin != nil {
		vMin = *p.VMin
	}
	if p.VMax != nil {
		vMax = *p.VMax
	}
	return vMin, vMax
}

type ScaleSpec struct {
	Scaler  string       `yaml:"scaler"`
	Columns []string     `yaml:"columns"`
	Params  ScalerParams `yaml:"params,omitempty"`
}

type ScalerConfig struct {
	ScaleMeta []ScaleSpec `yaml:"scale_meta"`
}

// Scaler 按配置顺序缩放列。multiple_columns类的缩放在所有列上共同计算统计量
type Scaler struct {
	stateless
	cfg ScalerConfig
}

func NewScaler(cfg ScalerConfig) (*Scaler, error) {
	for i, spec := range cfg.ScaleMeta {
		switch spec.Scaler {
		case ScalerMinMax, ScalerMinMaxMultiple:
			if vMin, vMax := spec.Params.bounds(); !(vMax > vMin) {
				return nil, invalidConfig("scale_meta第%d项的v_max必须大于v_min", i)
			}
		case ScalerStandard:
			if spec.Params.VMin != nil || spec.Params.VMax != nil {
				return nil, invalidConfig("scale_meta第%d项：standard不支持v_min与v_max", i)
			}
		default:
			return nil, errors.Wrapf(ErrUnknownOperation, "scale_meta第%d项的缩放方法%q", i, spec.Scaler)
		}
		if len(spec.Columns) == 0 {
			return nil, invalidConfig("scale_meta第%d项缺少columns", i)
		}
	}
	return &Scaler{cfg: cfg}, nil
}

func (s *Scaler) Kind() Kind {
	return KindScaler
}

func (s *Scaler) Config() interface{} {
	return s.cfg
}

func (s *Scaler) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	for _, spec := range s.cfg.ScaleMeta {
		if err := out.CheckColumns(spec.Columns); err != nil {
			return nil, err
		}
		series := make([]*core.Series, len(spec.Columns))
		for i, column := range spec.Columns {
			series[i], _ = out.Column(column)
			if _, err := utils.NumericValues(series[i].Values); err != nil {
				return nil, errors.Wrapf(err, "列%s无法缩放", column)
			}
		}

		switch spec.Scaler {
		case ScalerMinMax:
			vMin, vMax := spec.Params.bounds()
			for _, column := range series {
				values, _ := utils.NumericValues(column.Values)
				min, max := utils.MinMax(values)
				scaleSeries(column, min, max-min, vMin, vMax)
			}
		case ScalerStandard:
			for _, column := range series {
				values, _ := utils.NumericValues(column.Values)
				scaleSeries(column, utils.Mean(values), utils.Std(values), 0, 1)
			}
		case ScalerMinMaxMultiple:
			vMin, vMax := spec.Params.bounds()
			all := make([]float64, 0)
			for _, column := range series {
				values, _ := utils.NumericValues(column.Values)
				all = append(all, values...)
			}
			min, max := utils.MinMax(all)
			for _, column := range series {
				scaleSeries(column, min, max-min, vMin, vMax)
			}
		}
	}
	return out, nil
}

// scaleSeries 计算(x-center)/spread*(vMax-vMin)+vMin，spread为0或无效时结果为缺失
func scaleSeries(s *core.Series, center, spread, vMin, vMax float64) {
	valid := spread != 0 && !math.IsNaN(spread) && !math.IsInf(spread, 0)
	for i, v := range s.Values {
		if core.IsMissing(v) {
			continue
		}
		if !valid {
			s.Values[i] = nil
			continue
		}
		f, _ := core.ToFloat(v)
		s.Values[i] = (f-center)/spread*(vMax-vMin) + vMin
	}
	s.Categories = nil
}
