package transform

import "github.com/packagewjx/ds-toolbelt/pkg/core"

type DropperConfig struct {
	DropColumns []string `yaml:"drop_columns"`
}

type Dropper struct {
	stateless
	cfg DropperConfig
}

func NewDropper(cfg DropperConfig) (*Dropper, error) {
	return &Dropper{cfg: cfg}, nil
}

func (d *Dropper) Kind() Kind {
	return KindDropper
}

func (d *Dropper) Config() interface{} {
	return d.cfg
}

func (d *Dropper) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	if err := out.Drop(d.cfg.DropColumns); err != nil {
		return nil, err
	}
	return out, nil
}

type RenamerConfig struct {
	RenameMeta map[string]string `yaml:"rename_meta"`
}

type Renamer struct {
	stateless
	cfg RenamerConfig
}

func NewRenamer(cfg RenamerConfig) (*Renamer, error) {
	for old, name := range cfg.RenameMeta {
		if name == "" {
			return nil, invalidConfig("列%s的新名称为空", old)
		}
	}
	return &Renamer{cfg: cfg}, nil
}

func (r *Renamer) Kind() Kind {
	return KindRenamer
}

func (r *Renamer) Config() interface{} {
	return r.cfg
}

func (r *Renamer) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	if err := out.Rename(r.cfg.RenameMeta); err != nil {
		return nil, err
	}
	return out, nil
}

type SelectorConfig struct {
	SelectionDropColumns []string `yaml:"selection_drop_columns"`
}

// Selector 特征工程之后丢弃不需要的列
type Selector struct {
	stateless
	cfg SelectorConfig
}

func NewSelector(cfg SelectorConfig) (*Selector, error) {
	return &Selector{cfg: cfg}, nil
}

func (s *Selector) Kind() Kind {
	return KindSelector
}

func (s *Selector) Config() interface{} {
	return s.cfg
}

func (s *Selector) Transform(data *core.Dataset) (*core.Dataset, error) {
	out := data.Copy()
	if err := out.Drop(s.cfg.SelectionDropColumns); err != nil {
		return nil, err
	}
	return out, nil
}
