package transform

import (
	"sync"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
)

// CustomFunc 自定义转换。传入的Dataset是副本，可以直接修改
type CustomFunc func(data *core.Dataset) (*core.Dataset, error)

var (
	customMu    sync.RWMutex
	customHooks = map[string]CustomFunc{
		"v0": func(data *core.Dataset) (*core.Dataset, error) {
			return data, nil
		},
	}
)

// RegisterCustom 注册名为name的自定义转换，同名的会被覆盖
func RegisterCustom(name string, fn CustomFunc) {
	customMu.Lock()
	defer customMu.Unlock()
	customHooks[name] = fn
}

func LookupCustom(name string) (CustomFunc, bool) {
	customMu.RLock()
	defer customMu.RUnlock()
	fn, ok := customHooks[name]
	return fn, ok
}

type CustomTransformerConfig struct {
	CustomTransformerName string `yaml:"custom_transformer_name"`
}

// CustomTransformer 调用已注册的同名自定义转换，没有注册时原样返回
type CustomTransformer struct {
	stateless
	cfg CustomTransformerConfig
}

func NewCustomTransformer(cfg CustomTransformerConfig) (*CustomTransformer, error) {
	return &CustomTransformer{cfg: cfg}, nil
}

func (c *CustomTransformer) Kind() Kind {
	return KindCustomTransformer
}

func (c *CustomTransformer) Config() interface{} {
	return c.cfg
}

func (c *CustomTransformer) Transform(data *core.Dataset) (*core.Dataset, error) {
	fn, ok := LookupCustom(c.cfg.CustomTransformerName)
	if !ok {
		return data.Copy(), nil
	}
	return fn(data.Copy())
}
