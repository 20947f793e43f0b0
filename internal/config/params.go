package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DecodeParams 严格解析阶段参数，未知的键与类型不匹配都视为配置错误
func DecodeParams(r io.Reader, out interface{}) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrapf(core.ErrInvalidConfig, "解析参数出错：%v", err)
	}
	return nil
}

func LoadParams(path string, out interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "读取参数文件%s出错", path)
	}
	if err := DecodeParams(bytes.NewReader(content), out); err != nil {
		return errors.Wrapf(err, "参数文件%s", path)
	}
	return nil
}

// WriteParams 把参数写入YAML文件，目录不存在时自动创建
func WriteParams(path string, params interface{}) error {
	content, err := yaml.Marshal(params)
	if err != nil {
		return errors.Wrap(err, "序列化参数出错")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "创建目录%s出错", filepath.Dir(path))
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return errors.Wrapf(err, "写入参数文件%s出错", path)
	}
	return nil
}
