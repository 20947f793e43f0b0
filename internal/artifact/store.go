package artifact

import (
	"bytes"
	"log"
	"os"
	"path/filepath"

	"github.com/packagewjx/ds-toolbelt/internal/config"
	"github.com/packagewjx/ds-toolbelt/internal/transform"
	"github.com/pkg/errors"
)

// Store 以类型名为键保存Transformer的配置，每种类型一个YAML文件
type Store struct {
	Dir    string
	logger *log.Logger
}

func NewStore(dir string) *Store {
	return &Store{
		Dir:    dir,
		logger: log.New(os.Stdout, "Store: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}
}

func (s *Store) path(kind transform.Kind) string {
	return filepath.Join(s.Dir, string(kind)+".yaml")
}

// Save 保存t的配置，同类型的旧文件会被覆盖
func (s *Store) Save(t transform.Configurable) error {
	path := s.path(t.Kind())
	if err := config.WriteParams(path, t.Config()); err != nil {
		return errors.Wrapf(err, "保存%s出错", t.Kind())
	}
	s.logger.Printf("已保存%s到%s", t.Kind(), path)
	return nil
}

func (s *Store) Load(kind transform.Kind) (transform.Transformer, error) {
	path := s.path(kind)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "读取%s出错", path)
	}
	t, err := transform.Restore(kind, func(v interface{}) error {
		return config.DecodeParams(bytes.NewReader(content), v)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "恢复%s出错", kind)
	}
	s.logger.Printf("已从%s恢复%s", path, kind)
	return t, nil
}

func (s *Store) Exists(kind transform.Kind) bool {
	_, err := os.Stat(s.path(kind))
	return err == nil
}
