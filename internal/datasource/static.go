package datasource

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/packagewjx/ds-toolbelt/internal/utils"
	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
)

// Static 读写本地的csv与xlsx文件。相对路径相对于BaseDir
type Static struct {
	BaseDir string

	mu     sync.Mutex
	cache  map[string]*core.Dataset
	logger *log.Logger
}

func NewStatic(baseDir string) *Static {
	return &Static{
		BaseDir: baseDir,
		cache:   make(map[string]*core.Dataset),
		logger:  log.New(os.Stdout, "Static: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}
}

func (s *Static) resolve(path string) string {
	if filepath.IsAbs(path) || s.BaseDir == "" {
		return path
	}
	return filepath.Join(s.BaseDir, path)
}

// Load 读取文件。相同路径与选项的结果会被缓存，返回的是缓存的副本
func (s *Static) Load(path string, opts LoadOptions) (*core.Dataset, error) {
	full := s.resolve(path)
	format, err := FormatOf(full)
	if err != nil {
		return nil, err
	}

	key := full + "|" + opts.key()
	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		s.logger.Printf("从缓存中读取%s", full)
		return cached.Copy(), nil
	}

	fin, err := os.Open(full)
	if err != nil {
		return nil, errors.Wrapf(err, "打开文件%s出错", full)
	}
	defer func() {
		_ = fin.Close()
	}()

	counter := &utils.ReadCounter{Reader: fin}
	data, err := NewDataLoader(format).Load(counter, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "读取文件%s出错", full)
	}
	s.logger.Printf("读取%s完成，共%d字节，%d行%d列", full, counter.Count, data.NumRows(), data.NumColumns())

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return data.Copy(), nil
}

// Refresh 清空读取缓存
func (s *Static) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*core.Dataset)
}

// evict 删除path的所有缓存
func (s *Static) evict(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.cache {
		if strings.HasPrefix(key, path+"|") {
			delete(s.cache, key)
		}
	}
}

// Write 写入文件，目录不存在时自动创建
func (s *Static) Write(data *core.Dataset, path string) error {
	full := s.resolve(path)
	format, err := FormatOf(full)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Wrapf(err, "创建目录%s出错", filepath.Dir(full))
	}

	fout, err := os.Create(full)
	if err != nil {
		return errors.Wrapf(err, "创建文件%s出错", full)
	}
	counter := &utils.WriteCounter{Writer: fout}
	err = NewDataWriter(format).Write(counter, data)
	closeErr := fout.Close()
	if err != nil {
		return errors.Wrapf(err, "写入文件%s出错", full)
	}
	if closeErr != nil {
		return errors.Wrapf(closeErr, "关闭文件%s出错", full)
	}
	s.evict(full)
	s.logger.Printf("写入%s完成，共%d字节，%d行%d列", full, counter.Count, data.NumRows(), data.NumColumns())
	return nil
}
