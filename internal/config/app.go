package config

import (
	"fmt"
	"path/filepath"

	"github.com/packagewjx/ds-toolbelt/internal/datasource"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	KeyDataDir     = "data_dir"
	KeyModelsDir   = "models_dir"
	KeyTableDriver = "table.driver"
	KeyTableDSN    = "table.dsn"
)

const (
	DefaultDataDir   = "data"
	DefaultModelsDir = "models"
	defaultDBFile    = "toolbelt.db"
)

type TableConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// App 应用配置，来源为配置文件与TOOLBELT_开头的环境变量
type App struct {
	DataDir   string      `mapstructure:"data_dir"`
	ModelsDir string      `mapstructure:"models_dir"`
	Table     TableConfig `mapstructure:"table"`
}

// SetDefaults 设置应用配置的默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDataDir, DefaultDataDir)
	v.SetDefault(KeyModelsDir, DefaultModelsDir)
	v.SetDefault(KeyTableDriver, datasource.DriverSQLite)
	v.SetDefault(KeyTableDSN, "")
}

func LoadApp(v *viper.Viper) (*App, error) {
	app := &App{}
	if err := v.Unmarshal(app); err != nil {
		return nil, errors.Wrap(err, "解析应用配置出错")
	}
	if err := app.Complete(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *App) Complete() error {
	if app.DataDir == "" {
		app.DataDir = DefaultDataDir
	}
	if app.ModelsDir == "" {
		app.ModelsDir = DefaultModelsDir
	}

	switch app.Table.Driver {
	case "":
		app.Table.Driver = datasource.DriverSQLite
	case datasource.DriverSQLite, datasource.DriverMySQL:
	default:
		return fmt.Errorf("数据库驱动只能是%s或%s，现在为%s", datasource.DriverMySQL, datasource.DriverSQLite, app.Table.Driver)
	}

	if app.Table.DSN == "" {
		if app.Table.Driver == datasource.DriverMySQL {
			return fmt.Errorf("使用%s时必须指定table.dsn", datasource.DriverMySQL)
		}
		app.Table.DSN = filepath.Join(app.DataDir, defaultDBFile)
	}
	return nil
}
