package datasource

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/packagewjx/ds-toolbelt/pkg/core"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// 单次批量插入的最大行数
const MaxOneRun = 5000

// Table 通过gorm读写数据库中的表
type Table struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewTable(driver, dsn string) (*Table, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverMySQL:
		dialector = mysql.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Wrapf(core.ErrInvalidConfig, "不支持的数据库驱动%s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "", 0), logger.Config{
			LogLevel: logger.Silent,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库错误")
	}
	return &Table{
		db:     db,
		logger: log.New(os.Stdout, "Table: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix),
	}, nil
}

func (t *Table) DB() *gorm.DB {
	return t.db
}

// Load 读取表。opts.Query不为空时执行该查询，否则读取整张表
func (t *Table) Load(table string, opts LoadOptions) (*core.Dataset, error) {
	var data *core.Dataset
	var err error
	if opts.Query != "" {
		data, err = t.RunQuery(opts.Query)
	} else {
		data, err = t.RunQuery("SELECT * FROM ?", clause.Table{Name: table})
	}
	if err != nil {
		return nil, errors.Wrapf(err, "读取表%s出错", table)
	}
	if err := parseDates(data, opts.ParseDates); err != nil {
		return nil, err
	}
	return data, nil
}

// RunQuery 执行查询并把结果转换为Dataset
func (t *Table) RunQuery(query string, args ...interface{}) (*core.Dataset, error) {
	rows, err := t.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, errors.Wrap(err, "执行查询出错")
	}
	defer func() {
		_ = rows.Close()
	}()

	data, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	t.logger.Printf("查询返回%d行%d列", data.NumRows(), data.NumColumns())
	return data, nil
}

func scanRows(rows *sql.Rows) (*core.Dataset, error) {
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "读取列信息出错")
	}
	columns := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = ct.Name()
	}

	records := make([][]interface{}, 0, 16)
	for rows.Next() {
		record := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range record {
			dest[i] = &record[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.Wrap(err, "读取查询结果出错")
		}
		for i, v := range record {
			record[i] = convertCell(v, columnTypes[i].DatabaseTypeName())
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "读取查询结果出错")
	}
	return core.FromRows(columns, records)
}

var numericTypes = map[string]struct{}{
	"TINYINT": {}, "SMALLINT": {}, "MEDIUMINT": {}, "INT": {}, "INTEGER": {}, "BIGINT": {},
	"FLOAT": {}, "DOUBLE": {}, "REAL": {}, "DECIMAL": {}, "NUMERIC": {},
	"UNSIGNED TINYINT": {}, "UNSIGNED SMALLINT": {}, "UNSIGNED INT": {}, "UNSIGNED BIGINT": {},
}

// convertCell mysql的文本协议把数值也作为[]byte返回，需要按列类型解析
func convertCell(v interface{}, dbType string) interface{} {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	if _, numeric := numericTypes[strings.ToUpper(dbType)]; numeric {
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return f
		}
	}
	return string(b)
}

// Write 用data替换整张表，表存在时先删除
func (t *Table) Write(data *core.Dataset, table string) error {
	if err := t.DeleteTable(table); err != nil {
		return err
	}

	columns := data.Columns()
	definitions := make([]string, len(columns))
	vars := make([]interface{}, 0, len(columns)+1)
	vars = append(vars, clause.Table{Name: table})
	types := make([]string, len(columns))
	for i, c := range columns {
		s, _ := data.Column(c)
		types[i] = columnType(s)
		definitions[i] = "? " + types[i]
		vars = append(vars, clause.Column{Name: c})
	}
	ddl := fmt.Sprintf("CREATE TABLE ? (%s)", strings.Join(definitions, ", "))
	if err := t.db.Exec(ddl, vars...).Error; err != nil {
		return errors.Wrapf(err, "创建表%s出错", table)
	}

	records := make([]map[string]interface{}, data.NumRows())
	for i := range records {
		record := make(map[string]interface{}, len(columns))
		for ci, c := range columns {
			v, _ := data.Value(c, i)
			record[c] = columnValue(v, types[ci])
		}
		records[i] = record
	}

	t.logger.Printf("插入%d行数据到表%s", len(records), table)
	for i := 0; i < len(records); i += MaxOneRun {
		end := i + MaxOneRun
		if end > len(records) {
			end = len(records)
		}
		if err := t.db.Table(table).Create(records[i:end]).Error; err != nil {
			return errors.Wrapf(err, "插入表%s出错", table)
		}
	}
	return nil
}

func (t *Table) DeleteTable(table string) error {
	if !t.db.Migrator().HasTable(table) {
		return nil
	}
	if err := t.db.Migrator().DropTable(table); err != nil {
		return errors.Wrapf(err, "删除表%s出错", table)
	}
	return nil
}

const (
	typeDouble   = "DOUBLE"
	typeBoolean  = "BOOLEAN"
	typeDatetime = "DATETIME"
	typeText     = "TEXT"
)

// columnType 所有非缺失值类型相同时使用对应的列类型，否则使用TEXT
func columnType(s *core.Series) string {
	kind := ""
	for _, v := range s.Values {
		if core.IsMissing(v) {
			continue
		}
		var k string
		switch v.(type) {
		case float64:
			k = typeDouble
		case bool:
			k = typeBoolean
		case time.Time:
			k = typeDatetime
		default:
			return typeText
		}
		if kind != "" && kind != k {
			return typeText
		}
		kind = k
	}
	if kind == "" {
		return typeText
	}
	return kind
}

func columnValue(v interface{}, columnType string) interface{} {
	if core.IsMissing(v) {
		return nil
	}
	if columnType == typeText {
		return core.Format(v)
	}
	return v
}
