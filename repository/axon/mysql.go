package axon

import (
	"context"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// mysqlSource 从关系型镜像库中只读地读取整张知识表。
type mysqlSource struct {
	db     *gorm.DB
	table  string
	logger *logrus.Logger
}

func newMySQLSource(config *Config, log *logrus.Logger) (*mysqlSource, error) {
	db, err := CreateDatabase(mysql.Open(config.MySQL.dsn()), log)
	if err != nil {
		return nil, markUnavailable(err, "db connection fail")
	}

	return newMySQLSourceWithDB(db, config.table(), log), nil
}

func newMySQLSourceWithDB(db *gorm.DB, table string, log *logrus.Logger) *mysqlSource {
	return &mysqlSource{
		db:     db,
		table:  table,
		logger: log,
	}
}

func CreateDatabase(dialector gorm.Dialector, log *logrus.Logger) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&printfLogger{logger: log}, logger.Config{LogLevel: logger.Info}),
	})
}

func (s *mysqlSource) FetchAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.WithContext(ctx).Table(s.table).Rows()
	if err != nil {
		return nil, markUnavailable(err, "select axon knowledge fail")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, markUnavailable(err, "read columns fail")
	}

	records := make([]Record, 0)
	for rows.Next() {
		values := make(map[string]interface{}, len(columns))
		if err := s.db.ScanRows(rows, &values); err != nil {
			return nil, markUnavailable(err, "scan row fail")
		}

		record := NewRecord()
		for _, column := range columns {
			record.Set(column, plainValue(values[column]))
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, markUnavailable(err, "iterate rows fail")
	}

	s.logger.Debugf("fetched %d rows from table %s", len(records), s.table)
	return records, nil
}

// plainValue 将驱动返回的 []byte 转为字符串，其余值原样保留。
func plainValue(value interface{}) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
