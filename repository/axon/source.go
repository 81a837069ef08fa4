package axon

import (
	"context"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// ErrRemoteUnavailable 表示远端知识表无法读取：无法连接、鉴权被拒绝或返回内容无法解析。
var ErrRemoteUnavailable = errors.New("axon knowledge store unavailable")

/*
Record 是远端表中的一行。

	Columns 列名，保持远端返回的顺序；
	Values 列名到值的映射，缺失或 NULL 的单元格为 nil；
*/
type Record struct {
	Columns []string
	Values  map[string]any
}

func NewRecord() Record {
	return Record{Values: make(map[string]any)}
}

func (r *Record) Set(column string, value any) {
	if _, exist := r.Values[column]; !exist {
		r.Columns = append(r.Columns, column)
	}
	r.Values[column] = value
}

// Source 一次性读取整张知识表。
type Source interface {
	FetchAll(ctx context.Context) ([]Record, error)
}

func New(config *Config, logger *logrus.Logger) (Source, error) {
	switch config.Driver {
	case DriverREST:
		return newRESTSource(config, logger), nil
	case DriverMySQL:
		return newMySQLSource(config, logger)
	default:
		return nil, errors.Newf("unknown driver %q", config.Driver)
	}
}

func markUnavailable(err error, msg string) error {
	return errors.Mark(errors.Wrap(err, msg), ErrRemoteUnavailable)
}
