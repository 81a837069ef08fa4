package knowledge

import (
	"context"
	"fmt"
	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
	"maestro-dashboard/repository/axon"
	"maestro-dashboard/utils"
	"time"
)

const (
	DefaultTTL = 600 * time.Second

	cacheKey = "axon_knowledge"
)

// Reporter 接收需要展示给用户的错误信息。
type Reporter interface {
	ReportError(msg string)
}

// Messages 收集一次请求中上报的错误信息。
type Messages []string

func (m *Messages) ReportError(msg string) {
	*m = append(*m, msg)
}

/*
LoaderSetting 描述 Loader 的依赖。

	Source 远端知识表；
	TTL 成功加载结果的缓存时长，默认 600 秒；
	Now 时钟，默认 time.Now；
	OnFetchFailed 远端读取失败时的回调，可为空；
*/
type LoaderSetting struct {
	Source        axon.Source
	TTL           time.Duration
	Logger        *logrus.Logger
	Now           func() time.Time
	OnFetchFailed func(err error)
}

type cacheEntry struct {
	table    *Table
	loadedAt time.Time
}

// Loader 加载并缓存归一化后的知识表，由应用根对象持有。
type Loader struct {
	source        axon.Source
	ttl           time.Duration
	logger        *logrus.Logger
	now           func() time.Time
	onFetchFailed func(err error)

	cache *ristretto.Cache
}

func NewLoader(setting *LoaderSetting) (*Loader, error) {
	if setting.Source == nil {
		return nil, errors.New("loader requires a source")
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        100,
		MaxCost:            16,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create table cache fail")
	}

	loader := &Loader{
		source:        setting.Source,
		ttl:           setting.TTL,
		logger:        setting.Logger,
		now:           setting.Now,
		onFetchFailed: setting.OnFetchFailed,
		cache:         cache,
	}

	if loader.ttl <= 0 {
		loader.ttl = DefaultTTL
	}
	if loader.logger == nil {
		loader.logger = logrus.New()
	}
	if loader.now == nil {
		loader.now = time.Now
	}

	return loader, nil
}

func (l *Loader) TTL() time.Duration {
	return l.ttl
}

/*
Load 返回当前的知识表。

TTL 内的重复调用直接返回缓存，不访问远端；超过 TTL 后重新读取。
远端读取失败时不返回错误：记录日志，通过 reporter 上报一次错误信息，并返回空表。失败结果不缓存。
*/
func (l *Loader) Load(ctx context.Context, reporter Reporter) *Table {
	if table, ok := l.cached(); ok {
		return table
	}

	records, err := l.source.FetchAll(ctx)
	if err != nil {
		l.logger.WithError(err).Errorf("fetch axon knowledge error: %s", err.Error())

		if reporter != nil {
			reporter.ReportError(fmt.Sprintf("Connection to AXON failed: %s", err.Error()))
		}
		if l.onFetchFailed != nil {
			l.onFetchFailed(err)
		}

		return EmptyTable()
	}

	table := Normalize(records)
	l.store(table)

	l.logger.Infof("axon knowledge loaded, rows=%d, ttl=%ds", table.Len(), utils.DurationToSeconds(l.ttl))
	return table
}

func (l *Loader) cached() (*Table, bool) {
	value, found := l.cache.Get(cacheKey)
	if !found {
		return nil, false
	}

	entry, ok := value.(*cacheEntry)
	if !ok {
		return nil, false
	}

	if l.now().Sub(entry.loadedAt) > l.ttl {
		return nil, false
	}

	return entry.table, true
}

func (l *Loader) store(table *Table) {
	entry := &cacheEntry{
		table:    table,
		loadedAt: l.now(),
	}

	if !l.cache.SetWithTTL(cacheKey, entry, 1, l.ttl) {
		l.logger.Warnf("table cache rejected entry, rows=%d", table.Len())
	}
	l.cache.Wait()
}

// Invalidate 丢弃缓存，下一次 Load 会重新读取远端。
func (l *Loader) Invalidate() {
	l.cache.Del(cacheKey)
	l.cache.Wait()
	l.logger.Infof("axon knowledge cache invalidated")
}

func (l *Loader) Close() {
	l.cache.Close()
}
