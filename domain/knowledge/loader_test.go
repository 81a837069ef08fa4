package knowledge

import (
	"context"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maestro-dashboard/logging"
	"maestro-dashboard/repository/axon"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu      sync.Mutex
	records []axon.Record
	err     error
	calls   int
}

func (s *fakeSource) FetchAll(ctx context.Context) ([]axon.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestLoader(t *testing.T, source axon.Source, clock *fakeClock) *Loader {
	logging.SetDefaultConfig(logging.GenerateTestConfig(t))

	loader, err := NewLoader(&LoaderSetting{
		Source: source,
		TTL:    DefaultTTL,
		Logger: logging.NewLogger(),
		Now:    clock.Now,
	})
	require.Nil(t, err)
	t.Cleanup(loader.Close)

	return loader
}

func TestLoader_CacheTTL(t *testing.T) {
	source := &fakeSource{records: []axon.Record{mettl3Record()}}
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	loader := newTestLoader(t, source, clock)

	first := loader.Load(context.Background(), nil)
	require.Equal(t, 1, first.Len())
	assert.Equal(t, 1, source.Calls())

	clock.Advance(599 * time.Second)
	second := loader.Load(context.Background(), nil)
	assert.Same(t, first, second)
	assert.Equal(t, 1, source.Calls())

	clock.Advance(time.Second)
	assert.Same(t, first, loader.Load(context.Background(), nil))
	assert.Equal(t, 1, source.Calls())

	clock.Advance(time.Millisecond)
	third := loader.Load(context.Background(), nil)
	assert.Equal(t, 2, source.Calls())
	assert.NotSame(t, first, third)
	assert.Equal(t, first, third)
}

func TestLoader_EmptyResult(t *testing.T) {
	source := &fakeSource{records: []axon.Record{}}
	clock := &fakeClock{now: time.Now()}
	loader := newTestLoader(t, source, clock)

	var messages Messages
	table := loader.Load(context.Background(), &messages)
	require.NotNil(t, table)
	assert.True(t, table.Empty())
	assert.Empty(t, messages)

	loader.Load(context.Background(), &messages)
	assert.Equal(t, 1, source.Calls())
}

func TestLoader_FetchFailed(t *testing.T) {
	source := &fakeSource{err: errors.Mark(errors.New("dial tcp: connection refused"), axon.ErrRemoteUnavailable)}
	clock := &fakeClock{now: time.Now()}
	loader := newTestLoader(t, source, clock)

	var failures []error
	loader.onFetchFailed = func(err error) {
		failures = append(failures, err)
	}

	var messages Messages
	table := loader.Load(context.Background(), &messages)
	require.NotNil(t, table)
	assert.True(t, table.Empty())
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0], "Connection to AXON failed")
	require.Len(t, failures, 1)
	assert.True(t, errors.Is(failures[0], axon.ErrRemoteUnavailable))

	source.mu.Lock()
	source.err = nil
	source.records = []axon.Record{mettl3Record()}
	source.mu.Unlock()

	messages = nil
	table = loader.Load(context.Background(), &messages)
	assert.Equal(t, 1, table.Len())
	assert.Empty(t, messages)
	assert.Equal(t, 2, source.Calls())
}

func TestLoader_Invalidate(t *testing.T) {
	source := &fakeSource{records: []axon.Record{mettl3Record()}}
	clock := &fakeClock{now: time.Now()}
	loader := newTestLoader(t, source, clock)

	loader.Load(context.Background(), nil)
	loader.Load(context.Background(), nil)
	assert.Equal(t, 1, source.Calls())

	loader.Invalidate()
	loader.Load(context.Background(), nil)
	assert.Equal(t, 2, source.Calls())
}

func TestLoader_ConcurrentReaders(t *testing.T) {
	source := &fakeSource{records: []axon.Record{mettl3Record(), record("target_id", "kras")}}
	clock := &fakeClock{now: time.Now()}
	loader := newTestLoader(t, source, clock)

	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table := loader.Load(context.Background(), nil)
			assert.Equal(t, 2, table.Len())
			assert.Equal(t, "KRAS", table.Rows[1].TargetID)
		}()
	}
	wg.Wait()
}

func TestNewLoader_RequiresSource(t *testing.T) {
	_, err := NewLoader(&LoaderSetting{})
	assert.NotNil(t, err)

	loader, err := NewLoader(&LoaderSetting{Source: &fakeSource{}})
	require.Nil(t, err)
	defer loader.Close()
	assert.Equal(t, DefaultTTL, loader.TTL())
}
