package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestAside(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestClient(t)
	key := TrendingKey("posts:likes")

	calls := 0
	fetch := func(dest *[]entry) func() error {
		return func() error {
			calls++
			*dest = []entry{{ID: "p1", Likes: 3}}
			return nil
		}
	}

	var first []entry
	require.NoError(t, Aside(ctx, rdb, key, &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(key))

	var second []entry
	require.NoError(t, Aside(ctx, rdb, key, &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls, "second read must be served from cache")
	assert.Equal(t, first, second)

	mr.FastForward(2 * time.Minute)
	var third []entry
	require.NoError(t, Aside(ctx, rdb, key, &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, calls)

	Invalidate(ctx, rdb, key)
	assert.False(t, mr.Exists(key))
}

func TestAside_Disabled(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestClient(t)

	calls := 0
	fetch := func() error { calls++; return nil }

	var dest []entry
	require.NoError(t, Aside(ctx, nil, "k", &dest, time.Minute, fetch))
	require.NoError(t, Aside(ctx, rdb, "k", &dest, 0, fetch))
	require.NoError(t, Aside(ctx, rdb, "k", &dest, 0, fetch))
	assert.Equal(t, 3, calls)
}

func TestAside_RedisDownFallsThrough(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestClient(t)
	mr.Close()

	calls := 0
	var dest []entry
	err := Aside(ctx, rdb, "k", &dest, time.Minute, func() error {
		calls++
		dest = []entry{{ID: "p2"}}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "p2", dest[0].ID)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestClient(t)

	boom := errors.New("db down")
	var dest []entry
	err := Aside(ctx, rdb, "k", &dest, time.Minute, func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestAside_CorruptEntryIsRefetched(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestClient(t)
	require.NoError(t, mr.Set("k", "{not json"))

	calls := 0
	var dest []entry
	err := Aside(ctx, rdb, "k", &dest, time.Minute, func() error {
		calls++
		dest = []entry{{ID: "p3", Likes: 1}}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	cached, err := mr.Get("k")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p3","likes":1}]`, cached)
}

func TestOptions_FailFast(t *testing.T) {
	opts, err := options("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, 1, opts.DialerRetries)
	assert.Equal(t, -1, opts.MaxRetries)

	opts, err = options("redis://localhost:6379/0?max_retries=2&dial_timeout=3s")
	require.NoError(t, err)
	assert.Equal(t, 2, opts.MaxRetries)
	assert.Equal(t, 3*time.Second, opts.DialTimeout)
}

func TestAside_DeadRedisFailsFast(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := Connect(context.Background(), mr.Addr())
	require.NotNil(t, rdb)
	defer rdb.Close()
	mr.Close()

	start := time.Now()
	var dest []entry
	require.NoError(t, Aside(context.Background(), rdb, "k", &dest, time.Minute, func() error { return nil }))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConnect_Unreachable(t *testing.T) {
	assert.Nil(t, Connect(context.Background(), "127.0.0.1:1"))
	assert.Nil(t, Connect(context.Background(), "redis://%zz"))
}

func TestConnect_Reachable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := Connect(context.Background(), mr.Addr())
	require.NotNil(t, rdb)
	defer rdb.Close()
	assert.NoError(t, rdb.Ping(context.Background()).Err())
}
