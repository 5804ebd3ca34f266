package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAsideFetchesOnMissAndCaches(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedUser) func() error {
		return func() error {
			fetches++
			dest.ID = 1
			dest.Username = "alice"
			return nil
		}
	}

	var first cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &first, UserTTL, fetch(&first)))
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, 1, fetches)

	// second read is served from the cache
	var second cachedUser
	require.NoError(t, Aside(ctx, UserKey(1), &second, UserTTL, fetch(&second)))
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, 1, fetches)
}

func TestAsidePropagatesFetchError(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	var dest cachedUser
	wantErr := errors.New("db down")
	err := Aside(ctx, UserKey(2), &dest, UserTTL, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)
}

func TestInvalidateRemovesKey(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(3), cachedUser{ID: 3, Username: "bob"}, UserTTL))

	var dest cachedUser
	found, err := GetJSON(ctx, UserKey(3), &dest)
	require.NoError(t, err)
	require.True(t, found)

	InvalidateUser(ctx, 3)

	found, err = GetJSON(ctx, UserKey(3), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheDisabledWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	var dest cachedUser
	require.NoError(t, Aside(ctx, UserKey(4), &dest, UserTTL, func() error {
		fetches++
		dest.Username = "carol"
		return nil
	}))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "carol", dest.Username)
}

func TestInvalidateTimelineClearsAllPageSizes(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, TimelineKey(1), []uint{1}, TimelineTTL))
	require.NoError(t, SetJSON(ctx, TimelineKey(10), []uint{1, 2, 3}, TimelineTTL))

	InvalidateTimeline(ctx)

	var dest []uint
	found, err := GetJSON(ctx, TimelineKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = GetJSON(ctx, TimelineKey(10), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}
