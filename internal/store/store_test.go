package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerprep/interview/internal/interview"
)

var testStart = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func newSession(id string) *interview.Session {
	pool := []interview.Question{
		{Text: "What is a goroutine?", Area: "Technical", Tier: interview.TierEasy},
		{Text: "Explain the memory model.", Area: "Technical", Tier: interview.TierHard},
	}
	return interview.NewSession(id,
		interview.Candidate{Name: "Ada", Role: "Backend Engineer"},
		interview.Pacing{Mode: interview.ModeTurns, Limit: 2},
		interview.ChannelChat, pool, testStart)
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)

	require.NoError(t, st.Save(ctx, newSession("s1")))

	got, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID())
	assert.Equal(t, "Ada", got.Candidate().Name)
	assert.Equal(t, 1, got.PoolSize(interview.TierEasy))
	assert.Equal(t, 1, st.Size())
}

func TestMemoryStoreReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)
	require.NoError(t, st.Save(ctx, newSession("s1")))

	first, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	second, err := st.Get(ctx, "s1")
	require.NoError(t, err)

	assert.NotSame(t, first, second)
}

func TestMemoryStoreExpiryAndSweep(t *testing.T) {
	ctx := context.Background()
	now := testStart
	st := NewMemoryStore(time.Minute).WithClock(func() time.Time { return now })

	require.NoError(t, st.Save(ctx, newSession("old")))
	now = now.Add(30 * time.Second)
	require.NoError(t, st.Save(ctx, newSession("fresh")))

	now = now.Add(45 * time.Second)
	_, err := st.Get(ctx, "old")
	assert.ErrorIs(t, err, interview.ErrSessionNotFound)

	_, err = st.Get(ctx, "fresh")
	assert.NoError(t, err)

	assert.Equal(t, 1, st.Sweep(now))
	assert.Equal(t, 1, st.Size())
}

func TestMemoryStoreNoExpiryWhenTTLDisabled(t *testing.T) {
	ctx := context.Background()
	now := testStart
	st := NewMemoryStore(0).WithClock(func() time.Time { return now })
	require.NoError(t, st.Save(ctx, newSession("s1")))

	now = now.Add(1000 * time.Hour)
	_, err := st.Get(ctx, "s1")
	assert.NoError(t, err)
	assert.Zero(t, st.Sweep(now))
}

func TestMemoryStoreDeleteAndMissing(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore(time.Hour)
	require.NoError(t, st.Save(ctx, newSession("s1")))
	require.NoError(t, st.Delete(ctx, "s1"))

	_, err := st.Get(ctx, "s1")
	assert.ErrorIs(t, err, interview.ErrSessionNotFound)
	assert.NoError(t, st.Delete(ctx, "never-existed"))
	assert.NoError(t, st.Ping(ctx))
}

func TestRedisStoreRoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	st := NewRedisStore(rdb, time.Hour)

	require.NoError(t, st.Save(ctx, newSession("s1")))
	assert.True(t, mr.Exists(sessionKeyPrefix+"s1"))
	assert.Equal(t, time.Hour, mr.TTL(sessionKeyPrefix+"s1"))

	got, err := st.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, interview.ModeTurns, got.Pacing().Mode)

	mr.FastForward(2 * time.Hour)
	_, err = st.Get(ctx, "s1")
	assert.ErrorIs(t, err, interview.ErrSessionNotFound)
	assert.NoError(t, st.Ping(ctx))
}

func TestRedisStoreDelete(t *testing.T) {
	ctx := context.Background()
	_, rdb := setupTestRedis(t)
	st := NewRedisStore(rdb, 0)

	require.NoError(t, st.Save(ctx, newSession("s1")))
	require.NoError(t, st.Delete(ctx, "s1"))

	_, err := st.Get(ctx, "s1")
	assert.ErrorIs(t, err, interview.ErrSessionNotFound)
}

func TestRedisStoreCorruptPayload(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	st := NewRedisStore(rdb, time.Hour)

	require.NoError(t, mr.Set(sessionKeyPrefix+"bad", "not json"))
	_, err := st.Get(ctx, "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, interview.ErrSessionNotFound)
}

func TestRedisLockerExclusive(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	locker := NewRedisLocker(rdb, time.Minute, nil)

	unlock, err := locker.TryLock(ctx, "s1")
	require.NoError(t, err)

	_, err = locker.TryLock(ctx, "s1")
	assert.ErrorIs(t, err, interview.ErrSubmissionInProgress)

	other, err := locker.TryLock(ctx, "s2")
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	assert.False(t, mr.Exists(lockKeyPrefix+"s1"))

	again, err := locker.TryLock(ctx, "s1")
	require.NoError(t, err)
	again()
}

func TestRedisLockerDoesNotReleaseForeignLock(t *testing.T) {
	ctx := context.Background()
	mr, rdb := setupTestRedis(t)
	locker := NewRedisLocker(rdb, time.Minute, nil)

	unlock, err := locker.TryLock(ctx, "s1")
	require.NoError(t, err)

	// lock expired and was taken by another replica
	mr.FastForward(2 * time.Minute)
	require.NoError(t, mr.Set(lockKeyPrefix+"s1", "someone-else"))

	unlock()
	assert.True(t, mr.Exists(lockKeyPrefix+"s1"))
}

func TestRedisLockerSatisfiesControllerPort(t *testing.T) {
	var _ interview.Locker = (*RedisLocker)(nil)
	var _ interview.Store = (*RedisStore)(nil)
	var _ interview.Store = (*MemoryStore)(nil)
}
