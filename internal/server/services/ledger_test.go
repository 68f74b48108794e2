package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/trophy/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_ToggleRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	fan := env.register(t, "fan@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	for i, want := range []bool{true, false, true} {
		got, err := env.ledger.ToggleStar(ctx, fan, p.ID)
		require.NoError(t, err, "toggle %d", i)
		assert.Equal(t, want, got, "toggle %d", i)

		starred, err := env.ledger.IsStarred(ctx, fan, p.ID)
		require.NoError(t, err)
		assert.Equal(t, want, starred)
	}
}

func TestLedgerService_StarThenUnstarCounts(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	fan := env.register(t, "fan@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	_, err := env.ledger.ToggleStar(ctx, fan, p.ID)
	require.NoError(t, err)
	n, err := env.ledger.StarCount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	view, err := env.projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), view.StarCount)

	_, err = env.ledger.ToggleStar(ctx, fan, p.ID)
	require.NoError(t, err)
	n, err = env.ledger.StarCount(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestLedgerService_ConcurrentTogglesKeepParity(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	fan := env.register(t, "fan@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	const workers = 16
	var completed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := env.ledger.ToggleStar(ctx, fan, p.ID); err == nil {
				completed.Add(1)
			}
		}()
	}
	wg.Wait()

	n, err := env.ledger.StarCount(ctx, p.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(1))
	assert.Equal(t, completed.Load()%2, n)
	assert.Equal(t, int64(workers), completed.Load())
}

func TestLedgerService_Errors(t *testing.T) {
	env := newTestEnv(t)
	fan := env.register(t, "fan@example.com")
	ctx := context.Background()

	_, err := env.ledger.ToggleStar(ctx, fan, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = env.ledger.ToggleStar(ctx, nil, 1)
	assert.ErrorIs(t, err, common.ErrIdentityNotFound)

	_, err = env.ledger.StarCount(ctx, 999)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	starred, err := env.ledger.IsStarred(ctx, nil, 1)
	require.NoError(t, err)
	assert.False(t, starred)
}

func TestLedgerService_DeletingProjectDropsStars(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@example.com")
	fan := env.register(t, "fan@example.com")
	p, _ := env.createProject(t, owner, "alpha")
	ctx := context.Background()

	_, err := env.ledger.ToggleStar(ctx, fan, p.ID)
	require.NoError(t, err)
	require.NoError(t, env.projects.Delete(ctx, owner, p.ID))

	starred, err := env.ledger.IsStarred(ctx, fan, p.ID)
	require.NoError(t, err)
	assert.False(t, starred)
}
