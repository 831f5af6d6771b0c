package task

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

func TestRegistry_Admit(t *testing.T) {
	r := NewRegistry()
	key := NewKey("git_status", "main")

	tok, err := r.Admit(key)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, key, tok.Key())
	assert.True(t, r.IsRunning(key))

	_, err = r.Admit(key)
	require.Error(t, err)
	assert.True(t, errors.IsAdmission(err))
	assert.Contains(t, err.Error(), "git_status")
	assert.True(t, r.IsRunning(key), "rejected admit must not change state")
}

func TestRegistry_KeysAreIndependent(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		key  Key
	}{
		{name: "same op other destination", key: NewKey("git_status", "b")},
		{name: "other op same destination", key: NewKey("git_log", "a")},
	}

	_, err := r.Admit(NewKey("git_status", "a"))
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Admit(tt.key)
			assert.NoError(t, err)
		})
	}
}

func TestRegistry_Release(t *testing.T) {
	r := NewRegistry()
	key := NewKey("git_fetch", "main")

	tok, err := r.Admit(key)
	require.NoError(t, err)

	r.Release(tok)
	assert.False(t, r.IsRunning(key))

	// idempotent
	r.Release(tok)
	assert.False(t, r.IsRunning(key))

	again, err := r.Admit(key)
	require.NoError(t, err)
	assert.Same(t, tok, again, "token is reused until cancelled")
	assert.False(t, again.Fired())
}

func TestRegistry_ReleaseNil(t *testing.T) {
	r := NewRegistry()
	assert.NotPanics(t, func() { r.Release(nil) })
}

func TestRegistry_Cancel(t *testing.T) {
	r := NewRegistry()
	key := NewKey("git_log", "main")

	assert.False(t, r.Cancel(key), "cancel of unknown key")

	tok, err := r.Admit(key)
	require.NoError(t, err)

	assert.True(t, r.Cancel(key))
	assert.True(t, tok.Fired())
	assert.False(t, r.IsRunning(key))

	select {
	case <-tok.Done():
	default:
		t.Fatal("Done channel not closed after cancel")
	}

	assert.False(t, r.Cancel(key), "cancel of idle key")

	next, err := r.Admit(key)
	require.NoError(t, err)
	assert.NotSame(t, tok, next)
	assert.False(t, next.Fired(), "fresh token must not observe earlier cancel")
	assert.Greater(t, next.Generation(), tok.Generation())
}

func TestRegistry_StaleReleaseDoesNotFreeNewRun(t *testing.T) {
	r := NewRegistry()
	key := NewKey("git_push", "main")

	old, err := r.Admit(key)
	require.NoError(t, err)
	require.True(t, r.Cancel(key))

	current, err := r.Admit(key)
	require.NoError(t, err)

	// the cancelled execution finishes late
	r.Release(old)
	assert.True(t, r.IsRunning(key))

	_, err = r.Admit(key)
	assert.True(t, errors.IsAdmission(err))

	r.Release(current)
	assert.False(t, r.IsRunning(key))
}

func TestRegistry_CancelAll(t *testing.T) {
	r := NewRegistry()
	keys := []Key{
		NewKey("git_status", "a"),
		NewKey("git_status", "b"),
		NewKey("git_log", "a"),
	}

	var tokens []*Token
	for _, k := range keys {
		tok, err := r.Admit(k)
		require.NoError(t, err)
		tokens = append(tokens, tok)
	}
	r.Release(tokens[2])

	assert.Equal(t, 2, r.CancelAll())
	assert.True(t, tokens[0].Fired())
	assert.True(t, tokens[1].Fired())
	assert.False(t, tokens[2].Fired())
	assert.Empty(t, r.Running())
}

func TestRegistry_Running(t *testing.T) {
	r := NewRegistry()
	for _, k := range []Key{
		NewKey("git_status", "b"),
		NewKey("git_log", "a"),
		NewKey("git_status", "a"),
	} {
		_, err := r.Admit(k)
		require.NoError(t, err)
	}

	assert.Equal(t, []Key{
		NewKey("git_log", "a"),
		NewKey("git_status", "a"),
		NewKey("git_status", "b"),
	}, r.Running())
}

func TestRegistry_ConcurrentAdmit(t *testing.T) {
	r := NewRegistry()
	key := NewKey("git_status", "main")

	const workers = 64
	var admitted, rejected int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := r.Admit(key); err != nil {
				atomic.AddInt32(&rejected, 1)
				return
			}
			atomic.AddInt32(&admitted, 1)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), admitted)
	assert.Equal(t, int32(workers-1), rejected)
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "git_diff@win-1", NewKey("git_diff", "win-1").String())
}
