package task

import "sync"

// Token is a one-shot cancellation signal bound to a single generation of
// a key. Once fired it stays fired.
type Token struct {
	key  Key
	gen  uint64
	done chan struct{}
	once sync.Once
}

func newToken(key Key, gen uint64) *Token {
	return &Token{
		key:  key,
		gen:  gen,
		done: make(chan struct{}),
	}
}

// Key returns the key the token was issued for
func (t *Token) Key() Key {
	return t.key
}

// Generation returns the token's generation. Generations increase
// monotonically across the whole registry.
func (t *Token) Generation() uint64 {
	return t.gen
}

// Done returns a channel that is closed when the token fires
func (t *Token) Done() <-chan struct{} {
	return t.done
}

// Fired reports whether the token has fired
func (t *Token) Fired() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *Token) fire() {
	t.once.Do(func() { close(t.done) })
}
