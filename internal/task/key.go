// Package task tracks in-flight executions per (operation, destination) key.
//
// A Registry admits at most one execution per key at a time. Each admitted
// execution receives the key's current Token; cancelling the key fires that
// token and installs a fresh one, so an execution admitted later can never
// observe an earlier cancel.
package task

import "fmt"

// Key identifies one admission slot
type Key struct {
	Operation   string // Operation label, e.g. "git_status"
	Destination string // UI destination id
}

// NewKey creates a Key
func NewKey(operation, destination string) Key {
	return Key{Operation: operation, Destination: destination}
}

func (k Key) String() string {
	return fmt.Sprintf("%s@%s", k.Operation, k.Destination)
}
