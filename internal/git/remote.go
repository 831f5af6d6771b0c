package git

import (
	"github.com/NicabarNimble/go-gitdesk/internal/executor"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
)

const (
	pushSuccess = "Push Success!"
	pullSuccess = "Pull Success!"
)

// Push pushes the current branch to origin, setting its upstream
func (s *Service) Push(dest string) error {
	return trigger(s, job[string]{
		op:        OpPush,
		dest:      dest,
		args:      []string{"push", "-u", "origin", "HEAD"},
		transform: executor.Const(pushSuccess),
	})
}

// Pull pulls the current branch, pruning deleted remote branches
func (s *Service) Pull(dest string) error {
	return trigger(s, job[string]{
		op:        OpPull,
		dest:      dest,
		args:      []string{"pull", "--prune"},
		transform: executor.Const(pullSuccess),
	})
}

// Fetch fetches from the default remote, pruning deleted remote branches
func (s *Service) Fetch(dest string) error {
	return trigger(s, job[string]{
		op:        OpFetch,
		dest:      dest,
		args:      []string{"fetch", "--prune"},
		transform: executor.Raw,
	})
}

// PullPushCount reports how many commits the current branch is ahead of
// and behind its upstream
func (s *Service) PullPushCount(dest string) error {
	return trigger(s, job[parse.AheadBehindCount]{
		op:        OpPullPushCount,
		dest:      dest,
		args:      []string{"status", "-sb"},
		transform: parse.AheadBehind,
	})
}
