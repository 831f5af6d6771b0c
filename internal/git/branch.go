package git

import (
	"context"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/executor"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
)

// Branches lists local and remote branches
func (s *Service) Branches(dest string) error {
	return trigger(s, job[[]parse.BranchRecord]{
		op:        OpBranch,
		dest:      dest,
		args:      []string{"branch", "-a"},
		transform: executor.Total(parse.Branches),
	})
}

// CreateBranch creates name from HEAD and switches to it
func (s *Service) CreateBranch(dest, name string) error {
	if err := checkArg(OpBranchCreate, "branch", name); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpBranchCreate,
		dest:      dest,
		args:      []string{"checkout", "-b", name},
		transform: executor.Raw,
	})
}

// DeleteBranch deletes a fully merged branch
func (s *Service) DeleteBranch(dest, name string) error {
	if err := checkArg(OpBranchDelete, "branch", name); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpBranchDelete,
		dest:      dest,
		args:      []string{"branch", "-d", name},
		transform: executor.Raw,
	})
}

// CheckoutBranch switches to name
func (s *Service) CheckoutBranch(dest, name string) error {
	if err := checkArg(OpBranchCheckout, "branch", name); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpBranchCheckout,
		dest:      dest,
		args:      []string{"checkout", name},
		transform: executor.Const(""),
	})
}

// MergeBranch merges name into the current branch
func (s *Service) MergeBranch(dest, name string) error {
	if err := checkArg(OpBranchMerge, "branch", name); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpBranchMerge,
		dest:      dest,
		args:      []string{"merge", name},
		transform: executor.Raw,
	})
}

// branchRef returns the full ref of a branch as listed by Branches
func branchRef(name string, state parse.BranchState) string {
	if state == parse.BranchRemote {
		return "refs/" + name
	}
	return "refs/heads/" + name
}

// IsOnBranch reports whether name, as listed by Branches, resolves to a
// branch ref. It runs synchronously and outside the registry.
func (s *Service) IsOnBranch(ctx context.Context, name string, state parse.BranchState) (bool, error) {
	if err := checkArg("is_on_branch", "branch", name); err != nil {
		return false, err
	}

	res, err := s.exec.Capture(ctx, s.spec(s.WorkDir(), []string{"show-ref", "--verify", branchRef(name, state)}))
	if err != nil {
		return false, errors.New("is_on_branch", err)
	}
	return res.ExitCode == 0, nil
}
