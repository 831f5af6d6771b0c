package git

import (
	"fmt"
	"sort"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
)

// OpDiscardChanges triggers DiscardChanges. It is not a registry label;
// the execution runs under OpDiscardAdds and OpDiscardOthers.
const OpDiscardChanges = "git_discard_changes"

// Args carries the arguments of every operation. Each operation reads only
// the fields it needs.
type Args struct {
	File        string               `json:"file,omitempty"`
	Files       []string             `json:"files,omitempty"`
	Message     string               `json:"message,omitempty"`
	CommitHash  string               `json:"commit_hash,omitempty"`
	BranchName  string               `json:"branch_name,omitempty"`
	ShowAll     bool                 `json:"is_show_all,omitempty"`
	FirstParent bool                 `json:"is_first_parent,omitempty"`
	Infos       []parse.StatusRecord `json:"infos,omitempty"`
}

type triggerFunc func(s *Service, dest string, a Args) error

var triggers = map[string]triggerFunc{
	OpStatus: func(s *Service, dest string, _ Args) error {
		return s.Status(dest)
	},
	OpDiff: func(s *Service, dest string, a Args) error {
		return s.Diff(dest, a.File)
	},
	OpDiscardChanges: func(s *Service, dest string, a Args) error {
		return s.DiscardChanges(dest, a.Infos)
	},
	OpCommit: func(s *Service, dest string, a Args) error {
		return s.Commit(dest, a.Files, a.Message)
	},
	OpPush: func(s *Service, dest string, _ Args) error {
		return s.Push(dest)
	},
	OpPull: func(s *Service, dest string, _ Args) error {
		return s.Pull(dest)
	},
	OpFetch: func(s *Service, dest string, _ Args) error {
		return s.Fetch(dest)
	},
	OpPullPushCount: func(s *Service, dest string, _ Args) error {
		return s.PullPushCount(dest)
	},
	OpLog: func(s *Service, dest string, a Args) error {
		return s.Log(dest, LogOptions{
			All:         a.ShowAll,
			Branch:      a.BranchName,
			FirstParent: a.FirstParent,
		})
	},
	OpShow: func(s *Service, dest string, a Args) error {
		return s.Show(dest, a.CommitHash)
	},
	OpShowFiles: func(s *Service, dest string, a Args) error {
		return s.ShowFiles(dest, a.CommitHash)
	},
	OpShowFileDiff: func(s *Service, dest string, a Args) error {
		return s.ShowFileDiff(dest, a.CommitHash, a.File)
	},
	OpBranch: func(s *Service, dest string, _ Args) error {
		return s.Branches(dest)
	},
	OpBranchCreate: func(s *Service, dest string, a Args) error {
		return s.CreateBranch(dest, a.BranchName)
	},
	OpBranchDelete: func(s *Service, dest string, a Args) error {
		return s.DeleteBranch(dest, a.BranchName)
	},
	OpBranchCheckout: func(s *Service, dest string, a Args) error {
		return s.CheckoutBranch(dest, a.BranchName)
	},
	OpBranchMerge: func(s *Service, dest string, a Args) error {
		return s.MergeBranch(dest, a.BranchName)
	},
	OpCheckoutHash: func(s *Service, dest string, a Args) error {
		return s.CheckoutHash(dest, a.CommitHash)
	},
}

// ErrUnknownOperation is returned by Trigger for names it does not know
var ErrUnknownOperation = errors.NewKind("trigger", errors.KindInvalidArgument, "unknown operation", nil)

// IsTrigger reports whether name can be passed to Trigger
func IsTrigger(name string) bool {
	_, ok := triggers[name]
	return ok
}

// Triggers returns every name Trigger accepts, sorted
func Triggers() []string {
	names := make([]string, 0, len(triggers))
	for name := range triggers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trigger starts the operation called name for dest
func (s *Service) Trigger(name, dest string, a Args) error {
	fn, ok := triggers[name]
	if !ok {
		return errors.NewKind(name, errors.KindInvalidArgument, "unknown operation",
			fmt.Errorf("%w: %s", ErrUnknownOperation, name))
	}
	return fn(s, dest, a)
}
