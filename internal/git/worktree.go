package git

import (
	"github.com/NicabarNimble/go-gitdesk/internal/executor"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
	"github.com/NicabarNimble/go-gitdesk/internal/publish"
	"github.com/NicabarNimble/go-gitdesk/internal/task"
)

// Status lists changed files. The index is reset first so every change
// shows as unstaged.
func (s *Service) Status(dest string) error {
	return trigger(s, job[[]parse.StatusRecord]{
		op:        OpStatus,
		dest:      dest,
		before:    [][]string{{"reset"}},
		args:      []string{"status", "-s", "-uall"},
		transform: executor.Total(parse.Status),
	})
}

// Diff shows the working tree diff of file. Untracked files are marked
// intent-to-add for the duration so they diff against nothing, and the
// index is reset afterwards whether or not the diff completed.
func (s *Service) Diff(dest, file string) error {
	if err := checkArg(OpDiff, "file", file); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpDiff,
		dest:      dest,
		before:    [][]string{{"add", "-N", "--", file}},
		args:      []string{"diff", "--", file},
		after:     [][]string{{"reset"}},
		transform: executor.Raw,
	})
}

// DiscardChanges drops the given changes. Added files are removed with
// clean and everything else is restored with checkout, each under its own
// operation label. A group with no files reports success immediately.
// Either both groups are admitted or neither is.
func (s *Service) DiscardChanges(dest string, records []parse.StatusRecord) error {
	var adds, others []string
	for _, r := range records {
		if r.ChangeState == parse.ChangeAdded {
			adds = append(adds, r.Filename)
		} else {
			others = append(others, r.Filename)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	addJob := job[string]{
		op:        OpDiscardAdds,
		dest:      dest,
		args:      append([]string{"clean", "-f", "--"}, adds...),
		transform: executor.Raw,
	}
	otherJob := job[string]{
		op:        OpDiscardOthers,
		dest:      dest,
		args:      append([]string{"checkout", "--"}, others...),
		transform: executor.Raw,
	}

	var addTok, otherTok *task.Token
	if len(adds) > 0 {
		tok, err := s.admitLocked(addJob.op, dest)
		if err != nil {
			return err
		}
		addTok = tok
	}
	if len(others) > 0 {
		tok, err := s.admitLocked(otherJob.op, dest)
		if err != nil {
			if addTok != nil {
				s.registry.Release(addTok)
			}
			return err
		}
		otherTok = tok
	}

	if addTok != nil {
		dispatchLocked(s, addTok, addJob)
	} else {
		s.publishImmediate(OpDiscardAdds, dest, publish.Success(""))
	}
	if otherTok != nil {
		dispatchLocked(s, otherTok, otherJob)
	} else {
		s.publishImmediate(OpDiscardOthers, dest, publish.Success(""))
	}
	return nil
}

// Commit stages files and commits them with message. An empty message
// amends the previous commit without editing its message.
func (s *Service) Commit(dest string, files []string, message string) error {
	args := []string{"commit", "-m", message}
	if message == "" {
		args = []string{"commit", "--amend", "--no-edit"}
	}

	var before [][]string
	if len(files) > 0 {
		before = [][]string{append([]string{"add", "--"}, files...)}
		args = append(append(args, "--"), files...)
	}

	return trigger(s, job[string]{
		op:        OpCommit,
		dest:      dest,
		before:    before,
		args:      args,
		transform: executor.Raw,
	})
}
