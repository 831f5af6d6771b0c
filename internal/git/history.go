package git

import (
	"github.com/NicabarNimble/go-gitdesk/internal/executor"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
)

// LogOptions selects which history Log shows
type LogOptions struct {
	All         bool   `json:"is_show_all"`
	Branch      string `json:"branch_name"`
	FirstParent bool   `json:"is_first_parent"`
}

func logArgs(opts LogOptions) []string {
	args := []string{
		"log",
		"--graph",
		"--color",
		"--oneline",
		"--date=" + parse.LogDateFormat,
		"--format=" + parse.LogFormat,
	}
	if opts.All {
		return append(args, "--all")
	}
	if opts.FirstParent {
		args = append(args, "--first-parent")
	}
	if opts.Branch != "" {
		// "--" keeps a branch named like a path from being read as one
		args = append(args, opts.Branch, "--")
	}
	return args
}

// Log lists commit history as a graph
func (s *Service) Log(dest string, opts LogOptions) error {
	if !opts.All && opts.Branch != "" {
		if err := checkArg(OpLog, "branch", opts.Branch); err != nil {
			return err
		}
	}
	return trigger(s, job[[]parse.LogRecord]{
		op:        OpLog,
		dest:      dest,
		args:      logArgs(opts),
		transform: executor.Total(parse.Log),
	})
}

// Show describes one commit
func (s *Service) Show(dest, hash string) error {
	if err := checkArg(OpShow, "commit", hash); err != nil {
		return err
	}
	return trigger(s, job[parse.ShowRecord]{
		op:        OpShow,
		dest:      dest,
		args:      []string{"show", "--pretty=" + parse.ShowFormat, "--no-patch", hash},
		transform: executor.Total(parse.Show),
	})
}

// ShowFiles lists the files one commit touched
func (s *Service) ShowFiles(dest, hash string) error {
	if err := checkArg(OpShowFiles, "commit", hash); err != nil {
		return err
	}
	return trigger(s, job[[]parse.StatusRecord]{
		op:        OpShowFiles,
		dest:      dest,
		args:      []string{"show", "--pretty=format:", "--name-status", hash},
		transform: executor.Total(parse.ShowFiles),
	})
}

// ShowFileDiff shows what one commit changed in file
func (s *Service) ShowFileDiff(dest, hash, file string) error {
	if err := checkArg(OpShowFileDiff, "commit", hash); err != nil {
		return err
	}
	if err := checkArg(OpShowFileDiff, "file", file); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpShowFileDiff,
		dest:      dest,
		args:      []string{"show", "--pretty=format:", hash, "--", file},
		transform: executor.Raw,
	})
}

// CheckoutHash detaches HEAD at a commit
func (s *Service) CheckoutHash(dest, hash string) error {
	if err := checkArg(OpCheckoutHash, "commit", hash); err != nil {
		return err
	}
	return trigger(s, job[string]{
		op:        OpCheckoutHash,
		dest:      dest,
		args:      []string{"checkout", hash},
		transform: executor.Raw,
	})
}
