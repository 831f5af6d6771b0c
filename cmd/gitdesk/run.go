package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/NicabarNimble/go-gitdesk/internal/git"
	"github.com/NicabarNimble/go-gitdesk/internal/parse"
	"github.com/NicabarNimble/go-gitdesk/internal/publish"
)

// cliDestination is the destination results are published to by run
const cliDestination = "cli"

type runOptions struct {
	dir         string
	file        string
	files       []string
	untracked   []string
	message     string
	hash        string
	branch      string
	all         bool
	firstParent bool
	timeout     time.Duration
}

func newRunCmd(global *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <operation>",
		Short: "Run one operation and print its result",
		Long: `Run one operation against the working folder and print each result event
as a JSON line. Interrupting the command cancels the operation.

Operations: ` + strings.Join(git.Triggers(), ", "),
		Example: `  gitdesk run git_status
  gitdesk run git_log --all --first-parent
  gitdesk run git_commit --files a.go,b.go --message "Fix parser"
  gitdesk run git_discard_changes --files a.go --untracked tmp.txt
  gitdesk run git_fetch --dir ~/src/project --timeout 1m`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runOperation(ctx, cmd.OutOrStdout(), global, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "Repository to run in (default is the selected folder)")
	cmd.Flags().StringVar(&opts.file, "file", "", "File for git_diff and git_show_file_diff")
	cmd.Flags().StringSliceVar(&opts.files, "files", nil, "Files to commit or discard")
	cmd.Flags().StringSliceVar(&opts.untracked, "untracked", nil, "Untracked files to discard")
	cmd.Flags().StringVar(&opts.message, "message", "", "Commit message (empty amends the last commit)")
	cmd.Flags().StringVar(&opts.hash, "hash", "", "Commit hash")
	cmd.Flags().StringVar(&opts.branch, "branch", "", "Branch name")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Show history of all branches")
	cmd.Flags().BoolVar(&opts.firstParent, "first-parent", false, "Follow only first parents")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Cancel the operation after this long")

	return cmd
}

func (o *runOptions) args() git.Args {
	a := git.Args{
		File:        o.file,
		Files:       o.files,
		Message:     o.message,
		CommitHash:  o.hash,
		BranchName:  o.branch,
		ShowAll:     o.all,
		FirstParent: o.firstParent,
	}
	for _, f := range o.files {
		a.Infos = append(a.Infos, parse.StatusRecord{ChangeState: parse.ChangeModified, Filename: f})
	}
	for _, f := range o.untracked {
		a.Infos = append(a.Infos, parse.StatusRecord{ChangeState: parse.ChangeAdded, Filename: f})
	}
	return a
}

// labels returns the registry labels an operation runs under
func labels(op string) []string {
	if op == git.OpDiscardChanges {
		return []string{git.OpDiscardAdds, git.OpDiscardOthers}
	}
	return []string{op}
}

func runOperation(ctx context.Context, out io.Writer, global *globalOptions, opts *runOptions, op string) error {
	if !git.IsTrigger(op) {
		known := git.Triggers()
		sort.Strings(known)
		return fmt.Errorf("unknown operation %q (known: %s)", op, strings.Join(known, ", "))
	}

	cfg, err := global.settings()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	ops := labels(op)
	events := make(chan publish.Event, len(ops))
	writer := publish.NewWriterSink(out)
	hub := publish.NewHub(logger)
	hub.Attach(cliDestination, publish.SinkFunc(func(ev publish.Event) error {
		err := writer.Send(ev)
		events <- ev
		return err
	}))

	svc, err := newService(cfg, hub, opts.dir, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = svc.Close(closeCtx)
	}()

	if err := svc.Trigger(op, cliDestination, opts.args()); err != nil {
		return err
	}

	var failed []string
	for pending := len(ops); pending > 0; {
		select {
		case ev := <-events:
			pending--
			if !ev.Envelope.OK {
				failed = append(failed, ev.Name)
			}
		case <-ctx.Done():
			for _, label := range ops {
				svc.Cancel(label, cliDestination)
			}
			// the cancellation results still arrive on events
			ctx = context.Background()
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%s failed", strings.Join(failed, ", "))
	}
	return nil
}
