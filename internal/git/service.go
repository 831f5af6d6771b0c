package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/NicabarNimble/go-gitdesk/internal/config"
	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/executor"
	"github.com/NicabarNimble/go-gitdesk/internal/metrics"
	"github.com/NicabarNimble/go-gitdesk/internal/progress"
	"github.com/NicabarNimble/go-gitdesk/internal/publish"
	"github.com/NicabarNimble/go-gitdesk/internal/task"
)

// Options configures a Service
type Options struct {
	Program   string   // git binary, resolved on PATH; defaults to "git"
	WorkDir   string   // repository to operate on; loaded from Folders when empty
	Env       []string // extra environment for every git process
	Publisher publish.Publisher
	Folders   *config.FolderStore // optional; remembers SetWorkDir
	Registry  *task.Registry      // optional; a new one is created when nil
	Tracker   *progress.Tracker   // optional; a default sized one is created when nil
	Logger    zerolog.Logger
}

// Service runs git operations for UI destinations
type Service struct {
	program   string
	env       []string
	registry  *task.Registry
	tracker   *progress.Tracker
	exec      *executor.Executor
	publisher publish.Publisher
	folders   *config.FolderStore
	logger    zerolog.Logger

	dirMu   sync.RWMutex
	workDir string

	// mu orders admissions against Close
	mu     sync.RWMutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
}

// New creates a Service
func New(opts Options) (*Service, error) {
	if opts.Publisher == nil {
		return nil, errors.NewKind("git", errors.KindConfig, "publisher is required", nil)
	}
	if opts.Program == "" {
		opts.Program = "git"
	}
	if opts.Registry == nil {
		opts.Registry = task.NewRegistry()
	}
	if opts.Tracker == nil {
		opts.Tracker = progress.NewTracker(0)
	}

	logger := opts.Logger.With().Str("component", "git").Logger()
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		program:   executor.ResolveProgram(opts.Program),
		env:       opts.Env,
		registry:  opts.Registry,
		tracker:   opts.Tracker,
		exec:      executor.New(opts.Registry, opts.Logger),
		publisher: opts.Publisher,
		folders:   opts.Folders,
		logger:    logger,
		workDir:   opts.WorkDir,
		ctx:       ctx,
		cancel:    cancel,
	}

	if s.workDir == "" && s.folders != nil {
		dir, err := s.folders.Load()
		if err != nil {
			cancel()
			return nil, err
		}
		s.workDir = dir
	}

	logger.Debug().Str("program", s.program).Str("workdir", s.workDir).Msg("service ready")
	return s, nil
}

// Registry returns the task registry the service admits into
func (s *Service) Registry() *task.Registry {
	return s.registry
}

// Tracker returns the execution history
func (s *Service) Tracker() *progress.Tracker {
	return s.tracker
}

// WorkDir returns the repository operations run in
func (s *Service) WorkDir() string {
	s.dirMu.RLock()
	defer s.dirMu.RUnlock()
	return s.workDir
}

// SetWorkDir switches the repository for subsequent operations and
// remembers it in the folder store. Executions already running keep their
// directory.
func (s *Service) SetWorkDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.NewKind("folder", errors.KindInvalidArgument, "invalid folder", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return errors.NewKind("folder", errors.KindInvalidArgument, fmt.Sprintf("cannot open %s", abs), err)
	}
	if !info.IsDir() {
		return errors.NewKind("folder", errors.KindInvalidArgument, fmt.Sprintf("%s is not a directory", abs), nil)
	}

	s.dirMu.Lock()
	s.workDir = abs
	s.dirMu.Unlock()

	if s.folders != nil {
		if err := s.folders.Save(abs); err != nil {
			return err
		}
	}
	s.logger.Info().Str("workdir", abs).Msg("working folder changed")
	return nil
}

// Cancel cancels the running execution of op for destination. It reports
// false when nothing was running.
func (s *Service) Cancel(op, destination string) bool {
	if !s.registry.Cancel(task.NewKey(op, destination)) {
		return false
	}
	metrics.RecordCancel(op)
	s.logger.Info().Str("operation", op).Str("destination", destination).Msg("execution cancelled")
	return true
}

// IsRunning reports whether op is running for destination
func (s *Service) IsRunning(op, destination string) bool {
	return s.registry.IsRunning(task.NewKey(op, destination))
}

// Close rejects new triggers, cancels every running execution and waits
// for their results to be published or for ctx to end.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	n := s.registry.CancelAll()
	s.cancel()
	s.logger.Debug().Int("cancelled", n).Msg("service closing")

	done := make(chan error, 1)
	go func() {
		done <- s.group.Wait()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// job describes one admitted execution. before steps run ahead of the main
// command and after steps run once it settles; both ignore failures.
type job[T any] struct {
	op        string
	dest      string
	args      []string
	before    [][]string
	after     [][]string
	transform executor.Transform[T]
}

// trigger admits j and starts it in the background
func trigger[T any](s *Service, j job[T]) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tok, err := s.admitLocked(j.op, j.dest)
	if err != nil {
		return err
	}
	dispatchLocked(s, tok, j)
	return nil
}

func (s *Service) admitLocked(op, dest string) (*task.Token, error) {
	if s.closed {
		metrics.RecordAdmission(op, false)
		return nil, errors.NewKind(op, errors.KindAdmission, "service is closed", nil)
	}

	tok, err := s.registry.Admit(task.NewKey(op, dest))
	metrics.RecordAdmission(op, err == nil)
	if err != nil {
		s.logger.Debug().Str("operation", op).Str("destination", dest).Msg("admission rejected")
		return nil, err
	}
	return tok, nil
}

func dispatchLocked[T any](s *Service, tok *task.Token, j job[T]) {
	dir := s.WorkDir()
	handle := s.tracker.Start(j.op, j.dest)
	s.group.Go(func() error {
		for _, args := range j.before {
			if tok.Fired() {
				break
			}
			s.runQuiet(s.ctx, dir, args)
		}

		out := executor.Run(s.ctx, s.exec, tok, s.spec(dir, j.args), j.transform)

		for _, args := range j.after {
			s.runQuiet(context.WithoutCancel(s.ctx), dir, args)
		}
		handle.Finish(progressState(out.Status), out.Err)

		event, _ := ResultEvent(j.op)
		s.publisher.Publish(j.dest, event, publish.FromOutcome(out))
		return nil
	})
}

func progressState(status executor.Status) progress.State {
	switch status {
	case executor.Success:
		return progress.StateSucceeded
	case executor.Cancelled:
		return progress.StateCancelled
	default:
		return progress.StateFailed
	}
}

func (s *Service) spec(dir string, args []string) executor.Spec {
	return executor.Spec{
		Program: s.program,
		Args:    args,
		Dir:     dir,
		Env:     s.env,
	}
}

// runQuiet runs a preparatory git command, logging but otherwise ignoring
// any failure
func (s *Service) runQuiet(ctx context.Context, dir string, args []string) {
	res, err := s.exec.Capture(ctx, s.spec(dir, args))
	if err != nil {
		s.logger.Warn().Err(err).Strs("args", args).Msg("preparatory command failed")
		return
	}
	if res.ExitCode != 0 {
		s.logger.Debug().
			Int("exit_code", res.ExitCode).
			Str("stderr", strings.TrimSpace(res.Stderr)).
			Strs("args", args).
			Msg("preparatory command exited nonzero")
	}
}

// publishImmediate reports a result without running anything
func (s *Service) publishImmediate(op, dest string, env publish.Envelope) {
	event, _ := ResultEvent(op)
	s.publisher.Publish(dest, event, env)
}

// checkArg rejects values git would read as an option
func checkArg(op, what, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewKind(op, errors.KindInvalidArgument, fmt.Sprintf("%s is required", what), nil)
	}
	if strings.HasPrefix(value, "-") {
		return errors.NewKind(op, errors.KindInvalidArgument, fmt.Sprintf("%s %q must not start with '-'", what, value), nil)
	}
	return nil
}
