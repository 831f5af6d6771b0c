// Package executor runs one external process per admitted task and races
// it against the task's cancellation token.
package executor

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/cli/safeexec"
	"github.com/rs/zerolog"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
	"github.com/NicabarNimble/go-gitdesk/internal/metrics"
	"github.com/NicabarNimble/go-gitdesk/internal/task"
)

// Spec describes the process to run
type Spec struct {
	Program string
	Args    []string
	Dir     string
	Env     []string // Appended to the current environment
}

func (s Spec) command() *exec.Cmd {
	cmd := exec.Command(s.Program, s.Args...)
	cmd.Dir = s.Dir
	if len(s.Env) > 0 {
		cmd.Env = append(os.Environ(), s.Env...)
	}
	return cmd
}

// Executor spawns processes for admitted tasks and releases their keys
type Executor struct {
	registry *task.Registry
	logger   zerolog.Logger
}

// New creates an Executor that releases keys in registry
func New(registry *task.Registry, logger zerolog.Logger) *Executor {
	return &Executor{
		registry: registry,
		logger:   logger.With().Str("component", "executor").Logger(),
	}
}

// ResolveProgram looks name up on PATH. When the lookup fails name is
// returned unchanged so the failure surfaces as a spawn error on first use.
func ResolveProgram(name string) string {
	path, err := safeexec.LookPath(name)
	if err != nil {
		return name
	}
	return path
}

// Run executes spec under tok and transforms its stdout on success.
//
// The process is killed if tok fires or ctx is done before it exits, and
// the outcome is Cancelled. A cancel that arrives after the process has
// already exited does not change the outcome. The token is released in
// the registry exactly once before Run returns.
func Run[T any](ctx context.Context, e *Executor, tok *task.Token, spec Spec, transform Transform[T]) (out Outcome[T]) {
	key := tok.Key()
	op := key.Operation
	start := time.Now()
	logger := e.logger.With().
		Str("operation", op).
		Str("destination", key.Destination).
		Uint64("generation", tok.Generation()).
		Logger()

	defer func() {
		e.registry.Release(tok)
		elapsed := time.Since(start)
		metrics.RecordOutcome(op, out.Status.String(), elapsed)

		event := logger.Debug()
		if out.Status == Failure {
			event = logger.Warn().Err(out.Err)
		}
		event.Str("outcome", out.Status.String()).Dur("duration", elapsed).Msg("process settled")
	}()

	if tok.Fired() || ctx.Err() != nil {
		return cancelled[T](errors.NewKind(op, errors.KindCancelled, "cancelled before start", ctx.Err()))
	}

	cmd := spec.command()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return failed[T](errors.NewKind(op, errors.KindSpawn,
			fmt.Sprintf("failed to start %s", spec.Program), err))
	}
	logger.Debug().Int("pid", cmd.Process.Pid).Strs("args", spec.Args).Msg("process started")

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-tok.Done():
		exited, err := e.stop(cmd, waitCh)
		if !exited {
			return cancelled[T](errors.NewKind(op, errors.KindCancelled, "cancelled", nil))
		}
		waitErr = err
	case <-ctx.Done():
		exited, err := e.stop(cmd, waitCh)
		if !exited {
			return cancelled[T](errors.NewKind(op, errors.KindCancelled, "cancelled", ctx.Err()))
		}
		waitErr = err
	}

	if waitErr != nil {
		return failed[T](commandFailed(op, waitErr, stdout.String(), stderr.String()))
	}

	v, err := transform(stdout.String())
	if err != nil {
		return failed[T](errors.NewKind(op, errors.KindParse, "failed to parse output", err))
	}
	return succeeded(v)
}

// stop kills cmd's process group and reaps it. exited reports whether the
// process had already finished on its own, in which case err is its wait
// result.
func (e *Executor) stop(cmd *exec.Cmd, waitCh <-chan error) (exited bool, err error) {
	select {
	case err := <-waitCh:
		return true, err
	default:
	}

	if kerr := killProcess(cmd); kerr != nil && !stderrors.Is(kerr, os.ErrProcessDone) {
		e.logger.Warn().Err(kerr).Int("pid", cmd.Process.Pid).Msg("failed to kill process")
	}
	err = <-waitCh

	// A helper left in the group can hold stdout open after git itself has
	// exited. The kill only reaped that helper, so the exit stands.
	if cmd.ProcessState != nil && !killedBySignal(cmd.ProcessState) {
		return true, err
	}
	return false, nil
}

func commandFailed(op string, waitErr error, stdout, stderr string) error {
	msg := strings.TrimSpace(stderr)
	if msg == "" {
		msg = strings.TrimSpace(stdout)
	}
	var exitErr *exec.ExitError
	if msg == "" && stderrors.As(waitErr, &exitErr) {
		msg = fmt.Sprintf("exited with status %d", exitErr.ExitCode())
	}
	return errors.NewKind(op, errors.KindCommandFailed, msg, waitErr)
}

// Result holds the captured output of a synchronous run
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Capture runs spec to completion outside the registry. A nonzero exit is
// reported through ExitCode, not as an error; the error is set only when
// the process could not be started or ctx ended first.
func (e *Executor) Capture(ctx context.Context, spec Spec) (Result, error) {
	cmd := spec.command()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return Result{}, errors.NewKind("", errors.KindSpawn,
			fmt.Sprintf("failed to start %s", spec.Program), err)
	}

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
	}()

	var err error
	select {
	case err = <-waitCh:
	case <-ctx.Done():
		exited, werr := e.stop(cmd, waitCh)
		if !exited {
			return Result{}, errors.NewKind("", errors.KindCancelled, "", ctx.Err())
		}
		err = werr
	}

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !stderrors.As(err, &exitErr) {
			return res, errors.NewKind("", errors.KindCommandFailed, strings.TrimSpace(res.Stderr), err)
		}
		res.ExitCode = exitErr.ExitCode()
	}
	return res, nil
}
