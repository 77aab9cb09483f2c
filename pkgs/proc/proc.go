// Package proc runs external tools and captures their outcome.
//
// A Run never treats a non-zero exit status as a Go error: the status is
// part of the Result and callers branch on Result.Success. Go errors are
// reserved for commands that could not be started or were cancelled.
package proc

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/aurex-audio/aurexgen/internal/errors"
)

// waitDelay bounds how long Wait blocks on inherited pipes after the child
// has been killed.
const waitDelay = 5 * time.Second

// Cmd describes one external invocation.
type Cmd struct {
	Name string
	Args []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
	// Env entries override the inherited environment.
	Env map[string]string
	// Stream, when set, receives stdout and stderr as they are produced in
	// addition to being captured.
	Stream io.Writer
	// Timeout kills the process group after the given duration. Zero
	// disables it.
	Timeout time.Duration
}

// Result is the captured outcome of a Cmd.
type Result struct {
	Args     []string
	Dir      string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Duration time.Duration
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}

// Command returns the invocation as a shell-quoted string.
func (r *Result) Command() string {
	return shellquote.Join(r.Args...)
}

// Output returns captured stderr followed by stdout, trimmed.
func (r *Result) Output() string {
	var b strings.Builder
	if s := strings.TrimSpace(string(r.Stderr)); s != "" {
		b.WriteString(s)
	}
	if s := strings.TrimSpace(string(r.Stdout)); s != "" {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s)
	}
	return b.String()
}

// Err returns nil on success and an *ExitError otherwise.
func (r *Result) Err() error {
	if r.Success() {
		return nil
	}
	return &ExitError{Result: r}
}

// ExitError reports a process that ran to completion with a non-zero status.
type ExitError struct {
	Result *Result
}

func (e *ExitError) Error() string {
	if e.Result.ExitCode < 0 {
		return e.Result.Command() + ": terminated"
	}
	return e.Result.Command() + ": exit status " + strconv.Itoa(e.Result.ExitCode)
}

// Run executes c and blocks until it exits and its output is drained.
func Run(ctx context.Context, c *Cmd) (*Result, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = mergeEnv(os.Environ(), c.Env)
	}
	setProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if c.Stream != nil {
		// Both pipes are copied concurrently.
		live := &lockedWriter{w: c.Stream}
		cmd.Stdout = io.MultiWriter(&stdout, live)
		cmd.Stderr = io.MultiWriter(&stderr, live)
	}

	res := &Result{
		Args: append([]string{c.Name}, c.Args...),
		Dir:  c.Dir,
	}
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()

	if err == nil {
		return res, nil
	}
	res.ExitCode = -1
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, errors.Wrapf(ctxErr, "%s", res.Command())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, errors.Wrapf(err, "failed to start %s", c.Name)
}

// lockedWriter serializes writes to w.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
