package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/programme-lv/labgrader/internal/suite"
)

const (
	maxOutputBytes = 1 << 20
	waitDelay      = 200 * time.Millisecond
)

// RunData describes one finished execution of a program.
type RunData struct {
	Stdin      string
	Stdout     string
	Stderr     string
	ExitCode   int
	WallMillis int64
	TimedOut   bool
}

// Failed reports whether the run did not end normally.
func (d *RunData) Failed() bool {
	return d.TimedOut || d.ExitCode != 0
}

type Runner struct {
	toolchains     map[string]Toolchain
	timeout        time.Duration
	compileTimeout time.Duration
	workDir        string
	log            *slog.Logger
}

type Options struct {
	Toolchains     []Toolchain
	Timeout        time.Duration
	CompileTimeout time.Duration
	// WorkDir hosts the per-submission directories; empty means os.TempDir.
	WorkDir string
	Logger  *slog.Logger
}

func New(opts Options) *Runner {
	if len(opts.Toolchains) == 0 {
		opts.Toolchains = DefaultToolchains()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.CompileTimeout <= 0 {
		opts.CompileTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &Runner{
		toolchains:     make(map[string]Toolchain, len(opts.Toolchains)),
		timeout:        opts.Timeout,
		compileTimeout: opts.CompileTimeout,
		workDir:        opts.WorkDir,
		log:            opts.Logger,
	}
	for _, tc := range opts.Toolchains {
		r.toolchains[strings.ToLower(tc.Ext)] = tc
	}
	return r
}

// Program is a prepared submission ready to be executed any number of times.
type Program struct {
	dir     string
	argv    []string
	timeout time.Duration
}

// Prepare copies the submission into a fresh directory and builds it.
// Build problems are returned as *suite.ExecutionError.
func (r *Runner) Prepare(ctx context.Context, submission string) (*Program, error) {
	ext := strings.ToLower(filepath.Ext(submission))
	tc, ok := r.toolchains[ext]
	if !ok {
		return nil, &suite.ExecutionError{
			Stage: "prepare",
			Err:   fmt.Errorf("unsupported submission type %q", ext),
		}
	}

	src, err := os.ReadFile(submission)
	if err != nil {
		return nil, &suite.ExecutionError{Stage: "prepare", Err: err}
	}

	if r.workDir != "" {
		if err := os.MkdirAll(r.workDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create work dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(r.workDir, "subm-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create submission dir: %w", err)
	}
	srcName := "main" + ext
	if err := os.WriteFile(filepath.Join(dir, srcName), src, 0o644); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to copy submission: %w", err)
	}

	if tc.Compile != "" {
		r.log.Debug("compiling submission", "file", submission, "dir", dir)
		data, err := execute(ctx, argv(tc.Compile, dir, srcName), dir, nil, r.compileTimeout)
		if err == nil && data.Failed() {
			err = fmt.Errorf("exit code %d", data.ExitCode)
			if data.TimedOut {
				err = fmt.Errorf("timed out after %s", r.compileTimeout)
			}
		}
		if err != nil {
			os.RemoveAll(dir)
			output := ""
			if data != nil {
				output = data.Stdout + data.Stderr
			}
			return nil, &suite.ExecutionError{Stage: "compile", Output: output, Err: err}
		}
	}

	return &Program{
		dir:     dir,
		argv:    argv(tc.Exec, dir, srcName),
		timeout: r.timeout,
	}, nil
}

// Exec runs the program once with the given stdin. Exceeding the time limit
// is reported in RunData, not as an error.
func (p *Program) Exec(ctx context.Context, stdin []byte) (*RunData, error) {
	data, err := execute(ctx, p.argv, p.dir, stdin, p.timeout)
	if err != nil {
		return nil, &suite.ExecutionError{Stage: "run", Err: err}
	}
	return data, nil
}

func (p *Program) Close() error {
	return os.RemoveAll(p.dir)
}

func execute(ctx context.Context, args []string, dir string, stdin []byte, timeout time.Duration) (*RunData, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdout := &cappedBuffer{limit: maxOutputBytes}
	stderr := &cappedBuffer{limit: maxOutputBytes}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err := cmd.Run()
	data := &RunData{
		Stdin:      string(stdin),
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		WallMillis: time.Since(start).Milliseconds(),
	}
	if ctx.Err() == context.DeadlineExceeded {
		data.TimedOut = true
		data.ExitCode = -1
		return data, nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return data, err
		}
		data.ExitCode = exitErr.ExitCode()
	}
	return data, nil
}

// cappedBuffer keeps the first limit bytes written and drops the rest.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}

var _ io.Writer = (*cappedBuffer)(nil)
