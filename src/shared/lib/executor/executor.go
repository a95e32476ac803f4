package executor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

//counterfeiter:generate . Executor
type Executor interface {
	Command(ctx context.Context, name string, args ...string) Cmd
}

//counterfeiter:generate . Cmd
type Cmd interface {
	SetDir(dir string)
	// SetEnv adds variables on top of the current process environment
	SetEnv(env ...string)
	CombinedOutput() ([]byte, error)
	// Output runs the command and keeps stdout and stderr apart
	Output() (stdout []byte, stderr []byte, err error)
}

var _ Executor = BinaryFileExecutor{}

// BinaryFileExecutor runs real binaries on the host.
// Cancelling ctx kills the process.
type BinaryFileExecutor struct{}

func (BinaryFileExecutor) Command(ctx context.Context, name string, args ...string) Cmd {
	return &binaryCmd{cmd: exec.CommandContext(ctx, name, args...)}
}

type binaryCmd struct {
	cmd *exec.Cmd
}

func (b *binaryCmd) SetDir(dir string) {
	b.cmd.Dir = dir
}

func (b *binaryCmd) SetEnv(env ...string) {
	if b.cmd.Env == nil {
		b.cmd.Env = os.Environ()
	}

	b.cmd.Env = append(b.cmd.Env, env...)
}

func (b *binaryCmd) CombinedOutput() ([]byte, error) {
	return b.cmd.CombinedOutput()
}

func (b *binaryCmd) Output() ([]byte, []byte, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	b.cmd.Stdout = stdout
	b.cmd.Stderr = stderr

	err := b.cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}
