package dummy

import (
	"context"
	"sync"

	"github.com/veedubyou/stem-remix/src/shared/lib/executor"
)

var _ executor.Executor = &Executor{}

type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

// Executor records commands instead of running them. Every command
// finishes with the configured output.
type Executor struct {
	Stdout []byte
	Stderr []byte
	Err    error
	// OnRun is called with the command when it runs, to fake side effects
	OnRun func(command Command)

	mutex    sync.Mutex
	commands []*Command
}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Command(ctx context.Context, name string, args ...string) executor.Cmd {
	command := &Command{
		Name: name,
		Args: append([]string{}, args...),
	}

	e.mutex.Lock()
	e.commands = append(e.commands, command)
	e.mutex.Unlock()

	return &cmd{executor: e, command: command}
}

func (e *Executor) Commands() []Command {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	commands := make([]Command, 0, len(e.commands))
	for _, command := range e.commands {
		commands = append(commands, *command)
	}

	return commands
}

type cmd struct {
	executor *Executor
	command  *Command
}

func (c *cmd) SetDir(dir string) {
	c.command.Dir = dir
}

func (c *cmd) SetEnv(env ...string) {
	c.command.Env = append(c.command.Env, env...)
}

func (c *cmd) run() {
	if c.executor.OnRun != nil {
		c.executor.OnRun(*c.command)
	}
}

func (c *cmd) CombinedOutput() ([]byte, error) {
	c.run()
	output := append(append([]byte{}, c.executor.Stdout...), c.executor.Stderr...)
	return output, c.executor.Err
}

func (c *cmd) Output() ([]byte, []byte, error) {
	c.run()
	return c.executor.Stdout, c.executor.Stderr, c.executor.Err
}
