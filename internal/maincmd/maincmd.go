package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
	"github.com/mna/pywalk/internal/config"
	"github.com/mna/pywalk/lang/machine"
	"github.com/rs/zerolog"
)

const binName = "pywalk"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter and all-in-one tool for the %[1]s programming language.

The <command> can be one of:
       parse                     Execute the parser phase and print the
                                 resulting abstract syntax tree (AST).
       repl                      Start an interactive session.
       resolve                   Execute the resolver phase and print the
                                 resulting abstract syntax tree (AST)
                                 with name binding information.
       run                       Execute each file as a module, in
                                 order.
       tokenize                  Execute the scanner phase and print the
                                 resulting tokens.

Valid flag options are:
       -c --config PATH          Load the runtime configuration from the
                                 YAML file at PATH. Can also be set with
                                 the %[2]sCONFIG environment variable.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Valid flag options for the <tokenize> command are:
       --with-comments           Include comments in the tokens
                                 (excluded by default).

Valid flag options for the <parse> and <resolve> commands are:
       --with-pos                Print the start and end positions of
                                 each node.

The runtime configuration keys are max_steps, max_call_depth, log_level
and log_format, each of which can be overridden by the corresponding
upper-case environment variable with the %[2]s prefix (e.g.
%[2]sMAX_STEPS).
`, binName, config.EnvPrefix)
)

type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool   `flag:"h,help"`
	Version bool   `flag:"v,version"`
	Config  string `flag:"c,config" env:"CONFIG"`

	WithComments bool `flag:"with-comments"`
	WithPos      bool `flag:"with-pos"`

	args   []string
	flags  map[string]bool
	cmdFn  func(context.Context, mainer.Stdio, []string) error
	cfg    config.Config
	logger zerolog.Logger
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	switch cmdName {
	case "tokenize", "parse", "resolve", "run":
		if len(c.args[1:]) == 0 {
			return fmt.Errorf("%s: at least one file must be provided", cmdName)
		}
	case "repl":
		if len(c.args[1:]) > 0 {
			return fmt.Errorf("%s: no file can be provided", cmdName)
		}
	}

	if c.flags["with-comments"] && cmdName != "tokenize" {
		return fmt.Errorf("%s: invalid flag 'with-comments'", cmdName)
	}
	if c.flags["with-pos"] && cmdName != "parse" && cmdName != "resolve" {
		return fmt.Errorf("%s: invalid flag 'with-pos'", cmdName)
	}

	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: strings.ToUpper(binName) + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		_ = printError(stdio, err)
		return mainer.InvalidArgs
	}
	c.cfg = cfg
	c.logger = cfg.Logger(stdio.Stderr)

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		c.logger.Debug().Err(err).Str("command", c.args[0]).Msg("command failed")
		return mainer.Failure
	}
	return mainer.Success
}

// newThread returns a thread configured with the runtime limits and the
// logger of the command.
func (c *Cmd) newThread(stdio mainer.Stdio) *machine.Thread {
	return NewThread(stdio, c.cfg, &c.logger)
}

// NewThread returns a thread that prints to stdio.Stdout, with the limits of
// cfg.
func NewThread(stdio mainer.Stdio, cfg config.Config, logger *zerolog.Logger) *machine.Thread {
	return &machine.Thread{
		Name:              "main",
		Stdout:            stdio.Stdout,
		MaxSteps:          cfg.MaxSteps,
		MaxCallStackDepth: cfg.MaxCallDepth,
		Logger:            logger,
	}
}

// valid commands are those that take a mainer.Stdio and a slice of strings as
// input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
