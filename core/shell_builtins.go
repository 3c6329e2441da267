package core

import (
	"fmt"
	"os"
	"sort"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(e *Executor, args []string) int
}

type ShellBuiltinFunc func(e *Executor, args []string) int

func (f ShellBuiltinFunc) Main(e *Executor, args []string) int {
	return f(e, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// BuiltinNames returns the sorted names of all builtins.
func BuiltinNames() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin
func Cd(e *Executor, args []string) int {
	switch len(args) {
	case 1:
		home, err := e.env().UserHomeDir()
		if err != nil {
			fmt.Fprintf(e.stderr(), "%s: %v\n", args[0], err)
			return 1
		}
		args = append(args, home)
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(e.stderr(), "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(e.stderr(), "%s: too many arguments\n", args[0])
		return 1
	}

	if e.OnChdir != nil {
		e.OnChdir()
	}
	return 0
}

// Exit quits the shell
func Exit(e *Executor, args []string) int {
	e.quit = true
	return 0
}

func init() {
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
}
