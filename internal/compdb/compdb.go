// Package compdb loads build-system compilation databases
// (compile_commands.json) and normalizes compile commands for the
// declaration frontend. It is an external lookup collaborator: lookup
// failures are environment errors, fatal to the run.
package compdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the compilation database file name emitted by CMake, Bear,
// and friends.
const FileName = "compile_commands.json"

// ErrNotFound is returned when a source file has no entry in the database.
var ErrNotFound = errors.New("file not found in compilation database")

// Command is one compilation database entry. Either Command (a single
// shell string) or Arguments (an argv list) is populated, per the format.
type Command struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
}

// Argv returns the entry's argv, splitting the shell-string form on
// whitespace when the argv form is absent. Quoted arguments containing
// spaces are not supported in the string form; databases produced by
// CMake use the argv form anyway.
func (c *Command) Argv() []string {
	if len(c.Arguments) > 0 {
		return c.Arguments
	}
	return strings.Fields(c.Command)
}

// SourcePath returns the entry's absolute source file path.
func (c *Command) SourcePath() string {
	if filepath.IsAbs(c.File) {
		return filepath.Clean(c.File)
	}
	return filepath.Join(c.Directory, c.File)
}

// Database is a loaded compilation database.
type Database struct {
	commands []Command
	path     string
}

// Load reads compile_commands.json from the given build directory.
func Load(buildDir string) (*Database, error) {
	path := filepath.Join(buildDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading compilation database from %s: %w", buildDir, err)
	}

	var commands []Command
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &Database{commands: commands, path: path}, nil
}

// Path returns the database file path.
func (db *Database) Path() string {
	return db.path
}

// Len returns the number of entries.
func (db *Database) Len() int {
	return len(db.commands)
}

// Lookup finds the compile command for an absolute source file path.
// When a file appears more than once, the last matching entry wins.
func (db *Database) Lookup(sourceFile string) (*Command, error) {
	sourceFile = filepath.Clean(sourceFile)

	var found *Command
	for i := range db.commands {
		if db.commands[i].SourcePath() == sourceFile {
			found = &db.commands[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sourceFile)
	}
	return found, nil
}

// defaultStripArgs are arguments dropped from every compile command:
// -Werror would turn harmless warnings fatal, and the GCC-only loop
// optimization flag is unknown to other frontends.
var defaultStripArgs = []string{
	"-fno-aggressive-loop-optimizations",
	"-Werror",
}

// Normalize rewrites a compile command's argv for frontend consumption:
// strip arguments (defaults plus extraStrip), make relative -I paths
// absolute against the entry directory, and inject -w -ferror-limit=0
// next to the -o argument to silence the parse. The driver stays argv[0].
func Normalize(cmd *Command, extraStrip []string) ([]string, error) {
	strip := make(map[string]bool, len(defaultStripArgs)+len(extraStrip))
	for _, s := range defaultStripArgs {
		strip[s] = true
	}
	for _, s := range extraStrip {
		strip[s] = true
	}

	var argv []string
	for _, a := range cmd.Argv() {
		if strip[a] {
			continue
		}
		switch {
		case strings.HasPrefix(a, "-I"):
			ipath := a[2:]
			if ipath != "" && !filepath.IsAbs(ipath) {
				ipath = filepath.Join(cmd.Directory, ipath)
				argv = append(argv, "-I"+filepath.Clean(ipath))
			} else {
				argv = append(argv, a)
			}
		case strings.HasPrefix(a, "-o"):
			argv = append(argv, "-w", "-ferror-limit=0", a)
		default:
			argv = append(argv, a)
		}
	}

	if len(argv) == 0 {
		return nil, fmt.Errorf("compile command for %s is empty", cmd.File)
	}
	return argv, nil
}
