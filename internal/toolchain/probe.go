// Package toolchain probes the system compiler for the implicit flags a
// compile command does not carry: the driver's default target and its
// built-in system include search paths. It is an external environment
// collaborator: a failed probe is fatal to the run.
package toolchain

import (
	"fmt"
	"os/exec"
	"strings"
)

// includeListStart and includeListEnd delimit the system include search
// list in the driver's verbose preprocessor output.
const (
	includeListStart = "#include <...> search starts here:"
	includeListEnd   = "End of search list."
)

// ProbeCache stores probe results keyed by driver path so repeated runs
// skip the compiler invocation. The sqlite cache satisfies it; nil
// disables caching.
type ProbeCache interface {
	GetProbe(driver string) ([]string, bool)
	SetProbe(driver string, args []string) error
}

// Probe runs `<driver> -E -v -x c++ /dev/null` and derives the extra
// arguments the frontend needs: a --target flag and one -isystem pair per
// implicit include directory.
func Probe(driver string) ([]string, error) {
	out, err := exec.Command(driver, "-E", "-v", "-x", "c++", "/dev/null").CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("probing driver %s: %w\n%s", driver, err, out)
	}
	return ParseDriverOutput(string(out)), nil
}

// ProbeCached is Probe with a read-through cache. Cache failures fall
// back to the real probe; a failed cache write is ignored.
func ProbeCached(driver string, cache ProbeCache) ([]string, error) {
	if cache != nil {
		if args, ok := cache.GetProbe(driver); ok {
			return args, nil
		}
	}

	args, err := Probe(driver)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		_ = cache.SetProbe(driver, args)
	}
	return args, nil
}

// ParseDriverOutput extracts the target triple and system include paths
// from verbose driver output. Lines between the include-list markers each
// name one search directory; a "Target:" line names the triple.
func ParseDriverOutput(output string) []string {
	var args []string
	inIncludeList := false

	for _, line := range strings.Split(output, "\n") {
		line = strings.Trim(line, " \t\r")
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "Target") {
			if _, target, ok := strings.Cut(line, ":"); ok {
				args = append(args, "--target="+strings.TrimSpace(target))
			}
			continue
		}
		if line == includeListStart {
			inIncludeList = true
			continue
		}
		if line == includeListEnd {
			inIncludeList = false
			continue
		}
		if inIncludeList {
			args = append(args, "-isystem", line)
		}
	}

	return args
}
