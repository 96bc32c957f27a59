package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/parser"
)

// maxSyntaxDiagnostics caps how many syntax-error diagnostics one file can
// contribute before the rest are summarized.
const maxSyntaxDiagnostics = 5

// FileIndexer records which files were parsed and with what content hash,
// and reads the recorded hash back so unchanged files keep their existing
// row. The cache satisfies it; a nil indexer disables recording.
type FileIndexer interface {
	FileHash(path string) string
	SetFileParsed(path, hash string) error
}

// Frontend is the tree-sitter implementation of muck.Frontend. Starting
// from a source file it parses the file itself plus, transitively, every
// quoted include that resolves to a file under the project root, so a
// declaration reachable through several include paths is seen (and later
// deduplicated) rather than missed.
type Frontend struct {
	root  string
	index FileIndexer
}

// NewFrontend creates a frontend for the given absolute project root.
func NewFrontend(root string) *Frontend {
	return &Frontend{root: filepath.Clean(root)}
}

// SetFileIndex attaches an optional parse-record sink.
func (f *Frontend) SetFileIndex(index FileIndexer) {
	f.index = index
}

// ParseDeclarations implements muck.Frontend. A failure to read or parse
// the main source file is fatal; unreadable includes degrade to warning
// diagnostics, matching compiler behavior for the files it can skip.
func (f *Frontend) ParseDeclarations(sourceFile string, compileArgs []string) ([]muck.Declaration, []muck.Diagnostic, error) {
	includeDirs := includeDirsFromArgs(compileArgs)

	p := parser.New()
	defer p.Close()

	var decls []muck.Declaration
	var diags []muck.Diagnostic

	visited := make(map[string]bool)
	queue := []string{filepath.Clean(sourceFile)}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if visited[path] {
			continue
		}
		visited[path] = true

		result, err := p.ParseFile(path)
		if err != nil {
			if path == filepath.Clean(sourceFile) {
				return nil, nil, fmt.Errorf("parsing translation unit: %w", err)
			}
			diags = append(diags, muck.Diagnostic{
				Severity: muck.SeverityWarning,
				File:     path,
				Message:  fmt.Sprintf("skipping unreadable include: %v", err),
			})
			continue
		}

		diags = append(diags, syntaxDiagnostics(result)...)
		decls = append(decls, extractDeclarations(result, path)...)

		if f.index != nil {
			// Best effort: a failed cache write never fails the parse.
			hash := ComputeFileHash(result.Source)
			if f.index.FileHash(path) != hash {
				_ = f.index.SetFileParsed(path, hash)
			}
		}

		for _, include := range scanIncludes(result) {
			resolved, ok := resolveInclude(include, filepath.Dir(path), includeDirs)
			if !ok {
				continue
			}
			if !underRoot(resolved, f.root) {
				continue
			}
			queue = append(queue, resolved)
		}

		result.Close()
	}

	return decls, diags, nil
}

// syntaxDiagnostics converts tree-sitter ERROR nodes into warning
// diagnostics. Tree-sitter recovers from almost anything, so these are
// advisory; a truly empty tree would already have failed the parse.
func syntaxDiagnostics(result *parser.ParseResult) []muck.Diagnostic {
	if !result.HasErrors() {
		return nil
	}

	var diags []muck.Diagnostic
	errNodes := result.FindNodesByType("ERROR")
	for i, node := range errNodes {
		if i == maxSyntaxDiagnostics {
			diags = append(diags, muck.Diagnostic{
				Severity: muck.SeverityNote,
				File:     result.FilePath,
				Message:  fmt.Sprintf("%d further syntax errors suppressed", len(errNodes)-maxSyntaxDiagnostics),
			})
			break
		}
		diags = append(diags, muck.Diagnostic{
			Severity: muck.SeverityWarning,
			File:     result.FilePath,
			Line:     node.StartPoint().Row + 1,
			Message:  "syntax error",
		})
	}
	return diags
}

// includeDirsFromArgs pulls -I and -isystem directories out of the
// normalized compile arguments, in order.
func includeDirsFromArgs(args []string) []string {
	var dirs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-I" || arg == "-isystem":
			if i+1 < len(args) {
				dirs = append(dirs, args[i+1])
				i++
			}
		case strings.HasPrefix(arg, "-I"):
			dirs = append(dirs, arg[2:])
		case strings.HasPrefix(arg, "-isystem") && len(arg) > len("-isystem"):
			dirs = append(dirs, arg[len("-isystem"):])
		}
	}
	return dirs
}

// underRoot reports whether path lies lexically under root.
func underRoot(path, root string) bool {
	path = filepath.Clean(path)
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
