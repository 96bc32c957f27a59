package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hargabyte/cppmuck/internal/parser"
)

// includeRef is one #include directive found in a parsed file.
type includeRef struct {
	path string
	// quoted is true for `#include "x.h"`, false for `#include <x.h>`.
	quoted bool
}

// scanIncludes returns every include directive in the file, in order.
func scanIncludes(result *parser.ParseResult) []includeRef {
	var refs []includeRef
	for _, node := range result.FindNodesByType("preproc_include") {
		pathNode := node.ChildByFieldName("path")
		if pathNode == nil {
			continue
		}
		switch pathNode.Type() {
		case "string_literal":
			text := strings.Trim(result.NodeText(pathNode), `"`)
			if text != "" {
				refs = append(refs, includeRef{path: text, quoted: true})
			}
		case "system_lib_string":
			text := strings.Trim(result.NodeText(pathNode), "<>")
			if text != "" {
				refs = append(refs, includeRef{path: text, quoted: false})
			}
		}
	}
	return refs
}

// resolveInclude resolves one include directive against the including
// file's directory (quoted form only) and the -I/-isystem search dirs,
// in that order. Unresolvable includes (system headers outside every
// search dir) are simply not followed.
func resolveInclude(ref includeRef, fromDir string, includeDirs []string) (string, bool) {
	var candidates []string
	if ref.quoted {
		candidates = append(candidates, filepath.Join(fromDir, ref.path))
	}
	for _, dir := range includeDirs {
		candidates = append(candidates, filepath.Join(dir, ref.path))
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return filepath.Clean(candidate), true
		}
	}
	return "", false
}
