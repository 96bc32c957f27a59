// Package mcp provides an MCP (Model Context Protocol) server for cppmuck.
// It exposes the stub generator as tools so AI agents can iterate without
// spawning CLI processes.
package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hargabyte/cppmuck/internal/config"
	"github.com/hargabyte/cppmuck/internal/muck"
	"github.com/hargabyte/cppmuck/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps the MCP server with cppmuck-specific functionality.
type Server struct {
	mcpServer    *server.MCPServer
	projectRoot  string
	cfg          *config.Config
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration.
type Config struct {
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
}

// New creates a new MCP server rooted at the nearest .cppmuck directory's
// parent, falling back to the working directory with default configuration
// when the project is not initialized.
func New(cfg Config) (*Server, error) {
	projectRoot, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	if configDir, err := config.FindConfigDir("."); err == nil {
		projectRoot = filepath.Dir(configDir)
	}

	fileCfg, err := config.Load(projectRoot)
	if err != nil {
		return nil, err
	}

	mcpServer := server.NewMCPServer(
		"cppmuck",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s := &Server{
		mcpServer:    mcpServer,
		projectRoot:  projectRoot,
		cfg:          fileCfg,
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	s.registerGenTool()
	s.registerListTool()

	return s, nil
}

// ServeStdio starts the server using stdio transport.
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}
	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded.
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			fmt.Fprintf(os.Stderr, "cppmuck serve: timeout after %v of inactivity\n", s.timeout)
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp.
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// registerGenTool registers the cppmuck_gen tool.
func (s *Server) registerGenTool() {
	tool := mcp.NewTool("cppmuck_gen",
		mcp.WithDescription("Generate C++ stub definitions for the public functions, methods, and constructors of a translation unit. Returns the rendered stub source."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Translation unit path, relative to the project root"),
		),
		mcp.WithString("prefixes",
			mcp.Description("Comma-separated qualified-name prefixes to match (empty = everything)"),
		),
		mcp.WithString("output",
			mcp.Description("If set, also write the stubs to this path"),
		),
		mcp.WithBoolean("require_definition",
			mcp.Description("Only stub declarations that have a body in the parsed sources"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleGen)
}

// registerListTool registers the cppmuck_list tool.
func (s *Server) registerListTool() {
	tool := mcp.NewTool("cppmuck_list",
		mcp.WithDescription("List the C++ signatures that would be stubbed for a translation unit, one 'file:line  signature' per line."),
		mcp.WithString("file",
			mcp.Required(),
			mcp.Description("Translation unit path, relative to the project root"),
		),
		mcp.WithString("prefixes",
			mcp.Description("Comma-separated qualified-name prefixes to match (empty = everything)"),
		),
		mcp.WithBoolean("require_definition",
			mcp.Description("Only list declarations that have a body in the parsed sources"),
		),
	)

	s.mcpServer.AddTool(tool, s.handleList)
}

func (s *Server) handleGen(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file parameter is required"), nil
	}
	prefixesArg, _ := args["prefixes"].(string)
	output, _ := args["output"].(string)
	requireDef, _ := args["require_definition"].(bool)

	res, err := s.run(file, splitPrefixes(prefixesArg), requireDef)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.HasFatal() {
		return mcp.NewToolResultError(formatDiagnostics(res.Diagnostics)), nil
	}

	rendered := muck.Render(res.StubSet, res.SourceFile, s.cfg.Gen.HeaderExt)

	if output != "" {
		outputPath := output
		if !filepath.IsAbs(outputPath) {
			outputPath = filepath.Join(s.projectRoot, outputPath)
		}
		if err := os.WriteFile(outputPath, []byte(rendered), 0644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("writing stub file: %v", err)), nil
		}
	}

	var b strings.Builder
	if warnings := formatWarnings(res); warnings != "" {
		b.WriteString(warnings)
		b.WriteString("\n")
	}
	b.WriteString(rendered)
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.updateActivity()

	args := req.GetArguments()
	file, ok := args["file"].(string)
	if !ok || file == "" {
		return mcp.NewToolResultError("file parameter is required"), nil
	}
	prefixesArg, _ := args["prefixes"].(string)
	requireDef, _ := args["require_definition"].(bool)

	res, err := s.run(file, splitPrefixes(prefixesArg), requireDef)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.HasFatal() {
		return mcp.NewToolResultError(formatDiagnostics(res.Diagnostics)), nil
	}

	var b strings.Builder
	if warnings := formatWarnings(res); warnings != "" {
		b.WriteString(warnings)
		b.WriteString("\n")
	}
	for _, sig := range res.StubSet.All() {
		fmt.Fprintf(&b, "%s:%d  %s\n", sig.File, sig.Line, sig.String())
	}
	if b.Len() == 0 {
		b.WriteString("no matching signatures\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// run executes the pipeline with the server's project root and config.
func (s *Server) run(file string, prefixes []string, requireDef bool) (*pipeline.Result, error) {
	return pipeline.Run(pipeline.Request{
		Root:              s.projectRoot,
		BuildDir:          s.cfg.Compile.BuildDir,
		SourceFile:        file,
		Prefixes:          prefixes,
		RequireDefinition: requireDef || s.cfg.Gen.RequireDefinition,
		StripArgs:         s.cfg.Compile.StripArgs,
		NoCache:           s.cfg.Cache.Disabled,
	})
}

// splitPrefixes parses a comma-separated prefix list, dropping empties.
func splitPrefixes(arg string) []string {
	if arg == "" {
		return nil
	}
	var prefixes []string
	for _, p := range strings.Split(arg, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

// formatDiagnostics joins diagnostics one per line.
func formatDiagnostics(diags []muck.Diagnostic) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.String())
	}
	return strings.Join(lines, "\n")
}

// formatWarnings collects non-fatal diagnostics and overload conflicts for
// inclusion ahead of the tool result body.
func formatWarnings(res *pipeline.Result) string {
	var lines []string
	for _, d := range res.Diagnostics {
		lines = append(lines, d.String())
	}
	for _, c := range res.Conflicts {
		lines = append(lines, fmt.Sprintf("warning: overload conflict: %s", c))
	}
	return strings.Join(lines, "\n")
}
