// Package mcp exposes the lint pipeline as an MCP server so agent
// tooling can dispatch and inspect runs over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/aretw0/stylebot/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Dispatcher starts pipeline runs in the background.
type Dispatcher interface {
	DispatchAsync(ctx context.Context, repo, ref string) (*domain.Run, error)
}

// Server wraps the engine and run store as an MCP server.
type Server struct {
	dispatcher Dispatcher
	store      ports.RunStore
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(dispatcher Dispatcher, store ports.RunStore, version string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		store:      store,
		mcpServer:  server.NewMCPServer("stylebot-mcp", strings.TrimSpace(version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: dispatch_run
	dispatchTool := mcp.NewTool("dispatch_run",
		mcp.WithDescription("Dispatch a lint-and-autofix run against a repository. Returns the run ID immediately; poll get_run for progress."),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository URL or local path")),
		mcp.WithString("ref", mcp.Description("Branch or ref to check out (optional)")),
	)
	s.mcpServer.AddTool(dispatchTool, s.handleDispatch)

	// TOOL: get_run
	getTool := mcp.NewTool("get_run",
		mcp.WithDescription("Get the current state of a run, including step results and commits."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	)
	s.mcpServer.AddTool(getTool, s.handleGetRun)

	// TOOL: list_runs
	listTool := mcp.NewTool("list_runs",
		mcp.WithDescription("List all known runs."),
	)
	s.mcpServer.AddTool(listTool, s.handleListRuns)
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, err := request.RequireString("repo")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref := request.GetString("ref", "")

	run, err := s.dispatcher.DispatchAsync(ctx, repo, ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dispatch failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(map[string]string{"run_id": run.ID, "status": string(run.Status)})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	run, err := s.store.Load(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("run %q not found", id)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(run)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	sort.Strings(ids)

	runs := make([]*domain.Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.store.Load(ctx, id)
		if err != nil {
			continue
		}
		runs = append(runs, run)
	}

	jsonBytes, _ := json.Marshal(runs)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
