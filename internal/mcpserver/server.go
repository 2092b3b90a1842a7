// Package mcpserver exposes the reminder commands as MCP tools so another
// process (a window shell, an assistant) can drive the app over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/notexe/reminders/internal/command"
	"github.com/notexe/reminders/internal/reminder"
)

const (
	serverName    = "reminders"
	serverVersion = "1.0.0"
)

// Dispatcher runs commands. *app.App and *command.Dispatcher satisfy it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req command.Request) (command.Result, error)
}

// Server is the MCP server for the reminders app.
type Server struct {
	mcpServer  *server.MCPServer
	dispatcher Dispatcher
}

// NewServer creates a Server whose tools dispatch through d.
func NewServer(d Dispatcher) *Server {
	s := &Server{
		dispatcher: d,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve runs the server over stdin/stdout until the client disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("set_source",
			mcp.WithDescription("Choose the JSON file reminders are read from and written to, and load it"),
			mcp.WithString("path", mcp.Required(), mcp.Description("Path of the reminders JSON file")),
		),
		s.handleSetSource,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("load_reminders",
			mcp.WithDescription("Reload reminders from the current data source"),
		),
		s.handleLoadReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Append a reminder and rewrite the data source file"),
			mcp.WithString("title", mcp.Description("Reminder title")),
			mcp.WithString("date", mcp.Description("Reminder date, free form")),
			mcp.WithString("note", mcp.Description("Optional note")),
			mcp.WithObject("fields", mcp.Description("Any other fields to store with the reminder")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders in order"),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_settings",
			mcp.WithDescription("Show the data source path and keep-in-tray preference"),
		),
		s.handleGetSettings,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("set_keep_in_tray",
			mcp.WithDescription("Set whether the app keeps a tray icon after its windows close"),
			mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("true to keep the tray icon")),
		),
		s.handleSetKeepInTray,
	)
}

func (s *Server) handleSetSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	return s.dispatch(ctx, command.Request{
		Command: command.SetSource,
		Args:    map[string]string{"path": path},
	})
}

func (s *Server) handleLoadReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, command.Request{Command: command.LoadReminders})
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec := reminder.Record{}
	if fields, ok := req.GetArguments()["fields"].(map[string]any); ok {
		for k, v := range fields {
			rec[k] = v
		}
	}
	for _, key := range []string{"title", "date", "note"} {
		if v := req.GetString(key, ""); v != "" {
			rec[key] = v
		}
	}

	if len(rec) == 0 {
		return mcp.NewToolResultError("at least one reminder field is required"), nil
	}

	return s.dispatch(ctx, command.Request{Command: command.AddReminder, Record: rec})
}

func (s *Server) handleListReminders(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.dispatcher.Dispatch(ctx, command.Request{Command: command.ListReminders})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}
	if len(res.Records) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return s.result(res), nil
}

func (s *Server) handleGetSettings(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.dispatch(ctx, command.Request{Command: command.ShowSettings})
}

func (s *Server) handleSetKeepInTray(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, ok := req.GetArguments()["enabled"]; !ok {
		return mcp.NewToolResultError("enabled is required"), nil
	}
	enabled := req.GetBool("enabled", true)
	return s.dispatch(ctx, command.Request{
		Command: command.SetKeepInTray,
		Args:    map[string]string{"enabled": fmt.Sprint(enabled)},
	})
}

func (s *Server) dispatch(ctx context.Context, req command.Request) (*mcp.CallToolResult, error) {
	res, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", req.Command, err)), nil
	}
	return s.result(res), nil
}

// result renders a command result as text: message, JSON payload, warning.
func (s *Server) result(res command.Result) *mcp.CallToolResult {
	var b strings.Builder
	if res.Message != "" {
		b.WriteString(res.Message)
		b.WriteString("\n")
	}

	var payload any
	switch {
	case res.Settings != nil:
		payload = res.Settings
	case res.Records != nil:
		payload = res.Records
	}
	if payload != nil {
		output, _ := json.MarshalIndent(payload, "", "  ")
		b.Write(output)
		b.WriteString("\n")
	}

	if res.Warning != nil {
		fmt.Fprintf(&b, "warning: %v\n", res.Warning)
	}

	return mcp.NewToolResultText(strings.TrimSpace(b.String()))
}
