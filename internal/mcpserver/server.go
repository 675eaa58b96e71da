// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes planner tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/day-s-ea/Calendar-Todo/internal/models"
	"github.com/day-s-ea/Calendar-Todo/internal/planner"
	"github.com/day-s-ea/Calendar-Todo/internal/timeutil"
)

// Server wraps the MCP server with planner tools.
type Server struct {
	mcp   *server.MCPServer
	store *planner.Store
}

// New creates a new MCP server with all planner tools registered.
func New(store *planner.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"Planner",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_day",
		mcp.WithDescription("Read all events and to-dos stored on one day."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day to read (YYYY-MM-DD)")),
	), s.getDay)

	s.mcp.AddTool(mcp.NewTool("add_event",
		mcp.WithDescription("Add an event to a day. Arguments MUST follow the planner data "+
			"conventions (dates, clock times, duration presets, recurrence JSON). Read them "+
			"first via the get_conventions tool or the planner://conventions resource."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day to add the event to (YYYY-MM-DD)")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Event title")),
		mcp.WithString("category", mcp.Description("Category id (defaults to the fallback category)")),
		mcp.WithString("startTime", mcp.Required(), mcp.Description("Start time (HH:MM)")),
		mcp.WithString("endTime", mcp.Description("End time (HH:MM), required for the custom duration type")),
		mcp.WithString("durationType", mcp.Description("One of custom, allday, 30min, 1h, 2h, 3h")),
		mcp.WithString("recurrence", mcp.Description("Optional recurrence rule as a JSON object")),
	), s.addEvent)

	s.mcp.AddTool(mcp.NewTool("add_todo",
		mcp.WithDescription("Add a to-do to a day."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day to add the to-do to (YYYY-MM-DD)")),
		mcp.WithString("text", mcp.Required(), mcp.Description("To-do text")),
	), s.addTodo)

	s.mcp.AddTool(mcp.NewTool("toggle_todo",
		mcp.WithDescription("Flip a to-do's completion state."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day the to-do is on (YYYY-MM-DD)")),
		mcp.WithString("id", mcp.Required(), mcp.Description("To-do id")),
	), s.toggleTodo)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List all category ids with their labels and colors."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("get_conventions",
		mcp.WithDescription("Returns the planner data conventions. "+
			"Call this before adding events to ensure correct argument formats."),
	), s.getConventions)

	s.mcp.AddTool(mcp.NewTool("clear_past",
		mcp.WithDescription("Drop all events and to-dos dated before today."),
	), s.clearPast)

	// Resource: planner data conventions.
	s.mcp.AddResource(
		mcp.NewResource("planner://conventions", "Planner Data Conventions",
			mcp.WithResourceDescription("Date, time, recurrence, and category conventions for all planner tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readConventionsResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := timeutil.ParseISODate(date); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid date: %s", date)), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"date":   date,
		"events": s.store.EventsFor(date),
		"todos":  s.store.TodosFor(date),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addEvent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	start, err := req.RequireString("startTime")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft := planner.EventDraft{
		Title:     title,
		Category:  models.FallbackCategoryID,
		StartTime: start,
	}
	if v, err := req.RequireString("category"); err == nil {
		draft.Category = v
	}
	if v, err := req.RequireString("endTime"); err == nil {
		draft.EndTime = v
	}
	if v, err := req.RequireString("durationType"); err == nil {
		draft.DurationType = v
	}
	if raw, err := req.RequireString("recurrence"); err == nil && raw != "" {
		var rule models.Recurrence
		if err := json.Unmarshal([]byte(raw), &rule); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid recurrence JSON: %v", err)), nil
		}
		draft.Recurrence = &rule
	}

	created, err := s.store.AddEvent(date, draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(created) == 1 {
		return mcp.NewToolResultText(fmt.Sprintf("created event %s on %s", created[0].ID, date)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %d recurring instances, group %s", len(created), created[0].RecurrenceID)), nil
}

func (s *Server) addTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	todo, err := s.store.AddTodo(date, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created todo %s on %s", todo.ID, date)), nil
}

func (s *Server) toggleTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	todo, err := s.store.ToggleTodo(date, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	state := "open"
	if todo.Completed {
		state = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("todo %s is now %s", todo.ID, state)), nil
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.store.Categories(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getConventions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PlannerConventions), nil
}

func (s *Server) clearPast(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	today := timeutil.ToISODate(time.Now())
	if err := s.store.ClearPastData(today); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("cleared entries before %s", today)), nil
}

func (s *Server) readConventionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "planner://conventions",
			MIMEType: "text/markdown",
			Text:     PlannerConventions,
		},
	}, nil
}
