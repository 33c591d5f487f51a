// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes jot tools for LLM integration via stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/jot/internal/models"
	"github.com/starford/jot/internal/noteservice"
)

const tableURI = "jot://table"

// Server wraps the MCP server with jot tools.
type Server struct {
	mcp   *server.MCPServer
	notes *noteservice.Service
}

// New creates a new MCP server with all jot tools registered.
func New(notes *noteservice.Service, version string) *Server {
	s := &Server{notes: notes}

	s.mcp = server.NewMCPServer(
		"jot",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes in display order with their nesting generation. "+
			"Call get_note_guide first to learn the status and nesting model."),
		mcp.WithString("mode", mcp.Enum(string(models.ModeNested), string(models.ModeFlat)),
			mcp.Description("nested (default) or flat")),
		mcp.WithBoolean("all", mcp.Description("Include done and dropped notes")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("find_notes",
		mcp.WithDescription("Find notes whose description contains the query (case-insensitive)."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Substring to look for")),
		mcp.WithBoolean("all", mcp.Description("Include done and dropped notes")),
	), s.findNotes)

	s.mcp.AddTool(mcp.NewTool("show_note",
		mcp.WithDescription("Show the full page of one note: summary row, description and timestamps."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id or alias")),
	), s.showNote)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a note. Returns the new note id."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Note text; the first line is the summary")),
		mcp.WithNumber("status", mcp.Description("1 note (default), 2 todo, 3 done, 4 drop, 5 part")),
		mcp.WithString("due", mcp.Description("YYYY-MM-DD or an English phrase such as 'next friday'")),
		mcp.WithString("alias", mcp.Description("Up to 5 characters, not purely numeric")),
		mcp.WithNumber("parent", mcp.Description("Id of the parent note")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("get_note_guide",
		mcp.WithDescription("Returns the jot note model: statuses, nesting and row markers."),
	), s.getNoteGuide)

	s.mcp.AddResource(
		mcp.NewResource(tableURI, "Active notes table",
			mcp.WithResourceDescription("The default summary table as printed by the jot CLI."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readTableResource,
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

func (s *Server) entries(ctx context.Context, opts noteservice.ListOptions) (*mcp.CallToolResult, error) {
	entries, err := s.notes.Entries(ctx, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(entries) == 0 {
		return mcp.NewToolResultText("no notes found"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func options(req mcp.CallToolRequest, mode models.Mode, find string) noteservice.ListOptions {
	if req.GetBool("all", false) {
		return noteservice.VerboseList(mode, find)
	}
	opts := noteservice.ActiveList(find)
	opts.Mode = mode
	return opts
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mode := models.ParseMode(req.GetString("mode", string(models.ModeNested)))
	return s.entries(ctx, options(req, mode, ""))
}

func (s *Server) findNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.entries(ctx, options(req, models.ModeFlat, query))
}

func (s *Server) showNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ids, err := s.notes.ResolveIdentifiers(ctx, []string{token})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(ids) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("note does not exist: %s", token)), nil
	}
	var buf bytes.Buffer
	if err := s.notes.RenderSingleNote(ctx, &buf, ids[0], ""); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	desc, err := req.RequireString("description")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := noteservice.NoteInput{Description: &desc}
	if st := req.GetInt("status", 0); st != 0 {
		in.StatusID = &st
	}
	if due := req.GetString("due", ""); due != "" {
		in.Due = &due
	}
	if alias := req.GetString("alias", ""); alias != "" {
		in.Alias = &alias
	}
	if parent := int64(req.GetInt("parent", 0)); parent > 0 {
		in.Parent = &parent
	}
	id, err := s.notes.Add(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("add note: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %d", id)), nil
}

func (s *Server) getNoteGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(NoteGuide), nil
}

func (s *Server) readTableResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var buf bytes.Buffer
	if err := s.notes.List(ctx, &buf, noteservice.ActiveList("")); err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      tableURI,
			MIMEType: "text/plain",
			Text:     buf.String(),
		},
	}, nil
}
