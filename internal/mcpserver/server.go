// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Contact Hub tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/contacthub/internal/apperr"
	"github.com/starford/contacthub/internal/contactservice"
	"github.com/starford/contacthub/internal/models"
	"github.com/starford/contacthub/internal/storage"
)

const schemaURI = "contacthub://contact-schema"

// Server wraps the MCP server with Contact Hub tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *contactservice.Service
	photos storage.Provider
}

// New creates a new MCP server with all Contact Hub tools registered.
// photos may be nil, in which case upload_photo is not offered.
func New(svc *contactservice.Service, photos storage.Provider) *Server {
	s := &Server{svc: svc, photos: photos}

	s.mcp = server.NewMCPServer(
		"Contact Hub",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_contacts",
		mcp.WithDescription("List all contacts, newest first."),
	), s.listContacts)

	s.mcp.AddTool(mcp.NewTool("search_contacts",
		mcp.WithDescription("Case-insensitive search over name, email, phone, company, position and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term")),
	), s.searchContacts)

	s.mcp.AddTool(mcp.NewTool("get_contact",
		mcp.WithDescription("Read a single contact by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Contact id")),
	), s.getContact)

	s.mcp.AddTool(mcp.NewTool("create_contact",
		append([]mcp.ToolOption{
			mcp.WithDescription("Create a contact. firstName, lastName, email, phone and company are required. " +
				"Read the schema first via get_contact_schema or the " + schemaURI + " resource."),
		}, contactFields(true)...)...,
	), s.createContact)

	s.mcp.AddTool(mcp.NewTool("update_contact",
		append([]mcp.ToolOption{
			mcp.WithDescription("Change the given fields of a contact. Omitted fields are left untouched."),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Contact id")),
		}, contactFields(false)...)...,
	), s.updateContact)

	s.mcp.AddTool(mcp.NewTool("delete_contact",
		mcp.WithDescription("Delete a contact by id. Ids are not reused."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Contact id")),
	), s.deleteContact)

	s.mcp.AddTool(mcp.NewTool("get_contact_schema",
		mcp.WithDescription("Returns the contact schema: fields, store columns and update rules."),
	), s.getContactSchema)

	if photos != nil {
		s.mcp.AddTool(mcp.NewTool("upload_photo",
			mcp.WithDescription("Download an image from an http(s) URL or base64 data URI and store it as a "+
				"contact photo. Returns the photo URL; pass contactId to also set it on the contact."),
			mcp.WithString("url", mcp.Required(), mcp.Description("Image URL or data:image/...;base64,... URI")),
			mcp.WithNumber("contactId", mcp.Description("Optional contact to attach the photo to")),
		), s.uploadPhoto)
	}

	// Resource: contact schema.
	s.mcp.AddResource(
		mcp.NewResource(schemaURI, "Contact Schema",
			mcp.WithResourceDescription("Contact fields and their record store columns."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSchemaResource,
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

func contactFields(create bool) []mcp.ToolOption {
	req := func(desc string) []mcp.PropertyOption {
		opts := []mcp.PropertyOption{mcp.Description(desc)}
		if create {
			opts = append(opts, mcp.Required())
		}
		return opts
	}
	return []mcp.ToolOption{
		mcp.WithString("firstName", req("First name")...),
		mcp.WithString("lastName", req("Last name")...),
		mcp.WithString("email", req("Email address")...),
		mcp.WithString("phone", req("Phone number")...),
		mcp.WithString("company", req("Company")...),
		mcp.WithString("position", mcp.Description("Job title")),
		mcp.WithString("photo", mcp.Description("Photo URL")),
		mcp.WithString("notes", mcp.Description("Free-form notes")),
		mcp.WithArray("tags", mcp.Description("Tags"), mcp.WithStringItems()),
		mcp.WithString("emailStatus", mcp.Description(`Email status, defaults to "New"`)),
	}
}

// contactInput decodes the tool arguments into a partial contact. Only the
// arguments that were passed become present fields.
func contactInput(req mcp.CallToolRequest) (models.ContactInput, error) {
	var in models.ContactInput
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return in, err
	}
	if err := json.Unmarshal(raw, &in); err != nil {
		return in, fmt.Errorf("invalid contact fields: %w", err)
	}
	return in, nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

// errorResult renders a repository error, listing field errors when present.
func errorResult(err error) *mcp.CallToolResult {
	if fields := apperr.Fields(err); len(fields) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %s", fields.Error()))
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("contact not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listContacts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contacts, err := s.svc.List(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(contacts), nil
}

func (s *Server) searchContacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	contacts, err := s.svc.Search(ctx, query)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(contacts), nil
}

func (s *Server) getContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c, err := s.svc.Get(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c), nil
}

func (s *Server) createContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := contactInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := in.ValidateCreate(); err != nil {
		return errorResult(err), nil
	}
	in.Normalize()
	c, err := s.svc.Create(ctx, in)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c), nil
}

func (s *Server) updateContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in, err := contactInput(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := in.ValidateUpdate(); err != nil {
		return errorResult(err), nil
	}
	in.Normalize()
	c, err := s.svc.Update(ctx, id, in)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(c), nil
}

func (s *Server) deleteContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.Delete(ctx, id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %d", id)), nil
}

func (s *Server) getContactSchema(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContactSchemaContract), nil
}

func (s *Server) readSchemaResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      schemaURI,
			MIMEType: "text/markdown",
			Text:     ContactSchemaContract,
		},
	}, nil
}
