package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// ---------------------------------------------------------------------
// Contact tools
// ---------------------------------------------------------------------

func (t *Tools) registerContactTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("salesforce_create_contact",
		mcp.WithDescription("Create a Salesforce Contact"),
		mcp.WithString("first_name", mcp.Required(), mcp.Description("Contact first name")),
		mcp.WithString("last_name", mcp.Required(), mcp.Description("Contact last name")),
		mcp.WithString("phone", mcp.Required(), mcp.Description("Contact phone number")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Contact email address")),
	), t.handleCreateContact)

	s.AddTool(mcp.NewTool("salesforce_get_contact",
		mcp.WithDescription("Fetch a Salesforce Contact by Id"),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Salesforce Contact Id")),
	), t.handleGetContact)

	s.AddTool(mcp.NewTool("salesforce_update_contact",
		mcp.WithDescription("Update a Salesforce Contact by Id; only provided fields are changed"),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Salesforce Contact Id")),
		mcp.WithString("first_name", mcp.Description("New first name")),
		mcp.WithString("last_name", mcp.Description("New last name")),
		mcp.WithString("phone", mcp.Description("New phone number")),
		mcp.WithString("email", mcp.Description("New email address")),
	), t.handleUpdateContact)

	s.AddTool(mcp.NewTool("salesforce_delete_contact",
		mcp.WithDescription("Delete a Salesforce Contact by Id"),
		mcp.WithString("contact_id", mcp.Required(), mcp.Description("Salesforce Contact Id")),
	), t.handleDeleteContact)

	s.AddTool(mcp.NewTool("salesforce_list_contacts",
		mcp.WithDescription("List recent Salesforce Contacts"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of contacts to return (default 10)")),
		mcp.WithString("where", mcp.Description("Optional SOQL where clause to narrow results")),
	), t.handleListContacts)
}

func (t *Tools) handleCreateContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := model.ContactPayload{
		FirstName: req.GetString("first_name", ""),
		LastName:  req.GetString("last_name", ""),
		Phone:     req.GetString("phone", ""),
		Email:     req.GetString("email", ""),
	}
	if err := t.validate.Struct(payload); err != nil {
		return invalidInput(err)
	}

	id, err := t.svc.CreateContact(ctx, payload.Fields())
	if err != nil {
		return errorResult(err)
	}
	t.logger.Info("contact created", zap.String("contact_id", id))
	return jsonResult(map[string]string{"Id": id})
}

func (t *Tools) handleGetContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return invalidInput(err)
	}

	record, err := t.svc.GetContact(ctx, contactID)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(record)
}

func (t *Tools) handleUpdateContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return invalidInput(err)
	}
	payload := model.ContactUpdatePayload{
		FirstName: req.GetString("first_name", ""),
		LastName:  req.GetString("last_name", ""),
		Phone:     req.GetString("phone", ""),
		Email:     req.GetString("email", ""),
	}
	if err := t.validate.Struct(payload); err != nil {
		return invalidInput(err)
	}
	fields := payload.Fields()
	if len(fields) == 0 {
		return mcp.NewToolResultError("invalid input: no fields to update"), nil
	}

	if err := t.svc.UpdateContact(ctx, contactID, fields); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "contact_id": contactID})
}

func (t *Tools) handleDeleteContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	contactID, err := req.RequireString("contact_id")
	if err != nil {
		return invalidInput(err)
	}

	if err := t.svc.DeleteContact(ctx, contactID); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success"})
}

func (t *Tools) handleListContacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	where := req.GetString("where", "")

	records, err := t.svc.ListContacts(ctx, limit, where)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(records)
}
