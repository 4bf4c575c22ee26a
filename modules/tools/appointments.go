package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// ---------------------------------------------------------------------
// Appointment tools (sObject: Event)
// ---------------------------------------------------------------------

func (t *Tools) registerAppointmentTools(s *server.MCPServer) {
	s.AddTool(mcp.NewTool("salesforce_create_appointment",
		mcp.WithDescription("Create a Salesforce appointment (Event) linked to a Contact"),
		mcp.WithString("subject", mcp.Required(), mcp.Description("Appointment subject")),
		mcp.WithString("start_datetime", mcp.Required(), mcp.Description("ISO-8601 start datetime with timezone offset")),
		mcp.WithString("end_datetime", mcp.Required(), mcp.Description("ISO-8601 end datetime with timezone offset")),
		mcp.WithString("who_id", mcp.Required(), mcp.Description("Contact Id to link the event to")),
	), t.handleCreateAppointment)

	s.AddTool(mcp.NewTool("salesforce_get_appointment",
		mcp.WithDescription("Fetch a Salesforce appointment (Event) by Id"),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Salesforce Event Id")),
	), t.handleGetAppointment)

	s.AddTool(mcp.NewTool("salesforce_update_appointment",
		mcp.WithDescription("Update a Salesforce appointment (Event) by Id; only provided fields are changed"),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Salesforce Event Id")),
		mcp.WithString("subject", mcp.Description("New subject")),
		mcp.WithString("start_datetime", mcp.Description("New ISO-8601 start datetime")),
		mcp.WithString("end_datetime", mcp.Description("New ISO-8601 end datetime")),
		mcp.WithString("who_id", mcp.Description("New linked Contact Id")),
	), t.handleUpdateAppointment)

	s.AddTool(mcp.NewTool("salesforce_delete_appointment",
		mcp.WithDescription("Delete a Salesforce appointment (Event) by Id"),
		mcp.WithString("event_id", mcp.Required(), mcp.Description("Salesforce Event Id")),
	), t.handleDeleteAppointment)

	s.AddTool(mcp.NewTool("salesforce_list_appointments",
		mcp.WithDescription("List recent Salesforce appointments (Events)"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of appointments to return (default 10)")),
		mcp.WithString("where", mcp.Description("Optional SOQL where clause to narrow results")),
	), t.handleListAppointments)
}

func (t *Tools) handleCreateAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := model.AppointmentPayload{
		Subject:       req.GetString("subject", ""),
		StartDateTime: req.GetString("start_datetime", ""),
		EndDateTime:   req.GetString("end_datetime", ""),
		WhoID:         req.GetString("who_id", ""),
	}
	if err := t.validate.Struct(payload); err != nil {
		return invalidInput(err)
	}

	id, err := t.svc.CreateAppointment(ctx, payload.Fields())
	if err != nil {
		return errorResult(err)
	}
	t.logger.Info("appointment created", zap.String("event_id", id))
	return jsonResult(map[string]string{"Id": id})
}

func (t *Tools) handleGetAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := req.RequireString("event_id")
	if err != nil {
		return invalidInput(err)
	}

	record, err := t.svc.GetAppointment(ctx, eventID)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(record)
}

func (t *Tools) handleUpdateAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := req.RequireString("event_id")
	if err != nil {
		return invalidInput(err)
	}
	payload := model.AppointmentUpdatePayload{
		Subject:       req.GetString("subject", ""),
		StartDateTime: req.GetString("start_datetime", ""),
		EndDateTime:   req.GetString("end_datetime", ""),
		WhoID:         req.GetString("who_id", ""),
	}
	fields := payload.Fields()
	if len(fields) == 0 {
		return mcp.NewToolResultError("invalid input: no fields to update"), nil
	}

	if err := t.svc.UpdateAppointment(ctx, eventID, fields); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success", "event_id": eventID})
}

func (t *Tools) handleDeleteAppointment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	eventID, err := req.RequireString("event_id")
	if err != nil {
		return invalidInput(err)
	}

	if err := t.svc.DeleteAppointment(ctx, eventID); err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"status": "success"})
}

func (t *Tools) handleListAppointments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 10)
	where := req.GetString("where", "")

	records, err := t.svc.ListAppointments(ctx, limit, where)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(records)
}
