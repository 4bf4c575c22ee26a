// Package tools registers the Salesforce record operations as MCP tools.
// It is a pure invoker: input validation happens here, everything else is
// delegated to the salesforce.Service.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/nh916/salesforce-healthcare-mcp/common"
	"github.com/nh916/salesforce-healthcare-mcp/modules/salesforce"
)

// Tools wires a salesforce.Service into an MCP server.
type Tools struct {
	svc      salesforce.Service
	validate *validator.Validate
	logger   *zap.Logger
}

// NewTools constructs the tool set.
func NewTools(svc salesforce.Service, logger *zap.Logger) *Tools {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tools{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register adds every Salesforce tool to the server.
func (t *Tools) Register(s *server.MCPServer) {
	t.registerContactTools(s)
	t.registerAppointmentTools(s)

	s.AddTool(mcp.NewTool("salesforce_query",
		mcp.WithDescription("Run a raw SOQL query against Salesforce"),
		mcp.WithString("soql", mcp.Required(), mcp.Description("SOQL query string")),
	), t.handleQuery)
}

func (t *Tools) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	soql, err := req.RequireString("soql")
	if err != nil {
		return invalidInput(err)
	}

	result, err := t.svc.Query(ctx, soql)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(result)
}

// jsonResult marshals v as the tool's text payload.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult maps the client's error taxonomy onto tool errors. The
// classification is preserved in the message so callers can react to it.
func errorResult(err error) (*mcp.CallToolResult, error) {
	var kind string
	var authErr *common.AuthError
	var validationErr *common.ValidationError
	var notFoundErr *common.NotFoundError
	var rateErr *common.RateLimitedError
	var transportErr *common.TransportError

	switch {
	case errors.As(err, &authErr):
		kind = "auth_error"
	case errors.As(err, &validationErr):
		kind = "validation_error"
	case errors.As(err, &notFoundErr):
		kind = "not_found"
	case errors.As(err, &rateErr):
		kind = "rate_limited"
	case errors.As(err, &transportErr):
		kind = "transport_error"
	default:
		kind = "error"
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", kind, err)), nil
}

func invalidInput(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
}
