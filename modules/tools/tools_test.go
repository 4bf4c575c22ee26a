package tools

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nh916/salesforce-healthcare-mcp/common"
	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// stubService records the last call and returns canned values.
type stubService struct {
	lastFields model.FieldMap
	lastID     string
	lastLimit  int
	lastWhere  string
	lastSOQL   string

	createID string
	record   model.Record
	records  []model.Record
	err      error
}

func (s *stubService) CreateContact(ctx context.Context, fields model.FieldMap) (string, error) {
	s.lastFields = fields
	return s.createID, s.err
}

func (s *stubService) GetContact(ctx context.Context, contactID string) (model.Record, error) {
	s.lastID = contactID
	return s.record, s.err
}

func (s *stubService) UpdateContact(ctx context.Context, contactID string, fields model.FieldMap) error {
	s.lastID = contactID
	s.lastFields = fields
	return s.err
}

func (s *stubService) DeleteContact(ctx context.Context, contactID string) error {
	s.lastID = contactID
	return s.err
}

func (s *stubService) ListContacts(ctx context.Context, limit int, where string) ([]model.Record, error) {
	s.lastLimit = limit
	s.lastWhere = where
	return s.records, s.err
}

func (s *stubService) CreateAppointment(ctx context.Context, fields model.FieldMap) (string, error) {
	s.lastFields = fields
	return s.createID, s.err
}

func (s *stubService) GetAppointment(ctx context.Context, eventID string) (model.Record, error) {
	s.lastID = eventID
	return s.record, s.err
}

func (s *stubService) UpdateAppointment(ctx context.Context, eventID string, fields model.FieldMap) error {
	s.lastID = eventID
	s.lastFields = fields
	return s.err
}

func (s *stubService) DeleteAppointment(ctx context.Context, eventID string) error {
	s.lastID = eventID
	return s.err
}

func (s *stubService) ListAppointments(ctx context.Context, limit int, where string) ([]model.Record, error) {
	s.lastLimit = limit
	s.lastWhere = where
	return s.records, s.err
}

func (s *stubService) Query(ctx context.Context, soql string) (*model.QueryResult, error) {
	s.lastSOQL = soql
	return &model.QueryResult{Done: true, Records: s.records}, s.err
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("expected text content, got %T", result.Content[0])
		return ""
	}
}

func TestHandleCreateContact(t *testing.T) {
	svc := &stubService{createID: "003NEW"}
	tl := NewTools(svc, nil)

	result, err := tl.handleCreateContact(context.Background(), callRequest(map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"phone":      "555-0100",
		"email":      "ada@example.com",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"Id":"003NEW"}`, resultText(t, result))
	assert.Equal(t, "Ada", svc.lastFields["FirstName"])
}

func TestHandleCreateContact_InvalidEmail(t *testing.T) {
	svc := &stubService{createID: "003NEW"}
	tl := NewTools(svc, nil)

	result, err := tl.handleCreateContact(context.Background(), callRequest(map[string]interface{}{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"phone":      "555-0100",
		"email":      "not-an-email",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	// the client must never be reached with a bad payload
	assert.Nil(t, svc.lastFields)
}

func TestHandleCreateContact_MissingRequired(t *testing.T) {
	svc := &stubService{}
	tl := NewTools(svc, nil)

	result, err := tl.handleCreateContact(context.Background(), callRequest(map[string]interface{}{
		"first_name": "Ada",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleUpdateContact_NoFields(t *testing.T) {
	svc := &stubService{}
	tl := NewTools(svc, nil)

	result, err := tl.handleUpdateContact(context.Background(), callRequest(map[string]interface{}{
		"contact_id": "003ABC",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleUpdateContact_PartialFields(t *testing.T) {
	svc := &stubService{}
	tl := NewTools(svc, nil)

	result, err := tl.handleUpdateContact(context.Background(), callRequest(map[string]interface{}{
		"contact_id": "003ABC",
		"phone":      "555-0123",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "003ABC", svc.lastID)
	assert.Equal(t, model.FieldMap{"Phone": "555-0123"}, svc.lastFields)
}

func TestHandleListContacts_PassesConstraints(t *testing.T) {
	svc := &stubService{records: []model.Record{{"Id": "003A"}}}
	tl := NewTools(svc, nil)

	result, err := tl.handleListContacts(context.Background(), callRequest(map[string]interface{}{
		"limit": float64(3),
		"where": "Email != null",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, 3, svc.lastLimit)
	assert.Equal(t, "Email != null", svc.lastWhere)
}

func TestHandleDeleteAppointment_NotFoundMapped(t *testing.T) {
	svc := &stubService{err: &common.NotFoundError{StatusCode: 404, Code: "NOT_FOUND", Message: "gone"}}
	tl := NewTools(svc, nil)

	result, err := tl.handleDeleteAppointment(context.Background(), callRequest(map[string]interface{}{
		"event_id": "00UMISSING",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not_found")
}

func TestHandleGetContact_AuthErrorMapped(t *testing.T) {
	svc := &stubService{err: &common.AuthError{Message: "session still invalid after token refresh"}}
	tl := NewTools(svc, nil)

	result, err := tl.handleGetContact(context.Background(), callRequest(map[string]interface{}{
		"contact_id": "003ABC",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "auth_error")
}

func TestHandleQuery(t *testing.T) {
	svc := &stubService{records: []model.Record{{"Id": "003A"}}}
	tl := NewTools(svc, nil)

	result, err := tl.handleQuery(context.Background(), callRequest(map[string]interface{}{
		"soql": "SELECT Id FROM Contact",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "SELECT Id FROM Contact", svc.lastSOQL)
}
