package salesforce

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// Service is the higher-level CRUD surface over Salesforce records. This
// is the entire interface the tool layer is allowed to call.
type Service interface {
	// Contacts
	CreateContact(ctx context.Context, fields model.FieldMap) (string, error)
	GetContact(ctx context.Context, contactID string) (model.Record, error)
	UpdateContact(ctx context.Context, contactID string, fields model.FieldMap) error
	DeleteContact(ctx context.Context, contactID string) error
	ListContacts(ctx context.Context, limit int, where string) ([]model.Record, error)

	// Appointments (sObject: Event)
	CreateAppointment(ctx context.Context, fields model.FieldMap) (string, error)
	GetAppointment(ctx context.Context, eventID string) (model.Record, error)
	UpdateAppointment(ctx context.Context, eventID string, fields model.FieldMap) error
	DeleteAppointment(ctx context.Context, eventID string) error
	ListAppointments(ctx context.Context, limit int, where string) ([]model.Record, error)

	// Query runs a raw SOQL query via /query.
	Query(ctx context.Context, soql string) (*model.QueryResult, error)
}

// recordService is the concrete implementation that uses Client.
type recordService struct {
	client Client
}

// NewService constructs a Service.
func NewService(client Client) Service {
	return &recordService{client: client}
}

const defaultListLimit = 10

func (s *recordService) Query(ctx context.Context, soql string) (*model.QueryResult, error) {
	params := url.Values{}
	params.Set("q", soql)

	data, err := s.client.Get(ctx, "/query", params)
	if err != nil {
		return nil, err
	}
	var result model.QueryResult
	if err := model.JSONUnmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode query result: %w", err)
	}
	return &result, nil
}

// create posts a full field payload to the sobject collection and returns
// the new record's identifier.
func (s *recordService) create(ctx context.Context, objectType model.SObjectType, fields model.FieldMap) (string, error) {
	data, err := s.client.Post(ctx, fmt.Sprintf("/sobjects/%s", objectType), fields)
	if err != nil {
		return "", err
	}
	var ref model.SObjectRef
	if err := model.JSONUnmarshal(data, &ref); err != nil {
		return "", fmt.Errorf("failed to decode create response: %w", err)
	}
	return ref.ID, nil
}

func (s *recordService) get(ctx context.Context, objectType model.SObjectType, id string) (model.Record, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf("/sobjects/%s/%s", objectType, id), nil)
	if err != nil {
		return nil, err
	}
	var record model.Record
	if err := model.JSONUnmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return record, nil
}

func (s *recordService) update(ctx context.Context, objectType model.SObjectType, id string, fields model.FieldMap) error {
	_, err := s.client.Patch(ctx, fmt.Sprintf("/sobjects/%s/%s", objectType, id), fields)
	return err
}

func (s *recordService) delete(ctx context.Context, objectType model.SObjectType, id string) error {
	return s.client.Delete(ctx, fmt.Sprintf("/sobjects/%s/%s", objectType, id))
}

// buildListQuery composes the SOQL for a List operation. Ordering is a
// fixed recency sort per object type; the remote side's ordering within
// that is passed through untouched.
func buildListQuery(fields []string, objectType model.SObjectType, where, orderBy string, limit int) string {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(fields, ", "), objectType)
	if where != "" {
		fmt.Fprintf(&b, " WHERE %s", where)
	}
	fmt.Fprintf(&b, " ORDER BY %s DESC LIMIT %d", orderBy, limit)
	return b.String()
}
