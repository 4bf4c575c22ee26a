package salesforce

import (
	"context"

	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// This file covers the Contact operations.

var contactListFields = []string{"Id", "FirstName", "LastName", "Phone", "Email"}

// CreateContact submits a full Contact payload and returns the new Id.
func (s *recordService) CreateContact(ctx context.Context, fields model.FieldMap) (string, error) {
	return s.create(ctx, model.SObjectContact, fields)
}

// GetContact fetches a Contact by Id.
func (s *recordService) GetContact(ctx context.Context, contactID string) (model.Record, error) {
	return s.get(ctx, model.SObjectContact, contactID)
}

// UpdateContact applies a partial field payload to an existing Contact.
func (s *recordService) UpdateContact(ctx context.Context, contactID string, fields model.FieldMap) error {
	return s.update(ctx, model.SObjectContact, contactID, fields)
}

// DeleteContact removes a Contact by Id. Deleting an already-deleted Id
// surfaces NotFoundError, not success.
func (s *recordService) DeleteContact(ctx context.Context, contactID string) error {
	return s.delete(ctx, model.SObjectContact, contactID)
}

// ListContacts returns up to limit recent Contacts, optionally narrowed
// by a SOQL where clause.
func (s *recordService) ListContacts(ctx context.Context, limit int, where string) ([]model.Record, error) {
	soql := buildListQuery(contactListFields, model.SObjectContact, where, "CreatedDate", limit)
	result, err := s.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}
