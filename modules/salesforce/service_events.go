package salesforce

import (
	"context"

	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// This file covers appointment operations (sObject: Event).

var appointmentListFields = []string{"Id", "Subject", "StartDateTime", "EndDateTime", "WhoId"}

// CreateAppointment submits a full Event payload and returns the new Id.
func (s *recordService) CreateAppointment(ctx context.Context, fields model.FieldMap) (string, error) {
	return s.create(ctx, model.SObjectEvent, fields)
}

// GetAppointment fetches an Event by Id.
func (s *recordService) GetAppointment(ctx context.Context, eventID string) (model.Record, error) {
	return s.get(ctx, model.SObjectEvent, eventID)
}

// UpdateAppointment applies a partial field payload to an existing Event.
func (s *recordService) UpdateAppointment(ctx context.Context, eventID string, fields model.FieldMap) error {
	return s.update(ctx, model.SObjectEvent, eventID, fields)
}

// DeleteAppointment removes an Event by Id.
func (s *recordService) DeleteAppointment(ctx context.Context, eventID string) error {
	return s.delete(ctx, model.SObjectEvent, eventID)
}

// ListAppointments returns up to limit upcoming-or-recent Events ordered
// by start time, optionally narrowed by a SOQL where clause.
func (s *recordService) ListAppointments(ctx context.Context, limit int, where string) ([]model.Record, error) {
	soql := buildListQuery(appointmentListFields, model.SObjectEvent, where, "StartDateTime", limit)
	result, err := s.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}
