package model

import (
	"encoding/json"
	"time"
)

// JSONUnmarshal is a small indirection so callers outside this package
// do not import encoding/json just to decode API payloads.
func JSONUnmarshal(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// ----------------------------------------------------------------------
// Salesforce record types
// ----------------------------------------------------------------------

// SObjectType names a Salesforce object this client operates on.
type SObjectType string

const (
	SObjectContact SObjectType = "Contact"
	SObjectEvent   SObjectType = "Event"
)

// FieldMap carries record fields by Salesforce API name. The client never
// interprets these beyond passing them through; the remote store is the
// sole source of truth for their meaning.
type FieldMap map[string]interface{}

// Record is a record representation returned by Salesforce. Field names
// are whatever the remote side sent, plus the "attributes" envelope.
type Record FieldMap

// ID returns the record's opaque identifier, or "" when absent.
func (r Record) ID() string {
	if id, ok := r["Id"].(string); ok {
		return id
	}
	return ""
}

// SObjectRef is the acknowledgment Salesforce returns for a create.
type SObjectRef struct {
	ID      string        `json:"id"`
	Success bool          `json:"success"`
	Errors  []interface{} `json:"errors"`
}

// QueryResult is the envelope of a SOQL /query response.
type QueryResult struct {
	TotalSize int      `json:"totalSize"`
	Done      bool     `json:"done"`
	Records   []Record `json:"records"`
}

// ----------------------------------------------------------------------
// OAuth token state
// ----------------------------------------------------------------------

// AccessToken is the current bearer credential for record-endpoint calls.
// No expiry is tracked: Salesforce does not reliably advertise one, so
// validity is discovered only by use. Values are replaced on refresh,
// never mutated.
type AccessToken struct {
	Value       string
	Type        string
	InstanceURL string
	AcquiredAt  time.Time
}

// ----------------------------------------------------------------------
// Request payload models (validated by the tools layer before they reach
// the client, mirroring the remote API field names)
// ----------------------------------------------------------------------

// ContactPayload is the full field set for creating a Contact.
type ContactPayload struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"required"`
	Email     string `validate:"required,email"`
}

// Fields converts the payload to the passthrough form the client accepts.
func (p ContactPayload) Fields() FieldMap {
	return FieldMap{
		"FirstName": p.FirstName,
		"LastName":  p.LastName,
		"Phone":     p.Phone,
		"Email":     p.Email,
	}
}

// ContactUpdatePayload is a partial Contact field set. Empty fields are
// omitted from the update.
type ContactUpdatePayload struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string `validate:"omitempty,email"`
}

// Fields returns only the fields that were provided.
func (p ContactUpdatePayload) Fields() FieldMap {
	fields := FieldMap{}
	if p.FirstName != "" {
		fields["FirstName"] = p.FirstName
	}
	if p.LastName != "" {
		fields["LastName"] = p.LastName
	}
	if p.Phone != "" {
		fields["Phone"] = p.Phone
	}
	if p.Email != "" {
		fields["Email"] = p.Email
	}
	return fields
}

// AppointmentPayload is the full field set for creating an Event.
// Datetimes are ISO-8601 with a timezone offset; WhoId links the event to
// a Contact.
type AppointmentPayload struct {
	Subject       string `validate:"required"`
	StartDateTime string `validate:"required"`
	EndDateTime   string `validate:"required"`
	WhoID         string `validate:"required"`
}

// Fields converts the payload to the passthrough form the client accepts.
func (p AppointmentPayload) Fields() FieldMap {
	return FieldMap{
		"Subject":       p.Subject,
		"StartDateTime": p.StartDateTime,
		"EndDateTime":   p.EndDateTime,
		"WhoId":         p.WhoID,
	}
}

// AppointmentUpdatePayload is a partial Event field set. Empty fields are
// omitted from the update.
type AppointmentUpdatePayload struct {
	Subject       string
	StartDateTime string
	EndDateTime   string
	WhoID         string
}

// Fields returns only the fields that were provided.
func (p AppointmentUpdatePayload) Fields() FieldMap {
	fields := FieldMap{}
	if p.Subject != "" {
		fields["Subject"] = p.Subject
	}
	if p.StartDateTime != "" {
		fields["StartDateTime"] = p.StartDateTime
	}
	if p.EndDateTime != "" {
		fields["EndDateTime"] = p.EndDateTime
	}
	if p.WhoID != "" {
		fields["WhoId"] = p.WhoID
	}
	return fields
}
