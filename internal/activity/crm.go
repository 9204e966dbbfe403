package activity

import (
	"context"
	"fmt"

	"github.com/edvin/mailorg/internal/crm"
)

// Tag purposes the workflows apply. The activity maps each purpose to
// the tag ID configured for the CRM account, keeping account-specific
// IDs out of workflow history.
const (
	TagPending   = "pending"
	TagComplete  = "complete"
	TagCancelled = "cancelled"
)

// TagIDs holds the configured CRM tag ID for each purpose.
type TagIDs struct {
	Pending   int64
	Complete  int64
	Cancelled int64
}

// CRM contains activities that update the contact record.
type CRM struct {
	client *crm.Client
	tags   TagIDs
}

// NewCRM creates a new CRM activity struct.
func NewCRM(client *crm.Client, tags TagIDs) *CRM {
	return &CRM{client: client, tags: tags}
}

// CreateNoteParams holds the parameters for CRMCreateNote.
type CreateNoteParams struct {
	ContactID int64  `json:"contact_id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
}

// CRMCreateNote attaches a note to the contact.
func (a *CRM) CRMCreateNote(ctx context.Context, params CreateNoteParams) error {
	return a.client.CreateNote(ctx, params.ContactID, params.Title, params.Text)
}

// ApplyTagParams holds the parameters for CRMApplyTag.
type ApplyTagParams struct {
	ContactID int64  `json:"contact_id"`
	Tag       string `json:"tag"`
}

// CRMApplyTag applies the tag named by purpose to the contact.
func (a *CRM) CRMApplyTag(ctx context.Context, params ApplyTagParams) error {
	var tagID int64
	switch params.Tag {
	case TagPending:
		tagID = a.tags.Pending
	case TagComplete:
		tagID = a.tags.Complete
	case TagCancelled:
		tagID = a.tags.Cancelled
	default:
		return fmt.Errorf("unknown tag purpose %q", params.Tag)
	}
	if tagID == 0 {
		return nil
	}
	return a.client.ApplyTag(ctx, params.ContactID, tagID)
}

// UpdateCustomFieldsParams holds the parameters for CRMUpdateCustomFields.
// Field values may include the mailbox credential; they are forwarded
// and never logged.
type UpdateCustomFieldsParams struct {
	ContactID int64             `json:"contact_id"`
	Fields    []crm.CustomField `json:"fields"`
}

// CRMUpdateCustomFields patches the contact's custom fields.
func (a *CRM) CRMUpdateCustomFields(ctx context.Context, params UpdateCustomFieldsParams) error {
	return a.client.UpdateCustomFields(ctx, params.ContactID, params.Fields)
}
