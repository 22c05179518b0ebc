package client

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"
)

// Lifecycle validation failures happen before any network call is made.
var (
	ErrStaffIDRequired = errors.New("staff id is required")
	ErrNoteBodyEmpty   = errors.New("note body must not be empty")
	ErrNoteBodyTooLong = errors.New("note body must not exceed 2000 characters")
)

const maxNoteBodyLen = 2000

// UpdateStatus overwrites the request's status. Resolution notes are
// attached only when non-empty after trimming. On success the canonical
// request is refetched from the server; on failure nothing local changes
// and the error carries the server's detail.
func (c *Client) UpdateStatus(ctx context.Context, id, status, resolutionNotes string) (*Request, error) {
	body := map[string]any{"status": status}
	if trimmed := strings.TrimSpace(resolutionNotes); trimmed != "" {
		body["resolution_notes"] = trimmed
	}

	if _, err := c.UpdateRequest(ctx, id, body); err != nil {
		return nil, err
	}
	return c.GetRequest(ctx, id)
}

// AssignStaff appends one assignment for the given staff member. The notes
// key is omitted entirely when blank.
func (c *Client) AssignStaff(ctx context.Context, id, staffID, notes string) (*Request, error) {
	if strings.TrimSpace(staffID) == "" {
		return nil, ErrStaffIDRequired
	}

	body := map[string]any{"staff_id": staffID}
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		body["notes"] = trimmed
	}

	if _, err := c.assignStaff(ctx, id, body); err != nil {
		return nil, err
	}
	return c.GetRequest(ctx, id)
}

// AddNote appends a communication note. Tenant notes are always attributed
// to the request's own tenant, never to a caller-supplied tenant id; staff
// notes are attributed to staffID.
func (c *Client) AddNote(ctx context.Context, req *Request, authorType, staffID, authorName, body string) (*Request, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrNoteBodyEmpty
	}
	if utf8.RuneCountInString(body) > maxNoteBodyLen {
		return nil, ErrNoteBodyTooLong
	}

	authorID := staffID
	if authorType == "tenant" {
		authorID = req.TenantID
	}

	payload := map[string]any{
		"author_type": authorType,
		"author_id":   authorID,
		"author_name": authorName,
		"body":        body,
	}

	if _, err := c.addNote(ctx, req.ID, payload); err != nil {
		return nil, err
	}
	return c.GetRequest(ctx, req.ID)
}

// CompleteAssignment marks the staff member's open assignment on the
// request as completed.
func (c *Client) CompleteAssignment(ctx context.Context, id, staffID string) (*Request, error) {
	if strings.TrimSpace(staffID) == "" {
		return nil, ErrStaffIDRequired
	}

	if _, err := c.completeAssignment(ctx, id, staffID); err != nil {
		return nil, err
	}
	return c.GetRequest(ctx, id)
}
