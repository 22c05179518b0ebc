package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func jsonHandler(t *testing.T, fn func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(fn))
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestListRequestsOmitsEmptyFilters(t *testing.T) {
	var query map[string][]string
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(t, w, http.StatusOK, []Request{})
	})

	c := New(srv.URL)
	_, err := c.ListRequests(context.Background(), RequestFilter{
		Status:     "OPEN",
		BuildingID: "b-1",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"OPEN"}, query["status"])
	require.Equal(t, []string{"b-1"}, query["building_id"])
	require.NotContains(t, query, "tenant_id")
	require.NotContains(t, query, "issue_type")
	require.NotContains(t, query, "priority")
}

func TestCreateRequestForcesOpenStatus(t *testing.T) {
	var body map[string]any
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/requests/", r.URL.Path)
		body = decodeBody(t, r)
		writeJSON(t, w, http.StatusCreated, Request{ID: "r-1", Status: "OPEN"})
	})

	c := New(srv.URL)
	got, err := c.CreateRequest(context.Background(), CreateRequestInput{
		TenantID:       "t-1",
		UnitID:         "u-1",
		BuildingID:     "b-1",
		IssueType:      "plumbing",
		Priority:       "HIGH",
		Description:    "Sink is leaking",
		Status:         "CLOSED", // caller attempts a shortcut
		TargetSLAHours: 72,
	})
	require.NoError(t, err)
	require.Equal(t, "r-1", got.ID)

	require.Equal(t, "OPEN", body["status"])
	// JSON numbers decode as float64; the wire value must still be integral.
	require.Equal(t, float64(72), body["target_sla_hours"])
}

func TestUpdateStatusOmitsBlankResolutionNotes(t *testing.T) {
	var putBody map[string]any
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			putBody = decodeBody(t, r)
			writeJSON(t, w, http.StatusOK, Request{ID: "r-1", Status: "CLOSED"})
		case http.MethodGet:
			writeJSON(t, w, http.StatusOK, Request{ID: "r-1", Status: "CLOSED"})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	c := New(srv.URL)
	got, err := c.UpdateStatus(context.Background(), "r-1", "CLOSED", "   ")
	require.NoError(t, err)
	require.Equal(t, "CLOSED", got.Status)

	require.Equal(t, "CLOSED", putBody["status"])
	require.NotContains(t, putBody, "resolution_notes")
}

func TestUpdateStatusTrimsResolutionNotes(t *testing.T) {
	var putBody map[string]any
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			putBody = decodeBody(t, r)
		}
		writeJSON(t, w, http.StatusOK, Request{ID: "r-1", Status: "CLOSED"})
	})

	c := New(srv.URL)
	_, err := c.UpdateStatus(context.Background(), "r-1", "CLOSED", "  replaced washer  ")
	require.NoError(t, err)
	require.Equal(t, "replaced washer", putBody["resolution_notes"])
}

func TestAssignStaffRequiresStaffID(t *testing.T) {
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	})

	c := New(srv.URL)
	_, err := c.AssignStaff(context.Background(), "r-1", "  ", "")
	require.ErrorIs(t, err, ErrStaffIDRequired)

	_, err = c.CompleteAssignment(context.Background(), "r-1", "")
	require.ErrorIs(t, err, ErrStaffIDRequired)
}

func TestAssignStaffOmitsBlankNotes(t *testing.T) {
	var postBody map[string]any
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.Equal(t, "/requests/r-1/assign", r.URL.Path)
			postBody = decodeBody(t, r)
		}
		writeJSON(t, w, http.StatusOK, Request{ID: "r-1", Status: "IN_PROGRESS"})
	})

	c := New(srv.URL)
	got, err := c.AssignStaff(context.Background(), "r-1", "s-1", "  ")
	require.NoError(t, err)
	require.Equal(t, "IN_PROGRESS", got.Status)

	require.Equal(t, "s-1", postBody["staff_id"])
	require.NotContains(t, postBody, "notes")
}

func TestAddNoteAttributesTenantToRequestTenant(t *testing.T) {
	var postBody map[string]any
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.Equal(t, "/requests/r-1/notes", r.URL.Path)
			postBody = decodeBody(t, r)
		}
		writeJSON(t, w, http.StatusOK, Request{ID: "r-1", TenantID: "t-9"})
	})

	c := New(srv.URL)
	req := &Request{ID: "r-1", TenantID: "t-9"}

	_, err := c.AddNote(context.Background(), req, "tenant", "s-ignored", "Dana Reyes", "Still leaking")
	require.NoError(t, err)
	require.Equal(t, "t-9", postBody["author_id"])
	require.Equal(t, "tenant", postBody["author_type"])

	_, err = c.AddNote(context.Background(), req, "staff", "s-1", "Lee Park", "On my way")
	require.NoError(t, err)
	require.Equal(t, "s-1", postBody["author_id"])
}

func TestAddNoteRejectsBadBodiesLocally(t *testing.T) {
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the server")
	})

	c := New(srv.URL)
	req := &Request{ID: "r-1", TenantID: "t-9"}

	_, err := c.AddNote(context.Background(), req, "tenant", "", "Dana", "   ")
	require.ErrorIs(t, err, ErrNoteBodyEmpty)

	_, err = c.AddNote(context.Background(), req, "tenant", "", "Dana", strings.Repeat("x", 2001))
	require.ErrorIs(t, err, ErrNoteBodyTooLong)
}

func TestAddNoteCapCountsCharactersNotBytes(t *testing.T) {
	var sent bool
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sent = true
		}
		writeJSON(t, w, http.StatusOK, Request{ID: "r-1", TenantID: "t-9"})
	})

	c := New(srv.URL)
	req := &Request{ID: "r-1", TenantID: "t-9"}

	// 1500 characters, 3000 bytes. Under the cap.
	_, err := c.AddNote(context.Background(), req, "tenant", "", "Dana", strings.Repeat("é", 1500))
	require.NoError(t, err)
	require.True(t, sent)

	_, err = c.AddNote(context.Background(), req, "tenant", "", "Dana", strings.Repeat("é", 2001))
	require.ErrorIs(t, err, ErrNoteBodyTooLong)
}

func TestCompleteAssignmentSendsStaffIDQueryParam(t *testing.T) {
	var staffParam string
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			require.Equal(t, "/requests/r-1/complete", r.URL.Path)
			staffParam = r.URL.Query().Get("staff_id")
		}
		writeJSON(t, w, http.StatusOK, Request{ID: "r-1", Status: "CLOSED"})
	})

	c := New(srv.URL)
	got, err := c.CompleteAssignment(context.Background(), "r-1", "s-1")
	require.NoError(t, err)
	require.Equal(t, "CLOSED", got.Status)
	require.Equal(t, "s-1", staffParam)
}

func TestGetRequestNormalizesUnderscoreID(t *testing.T) {
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id": "r-42", "status": "OPEN", "tenant_id": "t-1"}`))
	})

	c := New(srv.URL)
	got, err := c.GetRequest(context.Background(), "r-42")
	require.NoError(t, err)
	require.Equal(t, "r-42", got.ID)
	require.Equal(t, "OPEN", got.Status)
}

func TestAPIErrorCarriesServerDetail(t *testing.T) {
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{
			"code":   "not_found",
			"detail": "Request not found",
		})
	})

	c := New(srv.URL)
	_, err := c.GetRequest(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, IsNotFound(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Request not found", apiErr.Detail)
	require.Equal(t, "api error (status 404): Request not found", apiErr.Error())
}

func TestAPIErrorFlattensStructuredDetail(t *testing.T) {
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [{"msg": "issue_type is required"}, {"msg": "priority must be one of LOW, MEDIUM, HIGH, EMERGENCY"}]}`))
	})

	c := New(srv.URL)
	_, err := c.GetRequest(context.Background(), "r-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "issue_type is required; priority must be one of LOW, MEDIUM, HIGH, EMERGENCY", apiErr.Detail)
}

func TestAPIErrorFallsBackToStatusText(t *testing.T) {
	srv := jsonHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	c := New(srv.URL)
	_, err := c.GetRequest(context.Background(), "r-1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Bad Gateway", apiErr.Detail)
}
