package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/models"
)

func openJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	journal, err := OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { journal.Close() })
	return journal
}

func TestClient_SubmitJournalsAndPosts(t *testing.T) {
	var gotID string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/submit", r.URL.Path)
		gotID = r.Header.Get("X-Submission-ID")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"message": "Application submitted successfully",
			"data":    map[string]string{"submission_id": gotID},
		})
	}))
	defer srv.Close()

	journal := openJournal(t)
	c := New(srv.URL, WithJournal(journal))

	ack, err := c.Submit(context.Background(), models.AnswerSet{"full_name": "Asha Rao", "tech_skills": []string{"AI/ML"}})
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
	assert.Equal(t, gotID, ack.SubmissionID)
	assert.Equal(t, "Application submitted successfully", ack.Message)
	assert.Equal(t, "Asha Rao", gotBody["full_name"])

	entries, err := journal.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, gotID, entries[0].SubmissionID)
	assert.Equal(t, "Asha Rao", entries[0].Answers["full_name"])
}

func TestClient_SubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"Failed to save your response. Please try again."}`))
	}))
	defer srv.Close()

	journal := openJournal(t)
	c := New(srv.URL, WithJournal(journal))

	_, err := c.Submit(context.Background(), models.AnswerSet{"full_name": "Asha"})
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, ReasonServer, submitErr.Reason)
	assert.Equal(t, http.StatusInternalServerError, submitErr.Status)
	assert.Equal(t, "Failed to save your response. Please try again.", submitErr.Message)

	entries, err := journal.Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "journal is written before the request")
}

func TestClient_SubmitNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Submit(context.Background(), models.AnswerSet{"full_name": "Asha"})
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, ReasonNetwork, submitErr.Reason)
}

type brokenJournal struct{}

func (brokenJournal) Append(context.Context, JournalEntry) error { return errors.New("disk full") }
func (brokenJournal) Entries(context.Context) ([]JournalEntry, error) {
	return nil, errors.New("disk full")
}
func (brokenJournal) Close() error { return nil }

func TestClient_JournalFailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	ack, err := New(srv.URL, WithJournal(brokenJournal{})).Submit(context.Background(), models.AnswerSet{})
	require.NoError(t, err)
	assert.NotEmpty(t, ack.SubmissionID)
}

func TestClient_LoginThenFetchResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/auth/check":
			var req map[string]string
			json.NewDecoder(r.Body).Decode(&req)
			if req["password"] != "open-sesame" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"Incorrect password"}`))
				return
			}
			w.Write([]byte(`{"success":true,"token":"tok-1","expires_at":"2025-02-01T18:00:00Z"}`))
		case "/api/v1/responses":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"success":true,"data":[{"roll_number":"1608-25-733-019","tech_response_score":"9","social_response_score":null,"why_join":"x"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "wrong")
	var submitErr *SubmitError
	require.ErrorAs(t, err, &submitErr)
	assert.Equal(t, http.StatusUnauthorized, submitErr.Status)
	assert.Equal(t, "Incorrect password", submitErr.Message)

	session, err := c.Login(context.Background(), "open-sesame")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.Token)
	assert.Equal(t, "tok-1", c.Token())

	records, err := c.FetchResponses(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "1608-25-733-019", records[0].Identity[models.FieldRollNumber])
	require.NotNil(t, records[0].Scores["tech_response_score"])
	assert.Equal(t, "9", *records[0].Scores["tech_response_score"])
	assert.Nil(t, records[0].Scores["social_response_score"])
	assert.Equal(t, "x", records[0].Fields["why_join"])
}

func TestClient_CheckRollNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		exists := req["roll_number"] == "1608-25-733-019"
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "exists": exists})
	}))
	defer srv.Close()

	c := New(srv.URL)
	exists, err := c.CheckRollNumber(context.Background(), "1608-25-733-019")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.CheckRollNumber(context.Background(), "1608-25-733-020")
	require.NoError(t, err)
	assert.False(t, exists)
}
