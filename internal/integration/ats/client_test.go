package ats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"recruitflow/internal/domain/application"
)

func sampleCandidate() application.CandidateData {
	return application.CandidateData{
		FullName: "Ivan Petrov",
		Contacts: application.Contacts{
			Phone:            "+1234567890",
			Email:            "ivan@example.com",
			TelegramUsername: "ivan_petrov",
			TgID:             42,
		},
		ProfessionalInfo: application.ProfessionalInfo{
			Level:      "Middle",
			Skills:     "Go, PostgreSQL, Docker, gRPC",
			Experience: "Built three production services over four years.",
		},
		Source: "telegram_bot",
	}
}

func TestSubmitNewSuccess(t *testing.T) {
	var gotKey string
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotPath = r.URL.Path

		var req submitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "101", req.VacancyID)
		require.Equal(t, "Ivan Petrov", req.Candidate.FullName)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ext-777"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 1)
	ref, err := client.SubmitNew(context.Background(), "101", sampleCandidate(), "key-abc")
	require.NoError(t, err)
	require.Equal(t, "ext-777", ref)
	require.Equal(t, "key-abc", gotKey)
	require.Equal(t, "/api/applications", gotPath)
}

func TestSubmitNewRejectsNonCreated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"ext-777"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 0)
	_, err := client.SubmitNew(context.Background(), "101", sampleCandidate(), "key-abc")

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	require.Equal(t, http.StatusOK, syncErr.StatusCode)
}

func TestSubmitNewRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"  "}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 0)
	_, err := client.SubmitNew(context.Background(), "101", sampleCandidate(), "key-abc")

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
}

func TestSubmitNewRetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"ext-2"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 1)
	ref, err := client.SubmitNew(context.Background(), "101", sampleCandidate(), "key-abc")
	require.NoError(t, err)
	require.Equal(t, "ext-2", ref)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubmitNewGivesUpAfterRetryBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 1)
	_, err := client.SubmitNew(context.Background(), "101", sampleCandidate(), "key-abc")

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	require.Equal(t, http.StatusInternalServerError, syncErr.StatusCode)
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSubmitNewNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, &http.Client{Timeout: time.Second}, 1)
	_, err := client.SubmitNew(context.Background(), "101", sampleCandidate(), "key-abc")

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
}

func TestPushStatusSuccess(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method

		var req statusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "invited", req.Status)
		require.Equal(t, "555", req.RecruiterID)
		require.Nil(t, req.Reason)

		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 0)
	err := client.PushStatus(context.Background(), "ext-777", application.StatusInvited, 555, "")
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/api/applications/ext-777/status", gotPath)
}

func TestPushStatusSendsReason(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Reason)
		require.Equal(t, "position closed", *req.Reason)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 0)
	err := client.PushStatus(context.Background(), "ext-777", application.StatusRejected, 555, "position closed")
	require.NoError(t, err)
}

func TestPushStatusRemoteMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 0)
	err := client.PushStatus(context.Background(), "ext-gone", application.StatusInvited, 555, "")
	require.ErrorIs(t, err, ErrRemoteMissing)
}

func TestPushStatusUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad status"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), 0)
	err := client.PushStatus(context.Background(), "ext-777", application.StatusInvited, 555, "")

	var syncErr *SyncError
	require.ErrorAs(t, err, &syncErr)
	require.Equal(t, http.StatusUnprocessableEntity, syncErr.StatusCode)
	require.NotErrorIs(t, err, ErrRemoteMissing)
}

func TestPushStatusEmptyRef(t *testing.T) {
	client := NewClient("http://localhost:1", http.DefaultClient, 0)
	err := client.PushStatus(context.Background(), "  ", application.StatusInvited, 555, "")

	var syncErr *SyncError
	require.True(t, errors.As(err, &syncErr))
}
