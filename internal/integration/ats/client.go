package ats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"recruitflow/internal/domain/application"
)

// ErrRemoteMissing marks a 404 from the status push: the external record
// does not exist, which means local and remote state have diverged.
var ErrRemoteMissing = errors.New("external application record missing")

// SyncError is any non-success response or malformed body from the ATS.
// Local state stays authoritative; callers log it for reconciliation.
type SyncError struct {
	Op         string
	StatusCode int
	Body       string
	cause      error
}

func (e *SyncError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("ats %s: %v", e.Op, e.cause)
	}
	return fmt.Sprintf("ats %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *SyncError) Unwrap() error {
	return e.cause
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
}

// NewClient wraps the ATS HTTP contract. The http.Client carries the
// bounded request timeout; retries is the extra-attempt budget for
// transient failures (network errors and 5xx).
func NewClient(baseURL string, httpClient *http.Client, retries int) *Client {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{baseURL: trimmed, httpClient: httpClient, retries: retries}
}

type submitRequest struct {
	VacancyID string                    `json:"vacancy_id"`
	Candidate application.CandidateData `json:"candidate"`
}

type submitResponse struct {
	ID string `json:"id"`
}

type statusRequest struct {
	Status      string  `json:"status"`
	RecruiterID string  `json:"recruiter_id"`
	Reason      *string `json:"reason"`
}

// SubmitNew posts a finalized application. Only a 201 with a non-empty id
// counts as success; the idempotency key makes a retried call safe against
// the ATS having silently accepted a previous attempt.
func (c *Client) SubmitNew(ctx context.Context, vacancyID string, candidate application.CandidateData, idempotencyKey string) (string, error) {
	payload := submitRequest{VacancyID: vacancyID, Candidate: candidate}
	status, body, err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/applications", payload, idempotencyKey)
	if err != nil {
		return "", &SyncError{Op: "submit", cause: err}
	}
	if status != http.StatusCreated {
		return "", &SyncError{Op: "submit", StatusCode: status, Body: truncate(body)}
	}
	var parsed submitResponse
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return "", &SyncError{Op: "submit", StatusCode: status, Body: truncate(body), cause: err}
	}
	if strings.TrimSpace(parsed.ID) == "" {
		return "", &SyncError{Op: "submit", StatusCode: status, Body: "response has no id"}
	}
	return parsed.ID, nil
}

// PushStatus relays a local status change. 200 and 204 are success; 404 is
// reported as ErrRemoteMissing so callers can log the divergence distinctly.
func (c *Client) PushStatus(ctx context.Context, externalRef string, newStatus application.Status, recruiterID int64, reason string) error {
	if strings.TrimSpace(externalRef) == "" {
		return &SyncError{Op: "push_status", cause: errors.New("external ref is empty")}
	}
	payload := statusRequest{
		Status:      strings.ToLower(string(newStatus)),
		RecruiterID: strconv.FormatInt(recruiterID, 10),
	}
	if reason != "" {
		payload.Reason = &reason
	}
	endpoint := c.baseURL + "/api/applications/" + externalRef + "/status"
	status, body, err := c.doJSON(ctx, http.MethodPatch, endpoint, payload, "")
	if err != nil {
		return &SyncError{Op: "push_status", cause: err}
	}
	switch status {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: ref %s", ErrRemoteMissing, externalRef)
	default:
		return &SyncError{Op: "push_status", StatusCode: status, Body: truncate(body)}
	}
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload any, idempotencyKey string) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
		if err != nil {
			return 0, "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			req.Header.Set("Idempotency-Key", idempotencyKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}
		payloadBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}
		if resp.StatusCode >= 500 && attempt < c.retries {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		return resp.StatusCode, string(payloadBytes), nil
	}
	return 0, "", lastErr
}

func truncate(body string) string {
	const max = 512
	if len(body) <= max {
		return body
	}
	return body[:max]
}
