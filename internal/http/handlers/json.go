package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"recruitflow/internal/common"
)

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return common.NewValidationError("invalid request body", map[string]string{"body": err.Error()})
	}
	return nil
}

// idFromPath extracts the UUID path segment at the given index after
// trimming slashes (e.g. index 1 for /applications/{id}/status).
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) {
		return "", common.NewValidationError("missing id in path", nil)
	}
	parsed, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid application id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func segmentFromPath(r *http.Request, index int) string {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) {
		return ""
	}
	return parts[index]
}
