package sitesync

import (
	"encoding/json"
	"errors"
	"fmt"

	"sitecms/internal/model"
)

var (
	// ErrNewSystem means the endpoint has nothing stored yet.
	ErrNewSystem = errors.New("sitesync: endpoint reports a new system")
	// ErrNoContent means the response object carries none of the content keys.
	ErrNoContent = errors.New("sitesync: response carries no content keys")
	// ErrMalformed means the response body is not a JSON object.
	ErrMalformed = errors.New("sitesync: malformed response body")
)

// ServerError is a failure reported by the persistence endpoint, either through a
// non-2xx status or an "error" key in the body.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("sitesync: server returned %d: %s", e.StatusCode, e.Message)
}

// Reconcile overlays every top-level key of raw onto defaults. Keys raw does not define
// keep the default value. The merge is shallow: a key present in raw replaces the whole
// default subtree, so fields added inside an existing object are not back-filled.
func Reconcile(defaults model.SiteContent, raw map[string]json.RawMessage) (model.SiteContent, error) {
	b, err := json.Marshal(defaults)
	if err != nil {
		return model.SiteContent{}, fmt.Errorf("encode defaults: %w", err)
	}
	merged := make(map[string]json.RawMessage, len(model.ContentKeys))
	if err := json.Unmarshal(b, &merged); err != nil {
		return model.SiteContent{}, fmt.Errorf("decode defaults: %w", err)
	}
	for k, v := range raw {
		merged[k] = v
	}

	b, err = json.Marshal(merged)
	if err != nil {
		return model.SiteContent{}, fmt.Errorf("encode merged document: %w", err)
	}
	var out model.SiteContent
	if err := json.Unmarshal(b, &out); err != nil {
		return model.SiteContent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

// classify decides whether a decoded GET body is usable site content.
func classify(obj map[string]json.RawMessage) error {
	if msg, ok := obj["error"]; ok {
		return &ServerError{StatusCode: 200, Message: errorMessage(msg)}
	}
	if s, ok := obj["status"]; ok {
		var status string
		if json.Unmarshal(s, &status) == nil && status == model.StatusNewSystem {
			return ErrNewSystem
		}
	}
	for _, k := range model.ContentKeys {
		if _, ok := obj[k]; ok {
			return nil
		}
	}
	return ErrNoContent
}

// errorMessage extracts a human-readable message from an "error" value, which is either
// a plain string or an object with a "message" field.
func errorMessage(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var env struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &env) == nil && env.Message != "" {
		return env.Message
	}
	return string(raw)
}
