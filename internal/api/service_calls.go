package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const (
	defaultJournalLimit = 50
	maxJournalLimit     = 200
)

// serviceCallEntry is one journaled service call.
type serviceCallEntry struct {
	ID       int64          `json:"id"`
	Service  string         `json:"service"`
	Data     map[string]any `json:"data,omitempty"`
	CalledAt string         `json:"called_at"`
}

// handleListServiceCalls returns the most recent service calls, newest
// first.
func (s *Server) handleListServiceCalls(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "service call journal not configured")
		return
	}

	limit, err := parseJournalLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	calls, err := s.journal.ServiceCalls(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list service calls", "error", err)
		writeInternalError(w, "failed to list service calls")
		return
	}

	entries := make([]serviceCallEntry, 0, len(calls))
	for _, c := range calls {
		entries = append(entries, serviceCallEntry{
			ID:       c.ID,
			Service:  c.Call.Name(),
			Data:     c.Call.Data,
			CalledAt: c.CalledAt.UTC().Format(time.RFC3339Nano),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service_calls": entries,
		"count":         len(entries),
	})
}

func parseJournalLimit(raw string) (int, error) {
	if raw == "" {
		return defaultJournalLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if limit > maxJournalLimit {
		limit = maxJournalLimit
	}
	return limit, nil
}
