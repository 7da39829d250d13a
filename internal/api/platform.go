package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/nerrad567/gray-logic-alice/internal/handler"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// handlePlatformCheck answers the platform availability check.
func (s *Server) handlePlatformCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// platformAction returns the endpoint answering action. The response is
// always the platform envelope with status 200. A response that cannot be
// encoded is replaced with INTERNAL_ERROR.
func (s *Server) platformAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		req := handler.Request{
			RequestID: requestIDFromContext(ctx),
			UserID:    userIDFromContext(ctx),
		}

		if r.Body != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				writeBadRequest(w, "failed to read request body")
				return
			}
			req.Body = body
		}

		resp := s.handler.HandleRequest(ctx, action, req)
		body, err := json.Marshal(resp)
		if err != nil {
			s.logger.Error("failed to encode platform response",
				"action", action,
				"request_id", req.RequestID,
				"error", err,
			)
			body, _ = json.Marshal(schema.Response{ //nolint:errcheck // fixed shape always encodes
				RequestID: resp.RequestID,
				Payload:   schema.ErrorPayload{ErrorCode: schema.CodeInternalError},
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body) //nolint:errcheck // connection may be closed
	}
}
