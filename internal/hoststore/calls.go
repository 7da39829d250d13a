package hoststore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/host"
)

// RecordedCall is a journaled service call.
type RecordedCall struct {
	ID       int64
	Call     host.ServiceCall
	CalledAt time.Time
}

// CallService implements host.ServiceCaller by journaling the call. It is
// the service sink when no broker is connected.
func (s *Store) CallService(ctx context.Context, call host.ServiceCall) error {
	data, err := json.Marshal(call.Data)
	if err != nil {
		return fmt.Errorf("encoding data of %s: %w", call.Name(), err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO service_calls (domain, service, data, called_at) VALUES (?, ?, ?, ?)`,
		call.Domain, call.Service, string(data), time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("recording %s: %w", call.Name(), err)
	}
	s.logger.Debug("service call recorded", "service", call.Name())
	return nil
}

// ServiceCalls returns up to limit journaled calls, newest first.
func (s *Store) ServiceCalls(ctx context.Context, limit int) ([]RecordedCall, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, domain, service, data, called_at FROM service_calls
		ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying service calls: %w", err)
	}
	defer rows.Close()

	var calls []RecordedCall
	for rows.Next() {
		var rc RecordedCall
		var data, calledAt string
		if err := rows.Scan(&rc.ID, &rc.Call.Domain, &rc.Call.Service, &data, &calledAt); err != nil {
			return nil, fmt.Errorf("scanning service call: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &rc.Call.Data); err != nil {
			return nil, fmt.Errorf("decoding service call %d: %w", rc.ID, err)
		}
		rc.CalledAt, _ = time.Parse(timeFormat, calledAt) //nolint:errcheck // written by CallService
		calls = append(calls, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service calls: %w", err)
	}
	return calls, nil
}

// PruneServiceCalls deletes calls older than olderThan and returns how
// many were removed.
func (s *Store) PruneServiceCalls(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC().Format(timeFormat)
	res, err := s.db.ExecContext(ctx, `DELETE FROM service_calls WHERE called_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning service calls: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned service calls: %w", err)
	}
	return n, nil
}
