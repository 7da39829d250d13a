package hoststore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-alice/internal/host"
)

const keyDevicesDiscovered = "devices_discovered"

// timeFormat has fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite-backed host view.
type Store struct {
	db     *sql.DB
	logger Logger

	mu     sync.RWMutex
	states map[string]*host.State
}

// New creates a store over an open, migrated database.
func New(db *sql.DB) *Store {
	return &Store{
		db:     db,
		logger: noopLogger{},
		states: make(map[string]*host.State),
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	s.logger = logger
}

// ============================================================================
// States
// ============================================================================

// Load reads every stored state into the cache, replacing its contents.
func (s *Store) Load(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT entity_id, state, attributes, last_updated FROM states`)
	if err != nil {
		return fmt.Errorf("querying states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]*host.State)
	for rows.Next() {
		var st host.State
		var attrs, updated string
		if err := rows.Scan(&st.EntityID, &st.State, &attrs, &updated); err != nil {
			return fmt.Errorf("scanning state row: %w", err)
		}
		if err := json.Unmarshal([]byte(attrs), &st.Attributes); err != nil {
			s.logger.Warn("skipping state with invalid attributes", "entity_id", st.EntityID, "error", err)
			continue
		}
		if st.Attributes == nil {
			st.Attributes = map[string]any{}
		}
		st.LastUpdated, _ = time.Parse(timeFormat, updated) //nolint:errcheck // written by PutState
		states[st.EntityID] = &st
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating states: %w", err)
	}

	s.mu.Lock()
	s.states = states
	s.mu.Unlock()

	s.logger.Info("host states loaded", "count", len(states))
	return nil
}

// PutState writes st and updates the cache.
func (s *Store) PutState(ctx context.Context, st *host.State) error {
	if st == nil {
		return ErrNilState
	}
	if err := host.ValidateEntityID(st.EntityID); err != nil {
		return err
	}
	if st.LastUpdated.IsZero() {
		st.LastUpdated = time.Now()
	}
	attrs := st.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("encoding attributes of %s: %w", st.EntityID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO states (entity_id, state, attributes, last_updated) VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			state = excluded.state,
			attributes = excluded.attributes,
			last_updated = excluded.last_updated`,
		st.EntityID, st.State, string(data), st.LastUpdated.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("writing state of %s: %w", st.EntityID, err)
	}

	s.mu.Lock()
	s.states[st.EntityID] = copyState(st)
	s.mu.Unlock()
	return nil
}

// RemoveState deletes the state of entityID. Removing an unknown entity
// is not an error.
func (s *Store) RemoveState(ctx context.Context, entityID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM states WHERE entity_id = ?`, entityID); err != nil {
		return fmt.Errorf("deleting state of %s: %w", entityID, err)
	}
	s.mu.Lock()
	delete(s.states, entityID)
	s.mu.Unlock()
	return nil
}

// GetState implements host.StateReader. The returned state is a copy.
func (s *Store) GetState(_ context.Context, entityID string) (*host.State, error) {
	s.mu.RLock()
	st, ok := s.states[entityID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", host.ErrNotFound, entityID)
	}
	return copyState(st), nil
}

// States implements host.StateReader, sorted by entity id.
func (s *Store) States(_ context.Context) ([]*host.State, error) {
	s.mu.RLock()
	out := make([]*host.State, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, copyState(st))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out, nil
}

// StateCount returns the number of cached states.
func (s *Store) StateCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func copyState(st *host.State) *host.State {
	cp := host.NewState(st.EntityID, st.State, st.Attributes)
	cp.LastUpdated = st.LastUpdated
	return cp
}

// ============================================================================
// Entry data
// ============================================================================

// DevicesDiscovered implements host.EntryStore.
func (s *Store) DevicesDiscovered(ctx context.Context) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM entry_data WHERE key = ?`, keyDevicesDiscovered).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", keyDevicesDiscovered, err)
	}
	return value == "true", nil
}

// SetDevicesDiscovered implements host.EntryStore.
func (s *Store) SetDevicesDiscovered(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entry_data (key, value) VALUES (?, 'true')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, keyDevicesDiscovered)
	if err != nil {
		return fmt.Errorf("writing %s: %w", keyDevicesDiscovered, err)
	}
	return nil
}
