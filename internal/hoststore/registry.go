package hoststore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nerrad567/gray-logic-alice/internal/host"
)

// PutEntity creates or replaces an entity registry record.
func (s *Store) PutEntity(ctx context.Context, e host.EntityEntry) error {
	if e.EntityID == "" {
		return ErrInvalidEntry
	}
	aliases, err := encodeAliases(e.Aliases)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO entities (entity_id, name, original_name, aliases, area_id, device_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.EntityID, e.Name, e.OriginalName, aliases, e.AreaID, e.DeviceID)
	if err != nil {
		return fmt.Errorf("writing entity %s: %w", e.EntityID, err)
	}
	return nil
}

// PutDevice creates or replaces a device registry record.
func (s *Store) PutDevice(ctx context.Context, d host.DeviceEntry) error {
	if d.ID == "" {
		return ErrInvalidEntry
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO devices (id, name, manufacturer, model, hw_version, sw_version, area_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Manufacturer, d.Model, d.HWVersion, d.SWVersion, d.AreaID)
	if err != nil {
		return fmt.Errorf("writing device %s: %w", d.ID, err)
	}
	return nil
}

// PutArea creates or replaces an area registry record.
func (s *Store) PutArea(ctx context.Context, a host.AreaEntry) error {
	if a.ID == "" {
		return ErrInvalidEntry
	}
	aliases, err := encodeAliases(a.Aliases)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT OR REPLACE INTO areas (id, name, aliases) VALUES (?, ?, ?)`,
		a.ID, a.Name, aliases)
	if err != nil {
		return fmt.Errorf("writing area %s: %w", a.ID, err)
	}
	return nil
}

// Entity implements host.Registry.
func (s *Store) Entity(ctx context.Context, entityID string) (*host.EntityEntry, error) {
	var e host.EntityEntry
	var aliases string
	err := s.db.QueryRowContext(ctx, `
		SELECT entity_id, name, original_name, aliases, area_id, device_id
		FROM entities WHERE entity_id = ?`, entityID).
		Scan(&e.EntityID, &e.Name, &e.OriginalName, &aliases, &e.AreaID, &e.DeviceID)
	if err != nil {
		return nil, notFound(err, "entity", entityID)
	}
	if e.Aliases, err = decodeAliases(aliases); err != nil {
		return nil, fmt.Errorf("entity %s: %w", entityID, err)
	}
	return &e, nil
}

// Device implements host.Registry.
func (s *Store) Device(ctx context.Context, id string) (*host.DeviceEntry, error) {
	var d host.DeviceEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, manufacturer, model, hw_version, sw_version, area_id
		FROM devices WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.Manufacturer, &d.Model, &d.HWVersion, &d.SWVersion, &d.AreaID)
	if err != nil {
		return nil, notFound(err, "device", id)
	}
	return &d, nil
}

// Area implements host.Registry.
func (s *Store) Area(ctx context.Context, id string) (*host.AreaEntry, error) {
	var a host.AreaEntry
	var aliases string
	err := s.db.QueryRowContext(ctx, `SELECT id, name, aliases FROM areas WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &aliases)
	if err != nil {
		return nil, notFound(err, "area", id)
	}
	if a.Aliases, err = decodeAliases(aliases); err != nil {
		return nil, fmt.Errorf("area %s: %w", id, err)
	}
	return &a, nil
}

func notFound(err error, kind, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", host.ErrNotFound, kind, id)
	}
	return fmt.Errorf("querying %s %s: %w", kind, id, err)
}

func encodeAliases(aliases []string) (string, error) {
	if aliases == nil {
		aliases = []string{}
	}
	data, err := json.Marshal(aliases)
	if err != nil {
		return "", fmt.Errorf("encoding aliases: %w", err)
	}
	return string(data), nil
}

func decodeAliases(s string) ([]string, error) {
	var aliases []string
	if err := json.Unmarshal([]byte(s), &aliases); err != nil {
		return nil, fmt.Errorf("decoding aliases: %w", err)
	}
	if len(aliases) == 0 {
		return nil, nil
	}
	return aliases, nil
}
