package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coinkeep/coinkeep/internal/domain"
)

// appLockSettingsKey is the fixed namespaced key the app-lock settings
// record is stored under.
const appLockSettingsKey = "coinkeep.applock.settings"

// LoadAppLockSettings returns the stored app-lock settings record, or
// (nil, nil) when none has been saved yet. Implements domain.SettingsStore.
func (d *DB) LoadAppLockSettings() (*domain.AppLockSettings, error) {
	var value string
	err := d.db.QueryRow(
		`SELECT value FROM settings WHERE key = ?`, appLockSettingsKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil // Absence of a stored value is not an error
	}
	if err != nil {
		return nil, fmt.Errorf("load applock settings: %w", err)
	}

	var s domain.AppLockSettings
	if err := json.Unmarshal([]byte(value), &s); err != nil {
		return nil, fmt.Errorf("decode applock settings: %w", err)
	}
	return &s, nil
}

// SaveAppLockSettings replaces the stored app-lock settings record.
func (d *DB) SaveAppLockSettings(s domain.AppLockSettings) error {
	value, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode applock settings: %w", err)
	}
	_, err = d.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`,
		appLockSettingsKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("save applock settings: %w", err)
	}
	return nil
}
