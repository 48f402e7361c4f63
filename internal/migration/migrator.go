// Package migration moves legacy single-key data from the fallback store
// into the relational collections, once per install. Applied migrations
// are tracked in a versioned ledger so new migrations can ship later
// without re-running old ones.
package migration

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"dentaltrack/internal/gateway"
	"dentaltrack/internal/kvstore"
)

// ledgerVersion is bumped when the ledger format itself changes.
const ledgerVersion = 1

// Migration IDs. Each role's legacy migration is its own step.
const (
	migrationLegacyParent    = "001_parent_legacy_data"
	migrationLegacyCaretaker = "002_caretaker_legacy_data"
	migrationLegacyChild     = "003_child_legacy_data"
)

type migration struct {
	id  string
	run func(m *Migrator) error
	// flags are the boolean completion keys older builds wrote for this
	// step. An install carrying one gets the step pre-applied, and the
	// flags are set again once it applies here.
	flags []string
}

// migrations run in order; each ID is recorded in the ledger once its
// run returns nil. A failed step aborts the whole run unrecorded, so the
// next Run retries it; steps stay safe to retry through the gateway's
// upsert and reuse-by-name semantics.
var migrations = []migration{
	{
		id:    migrationLegacyParent,
		run:   (*Migrator).migrateParentLegacyData,
		flags: []string{kvstore.KeyMigrationCompleted, kvstore.KeyParentMigrationCompleted},
	},
	{
		id:    migrationLegacyCaretaker,
		run:   (*Migrator).migrateCaretakerLegacyData,
		flags: []string{kvstore.KeyCaretakerMigrationCompleted},
	},
	{
		id:    migrationLegacyChild,
		run:   (*Migrator).migrateChildLegacyData,
		flags: []string{kvstore.KeyChildMigrationCompleted},
	},
}

type ledger struct {
	Version int      `json:"version"`
	Applied []string `json:"applied"`
}

func (l *ledger) has(id string) bool {
	for _, applied := range l.Applied {
		if applied == id {
			return true
		}
	}
	return false
}

// Migrator applies pending legacy-data migrations through the gateway.
type Migrator struct {
	gw    *gateway.Gateway
	store kvstore.Store
	log   zerolog.Logger
}

// New builds a Migrator over an initialized gateway.
func New(gw *gateway.Gateway, log zerolog.Logger) *Migrator {
	return &Migrator{gw: gw, store: gw.Store(), log: log}
}

// Run applies every migration not yet in the ledger, in order. The first
// failure stops the run; already-applied migrations keep their ledger
// entries, so a later Run picks up where this one stopped.
func (m *Migrator) Run() error {
	led, err := m.loadLedger()
	if err != nil {
		return fmt.Errorf("failed to load migration ledger: %w", err)
	}

	for _, mig := range migrations {
		if led.has(mig.id) {
			continue
		}

		m.log.Info().Str("migration", mig.id).Msg("applying migration")
		if err := mig.run(m); err != nil {
			return fmt.Errorf("migration %s failed: %w", mig.id, err)
		}

		led.Applied = append(led.Applied, mig.id)
		if err := m.saveLedger(led); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.id, err)
		}
		// Older builds gate on the boolean flags directly.
		for _, flag := range mig.flags {
			if err := m.store.Set(flag, "true"); err != nil {
				return fmt.Errorf("failed to set legacy migration flag %s: %w", flag, err)
			}
		}
	}
	return nil
}

// loadLedger reads the ledger, seeding it from the legacy completion
// flags when an install predates the ledger format.
func (m *Migrator) loadLedger() (*ledger, error) {
	raw, ok, err := m.store.Get(kvstore.KeyMigrationLedger)
	if err != nil {
		return nil, err
	}
	if ok {
		var led ledger
		if err := json.Unmarshal([]byte(raw), &led); err != nil {
			return nil, fmt.Errorf("corrupt migration ledger: %w", err)
		}
		return &led, nil
	}

	led := &ledger{Version: ledgerVersion}
	for _, mig := range migrations {
		for _, key := range mig.flags {
			flag, ok, err := m.store.Get(key)
			if err != nil {
				return nil, err
			}
			if ok && flag == "true" && !led.has(mig.id) {
				led.Applied = append(led.Applied, mig.id)
			}
		}
	}
	return led, nil
}

func (m *Migrator) saveLedger(led *ledger) error {
	data, err := json.Marshal(led)
	if err != nil {
		return err
	}
	return m.store.Set(kvstore.KeyMigrationLedger, string(data))
}

// getJSON reads a legacy key and unmarshals it into v. Returns false
// when the key is absent.
func (m *Migrator) getJSON(key string, v interface{}) (bool, error) {
	raw, ok, err := m.store.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("corrupt legacy key %s: %w", key, err)
	}
	return true, nil
}
