package store

import (
	"context"
	"errors"
	"fmt"

	"sprite-index/core/database"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/table"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const batchSize = 500

// ErrNoRun is returned when no index run has been stored yet.
var ErrNoRun = errors.New("no stored index run")

// Store persists table snapshots and index runs.
type Store struct {
	db *gorm.DB
}

// New wraps an open database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the sprite tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&SpriteEntry{}, &SpriteTarget{}, &SpriteCreature{}, &SpriteOutput{}); err != nil {
		return fmt.Errorf("failed to migrate sprite tables: %w", err)
	}
	return nil
}

var expectedColumns = map[string][]string{
	"sprite_entries":   {"id", "position", "entry_key", "female", "fallback", "hit"},
	"sprite_targets":   {"id", "entry_id", "position", "creature_id", "gender", "form", "evolution", "render_mode", "costume", "shiny", "synthesized", "base_key"},
	"sprite_creatures": {"creature_id", "default_form", "evolutions"},
	"sprite_outputs":   {"id", "run_id", "position", "output", "source", "entry_key", "creature_id", "is_primary", "derived"},
}

// CheckSchema returns "table.column" for every expected column missing
// from the live schema.
func (s *Store) CheckSchema() ([]string, error) {
	var missing []string
	for _, name := range []string{"sprite_entries", "sprite_targets", "sprite_creatures", "sprite_outputs"} {
		cols, err := database.MissingColumns(s.db, name, expectedColumns[name])
		if err != nil {
			return nil, err
		}
		for _, c := range cols {
			missing = append(missing, name+"."+c)
		}
	}
	return missing, nil
}

// SaveTable replaces the stored table with the snapshot.
func (s *Store) SaveTable(ctx context.Context, snap table.Snapshot) error {
	entries := make([]SpriteEntry, 0, len(snap.Entries))
	for i, e := range snap.Entries {
		row := SpriteEntry{
			Position: i,
			EntryKey: e.Key,
			Female:   e.FemaleDefault,
			Fallback: e.Override,
			Hit:      e.Hit,
		}
		for j, t := range e.Targets {
			row.Targets = append(row.Targets, SpriteTarget{
				Position:        j,
				IdentityColumns: fromIdentity(t.Identity),
				Synthesized:     t.Synthesized,
				BaseKey:         t.BaseKey,
			})
		}
		entries = append(entries, row)
	}

	creatures := make(map[int]*SpriteCreature)
	creature := func(id int) *SpriteCreature {
		c, ok := creatures[id]
		if !ok {
			c = &SpriteCreature{CreatureID: id}
			creatures[id] = c
		}
		return c
	}
	for id, form := range snap.DefaultForms {
		form := form
		creature(id).DefaultForm = &form
	}
	for id, evos := range snap.Evolutions {
		creature(id).Evolutions = evos
	}
	rows := make([]SpriteCreature, 0, len(creatures))
	for _, c := range creatures {
		rows = append(rows, *c)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&SpriteTarget{}, &SpriteEntry{}, &SpriteCreature{}} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear table snapshot: %w", err)
			}
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, batchSize).Error; err != nil {
				return fmt.Errorf("failed to store entries: %w", err)
			}
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to store creatures: %w", err)
			}
		}
		return nil
	})
}

// LoadTable reads the stored table back as a snapshot.
func (s *Store) LoadTable(ctx context.Context) (table.Snapshot, error) {
	var entries []SpriteEntry
	err := s.db.WithContext(ctx).
		Preload("Targets", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("position").
		Find(&entries).Error
	if err != nil {
		return table.Snapshot{}, fmt.Errorf("failed to load entries: %w", err)
	}

	var creatures []SpriteCreature
	if err := s.db.WithContext(ctx).Find(&creatures).Error; err != nil {
		return table.Snapshot{}, fmt.Errorf("failed to load creatures: %w", err)
	}

	snap := table.Snapshot{
		Entries:      make(table.OrderedEntries, 0, len(entries)),
		DefaultForms: make(map[int]int),
		Evolutions:   make(map[int][]int),
	}
	for _, row := range entries {
		e := models.Entry{
			Key:           row.EntryKey,
			FemaleDefault: row.Female,
			Override:      row.Fallback,
			Hit:           row.Hit,
		}
		for _, t := range row.Targets {
			e.Targets = append(e.Targets, models.Target{
				Identity:    t.identity(),
				Synthesized: t.Synthesized,
				BaseKey:     t.BaseKey,
			})
		}
		snap.Entries = append(snap.Entries, e)
	}
	for _, c := range creatures {
		if c.DefaultForm != nil {
			snap.DefaultForms[c.CreatureID] = *c.DefaultForm
		}
		if len(c.Evolutions) > 0 {
			snap.Evolutions[c.CreatureID] = c.Evolutions
		}
	}
	return snap, nil
}

// SaveIndex stores the instructions of one run and returns its id.
func (s *Store) SaveIndex(ctx context.Context, idx models.Index) (string, error) {
	runID := uuid.NewString()
	if len(idx.Instructions) == 0 {
		return runID, nil
	}
	rows := make([]SpriteOutput, 0, len(idx.Instructions))
	for i, in := range idx.Instructions {
		rows = append(rows, SpriteOutput{
			RunID:           runID,
			Position:        i,
			Output:          in.Output,
			Source:          in.Source,
			EntryKey:        in.Key,
			IdentityColumns: fromIdentity(in.Identity),
			IsPrimary:       in.Primary,
			Derived:         in.Derived,
		})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, batchSize).Error; err != nil {
		return "", fmt.Errorf("failed to store index: %w", err)
	}
	return runID, nil
}

// LoadIndex reads the instructions of a run. An empty runID selects the
// most recently stored run.
func (s *Store) LoadIndex(ctx context.Context, runID string) (models.Index, error) {
	db := s.db.WithContext(ctx)
	if runID == "" {
		var last SpriteOutput
		err := db.Order("id DESC").Limit(1).Find(&last).Error
		if err != nil {
			return models.Index{}, fmt.Errorf("failed to find latest run: %w", err)
		}
		if last.RunID == "" {
			return models.Index{}, ErrNoRun
		}
		runID = last.RunID
	}

	var rows []SpriteOutput
	if err := db.Where("run_id = ?", runID).Order("position").Find(&rows).Error; err != nil {
		return models.Index{}, fmt.Errorf("failed to load index: %w", err)
	}
	if len(rows) == 0 {
		return models.Index{}, ErrNoRun
	}
	idx := models.Index{Instructions: make([]models.Instruction, 0, len(rows))}
	for _, r := range rows {
		idx.Instructions = append(idx.Instructions, models.Instruction{
			Source:   r.Source,
			Output:   r.Output,
			Key:      r.EntryKey,
			Identity: r.identity(),
			Primary:  r.IsPrimary,
			Derived:  r.Derived,
		})
	}
	return idx, nil
}
