package store

import (
	"context"
	"errors"
	"testing"

	"sprite-index/core/database"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/rules"
	"sprite-index/feature/sprite/table"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := New(db)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func fixtureTable(t *testing.T) *table.Table {
	t.Helper()
	b := table.NewBuilder(&rules.Rules{Placeholder: "000"}, zap.NewNop(), nil)
	b.Seed(models.Entry{
		Key:      "018_51",
		Targets:  []models.Target{{Identity: models.Identity{CreatureID: 18, Evolution: 1}}},
		Override: true,
	})
	b.AddAll([]models.Variant{
		{CreatureID: 19, Axis: models.AxisForm, ID: 45, Bundle: models.Numbered(0)},
		{CreatureID: 19, Axis: models.AxisForm, ID: 46, Bundle: models.Numbered(61)},
		{CreatureID: 3, Axis: models.AxisEvolution, ID: 1, Bundle: models.Numbered(51)},
	})
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

func TestStore_TableRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	tbl := fixtureTable(t)

	hits := table.NewHits()
	hits.Mark("019_61")
	snap := tbl.Snapshot(hits)

	require.NoError(t, s.SaveTable(ctx, snap))
	// saving twice replaces the previous snapshot
	require.NoError(t, s.SaveTable(ctx, snap))

	loaded, err := s.LoadTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Entries, loaded.Entries)
	assert.Equal(t, snap.DefaultForms, loaded.DefaultForms)
	assert.Equal(t, snap.Evolutions, loaded.Evolutions)

	restored, err := table.FromSnapshot(loaded)
	require.NoError(t, err)
	assert.Equal(t, tbl.Keys(), restored.Keys())
}

func TestStore_IndexRuns(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.LoadIndex(ctx, "")
	assert.ErrorIs(t, err, ErrNoRun)

	first := models.Index{Instructions: []models.Instruction{
		{Source: "999_00.png", Output: "999", Key: "999_00", Identity: models.Identity{CreatureID: 999}, Primary: true},
	}}
	second := models.Index{Instructions: []models.Instruction{
		{Source: "999_00.png", Output: "999", Key: "999_00", Identity: models.Identity{CreatureID: 999}, Primary: true},
		{Source: "999_00.png", Output: "999-g2", Key: "999_00", Identity: models.Identity{CreatureID: 999, Gender: models.GenderFemale}, Derived: true},
	}}

	firstID, err := s.SaveIndex(ctx, first)
	require.NoError(t, err)
	secondID, err := s.SaveIndex(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	latest, err := s.LoadIndex(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, second, latest)

	old, err := s.LoadIndex(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, first, old)

	_, err = s.LoadIndex(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoRun)
}

func TestStore_CheckSchema(t *testing.T) {
	s := setupStore(t)
	missing, err := s.CheckSchema()
	require.NoError(t, err)
	assert.Empty(t, missing)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	missing, err = New(db).CheckSchema()
	require.NoError(t, err)
	assert.Contains(t, missing, "sprite_entries.entry_key")
}

func TestStore_SaveIndexMySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sprite_outputs`").WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	idx := models.Index{Instructions: []models.Instruction{
		{Source: "a.png", Output: "1", Primary: true},
		{Source: "a.png", Output: "1-g2", Derived: true},
	}}
	runID, err := s.SaveIndex(context.Background(), idx)
	require.NoError(t, err)
	assert.Len(t, runID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveIndexMySQLError(t *testing.T) {
	db, mock := setupMockDB(t)
	s := New(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `sprite_outputs`").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.SaveIndex(context.Background(), models.Index{Instructions: []models.Instruction{{Source: "a.png", Output: "1"}}})
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
