package sprite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sprite-index/core/database"
	"sprite-index/core/reconcile"
	"sprite-index/core/storage/mocks"
	"sprite-index/feature/sprite/convert"
	"sprite-index/feature/sprite/matcher"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/symbols"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

const gameMaster = `[
  {"templateId": "FORMS_V0019_POKEMON_RATTATA", "data": {"formSettings": {
    "pokemon": "RATTATA",
    "forms": [
      {"form": "RATTATA_NORMAL"},
      {"form": "RATTATA_ALOLA", "assetBundleValue": 61}
    ]
  }}},
  {"templateId": "FORMS_V0025_POKEMON_PIKACHU", "data": {"formSettings": {"pokemon": "PIKACHU"}}}
]`

var assets = []string{
	"pokemon_icon_000.png",
	"pokemon_icon_019_00.png",
	"pokemon_icon_019_61_shiny.png",
	"pokemon_icon_025_00.png",
	"pokemon_icon_999_00.png",
}

func dictionary() *symbols.Dictionary {
	return symbols.New(
		map[string]int{"RATTATA": 19, "PIKACHU": 25},
		map[string]int{"RATTATA_NORMAL": 45, "RATTATA_ALOLA": 46, "PIKACHU_NORMAL": 598},
		map[string]int{"TEMP_EVOLUTION_MEGA": 1},
		map[string]int{"JAN_2020_NOEVOLVE": 12},
		nil,
	)
}

// copyRunner stands in for the image tool and copies the source as is.
type copyRunner struct{}

func (copyRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	return "", convert.CopyFile(args[len(args)-2], args[len(args)-1])
}

type fixture struct {
	cfg Config
	dir string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	cfg := Config{
		RulesPath:      write("rules.yaml", `placeholder: "000"`),
		GameMasterPath: write("game_master.json", gameMaster),
		InputDir:       filepath.Join(dir, "input"),
		OutputDir:      filepath.Join(dir, "output"),
		Family:         "legacy",
		Convention:     "hyphen",
		Prefix:         "pokemon_icon_",
		Extension:      ".png",
		Workers:        2,
		SnapshotPath:   filepath.Join(dir, "table.json"),
	}
	for _, a := range assets {
		write(filepath.Join("input", a), a)
	}
	return fixture{cfg: cfg, dir: dir}
}

func newTestService(t *testing.T, cfg Config, db *gorm.DB) *Service {
	t.Helper()
	s, err := newService(cfg, dictionary(), nil, "sprites", zap.NewNop(), db)
	require.NoError(t, err)
	return s
}

func TestNewService_InvalidSettings(t *testing.T) {
	_, err := newService(Config{Family: "pmsf"}, dictionary(), nil, "", nil, nil)
	assert.ErrorContains(t, err, "unknown asset family")

	_, err = newService(Config{Family: "legacy", Convention: "camel"}, dictionary(), nil, "", nil, nil)
	assert.Error(t, err)
}

func TestService_Resolve(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)

	_, err := s.Resolve("pokemon_icon_019_00.png")
	assert.ErrorIs(t, err, ErrNoTable)

	_, err = s.BuildTable(context.Background(), nil)
	require.NoError(t, err)

	res, err := s.Resolve("pokemon_icon_019_61_shiny.png")
	require.NoError(t, err)
	assert.Equal(t, "019_61", res.Key)
	assert.Equal(t, []string{"19-f46-shiny"}, res.Outputs)

	res, err = s.Resolve("pokemon_icon_025_01.png")
	require.NoError(t, err)
	assert.Equal(t, []string{"25-g2"}, res.Outputs)

	_, err = s.Resolve("pokemon_icon_999_00.png")
	assert.ErrorIs(t, err, matcher.ErrUnrecognized)

	// served from the cache
	again, err := s.Resolve("pokemon_icon_019_61_shiny.png")
	require.NoError(t, err)
	assert.Equal(t, "019_61", again.Key)
	assert.Equal(t, 2, s.cache.Len())
}

func TestService_Build(t *testing.T) {
	f := newFixture(t)
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	s := newTestService(t, f.cfg, db)

	report, err := s.Build(context.Background(), BuildOptions{Runner: copyRunner{}, Persist: true})
	require.NoError(t, err)

	assert.Equal(t, 5, report.Assets)
	assert.ElementsMatch(t,
		[]string{"0", "19", "19-f46-shiny", "25", "19-g2", "25-g2"},
		report.Index.Names())
	assert.Equal(t, 1, report.Diagnostics[models.DiagUnrecognizedAsset])
	assert.Empty(t, report.Audit.NeverObserved)
	assert.NotEmpty(t, report.RunID)
	require.NotNil(t, report.Conversion)
	assert.Equal(t, 4, report.Conversion.Converted)
	assert.Equal(t, 2, report.Conversion.Copied)

	names, err := convert.ReadIndex(f.cfg.OutputDir)
	require.NoError(t, err)
	assert.ElementsMatch(t, report.Index.Names(), names)

	data, err := os.ReadFile(filepath.Join(f.cfg.OutputDir, "19-g2.png"))
	require.NoError(t, err)
	assert.Equal(t, "pokemon_icon_019_00.png", string(data))

	stored, err := s.Store().LoadIndex(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Equal(t, report.Index, stored)

	// a second service picks the table up from the snapshot
	other := newTestService(t, f.cfg, nil)
	tbl, err := other.LoadTable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.table.Keys(), tbl.Keys())
}

func TestService_BuildDryRun(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)

	report, err := s.Build(context.Background(), BuildOptions{DryRun: true})
	require.NoError(t, err)
	assert.Nil(t, report.Conversion)
	assert.Len(t, report.Index.Instructions, 6)

	_, err = os.Stat(f.cfg.OutputDir)
	assert.True(t, os.IsNotExist(err))
}

func TestService_BuildPersistWithoutDatabase(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)

	_, err := s.Build(context.Background(), BuildOptions{Runner: copyRunner{}, Persist: true})
	assert.ErrorContains(t, err, "without a database")
}

func TestService_AuditLegacy(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)

	report, err := s.AuditLegacy(context.Background(), f.cfg.InputDir)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Assets)
	assert.Equal(t, []string{"pokemon_icon_999_00.png"}, report.Unrecognized)
	assert.Empty(t, report.MultiTarget)
	assert.Empty(t, report.Audit.NeverObserved)

	_, err = os.Stat(f.cfg.SnapshotPath)
	assert.NoError(t, err)
}

func TestService_MigratePMSF(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)

	in := filepath.Join(f.dir, "pmsf")
	require.NoError(t, os.MkdirAll(in, 0o755))
	for _, name := range []string{"pokemon_icon_019_00.png", "pokemon_icon_019_46.png", "pokemon_icon_025_12_shiny.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte(name), 0o644))
	}
	out := filepath.Join(f.dir, "migrated")

	report, err := s.MigratePMSF(context.Background(), in, out, false)
	require.NoError(t, err)
	// 46 is not the first form, 12 is the largest known costume
	assert.Equal(t, []string{"19", "19-f46", "25-c12-shiny"}, report.Written)
	assert.Empty(t, report.Diagnostics)
}

func TestService_Publish(t *testing.T) {
	f := newFixture(t)
	f.cfg.PublishPrefix = "icons/"
	m := new(mocks.Client)
	s, err := newService(f.cfg, dictionary(), m, "sprites", zap.NewNop(), nil)
	require.NoError(t, err)

	_, err = s.Build(context.Background(), BuildOptions{Runner: copyRunner{}})
	require.NoError(t, err)

	m.On("BucketExists", mock.Anything, "sprites").Return(true, nil)
	m.On("ListObjects", mock.Anything, "sprites", minio.ListObjectsOptions{Prefix: "icons/", Recursive: true}).
		Return(mocks.Listing())
	m.On("PutObject", mock.Anything, "sprites", mock.AnythingOfType("string"), mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	plan, executed, err := s.Publish(context.Background(), reconcile.ReconcileOptions{DoUpload: true, Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 6, plan.Summary.UploadActions)
	assert.Equal(t, 6, executed)
	// six sprites plus index.json
	m.AssertNumberOfCalls(t, "PutObject", 7)
	m.AssertNumberOfCalls(t, "BucketExists", 1)

	_, _, err = newTestService(t, f.cfg, nil).Publish(context.Background(), reconcile.ReconcileOptions{})
	assert.ErrorContains(t, err, "storage client")
}

func TestNewService_OldAssetsResolvedOnce(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.cfg.RulesPath, []byte(`placeholder: "000"
old_assets:
  - creature: 19
    form: RATTATA_ALOLA
  - creature: 25
    form: UNKNOWN_FORM
`), 0o644))

	core, logs := observer.New(zapcore.WarnLevel)
	s, err := newService(f.cfg, dictionary(), nil, "sprites", zap.New(core), nil)
	require.NoError(t, err)
	assert.Equal(t, map[int]models.Identity{19: {CreatureID: 19, Form: 46}}, s.old)

	_, err = s.BuildTable(context.Background(), nil)
	require.NoError(t, err)
	_, err = s.BuildTable(context.Background(), nil)
	require.NoError(t, err)
	_, err = s.AuditLegacy(context.Background(), f.cfg.InputDir)
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("Skipped unresolvable old assets").Len())
}

func TestService_ResolveDropsStaleResult(t *testing.T) {
	f := newFixture(t)
	s := newTestService(t, f.cfg, nil)

	t1, err := s.BuildTable(context.Background(), nil)
	require.NoError(t, err)
	s.mu.RLock()
	stale := s.matcher
	s.mu.RUnlock()

	_, err = s.Resolve("pokemon_icon_019_61_shiny.png")
	require.NoError(t, err)
	assert.True(t, s.cache.Contains("pokemon_icon_019_61_shiny.png"))

	require.NoError(t, s.SetTable(t1))
	assert.Equal(t, 0, s.cache.Len())

	// a result computed against the replaced matcher is not cached
	s.remember(stale, "pokemon_icon_019_00.png", Resolution{Key: "019_00"})
	assert.False(t, s.cache.Contains("pokemon_icon_019_00.png"))

	s.mu.RLock()
	current := s.matcher
	s.mu.RUnlock()
	s.remember(current, "pokemon_icon_019_00.png", Resolution{Key: "019_00"})
	assert.True(t, s.cache.Contains("pokemon_icon_019_00.png"))
}
