package sprite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"sprite-index/core/storage"
	"sprite-index/feature/sprite/gamemaster"
	"sprite-index/feature/sprite/matcher"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/naming"
	"sprite-index/feature/sprite/rules"
	"sprite-index/feature/sprite/store"
	"sprite-index/feature/sprite/symbols"
	"sprite-index/feature/sprite/table"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoTable is returned by lookups before a table has been loaded.
var ErrNoTable = errors.New("sprite table not loaded")

// Resolution is the answer to a resolve request.
type Resolution struct {
	Filename   string            `json:"filename"`
	Key        string            `json:"key,omitempty"`
	Outputs    []string          `json:"outputs"`
	Identities []models.Identity `json:"identities"`
	Old        bool              `json:"old,omitempty"`
}

// Service owns the sprite pipeline dependencies and the frozen table the
// HTTP handlers read.
type Service struct {
	cfg     Config
	client  storage.Client
	bucket  string
	logger  *zap.Logger
	db      *gorm.DB
	symbols symbols.Table
	rules   *rules.Rules
	family  matcher.Family
	conv    naming.Convention
	// old maps creatures to the identity of their superseded legacy asset.
	old map[int]models.Identity

	mu      sync.RWMutex
	table   *table.Table
	matcher matcher.Matcher
	namer   *naming.Namer
	cache   *lru.Cache[string, Resolution]
}

// NewService loads the symbol dictionary and the rule set. client and db
// may be nil when the game master is local and persistence is not wanted.
func NewService(cfg Config, client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) (*Service, error) {
	sym, err := symbols.LoadFile(cfg.SymbolsPath)
	if err != nil {
		return nil, err
	}
	return newService(cfg, sym, client, bucket, logger, db)
}

func newService(cfg Config, sym symbols.Table, client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r, err := rules.LoadFile(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	family, err := matcher.ParseFamily(cfg.Family)
	if err != nil {
		return nil, err
	}
	conv, err := naming.ConventionByName(cfg.Convention)
	if err != nil {
		return nil, err
	}
	size := cfg.ResolveCacheSize
	if size <= 0 {
		size = 1024
	}
	cache, err := lru.New[string, Resolution](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolve cache: %w", err)
	}
	old, err := r.ResolveOldAssets(sym)
	if err != nil {
		logger.Warn("Skipped unresolvable old assets", zap.Error(err))
	}
	return &Service{
		cfg:     cfg,
		client:  client,
		bucket:  bucket,
		logger:  logger,
		db:      db,
		symbols: sym,
		rules:   r,
		family:  family,
		conv:    conv,
		old:     old,
		cache:   cache,
	}, nil
}

// Config returns the sprite settings the service was created with.
func (s *Service) Config() Config { return s.cfg }

// Store returns the persistence layer, or nil without a database.
func (s *Service) Store() *store.Store {
	if s.db == nil {
		return nil
	}
	return store.New(s.db)
}

// readGameMaster opens the local game master or downloads it from the bucket.
func (s *Service) readGameMaster(ctx context.Context) (io.ReadCloser, error) {
	if s.cfg.GameMasterPath != "" {
		f, err := os.Open(s.cfg.GameMasterPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open game master: %w", err)
		}
		return f, nil
	}
	if s.client == nil {
		return nil, errors.New("no game master path and no storage client configured")
	}
	data, err := storage.ReadObject(ctx, s.client, s.bucket, s.cfg.GameMasterObject)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Variants decodes and normalizes the game master.
func (s *Service) Variants(ctx context.Context, diag *models.Diagnostics) ([]models.Variant, error) {
	rc, err := s.readGameMaster(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := gamemaster.Decode(rc, s.logger, diag)
	if err != nil {
		return nil, err
	}
	return gamemaster.NewNormalizer(s.symbols, s.logger, diag).NormalizeAll(records), nil
}

// BuildTable folds the game master into a new table and makes it current.
// A prefix collision is fatal and leaves the current table untouched.
func (s *Service) BuildTable(ctx context.Context, diag *models.Diagnostics) (*table.Table, error) {
	variants, err := s.Variants(ctx, diag)
	if err != nil {
		return nil, err
	}

	overrides, err := s.rules.ResolveOverrides(s.symbols)
	if err != nil {
		s.logger.Warn("Skipped unresolvable overrides", zap.Error(err))
	}

	b := table.NewBuilder(s.rules, s.logger, diag)
	b.Seed(overrides...)
	b.AddAll(variants)
	t, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := s.SetTable(t); err != nil {
		return nil, err
	}
	s.logger.Info("Built sprite table", zap.Int("entries", t.Len()))
	return t, nil
}

// SetTable makes t the current table and rebuilds the matcher and namer
// around it.
func (s *Service) SetTable(t *table.Table) error {
	m, err := matcher.New(s.family, t, s.symbols, matcher.Options{
		Prefix:    s.cfg.Prefix,
		Extension: s.cfg.Extension,
		OldAssets: s.old,
	}, s.logger, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = t
	s.matcher = m
	s.namer = naming.New(s.conv, t, s.logger, nil)
	s.cache.Purge()
	return nil
}

// Table returns the current table.
func (s *Service) Table() (*table.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, ErrNoTable
	}
	return s.table, nil
}

// LoadTable makes a table current from, in order, the snapshot file, the
// database and the game master.
func (s *Service) LoadTable(ctx context.Context) (*table.Table, error) {
	if s.cfg.SnapshotPath != "" {
		t, err := s.readSnapshot(s.cfg.SnapshotPath)
		switch {
		case err == nil:
			s.logger.Info("Loaded sprite table snapshot", zap.String("path", s.cfg.SnapshotPath))
			return t, s.SetTable(t)
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}
	if st := s.Store(); st != nil {
		snap, err := st.LoadTable(ctx)
		if err == nil && len(snap.Entries) > 0 {
			t, err := table.FromSnapshot(snap)
			if err != nil {
				return nil, err
			}
			s.logger.Info("Loaded sprite table from database", zap.Int("entries", t.Len()))
			return t, s.SetTable(t)
		}
		if err != nil {
			s.logger.Warn("Failed to load stored sprite table", zap.Error(err))
		}
	}
	return s.BuildTable(ctx, nil)
}

func (s *Service) readSnapshot(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	snap, err := table.ReadSnapshot(f)
	if err != nil {
		return nil, err
	}
	return table.FromSnapshot(snap)
}

// WriteSnapshot writes the current table with its hit flags to path.
func (s *Service) WriteSnapshot(path string, hits *table.Hits) error {
	t, err := s.Table()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := table.WriteSnapshot(f, t.Snapshot(hits)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Resolve matches one asset filename against the current table and renders
// its canonical outputs.
func (s *Service) Resolve(filename string) (Resolution, error) {
	if res, ok := s.cache.Get(filename); ok {
		return res, nil
	}

	s.mu.RLock()
	m, n := s.matcher, s.namer
	s.mu.RUnlock()
	if m == nil {
		return Resolution{}, ErrNoTable
	}

	match, err := m.Match(filename)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Filename: filename, Key: match.Key, Old: match.Old}
	for _, id := range emitted(match).Identities() {
		res.Identities = append(res.Identities, id)
		res.Outputs = append(res.Outputs, n.Render(id))
	}
	s.remember(m, filename, res)
	return res, nil
}

// remember caches res only while m is still the current matcher. SetTable
// purges under the write lock, so a result computed against a replaced
// table is never added back.
func (s *Service) remember(m matcher.Matcher, filename string, res Resolution) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.matcher == m {
		s.cache.Add(filename, res)
	}
}

// emitted drops the synthesized female aliases of an entry that also has
// real targets, mirroring what the matching pass emits directly.
func emitted(m matcher.Match) matcher.Match {
	var real []models.Target
	for _, t := range m.Targets {
		if !t.Synthesized {
			real = append(real, t)
		}
	}
	if len(real) > 0 {
		m.Targets = real
	}
	return m
}
