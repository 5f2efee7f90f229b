package sprite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"sprite-index/core/reconcile"
	"sprite-index/core/storage"
	"sprite-index/feature/sprite/convert"
	"sprite-index/feature/sprite/index"
	"sprite-index/feature/sprite/matcher"
	"sprite-index/feature/sprite/migrate"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/naming"
	"sprite-index/feature/sprite/publish"
	"sprite-index/feature/sprite/table"

	"go.uber.org/zap"
)

// BuildOptions controls a full build run.
type BuildOptions struct {
	// DryRun matches and reports without converting or writing anything.
	DryRun bool
	// Persist stores the table and the index in the database.
	Persist bool
	// Runner overrides the conversion command runner.
	Runner convert.Runner
}

// BuildReport summarizes a build run.
type BuildReport struct {
	Entries     int                           `json:"entries"`
	Assets      int                           `json:"assets"`
	Index       models.Index                  `json:"index"`
	Audit       models.AuditReport            `json:"audit"`
	Conversion  *convert.Report               `json:"conversion,omitempty"`
	RunID       string                        `json:"run_id,omitempty"`
	Diagnostics map[models.DiagnosticKind]int `json:"diagnostics"`
}

// ListAssets returns the asset filenames of dir.
func ListAssets(dir, extension string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), extension) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// Build runs the whole pipeline: build the table, match the input directory,
// convert the outputs, write index.json and the snapshot, and optionally
// persist the run.
func (s *Service) Build(ctx context.Context, opts BuildOptions) (*BuildReport, error) {
	diag := &models.Diagnostics{}
	t, err := s.BuildTable(ctx, diag)
	if err != nil {
		return nil, err
	}

	files, err := ListAssets(s.cfg.InputDir, s.cfg.Extension)
	if err != nil {
		return nil, err
	}
	res, err := s.index(t, files, diag)
	if err != nil {
		return nil, err
	}

	report := &BuildReport{
		Entries: t.Len(),
		Assets:  len(files),
		Index:   res.Index,
		Audit:   res.Audit,
	}
	if opts.DryRun {
		report.Diagnostics = diag.Summary()
		return report, nil
	}

	conv := convert.New(opts.Runner, convert.Options{
		Binary:    s.cfg.ConvertBinary,
		Fuzz:      s.cfg.Fuzz,
		Workers:   s.cfg.Workers,
		InputDir:  s.cfg.InputDir,
		OutputDir: s.cfg.OutputDir,
		Extension: s.cfg.Extension,
	}, s.logger, diag)
	cr, err := conv.Apply(ctx, res.Index)
	if err != nil {
		return nil, err
	}
	report.Conversion = &cr
	if err := convert.WriteIndex(s.cfg.OutputDir, cr.Written); err != nil {
		return nil, err
	}

	if s.cfg.SnapshotPath != "" {
		if err := s.WriteSnapshot(s.cfg.SnapshotPath, res.Hits); err != nil {
			return nil, err
		}
	}

	if opts.Persist {
		st := s.Store()
		if st == nil {
			return nil, errors.New("persistence requested without a database")
		}
		if err := st.Migrate(ctx); err != nil {
			return nil, err
		}
		if err := st.SaveTable(ctx, t.Snapshot(res.Hits)); err != nil {
			return nil, err
		}
		if report.RunID, err = st.SaveIndex(ctx, res.Index); err != nil {
			return nil, err
		}
	}

	report.Diagnostics = diag.Summary()
	s.logger.Info("Build finished",
		zap.Int("entries", report.Entries),
		zap.Int("assets", report.Assets),
		zap.Int("outputs", len(cr.Written)),
		zap.Int("failed", len(cr.Failed)),
		zap.Any("diagnostics", report.Diagnostics))
	return report, nil
}

func (s *Service) index(t *table.Table, files []string, diag *models.Diagnostics) (index.Result, error) {
	m, err := matcher.New(s.family, t, s.symbols, matcher.Options{
		Prefix:    s.cfg.Prefix,
		Extension: s.cfg.Extension,
		OldAssets: s.old,
	}, s.logger, diag)
	if err != nil {
		return index.Result{}, err
	}
	n := naming.New(s.conv, t, s.logger, diag)
	return index.New(t, m, n, s.rules, s.logger, diag).Run(files), nil
}

// LegacyReport is the outcome of a legacy snapshot audit.
type LegacyReport struct {
	Assets       int                           `json:"assets"`
	MultiTarget  []string                      `json:"multi_target,omitempty"`
	Unrecognized []string                      `json:"unrecognized,omitempty"`
	Dropped      []string                      `json:"dropped,omitempty"`
	Audit        models.AuditReport            `json:"audit"`
	Diagnostics  map[models.DiagnosticKind]int `json:"diagnostics"`
}

// AuditLegacy matches a legacy asset directory against a freshly built
// table without converting anything, then writes the snapshot with the
// observed hit flags.
func (s *Service) AuditLegacy(ctx context.Context, dir string) (*LegacyReport, error) {
	diag := &models.Diagnostics{}
	t, err := s.BuildTable(ctx, diag)
	if err != nil {
		return nil, err
	}
	files, err := ListAssets(dir, s.cfg.Extension)
	if err != nil {
		return nil, err
	}

	m := matcher.NewLegacy(t, matcher.Options{Prefix: s.cfg.Prefix, Extension: s.cfg.Extension, OldAssets: s.old})
	hits := table.NewHits()
	report := &LegacyReport{Assets: len(files)}
	for _, f := range files {
		match, err := m.Match(f)
		switch {
		case errors.Is(err, matcher.ErrDroppedAsset):
			report.Dropped = append(report.Dropped, f)
			continue
		case err != nil:
			s.logger.Warn("Unrecognized/unused asset", zap.String("file", f))
			diag.Add(models.DiagUnrecognizedAsset, f, err.Error())
			report.Unrecognized = append(report.Unrecognized, f)
			continue
		}
		hits.Mark(match.Key)
		if len(match.Targets) > 1 {
			s.logger.Warn("Multiple targets found for asset",
				zap.String("file", f), zap.Int("targets", len(match.Targets)))
			report.MultiTarget = append(report.MultiTarget, f)
		}
	}

	report.Audit = table.Audit(t, hits, s.rules, s.logger, diag)
	if s.cfg.SnapshotPath != "" {
		if err := s.WriteSnapshot(s.cfg.SnapshotPath, hits); err != nil {
			return nil, err
		}
	}
	report.Diagnostics = diag.Summary()
	return report, nil
}

// MigrateReport is the outcome of a PMSF migration.
type MigrateReport struct {
	Copies      []migrate.Copy                `json:"copies"`
	Written     []string                      `json:"written"`
	Diagnostics map[models.DiagnosticKind]int `json:"diagnostics"`
}

// MigratePMSF renames the PMSF icon set in inDir into outDir.
func (s *Service) MigratePMSF(ctx context.Context, inDir, outDir string, dryRun bool) (*MigrateReport, error) {
	diag := &models.Diagnostics{}
	variants, err := s.Variants(ctx, diag)
	if err != nil {
		return nil, err
	}
	catalogs, err := migrate.BuildCatalogs(variants, s.rules, s.symbols)
	if err != nil {
		s.logger.Warn("Skipped unresolvable catalog patches", zap.Error(err))
	}

	files, err := ListAssets(inDir, ".png")
	if err != nil {
		return nil, err
	}
	copies := migrate.New(catalogs, s.symbols.MaxCostume(), s.logger, diag).Plan(files)
	report := &MigrateReport{Copies: copies}
	if !dryRun {
		if report.Written, err = migrate.Apply(ctx, inDir, outDir, copies); err != nil {
			return nil, err
		}
	}
	report.Diagnostics = diag.Summary()
	return report, nil
}

// Publish reconciles the output directory with the bucket and applies the
// plan when confirmed.
func (s *Service) Publish(ctx context.Context, opts reconcile.ReconcileOptions) (*reconcile.ReconcilePlan, int, error) {
	if s.client == nil {
		return nil, 0, errors.New("publishing requires a storage client")
	}
	adapter := publish.NewAdapter(s.client, s.bucket, publish.Options{
		OutputDir: s.cfg.OutputDir,
		Prefix:    s.cfg.PublishPrefix,
		Extension: s.cfg.Extension,
	}, s.logger)
	spec := adapter.Spec(time.Duration(s.cfg.CacheTTLSeconds)*time.Second, s.cfg.Workers)

	if opts.DoUpload && opts.Confirmed && !opts.DryRun {
		// The region is left to the client configuration.
		if err := storage.EnsureBucket(ctx, s.client, s.bucket, ""); err != nil {
			return nil, 0, err
		}
	}

	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, s.client, s.bucket, opts)
	if err != nil {
		return plan, executed, err
	}
	if opts.Confirmed && !opts.DryRun {
		if err := adapter.PublishIndex(ctx); err != nil {
			return plan, executed, err
		}
	}
	return plan, executed, nil
}
