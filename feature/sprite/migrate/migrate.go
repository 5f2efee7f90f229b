package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"sprite-index/feature/sprite/convert"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/naming"

	"go.uber.org/zap"
)

const filePrefix = "pokemon_icon_"

var pmsfName = regexp.MustCompile(`^pokemon_icon_(\d{3,})(?:_00)?(?:_([1-9]\d*))?(?:_([1-9]\d*))?(_shiny)?\.png$`)

// Copy is one file copied from the PMSF set to its canonical name.
type Copy struct {
	Source string `json:"source"`
	Output string `json:"output"`
}

// Migrator renames a PMSF icon set to the hyphen convention.
type Migrator struct {
	catalogs   Catalogs
	namer      *naming.Namer
	maxCostume int
	logger     *zap.Logger
	diag       *models.Diagnostics
}

// New creates a migrator. Costume ids above maxCostume are rejected.
func New(catalogs Catalogs, maxCostume int, logger *zap.Logger, diag *models.Diagnostics) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{
		catalogs:   catalogs,
		namer:      naming.New(naming.Hyphen, nil, logger, diag),
		maxCostume: maxCostume,
		logger:     logger,
		diag:       diag,
	}
}

// Plan classifies filenames and returns the copies to perform, in sorted
// source order. Unrecognized files are logged and skipped. Sorting puts a
// _00 file before the first-form file that folds into it, which then takes
// over its output.
func (m *Migrator) Plan(filenames []string) []Copy {
	names := slices.Clone(filenames)
	slices.Sort(names)

	var copies []Copy
	claims := make(map[string]int)
	for _, name := range names {
		output, folds, ok := m.classify(name)
		if !ok {
			continue
		}
		prev, taken := claims[output]
		switch {
		case !taken:
			claims[output] = len(copies)
			copies = append(copies, Copy{Source: name, Output: output})
		case folds != "" && copies[prev].Source == folds:
			copies[prev].Source = name
		default:
			m.logger.Warn("Duplicate found",
				zap.String("output", output),
				zap.String("kept", copies[prev].Source),
				zap.String("dropped", name))
			m.diag.Add(models.DiagDuplicateOutput, output, name)
		}
	}
	return copies
}

func (m *Migrator) classify(name string) (output, folds string, ok bool) {
	match := pmsfName.FindStringSubmatch(name)
	if match == nil {
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".png") {
			m.unrecognized(name, "unrecognized file")
		}
		return "", "", false
	}

	creature, _ := strconv.Atoi(match[1])
	field1, has1 := atoi(match[2])
	field2, has2 := atoi(match[3])
	shiny := match[4] != ""
	id := models.Identity{CreatureID: creature, Shiny: shiny}

	cat, known := m.catalogs[creature]
	if !known {
		if has1 || has2 {
			m.unrecognized(name, "unrecognized creature")
			return "", "", false
		}
		return m.namer.Render(id), "", true
	}

	if has1 {
		switch {
		case slices.Contains(cat.Forms, field1):
			id.Form = field1
			if has2 {
				switch {
				case slices.Contains(cat.Evolutions, field2):
					id.Evolution = field2
				case field2 <= m.maxCostume:
					id.Costume = field2
				default:
					m.unrecognized(name, "unrecognized field "+match[3])
					return "", "", false
				}
			}
		case slices.Contains(cat.Evolutions, field1):
			id.Evolution = field1
			if has2 {
				if field2 > m.maxCostume {
					m.unrecognized(name, "unrecognized field "+match[3])
					return "", "", false
				}
				id.Costume = field2
			}
		case field1 <= m.maxCostume:
			id.Costume = field1
		default:
			m.unrecognized(name, "unrecognized field "+match[2])
			return "", "", false
		}
	}

	if id.Form != 0 && id.Form == cat.Forms[0] {
		id.Form = 0
		folds = filePrefix + match[1] + "_00"
		if match[3] != "" {
			folds += "_" + match[3]
		}
		folds += match[4] + ".png"
	}
	return m.namer.Render(id), folds, true
}

func (m *Migrator) unrecognized(name, detail string) {
	m.logger.Warn("Skipping PMSF asset", zap.String("file", name), zap.String("reason", detail))
	m.diag.Add(models.DiagUnrecognizedAsset, name, detail)
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	return v, err == nil
}

// Apply copies every planned file from inDir to outDir and returns the
// output names written.
func Apply(ctx context.Context, inDir, outDir string, copies []Copy) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	written := make([]string, 0, len(copies))
	for _, c := range copies {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := convert.CopyFile(filepath.Join(inDir, c.Source), filepath.Join(outDir, c.Output+".png")); err != nil {
			return written, fmt.Errorf("failed to copy %s: %w", c.Source, err)
		}
		written = append(written, c.Output)
	}
	return written, nil
}
