package matcher

import (
	"errors"
	"fmt"
	"strings"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/symbols"
	"sprite-index/feature/sprite/table"

	"go.uber.org/zap"
)

var (
	// ErrUnrecognized marks an asset no table entry or token resolves.
	ErrUnrecognized = errors.New("unrecognized asset")
	// ErrDroppedAsset marks a known duplicate that is skipped on purpose.
	ErrDroppedAsset = errors.New("dropped asset")
)

// Family selects the asset naming grammar of an input directory.
type Family string

const (
	FamilyLegacy      Family = "legacy"
	FamilyAddressable Family = "addressable"
)

// ParseFamily validates a configured family name.
func ParseFamily(s string) (Family, error) {
	switch f := Family(strings.ToLower(s)); f {
	case FamilyLegacy, FamilyAddressable:
		return f, nil
	default:
		return "", fmt.Errorf("unknown asset family %q", s)
	}
}

// Match is the resolution of one observed asset.
type Match struct {
	Filename string
	// Key is the owning table entry. It may be empty for addressable assets
	// whose identity has no configured entry.
	Key     string
	Targets []models.Target
	Costume int
	Shiny   bool
	// Old is set when the asset is a superseded legacy asset routed to its
	// historical identity.
	Old bool
}

// Identities returns every target with the asset's modifiers applied.
func (m Match) Identities() []models.Identity {
	out := make([]models.Identity, 0, len(m.Targets))
	for _, t := range m.Targets {
		out = append(out, t.WithModifiers(m.Costume, m.Shiny))
	}
	return out
}

// Matcher resolves observed asset filenames against a frozen table.
type Matcher interface {
	Match(filename string) (Match, error)
}

// Options configures the filename grammar shared by both families.
type Options struct {
	// Prefix is stripped from legacy filenames before the key lookup.
	Prefix string
	// Extension is the asset file extension, including the dot.
	Extension string
	// OldAssets maps a creature to the identity its "_old" asset renders.
	OldAssets map[int]models.Identity
}

func (o Options) extension() string {
	if o.Extension == "" {
		return ".png"
	}
	return o.Extension
}

// New returns the matcher for family.
func New(family Family, t *table.Table, sym symbols.Table, opts Options, logger *zap.Logger, diag *models.Diagnostics) (Matcher, error) {
	switch family {
	case FamilyLegacy:
		return NewLegacy(t, opts), nil
	case FamilyAddressable:
		return NewAddressable(t, sym, opts, logger, diag), nil
	default:
		return nil, fmt.Errorf("unknown asset family %q", family)
	}
}

func unrecognized(filename, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrUnrecognized, filename, reason)
}
