package naming

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sprite-index/feature/sprite/models"

	"go.uber.org/zap"
)

// ErrInvalidName is returned by Parse for strings no identity renders to.
var ErrInvalidName = errors.New("invalid canonical name")

// Convention is the presentation of a canonical name. Both conventions encode
// the same fields in the same order.
type Convention struct {
	Name      string
	Separator string
	Shiny     string
}

var (
	// Hyphen renders 123-e1-f5-c2-g2-shiny.
	Hyphen = Convention{Name: "hyphen", Separator: "-", Shiny: "shiny"}
	// Addressable renders 123_e1_f5_c2_g2_s.
	Addressable = Convention{Name: "addressable", Separator: "_", Shiny: "s"}
)

// ConventionByName returns the convention registered under name.
func ConventionByName(name string) (Convention, error) {
	switch strings.ToLower(name) {
	case "", Hyphen.Name:
		return Hyphen, nil
	case Addressable.Name:
		return Addressable, nil
	default:
		return Convention{}, fmt.Errorf("unknown naming convention %q", name)
	}
}

// field tags in emission order
const (
	tagRenderMode = 'b'
	tagEvolution  = 'e'
	tagForm       = 'f'
	tagCostume    = 'c'
	tagGender     = 'g'
)

var fieldOrder = []byte{tagRenderMode, tagEvolution, tagForm, tagCostume, tagGender}

// DefaultForms exposes the per-creature default form registered while
// building the table.
type DefaultForms interface {
	DefaultForm(creatureID int) (int, bool)
}

// Namer renders identities to canonical names and parses them back.
type Namer struct {
	conv     Convention
	defaults DefaultForms
	logger   *zap.Logger
	diag     *models.Diagnostics
}

// New creates a namer. defaults may be nil, in which case only form 0 is
// suppressed.
func New(conv Convention, defaults DefaultForms, logger *zap.Logger, diag *models.Diagnostics) *Namer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Namer{conv: conv, defaults: defaults, logger: logger, diag: diag}
}

// Convention returns the convention the namer renders with.
func (n *Namer) Convention() Convention { return n.conv }

// Render returns the canonical name of id. Fields holding their neutral
// value are omitted.
func (n *Namer) Render(id models.Identity) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(id.CreatureID))

	form := n.visibleForm(id)
	if form != 0 && id.Evolution != 0 {
		n.logger.Warn("Found identity with both evolution and form set, not compatible with addressable assets",
			zap.Int("creature", id.CreatureID), zap.Int("form", form), zap.Int("evolution", id.Evolution))
		n.diag.Add(models.DiagCompatibility, strconv.Itoa(id.CreatureID), "form and evolution both set")
	}

	values := map[byte]int{
		tagRenderMode: id.RenderMode,
		tagEvolution:  id.Evolution,
		tagForm:       form,
		tagCostume:    id.Costume,
		tagGender:     int(id.Gender),
	}
	for _, tag := range fieldOrder {
		if v := values[tag]; v != 0 {
			b.WriteString(n.conv.Separator)
			b.WriteByte(tag)
			b.WriteString(strconv.Itoa(v))
		}
	}
	if id.Shiny {
		b.WriteString(n.conv.Separator)
		b.WriteString(n.conv.Shiny)
	}
	return b.String()
}

func (n *Namer) visibleForm(id models.Identity) int {
	if id.Form == 0 || n.defaults == nil {
		return id.Form
	}
	if def, ok := n.defaults.DefaultForm(id.CreatureID); ok && def == id.Form {
		return 0
	}
	return id.Form
}

// Parse decodes a canonical name rendered with the namer's convention. Fields
// must appear in emission order and at most once. A suppressed default form
// parses back as form 0.
func (n *Namer) Parse(name string) (models.Identity, error) {
	parts := strings.Split(name, n.conv.Separator)
	creature, err := strconv.Atoi(parts[0])
	if err != nil || creature < 0 || parts[0] != strconv.Itoa(creature) {
		return models.Identity{}, fmt.Errorf("%w: %q: bad creature id", ErrInvalidName, name)
	}
	id := models.Identity{CreatureID: creature}

	next := 0
	for i, part := range parts[1:] {
		if part == n.conv.Shiny {
			if i != len(parts)-2 {
				return models.Identity{}, fmt.Errorf("%w: %q: shiny must be last", ErrInvalidName, name)
			}
			id.Shiny = true
			continue
		}
		if len(part) < 2 {
			return models.Identity{}, fmt.Errorf("%w: %q: bad field %q", ErrInvalidName, name, part)
		}
		pos := indexOf(fieldOrder[next:], part[0])
		if pos < 0 {
			return models.Identity{}, fmt.Errorf("%w: %q: unexpected field %q", ErrInvalidName, name, part)
		}
		next += pos + 1

		v, err := strconv.Atoi(part[1:])
		if err != nil || v <= 0 || part[1:] != strconv.Itoa(v) {
			return models.Identity{}, fmt.Errorf("%w: %q: bad value in %q", ErrInvalidName, name, part)
		}
		switch part[0] {
		case tagRenderMode:
			id.RenderMode = v
		case tagEvolution:
			id.Evolution = v
		case tagForm:
			id.Form = v
		case tagCostume:
			id.Costume = v
		case tagGender:
			id.Gender = models.Gender(v)
		}
	}
	return id, nil
}

func indexOf(tags []byte, c byte) int {
	for i, t := range tags {
		if t == c {
			return i
		}
	}
	return -1
}
