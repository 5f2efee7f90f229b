package matcher

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/table"
)

// Legacy matches pokemon_icon_<key>[_<costume>][_shiny][_old[N]].png assets
// by table key prefix.
type Legacy struct {
	table     *table.Table
	prefix    string
	remainder *regexp.Regexp
	old       map[int]models.Identity
}

// NewLegacy creates a legacy matcher over t.
func NewLegacy(t *table.Table, opts Options) *Legacy {
	return &Legacy{
		table:     t,
		prefix:    opts.Prefix,
		remainder: regexp.MustCompile(`^(?:_(\d+))?(_shiny)?(_old(\d)?)?` + regexp.QuoteMeta(opts.extension()) + `$`),
		old:       opts.OldAssets,
	}
}

func (l *Legacy) Match(filename string) (Match, error) {
	if !strings.HasPrefix(filename, l.prefix) {
		return Match{}, unrecognized(filename, "missing prefix")
	}
	key, rest, ok := l.table.Lookup(filename[len(l.prefix):])
	if !ok {
		return Match{}, unrecognized(filename, "no matching key")
	}
	m := l.remainder.FindStringSubmatch(rest)
	if m == nil {
		return Match{}, unrecognized(filename, fmt.Sprintf("unparseable remainder %q", rest))
	}

	entry, _ := l.table.Entry(key)
	match := Match{
		Filename: filename,
		Key:      key,
		Targets:  entry.Targets,
		Shiny:    m[2] != "",
	}
	if m[1] != "" {
		costume, err := strconv.Atoi(m[1])
		if err != nil {
			return Match{}, unrecognized(filename, "bad costume index")
		}
		match.Costume = costume
	}

	if m[3] != "" {
		if m[4] != "" {
			return Match{}, fmt.Errorf("%w: %s: secondary old variant", ErrDroppedAsset, filename)
		}
		if len(entry.Targets) == 0 {
			return Match{}, unrecognized(filename, "old asset without targets")
		}
		id, ok := l.old[entry.Targets[0].CreatureID]
		if !ok {
			return Match{}, unrecognized(filename, "unrecognized old asset")
		}
		match.Targets = []models.Target{{Identity: id}}
		match.Old = true
	}
	return match, nil
}
