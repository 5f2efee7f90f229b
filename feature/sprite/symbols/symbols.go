package symbols

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Table resolves protocol enum names to integer ids. It is supplied by the
// configuration collaborator so the resolver never depends on a specific
// enum source.
type Table interface {
	// ResolveForm looks a form up within a creature's namespace. The name may
	// be fully qualified ("RATTATA_ALOLA") or the bare token ("ALOLA").
	ResolveForm(creatureID int, name string) (int, bool)
	// ResolveGlobalForm looks a fully qualified form name up.
	ResolveGlobalForm(name string) (int, bool)
	ResolveEvolution(name string) (int, bool)
	ResolveCostume(name string) (int, bool)
	ResolveRenderMode(name string) (int, bool)
	// MaxCostume is the largest known costume id.
	MaxCostume() int
}

// Dictionary is a map-backed Table loaded from a YAML or JSON document.
type Dictionary struct {
	Creatures   map[string]int `yaml:"creatures"`
	Forms       map[string]int `yaml:"forms"`
	Evolutions  map[string]int `yaml:"evolutions"`
	Costumes    map[string]int `yaml:"costumes"`
	RenderModes map[string]int `yaml:"render_modes"`

	creatureNames map[int]string
	maxCostume    int
}

// Load parses a dictionary document. JSON is accepted as YAML.
func Load(r io.Reader) (*Dictionary, error) {
	var d Dictionary
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode symbol table: %w", err)
	}
	d.index()
	return &d, nil
}

// LoadFile opens and parses a dictionary file.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open symbol table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// New builds a dictionary from in-memory maps. Nil maps are allowed.
func New(creatures, forms, evolutions, costumes, renderModes map[string]int) *Dictionary {
	d := &Dictionary{
		Creatures:   creatures,
		Forms:       forms,
		Evolutions:  evolutions,
		Costumes:    costumes,
		RenderModes: renderModes,
	}
	d.index()
	return d
}

func (d *Dictionary) index() {
	d.creatureNames = make(map[int]string, len(d.Creatures))
	for name, id := range d.Creatures {
		d.creatureNames[id] = name
	}
	d.maxCostume = 0
	for _, id := range d.Costumes {
		if id > d.maxCostume {
			d.maxCostume = id
		}
	}
}

// CreatureName returns the enum name of a creature id.
func (d *Dictionary) CreatureName(id int) (string, bool) {
	name, ok := d.creatureNames[id]
	return name, ok
}

func (d *Dictionary) ResolveForm(creatureID int, name string) (int, bool) {
	scope, ok := d.creatureNames[creatureID]
	if !ok {
		return 0, false
	}
	scope += "_"
	if strings.HasPrefix(name, scope) {
		return lookup(d.Forms, name)
	}
	return lookup(d.Forms, scope+name)
}

func (d *Dictionary) ResolveGlobalForm(name string) (int, bool) {
	return lookup(d.Forms, name)
}

func (d *Dictionary) ResolveEvolution(name string) (int, bool) {
	return lookup(d.Evolutions, name)
}

func (d *Dictionary) ResolveCostume(name string) (int, bool) {
	return lookup(d.Costumes, name)
}

func (d *Dictionary) ResolveRenderMode(name string) (int, bool) {
	return lookup(d.RenderModes, name)
}

func (d *Dictionary) MaxCostume() int {
	return d.maxCostume
}

// zero ids are the protocol's UNSET values and never resolve
func lookup(m map[string]int, name string) (int, bool) {
	id, ok := m[name]
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}
