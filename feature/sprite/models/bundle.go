package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// BundleKind discriminates the two shapes a bundle reference can take.
type BundleKind int

const (
	// BundleNumbered selects the Nth numbered asset of the creature.
	BundleNumbered BundleKind = iota
	// BundleNamed is an explicit, possibly shared, asset key.
	BundleNamed
)

// BundleKey is the game client's selector for the physical asset that renders
// a variant: either Numbered(n) or Named(s).
type BundleKey struct {
	kind  BundleKind
	value int
	name  string
}

// Numbered builds a bundle value reference.
func Numbered(v int) BundleKey {
	return BundleKey{kind: BundleNumbered, value: v}
}

// Named builds a bundle suffix reference.
func Named(s string) BundleKey {
	return BundleKey{kind: BundleNamed, name: s}
}

func (b BundleKey) Kind() BundleKind { return b.kind }

// Value is the bundle value. Only meaningful for numbered keys.
func (b BundleKey) Value() int { return b.value }

// Name is the bundle suffix. Only meaningful for named keys.
func (b BundleKey) Name() string { return b.name }

func (b BundleKey) IsNumbered() bool { return b.kind == BundleNumbered }

// Equal compares kind and payload.
func (b BundleKey) Equal(o BundleKey) bool {
	if b.kind != o.kind {
		return false
	}
	if b.kind == BundleNumbered {
		return b.value == o.value
	}
	return b.name == o.name
}

func (b BundleKey) String() string {
	if b.kind == BundleNumbered {
		return fmt.Sprintf("Numbered(%d)", b.value)
	}
	return fmt.Sprintf("Named(%q)", b.name)
}

// MarshalJSON keeps the game master shape: numbers stay numbers.
func (b BundleKey) MarshalJSON() ([]byte, error) {
	if b.kind == BundleNumbered {
		return []byte(strconv.Itoa(b.value)), nil
	}
	return json.Marshal(b.name)
}

// UnmarshalJSON accepts a JSON number or a JSON string.
func (b *BundleKey) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*b = Numbered(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bundle key must be a number or a string: %s", string(data))
	}
	*b = Named(s)
	return nil
}
