package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"sprite-index/feature/sprite/models"
)

// Snapshot is the serialized form of a table, used to reuse a table in a
// later run without the game master.
type Snapshot struct {
	Entries      OrderedEntries `json:"entries"`
	DefaultForms map[int]int    `json:"default_forms"`
	Evolutions   map[int][]int  `json:"evolutions"`
}

// OrderedEntries marshals as a JSON object keyed by entry key while keeping
// insertion order, which decides first-match precedence.
type OrderedEntries []models.Entry

func (o OrderedEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(e.Key))
		buf.WriteByte(':')
		data, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *OrderedEntries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("entries must be a JSON object")
	}
	var out OrderedEntries
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var e models.Entry
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("entry %s: %w", key, err)
		}
		e.Key = key
		out = append(out, e)
	}
	*o = out
	return nil
}

// Snapshot captures the table, with hit flags when hits is not nil.
func (t *Table) Snapshot(hits *Hits) Snapshot {
	evolutions := make(map[int][]int, len(t.evolutions))
	for c, evos := range t.evolutions {
		evolutions[c] = append([]int(nil), evos...)
	}
	defaults := make(map[int]int, len(t.defaults))
	for c, f := range t.defaults {
		defaults[c] = f
	}
	return Snapshot{
		Entries:      t.WithHits(hits),
		DefaultForms: defaults,
		Evolutions:   evolutions,
	}
}

// FromSnapshot rebuilds a frozen table, re-running the prefix validation.
// Hit flags stored in the snapshot are ignored.
func FromSnapshot(s Snapshot) (*Table, error) {
	order := make([]string, 0, len(s.Entries))
	entries := make(map[string]models.Entry, len(s.Entries))
	for _, e := range s.Entries {
		if _, dup := entries[e.Key]; dup {
			return nil, fmt.Errorf("duplicate key %q in snapshot", e.Key)
		}
		e = e.Clone()
		e.Hit = false
		order = append(order, e.Key)
		entries[e.Key] = e
	}
	if err := Validate(order); err != nil {
		return nil, err
	}
	defaults := make(map[int]int, len(s.DefaultForms))
	for c, f := range s.DefaultForms {
		defaults[c] = f
	}
	evolutions := make(map[int][]int, len(s.Evolutions))
	for c, evos := range s.Evolutions {
		evolutions[c] = append([]int(nil), evos...)
	}
	return newTable(order, entries, defaults, evolutions), nil
}

// WriteSnapshot encodes the snapshot as indented JSON.
func WriteSnapshot(w io.Writer, s Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ReadSnapshot decodes a snapshot written by WriteSnapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode table snapshot: %w", err)
	}
	return s, nil
}
