package models

import "sync"

// DiagnosticKind classifies a non-fatal condition reported at end of run.
type DiagnosticKind string

const (
	DiagUnrecognizedConfig DiagnosticKind = "unrecognized_config"
	DiagUnrecognizedAsset  DiagnosticKind = "unrecognized_asset"
	DiagDroppedAsset       DiagnosticKind = "dropped_asset"
	DiagOverrideIgnored    DiagnosticKind = "override_ignored"
	DiagDuplicateOutput    DiagnosticKind = "duplicate_output"
	DiagNeverObserved      DiagnosticKind = "never_observed"
	DiagConversionFailed   DiagnosticKind = "conversion_failed"
	DiagCostumeFallback    DiagnosticKind = "costume_fallback"
	DiagCompatibility      DiagnosticKind = "compatibility"
)

// Diagnostic is a single aggregated warning.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject"`
	Detail  string         `json:"detail,omitempty"`
}

// Diagnostics collects warnings across the pipeline. Safe for concurrent use
// since conversion workers report into it.
type Diagnostics struct {
	mu    sync.Mutex
	items []Diagnostic
}

func (d *Diagnostics) Add(kind DiagnosticKind, subject, detail string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	d.items = append(d.items, Diagnostic{Kind: kind, Subject: subject, Detail: detail})
	d.mu.Unlock()
}

// Items returns a copy of everything reported so far.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Diagnostic(nil), d.items...)
}

// Count returns the number of diagnostics of the given kind.
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, it := range d.Items() {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

// Summary counts diagnostics per kind.
func (d *Diagnostics) Summary() map[DiagnosticKind]int {
	out := make(map[DiagnosticKind]int)
	for _, it := range d.Items() {
		out[it.Kind]++
	}
	return out
}
