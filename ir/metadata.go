package ir

import (
	json "github.com/goccy/go-json"
)

// Feature tags collected during lowering. A tag names a regex
// capability the pattern uses, so callers can check a target dialect's
// support before emitting (an RE2-class engine, for example, rejects
// FeatureBackreference and both lookaround tags).
const (
	FeatureLiteral         = "literal"
	FeatureDot             = "dot"
	FeatureAnchor          = "anchor"
	FeatureCharClass       = "char-class"
	FeatureUnicodeProperty = "unicode-property"
	FeatureQuantifier      = "quantifier"
	FeatureLazyQuant       = "lazy-quantifier"
	FeaturePossessive      = "possessive-quantifier"
	FeatureNestedQuant     = "nested-quantifier"
	FeatureGroup           = "group"
	FeatureNamedGroup      = "named-group"
	FeatureAtomicGroup     = "atomic-group"
	FeatureAlternation     = "alternation"
	FeatureLookahead       = "lookahead"
	FeatureLookbehind      = "lookbehind"
	FeatureBackreference   = "backreference"
)

// AnomalyModeConflict is recorded when a quantifier arrives marked both
// lazy and possessive. The parser never produces that shape; seeing it
// means the AST was built by hand.
const AnomalyModeConflict = "quantifier-mode-conflict"

// Metadata accompanies a compiled IR tree: the feature tags the pattern
// uses, in first-seen order, plus any anomalies noticed while lowering.
//
// Metadata is an explicit second output of compilation, never shared
// state, so compiler instances can be reused across patterns without
// leakage.
type Metadata struct {
	features  []string
	seen      map[string]bool
	anomalies []string
}

func newMetadata() *Metadata {
	return &Metadata{seen: make(map[string]bool)}
}

func (m *Metadata) add(feature string) {
	if m.seen[feature] {
		return
	}
	m.seen[feature] = true
	m.features = append(m.features, feature)
}

func (m *Metadata) addAnomaly(a string) {
	for _, have := range m.anomalies {
		if have == a {
			return
		}
	}
	m.anomalies = append(m.anomalies, a)
}

// Features returns the collected feature tags in first-seen order.
// The returned slice is owned by the metadata and must not be modified.
func (m *Metadata) Features() []string {
	return m.features
}

// Has reports whether the given feature tag was collected.
func (m *Metadata) Has(feature string) bool {
	return m.seen[feature]
}

// Anomalies returns contract oddities noticed during lowering (empty in
// normal operation).
func (m *Metadata) Anomalies() []string {
	return m.anomalies
}

// MarshalJSON renders {"features":[...],"anomalies":[...]}.
func (m *Metadata) MarshalJSON() ([]byte, error) {
	features := m.features
	if features == nil {
		features = []string{}
	}
	anomalies := m.anomalies
	if anomalies == nil {
		anomalies = []string{}
	}
	return json.Marshal(map[string]any{"features": features, "anomalies": anomalies})
}
