// Package cache provides content-addressed caching for the render pipeline.
//
// Three kinds of entries are cached, each behind its own key prefix:
//
//   - graph:    decoded graph documents, keyed by spec content hash
//   - layout:   computed layouts, keyed by graph hash + layout settings
//   - artifact: rendered outputs, keyed by layout hash + render settings
//
// Backends: [FileCache] for the CLI, [RedisCache] for shared deployments,
// [NullCache] to disable caching entirely.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache stores opaque byte values with optional expiry.
//
// Get reports a miss with (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means no expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys for the three pipeline stages. Implementations
// must be deterministic: equal inputs produce equal keys.
type Keyer interface {
	GraphKey(specHash string) string
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// Lifetimes for the three entry kinds. Keys are content hashes, so entries
// never go stale; the TTLs only bound disk usage left behind by abandoned
// specs. Graphs are cheap to rebuild and expire first.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// LayoutKeyOpts are the settings that change a computed layout. Every field
// participates in the key: two runs differing in any of them must not share
// an entry.
type LayoutKeyOpts struct {
	Direction     string  `json:"direction"`
	NodeSep       float64 `json:"node_sep"`
	RankSep       float64 `json:"rank_sep"`
	EdgeSep       float64 `json:"edge_sep"`
	Margin        float64 `json:"margin"`
	ClusterMargin float64 `json:"cluster_margin"`
	Sweeps        int     `json:"sweeps"`
}

// ArtifactKeyOpts are the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"` // svg, png, pdf, json, dot
	Style       string  `json:"style"`
	Padding     float64 `json:"padding"`
	Interactive bool    `json:"interactive"`
	Scale       float64 `json:"scale,omitempty"`
}

// DefaultKeyer derives keys by hashing the option structs.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey returns the key for a decoded graph. The spec hash is already a
// content hash, so it is used directly.
func (k *DefaultKeyer) GraphKey(specHash string) string {
	return "graph:" + specHash
}

// LayoutKey returns the key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns the key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// DefaultDir returns the per-user cache directory, honoring the platform
// convention (XDG on Linux, Library/Caches on macOS).
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "graphjs")
}
