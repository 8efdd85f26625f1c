package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/antopio26/graph-js/pkg/errors"
	"github.com/antopio26/graph-js/pkg/layout"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graphjs.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Layout.Direction != "TB" || cfg.Layout.RankSep != layout.DefaultRankSep {
		t.Errorf("Default().Layout = %+v", cfg.Layout)
	}
	if cfg.Render.Style != "simple" {
		t.Errorf("Default().Render.Style = %q", cfg.Render.Style)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.TTL.Std() != 24*time.Hour {
		t.Errorf("Default().Cache = %+v", cfg.Cache)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
[layout]
direction = "LR"
rank_sep = 90

[render]
style = "blueprint"
padding = 16

[cache]
backend = "redis"
url = "redis://localhost:6379/1"
ttl = "30m"

[store]
url = "mongodb://localhost:27017"

[serve]
addr = ":9000"
metrics = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Layout.Direction != "LR" || cfg.Layout.RankSep != 90 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
	// Settings the file does not mention keep their defaults.
	if cfg.Layout.NodeSep != layout.DefaultNodeSep {
		t.Errorf("NodeSep = %v, want the default %v", cfg.Layout.NodeSep, layout.DefaultNodeSep)
	}
	if cfg.Render.Style != "blueprint" || cfg.Render.Padding != 16 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Cache.TTL.Std() != 30*time.Minute {
		t.Errorf("Cache.TTL = %v, want 30m", cfg.Cache.TTL.Std())
	}
	if cfg.Store.Database != "graphjs" {
		t.Errorf("Store.Database = %q, want the default", cfg.Store.Database)
	}
	if cfg.Serve.Addr != ":9000" || !cfg.Serve.Metrics {
		t.Errorf("Serve = %+v", cfg.Serve)
	}

	eng := cfg.Layout.Engine()
	if eng.Direction != layout.LeftRight || eng.RankSep != 90 {
		t.Errorf("Engine() = %+v", eng)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"unknown key", "[layout]\ndirektion = \"TB\"\n", errors.ErrCodeInvalidConfig},
		{"unknown section", "[layouts]\ndirection = \"TB\"\n", errors.ErrCodeInvalidConfig},
		{"bad toml", "[layout\n", errors.ErrCodeInvalidConfig},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidConfig},
		{"redis without url", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"bad style", "[render]\nstyle = \"neon\"\n", errors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}
