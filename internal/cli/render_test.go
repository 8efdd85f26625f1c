package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{
			name:  "no output strips input extension",
			input: "specs/pipeline.json",
			want:  "specs/pipeline",
		},
		{
			name:   "output with format extension keeps stem",
			output: "out/drawing.svg",
			input:  "spec.json",
			want:   "out/drawing",
		},
		{
			name:   "output with png extension keeps stem",
			output: "drawing.png",
			input:  "spec.json",
			want:   "drawing",
		},
		{
			name:   "output without format extension used as-is",
			output: "out/drawing",
			input:  "spec.json",
			want:   "out/drawing",
		},
		{
			name:   "output with unrelated extension used as-is",
			output: "drawing.bak",
			input:  "spec.json",
			want:   "drawing.bak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "drawing.svg")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg"},
		input:     "spec.json",
		output:    out,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("output content = %q, want %q", data, "<svg/>")
	}
}

func TestWriteArtifactsMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "spec.json")

	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{
			"svg":  []byte("<svg/>"),
			"json": []byte("{}"),
		},
		formats: []string{"svg", "json"},
		input:   input,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	base := filepath.Join(dir, "spec")
	for _, ext := range []string{"svg", "json"} {
		if _, err := os.Stat(base + "." + ext); err != nil {
			t.Errorf("expected output %s.%s: %v", base, ext, err)
		}
	}
}

func TestWriteArtifactsSkipsMissingFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "spec.json")

	// png requested but not produced; only svg should land on disk
	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg", "png"},
		input:     input,
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error = %v", err)
	}

	base := filepath.Join(dir, "spec")
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("expected svg output: %v", err)
	}
	if _, err := os.Stat(base + ".png"); !os.IsNotExist(err) {
		t.Errorf("png output should not exist, stat error = %v", err)
	}
}
