package cli

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestSpecChanged(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		path  string
		want  bool
	}{
		{
			name:  "write to the spec",
			event: fsnotify.Event{Name: "specs/pipeline.json", Op: fsnotify.Write},
			path:  "specs/pipeline.json",
			want:  true,
		},
		{
			name:  "create counts as change",
			event: fsnotify.Event{Name: "specs/pipeline.json", Op: fsnotify.Create},
			path:  "specs/pipeline.json",
			want:  true,
		},
		{
			name:  "rename counts as change",
			event: fsnotify.Event{Name: "specs/pipeline.json", Op: fsnotify.Rename},
			path:  "specs/pipeline.json",
			want:  true,
		},
		{
			name:  "chmod alone is ignored",
			event: fsnotify.Event{Name: "specs/pipeline.json", Op: fsnotify.Chmod},
			path:  "specs/pipeline.json",
			want:  false,
		},
		{
			name:  "other file in the directory",
			event: fsnotify.Event{Name: "specs/other.json", Op: fsnotify.Write},
			path:  "specs/pipeline.json",
			want:  false,
		},
		{
			name:  "editor temp file",
			event: fsnotify.Event{Name: "specs/.pipeline.json.swp", Op: fsnotify.Write},
			path:  "specs/pipeline.json",
			want:  false,
		},
		{
			name:  "unclean path still matches",
			event: fsnotify.Event{Name: "specs//pipeline.json", Op: fsnotify.Write},
			path:  "specs/pipeline.json",
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := specChanged(tt.event, tt.path); got != tt.want {
				t.Errorf("specChanged(%v, %q) = %v, want %v", tt.event, tt.path, got, tt.want)
			}
		})
	}
}
