package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "simple", id: "api-server", wantErr: false},
		{name: "with slash", id: "team/service", wantErr: false},
		{name: "with dots", id: "svc.internal.v2", wantErr: false},
		{name: "unicode", id: "サービス", wantErr: false},
		{name: "empty", id: "", wantErr: true},
		{name: "too long", id: strings.Repeat("a", 257), wantErr: true},
		{name: "control char", id: "svc\x01name", wantErr: true},
		{name: "newline", id: "svc\nname", wantErr: true},
		{name: "path traversal", id: "../etc/passwd", wantErr: true},
		{name: "double slash", id: "a//b", wantErr: true},
		{name: "backslash", id: "a\\b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidSpec {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidSpec)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		allowed []string
		wantErr bool
	}{
		{name: "any extension when unrestricted", path: "out.foo", wantErr: false},
		{name: "allowed extension", path: "diagram.svg", allowed: []string{"svg", "png"}, wantErr: false},
		{name: "second allowed extension", path: "diagram.png", allowed: []string{"svg", "png"}, wantErr: false},
		{name: "disallowed extension", path: "diagram.gif", allowed: []string{"svg", "png"}, wantErr: true},
		{name: "empty", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.path, tt.allowed...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}
