package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolvePath(t *testing.T) {
	baseDir := t.TempDir()
	existingDir := filepath.Join(baseDir, "notes")
	if err := os.MkdirAll(existingDir, 0755); err != nil {
		t.Fatal(err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "File Path",
			in:   filepath.Join(baseDir, "mine.json"),
			want: filepath.Join(baseDir, "mine.json"),
		},
		{
			name: "Existing Directory",
			in:   existingDir,
			want: filepath.Join(existingDir, DefaultFileName),
		},
		{
			name: "Home Expansion",
			in:   "~/floatnote-test.json",
			want: filepath.Join(home, "floatnote-test.json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.in)
			if err != nil {
				t.Fatalf("ResolvePath() error = %v", err)
			}
			if filepath.Clean(got) != filepath.Clean(tt.want) {
				t.Errorf("ResolvePath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolvePath_Empty(t *testing.T) {
	got, err := ResolvePath("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != DefaultFileName || !filepath.IsAbs(got) {
		t.Errorf("ResolvePath(\"\") = %v", got)
	}
}

func TestSandboxPath(t *testing.T) {
	inTemp := filepath.Join(t.TempDir(), "notes.json")
	if got := SandboxPath(inTemp); got != inTemp {
		t.Errorf("path inside temp dir was moved: %v", got)
	}

	got := SandboxPath("/home/someone/notes.json")
	want := filepath.Join(os.TempDir(), "floatnote-dev", "notes.json")
	if got != want {
		t.Errorf("SandboxPath() = %v, want %v", got, want)
	}
}
