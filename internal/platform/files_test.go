package platform

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

type stubSettings struct {
	dir  string
	mode model.FileNamingMode
}

func (s stubSettings) SaveImagePath() string                { return s.dir }
func (s stubSettings) AutoSaveImages() bool                 { return false }
func (s stubSettings) AutoLoadFromClipboard() bool          { return false }
func (s stubSettings) ShowPublishedDate() bool              { return false }
func (s stubSettings) ShowViewCount() bool                  { return false }
func (s stubSettings) FileNamingMode() model.FileNamingMode { return s.mode }

type recordedCommand struct {
	name string
	args []string
}

func recordingRunner(calls *[]recordedCommand) CommandRunner {
	return func(name string, args ...string) error {
		*calls = append(*calls, recordedCommand{name: name, args: args})
		return nil
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomePicturesDir(t *testing.T) {
	picturesDir, err := GetHomePicturesDir()
	if err != nil {
		t.Fatalf("Failed to get pictures directory: %v", err)
	}

	if filepath.Base(picturesDir) != "Pictures" {
		t.Errorf("Expected directory to end with 'Pictures', got: %s", picturesDir)
	}
}

func TestGetHomePicturesDir_IgnoresAndroidEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("ANDROID_DATA", "/data")
	t.Setenv("ANDROID_ROOT", "/system")

	picturesDir, err := GetHomePicturesDir()
	if err != nil {
		t.Fatalf("Failed to get pictures directory: %v", err)
	}

	expected := filepath.Join(home, "Pictures")
	if picturesDir != expected {
		t.Errorf("Expected %s, got %s", expected, picturesDir)
	}
}

func TestFileSaver_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "thumbs")
	path := filepath.Join(dir, "dQw4w9WgXcQ.jpg")
	data := []byte{0xFF, 0xD8, 0xFF, 0xD9}

	if err := NewFileSaver().Save(data, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !reflect.DeepEqual(got, data) {
		t.Errorf("Saved bytes mismatch: %v", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the saved file in %s, got %d entries", dir, len(entries))
	}
}

func TestFileSaver_SaveReturnsWriteError(t *testing.T) {
	// A regular file where a directory is expected makes MkdirAll fail
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := NewFileSaver().Save([]byte("x"), filepath.Join(blocker, "sub", "a.jpg"))
	if !errors.Is(err, model.ErrWrite) {
		t.Fatalf("Expected ErrWrite, got %v", err)
	}

	var writeErr *model.WriteError
	if !errors.As(err, &writeErr) || !strings.HasSuffix(writeErr.Path, "a.jpg") {
		t.Errorf("Expected WriteError carrying the path, got %#v", err)
	}
}

func TestOpener_OpenInDefaultHandler_URL(t *testing.T) {
	tests := []struct {
		goos     string
		expected recordedCommand
	}{
		{OSDarwin, recordedCommand{OpenCommand, []string{"https://youtu.be/dQw4w9WgXcQ"}}},
		{OSWindows, recordedCommand{CmdCommand, []string{WindowsCmdFlag, StartCommand, "", "https://youtu.be/dQw4w9WgXcQ"}}},
		{OSLinux, recordedCommand{XDGOpenCommand, []string{"https://youtu.be/dQw4w9WgXcQ"}}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var calls []recordedCommand
			opener := NewOpenerWithRunner(tt.goos, recordingRunner(&calls))

			if err := opener.OpenInDefaultHandler("https://youtu.be/dQw4w9WgXcQ"); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(calls) != 1 || !reflect.DeepEqual(calls[0], tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, calls)
			}
		})
	}
}

func TestOpener_OpenInDefaultHandler_File(t *testing.T) {
	var calls []recordedCommand
	opener := NewOpenerWithRunner(OSLinux, recordingRunner(&calls))

	missing := filepath.Join(t.TempDir(), "missing.jpg")
	err := opener.OpenInDefaultHandler(missing)
	if err == nil || !strings.Contains(err.Error(), "file does not exist") {
		t.Errorf("Expected missing file error, got %v", err)
	}

	existing := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := os.WriteFile(existing, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := opener.OpenInDefaultHandler(existing); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(calls) != 1 || calls[0].args[0] != existing {
		t.Errorf("Expected xdg-open with %s, got %v", existing, calls)
	}
}

func TestOpener_UnsupportedOS(t *testing.T) {
	for _, goos := range []string{"plan9", "android"} {
		t.Run(goos, func(t *testing.T) {
			var calls []recordedCommand
			opener := NewOpenerWithRunner(goos, recordingRunner(&calls))
			if err := opener.OpenInDefaultHandler("https://youtu.be/dQw4w9WgXcQ"); err == nil {
				t.Error("Expected error for unsupported OS")
			}
			if len(calls) != 0 {
				t.Errorf("Expected no command, got %v", calls)
			}
		})
	}
}

func TestOpener_OpenFileInManager(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := os.WriteFile(existing, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	var calls []recordedCommand
	opener := NewOpenerWithRunner(OSDarwin, recordingRunner(&calls))
	if err := opener.OpenFileInManager(existing); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := recordedCommand{OpenCommand, []string{MacOSSelectFlag, existing}}
	if len(calls) != 1 || !reflect.DeepEqual(calls[0], expected) {
		t.Errorf("Expected %v, got %v", expected, calls)
	}

	if err := opener.OpenFileInManager(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("Expected error for non-existent file")
	}
}

func TestThumbnailFileName(t *testing.T) {
	ref := model.ReferenceFromID("dQw4w9WgXcQ")
	dir := filepath.Join("pics")

	tests := []struct {
		name     string
		mode     model.FileNamingMode
		channel  string
		title    string
		expected string
	}{
		{"video id", model.NamingVideoID, "Rick Astley", "Never Gonna Give You Up", "dQw4w9WgXcQ.jpg"},
		{"channel title", model.NamingChannelTitle, "Rick Astley", "Never Gonna Give You Up", "Rick Astley - Never Gonna Give You Up.jpg"},
		{"sanitized", model.NamingChannelTitle, "AC/DC", `What? "Live"`, `AC_DC - What_ _Live_.jpg`},
		{"title only", model.NamingChannelTitle, "", "Title", "Title.jpg"},
		{"unknown falls back to id", model.NamingChannelTitle, "", "  ", "dQw4w9WgXcQ.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ThumbnailFileName(stubSettings{dir: dir, mode: tt.mode}, ref, tt.channel, tt.title)
			want := filepath.Join(dir, tt.expected)
			if got != want {
				t.Errorf("Expected %q, got %q", want, got)
			}
		})
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"a<b>c", "a_b_c"},
		{"  spaced   out  ", "spaced out"},
		{"tab\tand\nnewline", "tab and newline"},
		{"...dots...", "dots"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeFileName(tt.input); got != tt.expected {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("ж", MaxFileNameRunes+10)
	if got := truncateRunes(long, MaxFileNameRunes); len([]rune(got)) != MaxFileNameRunes {
		t.Errorf("Expected %d runes, got %d", MaxFileNameRunes, len([]rune(got)))
	}
	if got := truncateRunes("short", MaxFileNameRunes); got != "short" {
		t.Errorf("Expected short to be unchanged, got %q", got)
	}
}
