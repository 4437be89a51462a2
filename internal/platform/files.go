package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// File permissions
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// Thumbnail file naming
const (
	ThumbnailExtension    = ".jpg"
	MaxFileNameRunes      = 120
	ChannelTitleSeparator = " - "
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// invalidFileNameChars cannot appear in a file name on at least one supported OS
const invalidFileNameChars = `<>:"/\|?*`

// CommandRunner starts an external program and waits for it
type CommandRunner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Opener launches URLs and files with the system default handler
type Opener struct {
	goos string
	run  CommandRunner
}

// NewOpener creates an opener for the running OS
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, run: runCommand}
}

// NewOpenerWithRunner creates an opener with a custom runner, used in tests
func NewOpenerWithRunner(goos string, run CommandRunner) *Opener {
	return &Opener{goos: goos, run: run}
}

// OpenInDefaultHandler opens a URL in the browser or a file in its default app
func (o *Opener) OpenInDefaultHandler(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("nothing to open")
	}

	if !isURL(target) {
		if _, err := os.Stat(target); err != nil {
			return fmt.Errorf("file does not exist: %w", err)
		}
		absPath, err := filepath.Abs(target)
		if err != nil {
			return fmt.Errorf("failed to get absolute path: %w", err)
		}
		target = absPath
	}

	switch o.goos {
	case OSDarwin: // macOS
		return o.run(OpenCommand, target)
	case OSWindows:
		return o.run(CmdCommand, WindowsCmdFlag, StartCommand, "", target)
	case OSLinux:
		return o.run(XDGOpenCommand, target)
	default:
		return fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}

// OpenFileInManager opens the file manager with the saved thumbnail selected
func (o *Opener) OpenFileInManager(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch o.goos {
	case OSDarwin:
		return o.run(OpenCommand, MacOSSelectFlag, absPath)
	case OSWindows:
		return o.run(ExplorerCommand, WindowsSelectParam+absPath)
	case OSLinux:
		// File selection is not standardized on Linux, open the parent directory
		dir := filepath.Dir(absPath)
		if err := o.run(XDGOpenCommand, dir); err == nil {
			return nil
		}
		for _, fm := range LinuxFileManagers {
			if _, err := exec.LookPath(fm); err == nil {
				return o.run(fm, dir)
			}
		}
		return fmt.Errorf("no suitable file manager found")
	default:
		return o.OpenInDefaultHandler(filepath.Dir(absPath))
	}
}

func isURL(target string) bool {
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// FileSaver writes thumbnail bytes to disk
type FileSaver struct{}

// NewFileSaver creates a file saver
func NewFileSaver() *FileSaver {
	return &FileSaver{}
}

// Save writes data to path, creating parent directories. The file is written
// to a temporary sibling first so a failed write never leaves a partial image.
func (s *FileSaver) Save(data []byte, path string) error {
	if path == "" {
		return &model.WriteError{Path: path, Err: fmt.Errorf("empty path")}
	}
	if err := CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
		return &model.WriteError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".thumb-*")
	if err != nil {
		return &model.WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, DefaultFilePermissions); err != nil {
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &model.WriteError{Path: path, Err: err}
	}

	return nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// GetHomePicturesDir returns the standard Pictures directory for the user
func GetHomePicturesDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "Pictures"), nil
}

// FallbackPicturesDir is used when the home directory cannot be determined
func FallbackPicturesDir() string {
	return filepath.Join(os.TempDir(), "yt-thumbnails")
}

// ThumbnailFileName builds the save path for a thumbnail following the
// configured naming mode. ChannelTitle mode falls back to the video id when
// channel and title are both unknown.
func ThumbnailFileName(settings model.SettingsView, ref model.VideoReference, channel, title string) string {
	name := ref.ID().String()
	if settings.FileNamingMode() == model.NamingChannelTitle {
		parts := make([]string, 0, 2)
		for _, p := range []string{channel, title} {
			if p = SanitizeFileName(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			name = truncateRunes(strings.Join(parts, ChannelTitleSeparator), MaxFileNameRunes)
		}
	}
	return filepath.Join(settings.SaveImagePath(), name+ThumbnailExtension)
}

// SanitizeFileName replaces characters that are invalid in file names and
// trims leading and trailing dots and spaces
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == utf8.RuneError:
			continue
		case unicode.IsControl(r):
			b.WriteRune(' ')
		case strings.ContainsRune(invalidFileNameChars, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(strings.Join(strings.Fields(b.String()), " "), ". ")
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:max]), ". ")
}
