// Package index builds in-memory name→path tables from the filesystem:
// a shortcut index over desktop and program-menu roots, and a flat index
// over one directory's immediate entries. Indexes are rebuilt on every
// call so they reflect filesystem state at resolution time, never at
// process start.
package index

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Chiyang001/ZhiLing-AI/internal/match"
)

// Scanner produces candidate sets for the fuzzy resolver.
type Scanner struct {
	// DesktopRoots are scanned recursively for shortcut files; their
	// immediate subdirectories are indexed as openable folders too.
	DesktopRoots []string
	// MenuRoots are program-shortcut roots (Start Menu Programs on
	// Windows, XDG application dirs elsewhere), scanned recursively.
	MenuRoots []string
	// ShortcutExts identifies shortcut files, lower-case with dot.
	ShortcutExts []string

	log *zap.Logger
}

// NewScanner returns a Scanner over the platform's default roots.
func NewScanner(log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{
		DesktopRoots: defaultDesktopRoots(),
		MenuRoots:    defaultMenuRoots(),
		ShortcutExts: defaultShortcutExts(),
		log:          log,
	}
}

// Shortcuts scans every root and returns the combined candidate set.
// Candidate keys are the shortcut filename without extension,
// lower-cased. Duplicate keys keep their first slot but the most recently
// scanned path wins. A root that cannot be read is skipped, not fatal.
func (s *Scanner) Shortcuts() []match.Candidate {
	var out []match.Candidate
	slot := make(map[string]int)

	put := func(key, path string, isDir bool) {
		if i, ok := slot[key]; ok {
			out[i] = match.Candidate{Key: key, Path: path, IsDir: isDir}
			return
		}
		slot[key] = len(out)
		out = append(out, match.Candidate{Key: key, Path: path, IsDir: isDir})
	}

	scan := func(root string, isDesktop bool) {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				s.log.Debug("index: skipping unreadable entry", zap.String("path", path), zap.Error(err))
				return nil
			}
			name := d.Name()
			if d.IsDir() {
				if path == root {
					return nil
				}
				// Desktop folders are openable targets themselves, but
				// only at the top level; nested folders are not
				// separately indexed.
				if isDesktop && filepath.Dir(path) == root && !strings.HasPrefix(name, ".") {
					put(strings.ToLower(name), path, true)
				}
				return nil
			}
			if s.isShortcut(name) {
				put(strings.ToLower(s.trimShortcutExt(name)), path, false)
			}
			return nil
		})
		if err != nil {
			s.log.Debug("index: root scan failed", zap.String("root", root), zap.Error(err))
		}
	}

	for _, root := range s.DesktopRoots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		scan(root, true)
	}
	for _, root := range s.MenuRoots {
		if _, err := os.Stat(root); err != nil {
			continue
		}
		scan(root, false)
	}
	return out
}

// DirectoryIndex lists exactly the immediate entries of one directory.
// Every entry yields two candidates sharing one path: the original-case
// name and the lower-cased name, so exact and case-insensitive lookups
// share one structure. Returns nil when the directory cannot be read.
func (s *Scanner) DirectoryIndex(path string) []match.Candidate {
	path = ExpandPath(path)
	entries, err := os.ReadDir(path)
	if err != nil {
		s.log.Debug("index: directory listing failed", zap.String("path", path), zap.Error(err))
		return nil
	}

	var out []match.Candidate
	for _, e := range entries {
		name := e.Name()
		full := filepath.Join(path, name)
		lower := strings.ToLower(name)
		out = append(out, match.Candidate{Key: lower, Path: full, IsDir: e.IsDir()})
		if lower != name {
			out = append(out, match.Candidate{Key: name, Path: full, IsDir: e.IsDir()})
		}
	}
	return out
}

func (s *Scanner) isShortcut(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range s.ShortcutExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (s *Scanner) trimShortcutExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range s.ShortcutExts {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// ExpandPath resolves a leading ~ against the home directory and makes
// relative paths absolute.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return filepath.Clean(path)
}
