//go:build !windows

package index

import (
	"os"
	"path/filepath"
)

func defaultDesktopRoots() []string {
	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"Desktop", "桌面", "desktop"} {
			roots = append(roots, filepath.Join(home, name))
		}
	}
	return roots
}

// XDG application directories stand in for the Start Menu.
func defaultMenuRoots() []string {
	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, filepath.Join(home, ".local", "share", "applications"))
	}
	roots = append(roots, "/usr/share/applications")
	return roots
}

func defaultShortcutExts() []string {
	return []string{".desktop", ".lnk", ".url"}
}
