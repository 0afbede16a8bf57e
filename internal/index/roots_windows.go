//go:build windows

package index

import (
	"os"
	"path/filepath"
)

// Desktop folders live under several localized names, plus the shared
// public desktop.
func defaultDesktopRoots() []string {
	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range []string{"Desktop", "桌面", "desktop"} {
			roots = append(roots, filepath.Join(home, name))
		}
	}
	if pub := os.Getenv("PUBLIC"); pub != "" {
		roots = append(roots, filepath.Join(pub, "Desktop"))
	}
	if all := os.Getenv("ALLUSERSPROFILE"); all != "" {
		roots = append(roots, filepath.Join(all, "Desktop"))
	}
	return roots
}

func defaultMenuRoots() []string {
	var roots []string
	if appData := os.Getenv("APPDATA"); appData != "" {
		roots = append(roots, filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	if progData := os.Getenv("PROGRAMDATA"); progData != "" {
		roots = append(roots, filepath.Join(progData, "Microsoft", "Windows", "Start Menu", "Programs"))
	}
	return roots
}

func defaultShortcutExts() []string {
	return []string{".lnk", ".url"}
}
