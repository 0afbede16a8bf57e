// Package task routes parsed directives to their handlers and assembles
// the operator report. One Dispatch call covers one full model reply:
// parse once, execute handlers in fixed kind order, join their messages.
package task

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Chiyang001/ZhiLing-AI/internal/directive"
	"github.com/Chiyang001/ZhiLing-AI/internal/fileop"
	"github.com/Chiyang001/ZhiLing-AI/internal/index"
	"github.com/Chiyang001/ZhiLing-AI/internal/match"
)

// ShortcutIndex yields the current shortcut candidates. Satisfied by
// both index.Scanner (rescan per call) and index.Cache.
type ShortcutIndex interface {
	Shortcuts() []match.Candidate
}

// Actions is the host-side collaborator firing process-level effects.
// Satisfied by sysact.System.
type Actions interface {
	OpenApp(name string) (string, bool)
	OpenPath(path string, isDir bool) error
	PowerAction(action string) string
	Control(action, param string) string
	CleanTemp() string
	Info() string
}

// Confirmer gates destructive actions on an explicit operator yes.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Dispatcher wires the directive protocol to its handlers.
type Dispatcher struct {
	index    ShortcutIndex
	matcher  *match.Matcher
	planner  *fileop.Planner
	executor *fileop.Executor
	system   Actions
	console  Confirmer
	out      io.Writer
	log      *zap.Logger
}

// New builds a dispatcher. out receives progress lines (scan notices);
// pass nil to discard them.
func New(idx ShortcutIndex, matcher *match.Matcher, planner *fileop.Planner,
	executor *fileop.Executor, system Actions, console Confirmer,
	out io.Writer, log *zap.Logger) *Dispatcher {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		index:    idx,
		matcher:  matcher,
		planner:  planner,
		executor: executor,
		system:   system,
		console:  console,
		out:      out,
		log:      log,
	}
}

// Dispatch parses one reply and executes every directive it carries.
// The report concatenates handler messages in fixed kind order, one per
// line block; an empty report means the reply had nothing to execute.
func (d *Dispatcher) Dispatch(text string) string {
	directives := directive.Parse(text)
	if len(directives) == 0 {
		return ""
	}
	d.log.Info("task: dispatching directives", zap.Int("count", len(directives)))

	byKind := make(map[directive.Kind][]string, len(directives))
	for _, dir := range directives {
		byKind[dir.Kind] = append(byKind[dir.Kind], dir.Payload)
	}

	// FILE_OP and WRITE_FILE pool into one batch so the operator sees a
	// single confirmation even when the model emitted separate tags.
	filePayloads := append([]string(nil), byKind[directive.KindFileOp]...)
	for _, payload := range byKind[directive.KindWriteFile] {
		filePayloads = append(filePayloads, fileop.WriteFileWord+"|"+payload)
	}

	var results []string
	add := func(msg string) {
		if msg != "" {
			results = append(results, msg)
		}
	}
	runBatch := func() {
		if len(filePayloads) == 0 {
			return
		}
		add(d.executor.Report(d.planner.Plan(filePayloads)))
		filePayloads = nil
	}

	for _, kind := range directive.Kinds {
		payloads, ok := byKind[kind]
		if !ok {
			continue
		}
		switch kind {
		case directive.KindOpenApp:
			for _, name := range payloads {
				add(d.openApp(name))
			}
		case directive.KindSystemInfo:
			add(d.system.Info())
		case directive.KindListDir:
			for _, path := range payloads {
				add(listDirectory(path))
			}
		case directive.KindPowerAction:
			for _, action := range payloads {
				add(d.powerAction(action))
			}
		case directive.KindSearchApps:
			for _, keyword := range payloads {
				add(d.searchApps(keyword))
			}
		case directive.KindListShortcuts:
			add(d.listShortcuts())
		case directive.KindFileOp, directive.KindWriteFile:
			runBatch()
		case directive.KindCleanSystem:
			add(d.cleanSystem())
		case directive.KindSystemControl:
			for _, payload := range payloads {
				add(d.systemControl(payload))
			}
		}
	}
	return strings.Join(results, "\n")
}

// openApp resolves an application name: builtin table first, then the
// shortcut index through the fuzzy matcher.
func (d *Dispatcher) openApp(name string) string {
	if msg, ok := d.system.OpenApp(name); ok {
		return msg
	}

	fmt.Fprintf(d.out, "🔍 正在搜索 '%s' 相关的快捷方式...\n", name)
	candidates := d.index.Shortcuts()
	if len(candidates) == 0 {
		return "❌ 未找到任何快捷方式或文件夹，请检查桌面和开始菜单是否有应用程序"
	}

	res := d.matcher.Match(name, candidates)
	if res == nil {
		return noMatchHint(name, candidates)
	}

	itemType := "应用"
	if res.Candidate.IsDir {
		itemType = "文件夹"
	}
	detail := fmt.Sprintf("%s: %s (%s)", res.Kind.Label(), res.Candidate.Key, itemType)
	d.log.Info("task: resolved app",
		zap.String("query", name),
		zap.String("path", res.Candidate.Path),
		zap.String("tier", string(res.Kind)))

	if err := d.system.OpenPath(res.Candidate.Path, res.Candidate.IsDir); err != nil {
		return fmt.Sprintf("❌ 找到匹配项但启动失败: %s\n错误信息: %v", res.Candidate.Path, err)
	}
	if res.Candidate.IsDir {
		return fmt.Sprintf("✅ 已打开文件夹: %s (%s)", filepath.Base(res.Candidate.Path), detail)
	}
	return fmt.Sprintf("✅ 已打开应用: %s (%s)", res.Candidate.Key, detail)
}

// noMatchHint lists up to ten known names so the operator can rephrase.
func noMatchHint(name string, candidates []match.Candidate) string {
	names := make([]string, 0, 10)
	for _, c := range candidates {
		names = append(names, c.Key)
		if len(names) == 10 {
			break
		}
	}
	suffix := ""
	if len(candidates) > 10 {
		suffix = "..."
	}
	return fmt.Sprintf("❌ 未找到与 '%s' 匹配的应用程序或文件夹\n💡 可用的项目包括: %s%s",
		name, strings.Join(names, "、"), suffix)
}

func (d *Dispatcher) powerAction(action string) string {
	prompt := fmt.Sprintf("\n⚠️ 即将执行系统操作: %s，是否确认？\n请输入 (y/n): ", action)
	if !d.console.Confirm(prompt) {
		return "❌ 系统操作已取消"
	}
	return d.system.PowerAction(action)
}

func (d *Dispatcher) cleanSystem() string {
	if !d.console.Confirm("\n⚠️ 即将清理系统临时文件，是否确认？\n请输入 (y/n): ") {
		return "❌ 清理操作已取消"
	}
	return d.system.CleanTemp()
}

// systemControl splits the "action|param" payload and gates it behind
// its own confirmation.
func (d *Dispatcher) systemControl(payload string) string {
	parts := strings.SplitN(payload, "|", 2)
	action := strings.TrimSpace(parts[0])
	param := ""
	if len(parts) == 2 {
		param = strings.TrimSpace(parts[1])
	}
	prompt := fmt.Sprintf("\n⚠️ 即将执行系统控制: %s，是否确认？\n请输入 (y/n): ", action)
	if !d.console.Confirm(prompt) {
		return "❌ 系统控制已取消"
	}
	return d.system.Control(action, param)
}

// searchApps enumerates the shortcut index, optionally filtered by a
// case-insensitive keyword, thirty entries at most.
func (d *Dispatcher) searchApps(keyword string) string {
	fmt.Fprintln(d.out, "🔍 正在扫描系统中的所有应用程序...")
	candidates := d.index.Shortcuts()
	if len(candidates) == 0 {
		return "❌ 未找到任何应用程序快捷方式"
	}

	// Copy before sorting: the index owns the slice and its scan order
	// is what keeps tie-breaks deterministic for later resolutions.
	filtered := append([]match.Candidate(nil), candidates...)
	if keyword != "" {
		lower := strings.ToLower(keyword)
		filtered = filtered[:0]
		for _, c := range candidates {
			if strings.Contains(c.Key, lower) {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			return fmt.Sprintf("❌ 未找到包含关键词 '%s' 的应用程序", keyword)
		}
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Key < filtered[j].Key })

	header := "🔍 找到的应用程序:"
	if keyword != "" {
		header = fmt.Sprintf("🔍 找到的应用程序 (包含关键词: %s):", keyword)
	}
	var b strings.Builder
	b.WriteString(header)
	limit := len(filtered)
	if limit > 30 {
		limit = 30
	}
	for i := 0; i < limit; i++ {
		b.WriteString(fmt.Sprintf("\n  %2d. %s (%s)", i+1, filtered[i].Key, locationOf(filtered[i].Path)))
	}
	if len(filtered) > 30 {
		b.WriteString(fmt.Sprintf("\n  ... 还有 %d 个应用程序", len(filtered)-30))
	}
	return b.String()
}

func locationOf(path string) string {
	switch {
	case strings.Contains(path, "Desktop"), strings.Contains(path, "桌面"):
		return "桌面"
	case strings.Contains(path, "Start Menu"), strings.Contains(path, "applications"):
		return "开始菜单"
	}
	return "其他"
}

// listShortcuts formats the whole index grouped into folders and
// shortcuts.
func (d *Dispatcher) listShortcuts() string {
	candidates := d.index.Shortcuts()

	var folders, shortcuts []string
	for _, c := range candidates {
		if c.IsDir {
			folders = append(folders, c.Key)
		} else {
			shortcuts = append(shortcuts, c.Key)
		}
	}
	sort.Strings(folders)
	sort.Strings(shortcuts)

	var b strings.Builder
	b.WriteString("🖥️ 桌面内容:\n")
	if len(folders) > 0 {
		b.WriteString(fmt.Sprintf("\n📂 文件夹 (共%d个):", len(folders)))
		for i, name := range folders {
			b.WriteString(fmt.Sprintf("\n  %2d. %s", i+1, name))
		}
		b.WriteString("\n")
	}
	if len(shortcuts) > 0 {
		b.WriteString(fmt.Sprintf("\n🔗 快捷方式 (共%d个):", len(shortcuts)))
		for i, name := range shortcuts {
			b.WriteString(fmt.Sprintf("\n  %2d. %s", i+1, name))
		}
		b.WriteString("\n")
	}
	if len(folders) == 0 && len(shortcuts) == 0 {
		b.WriteString("\n❌ 桌面上没有找到任何项目")
	}
	return strings.TrimRight(b.String(), "\n")
}

// listDirectory prints up to twenty entries of one directory.
func listDirectory(path string) string {
	if path == "" {
		path = "."
	}
	expanded := index.ExpandPath(path)
	entries, err := os.ReadDir(expanded)
	if err != nil {
		return fmt.Sprintf("❌ 列出目录失败: %v", err)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📁 目录 %s 的内容:", expanded))
	limit := len(entries)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		b.WriteString("\n  - " + entries[i].Name())
	}
	if len(entries) > 20 {
		b.WriteString(fmt.Sprintf("\n  ... 还有 %d 个文件", len(entries)-20))
	}
	return b.String()
}
