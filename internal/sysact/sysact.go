// Package sysact fires process-level side effects on the host: launching
// applications, power transitions, volume/brightness control, temp-file
// cleanup and system info. Callers get back operator-facing text only;
// the platform command tables live in the //go:build files.
package sysact

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Command is one host process invocation, fired fire-and-forget the way
// the directives expect (a shutdown countdown must not block the chat loop).
type Command struct {
	Name string
	Args []string
}

type builtinApp struct {
	Name string
	Spec string
}

// System executes host actions. The start hook is swapped in tests so no
// real process is ever launched.
type System struct {
	// TempDirs are the roots CleanTemp sweeps. Defaults to the platform
	// temp locations.
	TempDirs []string

	start func(Command) error
	log   *zap.Logger
}

// New builds a System using the real process launcher.
func New(log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{
		TempDirs: tempDirs(),
		log:      log,
		start: func(c Command) error {
			return exec.Command(c.Name, c.Args...).Start()
		},
	}
}

// OpenApp resolves name against the builtin application table, exact
// match first, then bidirectional containment in table order. Returns
// the operator message and whether a builtin matched at all; a miss
// means the caller should fall back to the shortcut index.
func (s *System) OpenApp(name string) (string, bool) {
	lower := strings.ToLower(name)

	var matched *builtinApp
	for i := range builtins {
		if name == builtins[i].Name || lower == strings.ToLower(builtins[i].Name) {
			matched = &builtins[i]
			break
		}
	}
	if matched == nil {
		for i := range builtins {
			key := strings.ToLower(builtins[i].Name)
			if strings.Contains(key, lower) || strings.Contains(lower, key) {
				matched = &builtins[i]
				break
			}
		}
	}
	if matched == nil {
		return "", false
	}

	s.log.Info("sysact: launching builtin", zap.String("name", matched.Name))
	if err := s.start(launchCommand(matched.Spec)); err != nil {
		return fmt.Sprintf("❌ 打开系统项目失败: %v", err), true
	}
	return fmt.Sprintf("✅ 已打开系统项目: %s", matched.Name), true
}

// OpenPath launches a resolved filesystem entry: directories open in the
// file manager, anything else through the platform opener.
func (s *System) OpenPath(path string, isDir bool) error {
	s.log.Info("sysact: opening path", zap.String("path", path), zap.Bool("dir", isDir))
	return s.start(openPathCommand(path, isDir))
}

// PowerAction runs one power transition (关机, 重启, 注销, ...). The
// returned text is the full operator report, failures included.
func (s *System) PowerAction(action string) string {
	cmd, message, ok := powerCommand(action)
	if !ok {
		return fmt.Sprintf("❌ 不支持的系统操作: %s", action)
	}
	s.log.Info("sysact: power action", zap.String("action", action))
	if err := s.start(cmd); err != nil {
		return fmt.Sprintf("❌ 执行系统操作失败: %v", err)
	}
	return message
}

// Control adjusts volume, mute state or screen brightness. param is the
// directive's second field: a direction for 音量, a percentage for 亮度.
func (s *System) Control(action, param string) string {
	cmd, message, err := controlCommand(action, param)
	if err != nil {
		return fmt.Sprintf("❌ %v", err)
	}
	s.log.Info("sysact: system control",
		zap.String("action", action), zap.String("param", param))
	if err := s.start(cmd); err != nil {
		return fmt.Sprintf("❌ 执行系统控制失败: %v", err)
	}
	return message
}

// CleanTemp sweeps the temp roots, removing whatever it can. Entries
// that refuse to go (files held open, permission walls) are skipped
// silently; the report counts only what was actually removed.
func (s *System) CleanTemp() string {
	var removed int
	var freed int64
	for _, root := range s.TempDirs {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			size := treeSize(path)
			if err := os.RemoveAll(path); err != nil {
				continue
			}
			removed++
			freed += size
		}
	}
	if removed == 0 {
		return "🧹 清理完成: 没有可删除的临时文件"
	}
	return fmt.Sprintf("🧹 清理完成: 删除 %d 个临时项目，释放 %.1f MB",
		removed, float64(freed)/(1024*1024))
}

// Info reports host facts in the fixed operator format.
func (s *System) Info() string {
	hostname, _ := os.Hostname()
	return strings.TrimSpace(fmt.Sprintf(`
📊 系统信息:
- 操作系统: %s %s
- 主机名: %s
- 处理器核心: %d
- 运行时: %s
- 当前时间: %s`,
		runtime.GOOS, runtime.GOARCH,
		hostname,
		runtime.NumCPU(),
		runtime.Version(),
		time.Now().Format("2006-01-02 15:04:05")))
}

func treeSize(path string) int64 {
	var total int64
	filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
