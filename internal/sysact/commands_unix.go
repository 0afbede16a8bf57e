//go:build !windows

package sysact

import (
	"fmt"
	"os"
	"strconv"
)

var builtins = []builtinApp{
	{"记事本", "gedit"},
	{"计算器", "gnome-calculator"},
	{"文件管理器", "xdg-open ."},
	{"资源管理器", "xdg-open ."},
	{"浏览器", "xdg-open https://www.google.com"},
	{"终端", "x-terminal-emulator"},
	{"系统监视器", "gnome-system-monitor"},
	{"设置", "gnome-control-center"},
	{"系统设置", "gnome-control-center"},
}

func launchCommand(spec string) Command {
	return Command{Name: "sh", Args: []string{"-c", spec}}
}

func openPathCommand(path string, _ bool) Command {
	// xdg-open handles files and directories alike.
	return Command{Name: "xdg-open", Args: []string{path}}
}

func powerCommand(action string) (Command, string, bool) {
	switch action {
	case "关机":
		return Command{Name: "shutdown", Args: []string{"-h", "+1"}},
			"✅ 系统将在1分钟后关机，请保存您的工作。输入'取消关机'可取消。", true
	case "取消关机":
		return Command{Name: "shutdown", Args: []string{"-c"}},
			"✅ 已取消关机操作。", true
	case "重启":
		return Command{Name: "shutdown", Args: []string{"-r", "+1"}},
			"✅ 系统将在1分钟后重启，请保存您的工作。输入'取消重启'可取消。", true
	case "取消重启":
		return Command{Name: "shutdown", Args: []string{"-c"}},
			"✅ 已取消重启操作。", true
	case "注销":
		return Command{Name: "gnome-session-quit", Args: []string{"--logout", "--no-prompt"}},
			"✅ 正在注销当前用户...", true
	case "休眠":
		return Command{Name: "systemctl", Args: []string{"hibernate"}},
			"✅ 系统正在进入休眠状态...", true
	case "睡眠":
		return Command{Name: "systemctl", Args: []string{"suspend"}},
			"✅ 系统正在进入睡眠状态...", true
	case "锁定":
		return Command{Name: "loginctl", Args: []string{"lock-session"}},
			"✅ 已锁定计算机。", true
	}
	return Command{}, "", false
}

func controlCommand(action, param string) (Command, string, error) {
	switch action {
	case "音量":
		switch param {
		case "加", "+":
			return Command{Name: "amixer", Args: []string{"-q", "set", "Master", "5%+"}},
				"✅ 音量已调高。", nil
		case "减", "-":
			return Command{Name: "amixer", Args: []string{"-q", "set", "Master", "5%-"}},
				"✅ 音量已调低。", nil
		}
		return Command{}, "", fmt.Errorf("无效的音量参数: %s", param)
	case "静音":
		return Command{Name: "amixer", Args: []string{"-q", "set", "Master", "mute"}},
			"✅ 已静音。", nil
	case "取消静音":
		return Command{Name: "amixer", Args: []string{"-q", "set", "Master", "unmute"}},
			"✅ 已取消静音。", nil
	case "亮度":
		level, err := strconv.Atoi(param)
		if err != nil || level < 0 || level > 100 {
			return Command{}, "", fmt.Errorf("无效的亮度参数: %s", param)
		}
		return Command{Name: "brightnessctl", Args: []string{"set", strconv.Itoa(level) + "%"}},
			fmt.Sprintf("✅ 亮度已设置为 %d%%。", level), nil
	}
	return Command{}, "", fmt.Errorf("不支持的系统控制: %s", action)
}

func tempDirs() []string {
	return []string{os.TempDir()}
}
