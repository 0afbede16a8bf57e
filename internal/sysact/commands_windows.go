//go:build windows

package sysact

import (
	"fmt"
	"os"
	"strconv"
)

// builtins maps spoken application names to launch specs, checked before
// any shortcut scan. Slice order is the fuzzy-containment tie-break.
var builtins = []builtinApp{
	{"记事本", "notepad"},
	{"计算器", "calc"},
	{"画图", "mspaint"},
	{"浏览器", "start chrome"},
	{"文件管理器", "explorer"},
	{"资源管理器", "explorer"},
	{"任务管理器", "taskmgr"},
	{"控制面板", "control"},
	{"命令提示符", "cmd"},
	{"设置", "ms-settings:"},
	{"系统设置", "ms-settings:"},
	{"注册表编辑器", "regedit"},
	{"服务管理器", "services.msc"},
	{"设备管理器", "devmgmt.msc"},
	{"磁盘管理", "diskmgmt.msc"},
	{"事件查看器", "eventvwr.msc"},
	{"组策略编辑器", "gpedit.msc"},
	{"性能监视器", "perfmon.msc"},
	{"远程桌面", "mstsc"},
	{"PowerShell", "powershell"},
	{"资源监视器", "resmon"},
	{"防火墙", "firewall.cpl"},
	{"网络连接", "ncpa.cpl"},
	{"声音设置", "mmsys.cpl"},
	{"电源选项", "powercfg.cpl"},
	{"系统属性", "sysdm.cpl"},
	{"时间和日期", "timedate.cpl"},
	{"用户账户", "netplwiz"},
	{"计算机", `explorer.exe ::{20D04FE0-3AEA-1069-A2D8-08002B30309D}`},
	{"我的电脑", `explorer.exe ::{20D04FE0-3AEA-1069-A2D8-08002B30309D}`},
	{"此电脑", `explorer.exe ::{20D04FE0-3AEA-1069-A2D8-08002B30309D}`},
	{"回收站", `explorer.exe ::{645FF040-5081-101B-9F08-00AA002F954E}`},
	{"网络", `explorer.exe ::{F02C1A0D-BE21-4350-88B0-7367FC96EF3C}`},
	{"网上邻居", `explorer.exe ::{F02C1A0D-BE21-4350-88B0-7367FC96EF3C}`},
	{"桌面", "explorer.exe shell:desktop"},
	{"文档", "explorer.exe shell:personal"},
	{"下载", "explorer.exe shell:downloads"},
	{"图片", "explorer.exe shell:mypictures"},
	{"音乐", "explorer.exe shell:mymusic"},
	{"视频", "explorer.exe shell:myvideo"},
}

func launchCommand(spec string) Command {
	return Command{Name: "cmd", Args: []string{"/C", spec}}
}

func openPathCommand(path string, isDir bool) Command {
	if isDir {
		return Command{Name: "explorer", Args: []string{path}}
	}
	return Command{Name: "cmd", Args: []string{"/C", "start", "", path}}
}

func powerCommand(action string) (Command, string, bool) {
	switch action {
	case "关机":
		return Command{Name: "shutdown", Args: []string{"/s", "/t", "60"}},
			"✅ 系统将在60秒后关机，请保存您的工作。输入'取消关机'可取消。", true
	case "取消关机":
		return Command{Name: "shutdown", Args: []string{"/a"}},
			"✅ 已取消关机操作。", true
	case "重启":
		return Command{Name: "shutdown", Args: []string{"/r", "/t", "60"}},
			"✅ 系统将在60秒后重启，请保存您的工作。输入'取消重启'可取消。", true
	case "取消重启":
		return Command{Name: "shutdown", Args: []string{"/a"}},
			"✅ 已取消重启操作。", true
	case "注销":
		return Command{Name: "shutdown", Args: []string{"/l"}},
			"✅ 正在注销当前用户...", true
	case "休眠":
		return Command{Name: "rundll32.exe", Args: []string{"powrprof.dll,SetSuspendState", "0,1,0"}},
			"✅ 系统正在进入休眠状态...", true
	case "睡眠":
		return Command{Name: "rundll32.exe", Args: []string{"powrprof.dll,SetSuspendState", "0,1,0"}},
			"✅ 系统正在进入睡眠状态...", true
	case "锁定":
		return Command{Name: "rundll32.exe", Args: []string{"user32.dll,LockWorkStation"}},
			"✅ 已锁定计算机。", true
	}
	return Command{}, "", false
}

func controlCommand(action, param string) (Command, string, error) {
	sendKeys := func(key, times string) Command {
		script := fmt.Sprintf(
			"$w=New-Object -ComObject WScript.Shell; 1..%s | ForEach-Object { $w.SendKeys([char]%s) }",
			times, key)
		return Command{Name: "powershell", Args: []string{"-NoProfile", "-Command", script}}
	}
	switch action {
	case "音量":
		switch param {
		case "加", "+":
			return sendKeys("175", "5"), "✅ 音量已调高。", nil
		case "减", "-":
			return sendKeys("174", "5"), "✅ 音量已调低。", nil
		}
		return Command{}, "", fmt.Errorf("无效的音量参数: %s", param)
	case "静音":
		return sendKeys("173", "1"), "✅ 已静音。", nil
	case "取消静音":
		return sendKeys("173", "1"), "✅ 已取消静音。", nil
	case "亮度":
		level, err := strconv.Atoi(param)
		if err != nil || level < 0 || level > 100 {
			return Command{}, "", fmt.Errorf("无效的亮度参数: %s", param)
		}
		script := fmt.Sprintf(
			"(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightnessMethods).WmiSetBrightness(1,%d)",
			level)
		return Command{Name: "powershell", Args: []string{"-NoProfile", "-Command", script}},
			fmt.Sprintf("✅ 亮度已设置为 %d%%。", level), nil
	}
	return Command{}, "", fmt.Errorf("不支持的系统控制: %s", action)
}

func tempDirs() []string {
	dirs := []string{os.TempDir()}
	if windir := os.Getenv("WINDIR"); windir != "" {
		dirs = append(dirs, windir+`\Temp`)
	}
	return dirs
}
