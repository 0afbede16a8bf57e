package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Chiyang001/ZhiLing-AI/internal/assistant"
	"github.com/Chiyang001/ZhiLing-AI/internal/console"
	"github.com/Chiyang001/ZhiLing-AI/internal/fileop"
	"github.com/Chiyang001/ZhiLing-AI/internal/index"
	"github.com/Chiyang001/ZhiLing-AI/internal/match"
	"github.com/Chiyang001/ZhiLing-AI/internal/ollama"
	"github.com/Chiyang001/ZhiLing-AI/internal/store"
	"github.com/Chiyang001/ZhiLing-AI/internal/sysact"
	"github.com/Chiyang001/ZhiLing-AI/internal/task"
)

// runChat wires the whole assistant together and runs the interactive
// loop until EOF or an exit command.
func runChat(ctx context.Context) error {
	cons := console.New(os.Stdin, os.Stdout)
	cons.Banner("🤖 ZhiLing AI 桌面助手")

	client := ollama.NewClient(cfg.Ollama.BaseURL)

	model, err := pickModel(ctx, client, cons)
	if err != nil {
		return err
	}

	scanner := index.NewScanner(logger)
	var shortcuts task.ShortcutIndex = scanner
	if ttl := cfg.Index.TTL(); ttl > 0 {
		cache := index.NewCache(scanner, ttl, logger)
		defer cache.Close()
		shortcuts = cache
	}

	matcher := match.New(cfg.Match)
	planner := fileop.NewPlanner(scanner, matcher, logger)
	executor := fileop.NewExecutor(cons, cons.Writer(), logger)
	system := sysact.New(logger)
	dispatcher := task.New(shortcuts, matcher, planner, executor, system, cons, cons.Writer(), logger)

	var transcript assistant.Transcript
	if st, err := store.New(cfg.Store.DatabasePath); err == nil {
		defer st.Close()
		transcript = st
	} else {
		cons.Warnln(fmt.Sprintf("⚠️ 无法打开对话记录数据库: %v", err))
	}

	session := assistant.NewSession(client, dispatcher, transcript, model, cfg.History.MaxMessages, logger)

	cons.Println(fmt.Sprintf("\n✅ 已选择模型: %s", model))
	cons.Println("💡 提示: 你可以要求我打开应用程序、查看系统信息、文件操作等")
	cons.Println("   输入 'exit' 退出，'clear' 清空对话历史，'history' 查看历史摘要")

	for {
		input, err := cons.ReadLine("\n👤 你: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				cons.Println("\n👋 再见！")
				return nil
			}
			return err
		}
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit", "退出":
			cons.Println("👋 再见！")
			return nil
		case "clear", "清空":
			cons.Println(session.Clear())
			continue
		case "history", "历史":
			cons.Println(session.Summary())
			continue
		}

		if err := runTurn(ctx, session, cons, input); err != nil {
			if errors.Is(err, context.Canceled) {
				cons.Println("\n👋 再见！")
				return nil
			}
			cons.Errorln(fmt.Sprintf("❌ 对话失败: %v", err))
		}
	}
}

// runTurn executes one exchange. Streaming prints fragments as they
// arrive; --no-stream waits and renders the reply as markdown instead.
func runTurn(ctx context.Context, session *assistant.Session, cons *console.Console, input string) error {
	cons.Printf("\n🤖 助手: ")

	if noStream {
		out, err := session.Process(ctx, input)
		if err != nil {
			return err
		}
		cons.Println("")
		cons.Markdown(out)
		return nil
	}

	_, report, err := session.ProcessStream(ctx, input, func(chunk string) {
		cons.Printf("%s", chunk)
	})
	if err != nil {
		return err
	}
	cons.Println("")
	if report != "" {
		cons.Println("\n" + report)
	}
	return nil
}

// pickModel returns the configured model, or prompts the operator to
// choose one from the server's list.
func pickModel(ctx context.Context, client *ollama.Client, cons *console.Console) (string, error) {
	listCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := client.ListModels(listCtx)
	if err != nil {
		return "", fmt.Errorf("无法连接到Ollama服务，请确保Ollama正在运行: %w", err)
	}
	if len(models) == 0 {
		return "", fmt.Errorf("没有安装任何模型，请先运行 ollama pull 安装一个模型")
	}

	if cfg.Ollama.Model != "" {
		for _, m := range models {
			if m.Name == cfg.Ollama.Model {
				return m.Name, nil
			}
		}
		cons.Warnln(fmt.Sprintf("⚠️ 配置的模型 '%s' 未安装", cfg.Ollama.Model))
	}

	cons.Println("📋 可用的AI模型:")
	for i, m := range models {
		cons.Println(fmt.Sprintf("  %d. %s", i+1, m.Name))
	}

	for {
		choice, err := cons.ReadLine(fmt.Sprintf("\n请选择模型 (1-%d) 或输入模型名称: ", len(models)))
		if err != nil {
			return "", err
		}
		if idx, convErr := strconv.Atoi(choice); convErr == nil {
			if idx >= 1 && idx <= len(models) {
				return models[idx-1].Name, nil
			}
			cons.Warnln("⚠️ 无效的编号，请重新输入")
			continue
		}
		for _, m := range models {
			if m.Name == choice {
				return m.Name, nil
			}
		}
		cons.Warnln(fmt.Sprintf("⚠️ 未找到模型 '%s'，请重新输入", choice))
	}
}
