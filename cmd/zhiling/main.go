// zhiling is a local AI desktop assistant: it chats through an Ollama
// model and executes the inline task directives the model emits.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Chiyang001/ZhiLing-AI/internal/config"
	"github.com/Chiyang001/ZhiLing-AI/internal/ollama"
	"github.com/Chiyang001/ZhiLing-AI/internal/store"
)

const version = "1.0.0"

var (
	// Global flags
	configPath string
	modelFlag  string
	verbose    bool
	noStream   bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "zhiling",
	Short: "ZhiLing - 基于 Ollama 的本地 AI 桌面助手",
	Long: `ZhiLing is a local AI desktop assistant built on Ollama.

The model replies in natural language and embeds task directives
([TASK:OPEN_APP]...[/TASK] and friends) that zhiling parses and executes
on the host: launching applications, batch file operations, power
actions and more. Destructive actions always ask for confirmation.

Run without arguments to start the interactive chat.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath == "" {
			configPath = config.DefaultPath()
		}
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if modelFlag != "" {
			cfg.Ollama.Model = modelFlag
		}
		logger, err = buildLogger(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(signalContext())
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models installed on the Ollama server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(signalContext(), 10*time.Second)
		defer cancel()

		models, err := ollama.NewClient(cfg.Ollama.BaseURL).ListModels(ctx)
		if err != nil {
			return fmt.Errorf("无法连接到Ollama服务: %w", err)
		}
		if len(models) == 0 {
			fmt.Println("❌ 没有安装任何模型")
			return nil
		}
		fmt.Println("📋 可用的AI模型:")
		for i, m := range models {
			fmt.Printf("  %d. %s (%.1f GB)\n", i+1, m.Name, float64(m.Size)/(1<<30))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent stored chat sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cfg.Store.DatabasePath)
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.Sessions(10)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Println("📝 还没有任何对话记录")
			return nil
		}
		fmt.Println("📝 最近的对话:")
		for i, s := range sessions {
			fmt.Printf("  %d. %s  %s  (%d 条消息)\n",
				i+1, s.StartedAt.Local().Format("2006-01-02 15:04"), s.SessionID, s.Messages)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("zhiling %s\n", version)
	},
}

func buildLogger(lc config.LoggingConfig) (*zap.Logger, error) {
	if lc.File == "" {
		return zap.NewNop(), nil
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	} else if lc.Level != "" {
		if parsed, err := zapcore.ParseLevel(lc.Level); err == nil {
			level = parsed
		}
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	// The terminal belongs to the chat UI; logs go to the file only.
	zc.OutputPaths = []string{lc.File}
	zc.ErrorOutputPaths = []string{lc.File}
	return zc.Build()
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.zhiling/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "model name, overrides config and ZHILING_MODEL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().BoolVar(&noStream, "no-stream", false, "wait for the full reply and render it as markdown")

	rootCmd.AddCommand(modelsCmd, historyCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
