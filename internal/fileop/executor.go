package fileop

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// writableExts is the allow-list of text formats WriteFile accepts.
// Checked at execution time so a bad extension fails like any other
// per-item precondition instead of aborting the whole batch at planning.
var writableExts = []string{".txt", ".md", ".markdown", ".text"}

// Confirmer asks the operator a yes/no question and reports the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Executor runs a plan list against the filesystem. One confirmation
// gates the whole batch; after that every plan commits independently, so
// a ten-item batch never loses nine successes because item three failed.
type Executor struct {
	console Confirmer
	out     io.Writer
	log     *zap.Logger
}

// NewExecutor builds an executor writing its batch summary to out.
func NewExecutor(console Confirmer, out io.Writer, log *zap.Logger) *Executor {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{console: console, out: out, log: log}
}

// Execute presents the numbered summary, asks for one confirmation, then
// runs the plans strictly in order. Declining aborts with zero mutations
// and a single cancellation outcome. Returns the per-plan outcomes and
// the success count.
func (e *Executor) Execute(plans []Plan) ([]Outcome, int) {
	if len(plans) == 0 {
		return []Outcome{{Success: false, Message: "❌ 没有有效的文件操作"}}, 0
	}

	batchID := uuid.NewString()
	e.log.Info("fileop: batch pending confirmation",
		zap.String("batch_id", batchID), zap.Int("plans", len(plans)))

	fmt.Fprintf(e.out, "\n🔄 检测到文件操作，共 %d 个任务:\n", len(plans))
	for i, p := range plans {
		fmt.Fprintf(e.out, "  %d. %s\n", i+1, p.Summary())
	}
	fmt.Fprintln(e.out, "\n📋 是否确认执行以上所有操作？")

	if !e.console.Confirm("请输入 (y/n): ") {
		e.log.Info("fileop: batch declined", zap.String("batch_id", batchID))
		return []Outcome{{Success: false, Message: CancelledMessage}}, 0
	}

	outcomes := make([]Outcome, 0, len(plans))
	success := 0
	for i, p := range plans {
		msg, err := e.run(p)
		if err != nil {
			e.log.Warn("fileop: task failed",
				zap.String("batch_id", batchID), zap.Int("task", i+1), zap.Error(err))
			outcomes = append(outcomes, Outcome{PlanIndex: i, Message: fmt.Sprintf("❌ 任务%d: %v", i+1, err)})
			continue
		}
		success++
		outcomes = append(outcomes, Outcome{PlanIndex: i, Success: true, Message: fmt.Sprintf("✅ 任务%d: %s", i+1, msg)})
	}

	e.log.Info("fileop: batch done",
		zap.String("batch_id", batchID), zap.Int("success", success), zap.Int("total", len(plans)))
	return outcomes, success
}

// CancelledMessage is the single outcome emitted when the operator
// declines the batch confirmation.
const CancelledMessage = "❌ 批量操作已取消"

// Report runs Execute and folds the outcomes into the operator-facing
// report: one line per plan plus the aggregate line. Cancelled or empty
// batches report their single message with no aggregate line.
func (e *Executor) Report(plans []Plan) string {
	outcomes, success := e.Execute(plans)
	if len(plans) == 0 || (len(outcomes) == 1 && outcomes[0].Message == CancelledMessage) {
		return outcomes[0].Message
	}
	lines := make([]string, 0, len(outcomes)+1)
	for _, o := range outcomes {
		lines = append(lines, o.Message)
	}
	lines = append(lines, fmt.Sprintf("📊 批量操作完成: 成功 %d/%d 个任务", success, len(plans)))
	return strings.Join(lines, "\n")
}

// run executes one plan. Every failure comes back as an error; the
// caller records it without stopping the remaining plans.
func (e *Executor) run(p Plan) (string, error) {
	switch p.Action {
	case ActionCreateFile:
		return e.createFile(p)
	case ActionCreateDir:
		return e.createDir(p)
	case ActionDelete:
		return e.remove(p)
	case ActionRename:
		return e.rename(p)
	case ActionCopy:
		return e.copy(p)
	case ActionMove:
		return e.move(p)
	case ActionWriteFile:
		return e.writeFile(p)
	}
	return "", fmt.Errorf("未知操作: %s", p.Action)
}

func (e *Executor) createFile(p Plan) (string, error) {
	dir := filepath.Dir(p.Source)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("目录不存在: %s", dir)
	}
	if _, err := os.Stat(p.Source); err == nil {
		return "", fmt.Errorf("文件已存在: %s", p.Source)
	}
	if err := os.WriteFile(p.Source, nil, 0o644); err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	return fmt.Sprintf("已创建文件: %s", filepath.Base(p.Source)), nil
}

func (e *Executor) createDir(p Plan) (string, error) {
	dir := filepath.Dir(p.Source)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("目录不存在: %s", dir)
	}
	if _, err := os.Stat(p.Source); err == nil {
		return "", fmt.Errorf("文件夹已存在: %s", p.Source)
	}
	if err := os.Mkdir(p.Source, 0o755); err != nil {
		return "", fmt.Errorf("创建文件夹失败: %w", err)
	}
	return fmt.Sprintf("已创建文件夹: %s", filepath.Base(p.Source)), nil
}

func (e *Executor) remove(p Plan) (string, error) {
	info, err := os.Stat(p.Source)
	if err != nil {
		return "", fmt.Errorf("路径不存在: %s", p.RequestedSource)
	}
	if info.IsDir() {
		if err := os.RemoveAll(p.Source); err != nil {
			return "", fmt.Errorf("删除失败: %w", err)
		}
		return fmt.Sprintf("已删除文件夹: %s", filepath.Base(p.Source)), nil
	}
	if err := os.Remove(p.Source); err != nil {
		return "", fmt.Errorf("删除失败: %w", err)
	}
	return fmt.Sprintf("已删除文件: %s", filepath.Base(p.Source)), nil
}

func (e *Executor) rename(p Plan) (string, error) {
	if _, err := os.Stat(p.Source); err != nil {
		return "", fmt.Errorf("路径不存在: %s", p.RequestedSource)
	}
	newPath := filepath.Join(filepath.Dir(p.Source), filepath.Base(p.Target))
	if _, err := os.Stat(newPath); err == nil {
		return "", fmt.Errorf("目标路径已存在: %s", newPath)
	}
	if err := os.Rename(p.Source, newPath); err != nil {
		return "", fmt.Errorf("重命名失败: %w", err)
	}
	return fmt.Sprintf("已重命名: %s -> %s", filepath.Base(p.Source), filepath.Base(newPath)), nil
}

func (e *Executor) copy(p Plan) (string, error) {
	info, err := os.Stat(p.Source)
	if err != nil {
		return "", fmt.Errorf("源路径不存在: %s", p.RequestedSource)
	}

	dest := p.Target
	if info.IsDir() {
		if _, err := os.Stat(dest); err == nil {
			dest = nextFreeCopyName(filepath.Join(dest, filepath.Base(p.Source)))
		}
		if err := copyTree(p.Source, dest); err != nil {
			return "", fmt.Errorf("复制失败: %w", err)
		}
		return fmt.Sprintf("已复制文件夹: %s -> %s", filepath.Base(p.Source), filepath.Base(dest)), nil
	}

	if di, err := os.Stat(dest); err == nil && di.IsDir() {
		dest = nextFreeCopyName(filepath.Join(dest, filepath.Base(p.Source)))
	}
	if err := copyFile(p.Source, dest); err != nil {
		return "", fmt.Errorf("复制失败: %w", err)
	}
	return fmt.Sprintf("已复制文件: %s -> %s", filepath.Base(p.Source), filepath.Base(dest)), nil
}

func (e *Executor) move(p Plan) (string, error) {
	if _, err := os.Stat(p.Source); err != nil {
		return "", fmt.Errorf("源路径不存在: %s", p.RequestedSource)
	}
	dest := p.Target
	if di, err := os.Stat(dest); err == nil && di.IsDir() {
		dest = filepath.Join(dest, filepath.Base(p.Source))
	}
	if err := os.Rename(p.Source, dest); err != nil {
		// Cross-device moves fall back to copy then delete.
		if cErr := copyAny(p.Source, dest); cErr != nil {
			return "", fmt.Errorf("移动失败: %w", err)
		}
		if rErr := os.RemoveAll(p.Source); rErr != nil {
			return "", fmt.Errorf("移动失败: %w", rErr)
		}
	}
	return fmt.Sprintf("已移动: %s", filepath.Base(p.Source)), nil
}

func (e *Executor) writeFile(p Plan) (string, error) {
	ext := strings.ToLower(filepath.Ext(p.Source))
	if !isWritableExt(ext) {
		return "", fmt.Errorf("不支持的文件格式: %s，目前支持: %s", ext, strings.Join(writableExts, ", "))
	}
	if dir := filepath.Dir(p.Source); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("创建目录失败: %w", err)
		}
	}
	if err := os.WriteFile(p.Source, []byte(p.Content), 0o644); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	kb := float64(len(p.Content)) / 1024.0
	return fmt.Sprintf("内容已写入文件: %s (%.1f KB)", filepath.Base(p.Source), kb), nil
}

func isWritableExt(ext string) bool {
	for _, ok := range writableExts {
		if ext == ok {
			return true
		}
	}
	return false
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyAny(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyTree(src, dest)
	}
	return copyFile(src, dest)
}
