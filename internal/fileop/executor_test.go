package fileop

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConfirm bool

func (s stubConfirm) Confirm(string) bool { return bool(s) }

func newExecutor(confirm bool) *Executor {
	return NewExecutor(stubConfirm(confirm), nil, nil)
}

// snapshot records every entry under root as relPath→content ("" for
// directories), for byte-for-byte before/after comparison.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		require.NoError(t, err)
		rel, rErr := filepath.Rel(root, path)
		require.NoError(t, rErr)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			out[rel] = ""
			return nil
		}
		data, rdErr := os.ReadFile(path)
		require.NoError(t, rdErr)
		out[rel] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestExecute_BatchCreateDirs(t *testing.T) {
	parent := t.TempDir()
	plans := newPlanner().Plan([]string{
		fmt.Sprintf("新建文件夹|%s|a", parent),
		fmt.Sprintf("新建文件夹|%s|b", parent),
	})
	require.Len(t, plans, 2)

	outcomes, success := newExecutor(true).Execute(plans)
	assert.Equal(t, 2, success)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.Success)
	}
	assert.DirExists(t, filepath.Join(parent, "a"))
	assert.DirExists(t, filepath.Join(parent, "b"))
}

func TestExecute_MissingParentFailsBothWithSameMessage(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-dir")
	plans := newPlanner().Plan([]string{
		fmt.Sprintf("新建文件夹|%s|a", missing),
		fmt.Sprintf("新建文件夹|%s|b", missing),
	})

	outcomes, success := newExecutor(true).Execute(plans)
	assert.Zero(t, success)
	require.Len(t, outcomes, 2)
	for i, o := range outcomes {
		assert.False(t, o.Success)
		assert.Contains(t, o.Message, "目录不存在", "outcome %d", i)
	}
}

func TestExecute_DeclineLeavesFilesystemUntouched(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.txt"), []byte("data"), 0o644))
	before := snapshot(t, root)

	plans := newPlanner().Plan([]string{
		fmt.Sprintf("删除|%s", filepath.Join(root, "keep.txt")),
		fmt.Sprintf("新建文件夹|%s|new", root),
	})
	require.Len(t, plans, 2)

	outcomes, success := newExecutor(false).Execute(plans)
	assert.Zero(t, success)
	require.Len(t, outcomes, 1)
	assert.Equal(t, CancelledMessage, outcomes[0].Message)

	if diff := cmp.Diff(before, snapshot(t, root)); diff != "" {
		t.Errorf("filesystem changed despite decline (-before +after):\n%s", diff)
	}
}

func TestExecute_SingleItemBatchStillConfirms(t *testing.T) {
	root := t.TempDir()
	plans := newPlanner().Plan([]string{fmt.Sprintf("新建文件夹|%s|solo", root)})

	_, success := newExecutor(false).Execute(plans)
	assert.Zero(t, success)
	assert.NoDirExists(t, filepath.Join(root, "solo"))
}

func TestExecute_CopyCollisionIsIdempotent(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0o644))

	p := newPlanner()
	ex := newExecutor(true)

	run := func() {
		plans := p.Plan([]string{fmt.Sprintf("复制|%s|%s", src, src)})
		_, success := ex.Execute(plans)
		require.Equal(t, 1, success)
	}

	run()
	assert.FileExists(t, filepath.Join(root, "a_副本.txt"))

	run()
	assert.FileExists(t, filepath.Join(root, "a_副本2.txt"))
	// The first copy is never overwritten.
	data, err := os.ReadFile(filepath.Join(root, "a_副本.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
}

func TestExecute_CopyIntoDirectoryNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.txt")
	destDir := filepath.Join(root, "destdir")
	require.NoError(t, os.WriteFile(src, []byte("v1"), 0o644))
	require.NoError(t, os.Mkdir(destDir, 0o755))

	p := newPlanner()
	ex := newExecutor(true)

	run := func() {
		plans := p.Plan([]string{fmt.Sprintf("复制|%s|%s", src, destDir)})
		_, success := ex.Execute(plans)
		require.Equal(t, 1, success)
	}

	run()
	require.NoError(t, os.WriteFile(src, []byte("v2"), 0o644))
	run()

	// The first copy keeps its content; the second lands beside it.
	data, err := os.ReadFile(filepath.Join(destDir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	data, err = os.ReadFile(filepath.Join(destDir, "a_副本.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestExecute_CopyDirectoryIntoDirectoryNeverMerges(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "proj")
	destDir := filepath.Join(root, "destdir")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(destDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.txt"), []byte("v1"), 0o644))

	p := newPlanner()
	ex := newExecutor(true)

	run := func() {
		plans := p.Plan([]string{fmt.Sprintf("复制|%s|%s", src, destDir)})
		_, success := ex.Execute(plans)
		require.Equal(t, 1, success)
	}

	run()
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.txt"), []byte("v2"), 0o644))
	run()

	data, err := os.ReadFile(filepath.Join(destDir, "proj", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	data, err = os.ReadFile(filepath.Join(destDir, "proj_副本", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestExecute_IndependentFailures(t *testing.T) {
	root := t.TempDir()
	plans := newPlanner().Plan([]string{
		fmt.Sprintf("删除|%s", filepath.Join(root, "ghost.txt")),
		fmt.Sprintf("新建文件夹|%s|ok", root),
	})

	outcomes, success := newExecutor(true).Execute(plans)
	assert.Equal(t, 1, success)
	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Message, "路径不存在")
	assert.True(t, outcomes[1].Success)
	assert.DirExists(t, filepath.Join(root, "ok"))
}

func TestExecute_WriteFile(t *testing.T) {
	root := t.TempDir()
	p := newPlanner()
	ex := newExecutor(true)

	t.Run("content keeps embedded pipes", func(t *testing.T) {
		path := filepath.Join(root, "pipes.txt")
		plans := p.Plan([]string{fmt.Sprintf("写入文件|%s|line1|line2", path)})
		_, success := ex.Execute(plans)
		require.Equal(t, 1, success)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "line1|line2", string(data))
	})

	t.Run("unsupported extension fails at execution", func(t *testing.T) {
		plans := p.Plan([]string{fmt.Sprintf("写入文件|%s|data", filepath.Join(root, "x.exe"))})
		require.Len(t, plans, 1, "format errors are execution failures, not planning failures")
		outcomes, success := ex.Execute(plans)
		assert.Zero(t, success)
		assert.Contains(t, outcomes[0].Message, "不支持的文件格式")
	})

	t.Run("missing directories are created", func(t *testing.T) {
		path := filepath.Join(root, "deep", "nested", "note.md")
		plans := p.Plan([]string{fmt.Sprintf("写入文件|%s|# hi", path)})
		_, success := ex.Execute(plans)
		require.Equal(t, 1, success)
		assert.FileExists(t, path)
	})
}

func TestExecute_RenameGuards(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "old.txt")
	taken := filepath.Join(root, "taken.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(taken, []byte("y"), 0o644))

	p := newPlanner()
	ex := newExecutor(true)

	outcomes, success := ex.Execute(p.Plan([]string{fmt.Sprintf("重命名|%s|taken.txt", src)}))
	assert.Zero(t, success)
	assert.Contains(t, outcomes[0].Message, "目标路径已存在")

	_, success = ex.Execute(p.Plan([]string{fmt.Sprintf("重命名|%s|fresh.txt", src)}))
	assert.Equal(t, 1, success)
	assert.FileExists(t, filepath.Join(root, "fresh.txt"))
	assert.NoFileExists(t, src)
}

func TestExecute_MoveIntoDirectory(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "file.txt")
	destDir := filepath.Join(root, "dest")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(destDir, 0o755))

	plans := newPlanner().Plan([]string{fmt.Sprintf("剪切|%s|%s", src, destDir)})
	_, success := newExecutor(true).Execute(plans)
	require.Equal(t, 1, success)
	assert.FileExists(t, filepath.Join(destDir, "file.txt"))
	assert.NoFileExists(t, src)
}

func TestExecute_CopyDirectoryRecurses(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "proj")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "f.txt"), []byte("x"), 0o644))
	dest := filepath.Join(root, "backup")

	plans := newPlanner().Plan([]string{fmt.Sprintf("复制|%s|%s", src, dest)})
	_, success := newExecutor(true).Execute(plans)
	require.Equal(t, 1, success)
	assert.FileExists(t, filepath.Join(dest, "sub", "f.txt"))
}

func TestExecute_DeleteDirectoryRecursively(t *testing.T) {
	root := t.TempDir()
	victim := filepath.Join(root, "victim")
	require.NoError(t, os.MkdirAll(filepath.Join(victim, "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(victim, "deep", "f.txt"), []byte("x"), 0o644))

	plans := newPlanner().Plan([]string{fmt.Sprintf("删除|%s", victim)})
	outcomes, success := newExecutor(true).Execute(plans)
	require.Equal(t, 1, success)
	assert.Contains(t, outcomes[0].Message, "已删除文件夹")
	assert.NoDirExists(t, victim)
}

func TestExecute_EmptyPlanList(t *testing.T) {
	outcomes, success := newExecutor(true).Execute(nil)
	assert.Zero(t, success)
	require.Len(t, outcomes, 1)
	assert.Contains(t, outcomes[0].Message, "没有有效的文件操作")
}

func TestReport_AggregateLine(t *testing.T) {
	parent := t.TempDir()
	plans := newPlanner().Plan([]string{
		fmt.Sprintf("新建文件夹|%s|a", parent),
		fmt.Sprintf("删除|%s", filepath.Join(parent, "ghost")),
	})

	var buf bytes.Buffer
	ex := NewExecutor(stubConfirm(true), &buf, nil)
	report := ex.Report(plans)

	assert.Contains(t, report, "成功 1/2 个任务")
	assert.Contains(t, buf.String(), "共 2 个任务")
}

func TestReport_CancelledHasNoAggregate(t *testing.T) {
	parent := t.TempDir()
	plans := newPlanner().Plan([]string{fmt.Sprintf("新建文件夹|%s|a", parent)})

	report := newExecutor(false).Report(plans)
	assert.Equal(t, CancelledMessage, report)
}
