package fileop

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chiyang001/ZhiLing-AI/internal/index"
	"github.com/Chiyang001/ZhiLing-AI/internal/match"
)

func newPlanner() *Planner {
	return NewPlanner(index.NewScanner(nil), match.New(match.Config{}), nil)
}

func TestPlan_CreateForms(t *testing.T) {
	p := newPlanner()

	t.Run("three part create file", func(t *testing.T) {
		plans := p.Plan([]string{"新建文件|/tmp/work|notes.txt"})
		require.Len(t, plans, 1)
		assert.Equal(t, ActionCreateFile, plans[0].Action)
		assert.Equal(t, filepath.Join("/tmp/work", "notes.txt"), plans[0].Source)
	})

	t.Run("two part shorthand", func(t *testing.T) {
		plans := p.Plan([]string{"新建文件|/tmp/work/notes.txt"})
		require.Len(t, plans, 1)
		assert.Equal(t, filepath.Join("/tmp/work", "notes.txt"), plans[0].Source)
	})

	t.Run("create dir requires three parts", func(t *testing.T) {
		assert.Empty(t, p.Plan([]string{"新建文件夹|/tmp/work"}))
	})
}

func TestPlan_MalformedPayloadsSkippedSiblingsSurvive(t *testing.T) {
	p := newPlanner()
	plans := p.Plan([]string{
		"未知操作|/tmp/x",
		"新建文件夹|/tmp|a",
		"只有一个字段",
	})
	require.Len(t, plans, 1)
	assert.Equal(t, ActionCreateDir, plans[0].Action)
}

func TestPlan_DeleteMissingSourceFuzzyResolved(t *testing.T) {
	dir := t.TempDir()
	actual := filepath.Join(dir, "项目报告最终版.txt")
	require.NoError(t, os.WriteFile(actual, []byte("x"), 0o644))

	p := newPlanner()
	// The model echoed a truncated name; the planner resolves it against
	// the parent directory listing.
	plans := p.Plan([]string{"删除|" + filepath.Join(dir, "项目报告.txt")})
	require.Len(t, plans, 1)
	assert.Equal(t, actual, plans[0].Source)
	assert.Equal(t, filepath.Join(dir, "项目报告.txt"), plans[0].RequestedSource)
}

func TestPlan_MissingSourceWithNoMatchKeptVerbatim(t *testing.T) {
	dir := t.TempDir()
	p := newPlanner()
	want := filepath.Join(dir, "nothing-like-it.bin")
	plans := p.Plan([]string{"删除|" + want})
	require.Len(t, plans, 1)
	assert.Equal(t, want, plans[0].Source)
}

func TestPlan_RenameBareTargetStaysInParent(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	p := newPlanner()
	plans := p.Plan([]string{"重命名|" + src + "|new.txt"})
	require.Len(t, plans, 1)
	assert.Equal(t, filepath.Join(dir, "new.txt"), plans[0].Target)
}

func TestPlan_CopyTargetCollisionGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	p := newPlanner()
	plans := p.Plan([]string{"复制|" + src + "|" + src})
	require.Len(t, plans, 1)
	assert.Equal(t, filepath.Join(dir, "a_副本.txt"), plans[0].Target)
}

func TestPlan_CopyNameCorrection(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	p := newPlanner()
	// "doc副本" lacks the extension; the planner corrects it.
	plans := p.Plan([]string{"复制|" + src + "|" + filepath.Join(dir, "doc副本")})
	require.Len(t, plans, 1)
	assert.Equal(t, filepath.Join(dir, "doc_副本.txt"), plans[0].Target)
}

func TestPlan_CopyBareTargetLandsBesideSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	p := newPlanner()
	plans := p.Plan([]string{"复制|" + src + "|b.txt"})
	require.Len(t, plans, 1)
	assert.Equal(t, filepath.Join(dir, "b.txt"), plans[0].Target)
}

func TestPlan_WriteFileKeepsEmbeddedPipes(t *testing.T) {
	p := newPlanner()
	plans := p.Plan([]string{"写入文件|/tmp/a.txt|line1|line2"})
	require.Len(t, plans, 1)
	assert.Equal(t, ActionWriteFile, plans[0].Action)
	assert.Equal(t, "line1|line2", plans[0].Content)
}

func TestPlan_TildeExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p := newPlanner()
	plans := p.Plan([]string{"新建文件夹|~/Desktop|测试"})
	require.Len(t, plans, 1)
	assert.True(t, strings.HasPrefix(plans[0].Source, home))
}
