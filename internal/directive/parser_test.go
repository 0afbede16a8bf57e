package directive

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleDirectiveWithSurroundingText(t *testing.T) {
	text := "好的，我来帮你打开记事本。[TASK:OPEN_APP]记事本[/TASK]请稍等。"
	got := Parse(text)

	want := []Directive{{Kind: KindOpenApp, Payload: "记事本", Position: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_NTagsYieldNDirectivesInOrder(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&sb, "[TASK:FILE_OP]新建文件夹|~/Desktop|%d[/TASK]", i+1)
	}
	got := Parse(sb.String())

	require.Len(t, got, 5)
	for i, d := range got {
		assert.Equal(t, KindFileOp, d.Kind)
		assert.Equal(t, fmt.Sprintf("新建文件夹|~/Desktop|%d", i+1), d.Payload)
		assert.Equal(t, i, d.Position)
	}
}

func TestParse_ZeroTagsYieldsEmpty(t *testing.T) {
	assert.Empty(t, Parse("只是普通的回答，没有任何任务标记。"))
	assert.Empty(t, Parse(""))
}

func TestParse_UnterminatedTagIgnored(t *testing.T) {
	assert.Empty(t, Parse("[TASK:OPEN_APP]记事本"))
}

func TestParse_UnknownKindIgnored(t *testing.T) {
	assert.Empty(t, Parse("[TASK:DO_MAGIC]abc[/TASK]"))
}

func TestParse_MalformedKindDoesNotBlockOthers(t *testing.T) {
	// The trailing POWER_ACTION tag never closes; the well-formed
	// OPEN_APP tag before it is still extracted.
	text := "[TASK:OPEN_APP]计算器[/TASK] [TASK:POWER_ACTION]关机"
	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, KindOpenApp, got[0].Kind)
	assert.Equal(t, "计算器", got[0].Payload)
}

func TestParse_EmptyPayloadKinds(t *testing.T) {
	text := "[TASK:SYSTEM_INFO][/TASK] 以及 [TASK:LIST_SHORTCUTS][/TASK][TASK:CLEAN_SYSTEM][/TASK]"
	got := Parse(text)

	kinds := make([]Kind, len(got))
	for i, d := range got {
		kinds[i] = d.Kind
	}
	assert.ElementsMatch(t, []Kind{KindSystemInfo, KindListShortcuts, KindCleanSystem}, kinds)
}

func TestParse_RepeatedEmptyPayloadTagYieldsOne(t *testing.T) {
	got := Parse("[TASK:SYSTEM_INFO][/TASK][TASK:SYSTEM_INFO][/TASK]")
	assert.Len(t, got, 1)
}

func TestParse_SearchAppsBothForms(t *testing.T) {
	t.Run("with keyword", func(t *testing.T) {
		got := Parse("[TASK:SEARCH_APPS]chrome[/TASK]")
		require.Len(t, got, 1)
		assert.Equal(t, "chrome", got[0].Payload)
	})
	t.Run("without keyword", func(t *testing.T) {
		got := Parse("[TASK:SEARCH_APPS][/TASK]")
		require.Len(t, got, 1)
		assert.Equal(t, KindSearchApps, got[0].Kind)
		assert.Empty(t, got[0].Payload)
	})
}

func TestParse_WriteFilePayloadSpansLinesAndKeepsPipes(t *testing.T) {
	text := "[TASK:WRITE_FILE]~/Desktop/report.md|# 标题\n\nline1|line2\n第二段[/TASK]"
	got := Parse(text)

	require.Len(t, got, 1)
	assert.Equal(t, KindWriteFile, got[0].Kind)
	assert.Equal(t, "~/Desktop/report.md|# 标题\n\nline1|line2\n第二段", got[0].Payload)
}

func TestParse_NonWriteFilePayloadDoesNotSpanLines(t *testing.T) {
	assert.Empty(t, Parse("[TASK:OPEN_APP]记事\n本[/TASK]"))
}

func TestParse_MixedKindsAllExtracted(t *testing.T) {
	text := "[TASK:OPEN_APP]chrome[/TASK][TASK:FILE_OP]删除|/tmp/x|[/TASK]" +
		"[TASK:WRITE_FILE]/tmp/a.txt|hi[/TASK][TASK:SYSTEM_CONTROL]音量|50[/TASK]"
	got := Parse(text)
	require.Len(t, got, 4)
}
