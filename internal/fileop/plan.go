// Package fileop turns raw FILE_OP / WRITE_FILE payloads into fully
// resolved operation plans and executes them against the filesystem as
// one confirmed batch. Planning only reads the filesystem; every
// mutation is deferred to the executor.
package fileop

import (
	"fmt"
	"path/filepath"
)

// Action is the closed set of batch file operations.
type Action int

const (
	ActionCreateFile Action = iota
	ActionCreateDir
	ActionDelete
	ActionRename
	ActionCopy
	ActionMove
	ActionWriteFile
)

// Wire action words as the model emits them inside FILE_OP payloads.
const (
	wordCreateFile = "新建文件"
	wordCreateDir  = "新建文件夹"
	wordDelete     = "删除"
	wordRename     = "重命名"
	wordCopy       = "复制"
	wordMove       = "剪切"
	wordWriteFile  = "写入文件"
)

// WriteFileWord is the wire action the dispatcher prefixes onto
// WRITE_FILE payloads so they join the same batch as FILE_OP directives.
const WriteFileWord = wordWriteFile

// ParseAction maps a wire action word to its Action.
func ParseAction(word string) (Action, bool) {
	switch word {
	case wordCreateFile:
		return ActionCreateFile, true
	case wordCreateDir:
		return ActionCreateDir, true
	case wordDelete:
		return ActionDelete, true
	case wordRename:
		return ActionRename, true
	case wordCopy:
		return ActionCopy, true
	case wordMove:
		return ActionMove, true
	case wordWriteFile:
		return ActionWriteFile, true
	}
	return 0, false
}

func (a Action) String() string {
	switch a {
	case ActionCreateFile:
		return wordCreateFile
	case ActionCreateDir:
		return wordCreateDir
	case ActionDelete:
		return wordDelete
	case ActionRename:
		return wordRename
	case ActionCopy:
		return wordCopy
	case ActionMove:
		return wordMove
	case ActionWriteFile:
		return wordWriteFile
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Plan is one fully resolved, not-yet-executed filesystem mutation.
// Built once by the planner, read-only afterwards.
type Plan struct {
	Action Action

	// Source is the absolute path the operation acts on. For creates it
	// is the path of the entry to be created.
	Source string

	// Target is the destination for rename/copy/move, empty otherwise.
	Target string

	// Content is the verbatim body for WriteFile, including any '|'
	// characters past the first two separators.
	Content string

	// RequestedSource keeps the pre-resolution source path for error
	// messages, so a failed fuzzy match reports what the model asked for.
	RequestedSource string
}

// Summary renders the operator-facing one-line description used in the
// numbered batch summary.
func (p Plan) Summary() string {
	switch p.Action {
	case ActionCreateFile:
		return fmt.Sprintf("新建文件: %s", p.Source)
	case ActionCreateDir:
		return fmt.Sprintf("新建文件夹: %s", p.Source)
	case ActionDelete:
		return fmt.Sprintf("删除: %s", p.Source)
	case ActionRename:
		return fmt.Sprintf("重命名: %s -> %s", p.Source, filepath.Base(p.Target))
	case ActionCopy:
		return fmt.Sprintf("复制: %s -> %s", p.Source, p.Target)
	case ActionMove:
		return fmt.Sprintf("剪切: %s -> %s", p.Source, p.Target)
	case ActionWriteFile:
		return fmt.Sprintf("写入文件: %s (%d 字节)", p.Source, len(p.Content))
	}
	return p.Action.String()
}

// Outcome records the result of executing one plan. Never retried.
type Outcome struct {
	PlanIndex int
	Success   bool
	Message   string
}
