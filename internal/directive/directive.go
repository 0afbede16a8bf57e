// Package directive implements the inline tag protocol that lets the
// model trigger host-side actions from within a natural-language reply.
//
// Wire grammar: [TASK:<KIND>]payload[/TASK]. The payload may be empty.
// Unknown or unterminated tags are ignored; free text around tags is left
// untouched.
package directive

// Kind is the closed set of directive kinds. Adding a kind is a
// compile-time checked change: the parser table and the dispatcher switch
// both enumerate it.
type Kind int

const (
	KindOpenApp Kind = iota
	KindSystemInfo
	KindListDir
	KindPowerAction
	KindSearchApps
	KindListShortcuts
	KindFileOp
	KindWriteFile
	KindCleanSystem
	KindSystemControl
)

// Kinds lists every kind in report order. The dispatcher emits handler
// output in this order, not in emission order.
var Kinds = []Kind{
	KindOpenApp,
	KindSystemInfo,
	KindListDir,
	KindPowerAction,
	KindSearchApps,
	KindListShortcuts,
	KindFileOp,
	KindWriteFile,
	KindCleanSystem,
	KindSystemControl,
}

// Tag returns the wire name of the kind.
func (k Kind) Tag() string {
	switch k {
	case KindOpenApp:
		return "OPEN_APP"
	case KindSystemInfo:
		return "SYSTEM_INFO"
	case KindListDir:
		return "LIST_DIR"
	case KindPowerAction:
		return "POWER_ACTION"
	case KindSearchApps:
		return "SEARCH_APPS"
	case KindListShortcuts:
		return "LIST_SHORTCUTS"
	case KindFileOp:
		return "FILE_OP"
	case KindWriteFile:
		return "WRITE_FILE"
	case KindCleanSystem:
		return "CLEAN_SYSTEM"
	case KindSystemControl:
		return "SYSTEM_CONTROL"
	}
	return "UNKNOWN"
}

func (k Kind) String() string { return k.Tag() }

// Directive is one structured command extracted from model output.
// Immutable once created; consumed exactly once by the dispatcher.
type Directive struct {
	Kind Kind
	// Payload is the raw text between the tags, trimmed. For FILE_OP it
	// is "action|arg|..."; for WRITE_FILE "path|content" where content
	// keeps any further '|' characters.
	Payload string
	// Position is the document-order ordinal within the same kind,
	// starting at zero. Cross-kind ordering is not tracked.
	Position int
}
