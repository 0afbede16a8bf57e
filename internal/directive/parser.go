package directive

import (
	"regexp"
	"strings"
)

// Extraction runs independently per kind, so a malformed tag for one kind
// never blocks extraction of another. Only WRITE_FILE payloads may span
// lines; everything else is single-line by grammar.
var payloadPatterns = map[Kind]*regexp.Regexp{
	KindOpenApp:       regexp.MustCompile(`\[TASK:OPEN_APP\](.*?)\[/TASK\]`),
	KindListDir:       regexp.MustCompile(`\[TASK:LIST_DIR\](.*?)\[/TASK\]`),
	KindPowerAction:   regexp.MustCompile(`\[TASK:POWER_ACTION\](.*?)\[/TASK\]`),
	KindSearchApps:    regexp.MustCompile(`\[TASK:SEARCH_APPS\](.*?)\[/TASK\]`),
	KindFileOp:        regexp.MustCompile(`\[TASK:FILE_OP\](.*?)\[/TASK\]`),
	KindWriteFile:     regexp.MustCompile(`(?s)\[TASK:WRITE_FILE\](.*?)\[/TASK\]`),
	KindSystemControl: regexp.MustCompile(`\[TASK:SYSTEM_CONTROL\](.*?)\[/TASK\]`),
}

// Kinds whose tag form carries no payload are detected by literal
// presence of the complete empty tag, yielding one directive no matter
// how often the tag repeats.
var literalKinds = map[Kind]string{
	KindSystemInfo:    "[TASK:SYSTEM_INFO][/TASK]",
	KindListShortcuts: "[TASK:LIST_SHORTCUTS][/TASK]",
	KindCleanSystem:   "[TASK:CLEAN_SYSTEM][/TASK]",
}

// Parse extracts every directive from a raw model reply. Directives of
// one kind come back in document order; unterminated and unknown tags are
// ignored. A text with no tags yields nil.
func Parse(text string) []Directive {
	var out []Directive
	for _, kind := range Kinds {
		if re, ok := payloadPatterns[kind]; ok {
			for i, m := range re.FindAllStringSubmatch(text, -1) {
				out = append(out, Directive{
					Kind:     kind,
					Payload:  strings.TrimSpace(m[1]),
					Position: i,
				})
			}
			continue
		}
		if tag, ok := literalKinds[kind]; ok && strings.Contains(text, tag) {
			out = append(out, Directive{Kind: kind})
		}
	}
	return out
}
