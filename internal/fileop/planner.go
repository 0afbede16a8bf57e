package fileop

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Chiyang001/ZhiLing-AI/internal/index"
	"github.com/Chiyang001/ZhiLing-AI/internal/match"
)

// copySuffix is appended when a copy target collides with an existing
// entry: name_副本.ext, then name_副本2.ext, and so on.
const copySuffix = "_副本"

// Planner resolves raw "action|arg|..." payloads into executable plans.
// When a literal source path does not exist, the planner re-resolves the
// basename fuzzily against the parent directory: the model often echoes
// a slightly wrong filename back from earlier conversation. This is the
// only place fuzzy resolution feeds into a mutation.
type Planner struct {
	scanner *index.Scanner
	matcher *match.Matcher
	log     *zap.Logger
}

// NewPlanner wires the planner to its index and matcher.
func NewPlanner(scanner *index.Scanner, matcher *match.Matcher, log *zap.Logger) *Planner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{scanner: scanner, matcher: matcher, log: log}
}

// Plan converts raw payloads into plans, preserving order. Malformed
// payloads (unknown action, too few parts) are skipped so their siblings
// still execute. Only read-only existence checks touch the filesystem.
func (p *Planner) Plan(rawPayloads []string) []Plan {
	var plans []Plan
	for _, raw := range rawPayloads {
		plan, ok := p.planOne(raw)
		if !ok {
			p.log.Warn("fileop: skipping malformed payload", zap.String("payload", raw))
			continue
		}
		plans = append(plans, plan)
	}
	return plans
}

func (p *Planner) planOne(raw string) (Plan, bool) {
	// Split on the first two separators only: WriteFile content may
	// itself contain '|' and must stay untouched.
	parts := strings.SplitN(raw, "|", 3)
	if len(parts) < 2 {
		return Plan{}, false
	}
	action, ok := ParseAction(strings.TrimSpace(parts[0]))
	if !ok {
		return Plan{}, false
	}

	switch action {
	case ActionCreateFile:
		return p.planCreate(action, parts)
	case ActionCreateDir:
		if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
			return Plan{}, false
		}
		return p.planCreate(action, parts)
	case ActionDelete:
		src := index.ExpandPath(parts[1])
		resolved := p.resolveSource(src)
		return Plan{Action: action, Source: resolved, RequestedSource: src}, true
	case ActionRename, ActionCopy, ActionMove:
		if len(parts) < 3 || strings.TrimSpace(parts[2]) == "" {
			return Plan{}, false
		}
		return p.planTransfer(action, parts[1], parts[2])
	case ActionWriteFile:
		if len(parts) < 3 {
			return Plan{}, false
		}
		return Plan{
			Action:  ActionWriteFile,
			Source:  index.ExpandPath(parts[1]),
			Content: strings.TrimSpace(parts[2]),
		}, true
	}
	return Plan{}, false
}

// planCreate handles both the three-part form (action|dir|name) and the
// two-part shorthand (action|full_path).
func (p *Planner) planCreate(action Action, parts []string) (Plan, bool) {
	var dir, name string
	if len(parts) >= 3 && strings.TrimSpace(parts[2]) != "" {
		dir = strings.TrimSpace(parts[1])
		name = strings.TrimSpace(parts[2])
	} else {
		full := strings.TrimSpace(parts[1])
		if full == "" {
			return Plan{}, false
		}
		dir, name = filepath.Split(index.ExpandPath(full))
	}
	if name == "" {
		return Plan{}, false
	}
	full := filepath.Join(index.ExpandPath(dir), name)
	return Plan{Action: action, Source: full, RequestedSource: full}, true
}

func (p *Planner) planTransfer(action Action, rawSrc, rawTarget string) (Plan, bool) {
	requested := index.ExpandPath(rawSrc)
	src := p.resolveSource(requested)

	target := strings.TrimSpace(rawTarget)
	switch {
	case strings.HasPrefix(target, "~"):
		target = index.ExpandPath(target)
	case !filepath.IsAbs(target):
		switch {
		case action == ActionRename:
			// A bare rename target is a new basename inside the
			// source's own directory, never a different directory.
			target = filepath.Join(filepath.Dir(src), filepath.Base(target))
		case action == ActionCopy && filepath.Dir(target) == ".":
			// A copy target with no directory component lands beside
			// the source.
			target = filepath.Join(filepath.Dir(src), target)
		default:
			target = index.ExpandPath(target)
		}
	}

	if action == ActionCopy {
		target = p.adjustCopyTarget(src, target)
	}
	return Plan{Action: action, Source: src, Target: target, RequestedSource: requested}, true
}

// resolveSource returns src unchanged when it exists; otherwise it
// fuzzily matches the basename against the parent directory's entries
// and substitutes a hit.
func (p *Planner) resolveSource(src string) string {
	if _, err := os.Stat(src); err == nil {
		return src
	}
	parent := filepath.Dir(src)
	if _, err := os.Stat(parent); err != nil {
		return src
	}
	siblings := p.scanner.DirectoryIndex(parent)
	if len(siblings) == 0 {
		return src
	}
	r := p.matcher.Match(filepath.Base(src), siblings)
	if r == nil {
		return src
	}
	p.log.Info("fileop: fuzzy-resolved source",
		zap.String("requested", src),
		zap.String("resolved", r.Candidate.Path),
		zap.String("tier", string(r.Kind)))
	return r.Candidate.Path
}

// adjustCopyTarget fixes up copy destinations so a copy never silently
// overwrites: a target that looks like "stem副本" without the source's
// extension becomes stem_副本.ext, and an existing target gets the
// counter suffix until a free name is found.
func (p *Planner) adjustCopyTarget(src, target string) string {
	srcBase := filepath.Base(src)
	srcExt := filepath.Ext(srcBase)
	srcStem := strings.TrimSuffix(srcBase, srcExt)

	base := filepath.Base(target)
	if strings.HasPrefix(base, srcStem) && strings.HasSuffix(base, "副本") && !strings.HasSuffix(base, srcExt) {
		target = filepath.Join(filepath.Dir(target), srcStem+copySuffix+srcExt)
	}

	info, err := os.Stat(target)
	if err != nil {
		return target
	}
	// Directory targets mean "copy into"; the executor joins the final
	// name and runs the same collision pass there.
	if info.IsDir() {
		return target
	}
	return nextFreeCopyName(target)
}

// nextFreeCopyName returns path unchanged when nothing occupies it,
// otherwise the first stem_副本.ext / stem_副本N.ext variant that is
// free. Both the planner and the executor route copy destinations
// through it, so a repeated copy never overwrites the earlier one.
func nextFreeCopyName(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for counter := 1; ; counter++ {
		suffix := copySuffix
		if counter > 1 {
			suffix = fmt.Sprintf("%s%d", copySuffix, counter)
		}
		candidate := stem + suffix + ext
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
