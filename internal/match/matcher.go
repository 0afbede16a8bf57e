// Package match implements the fuzzy name resolver used to map a
// user-supplied (often partial, mis-cased, or mixed-script) name onto
// exactly one indexed filesystem entry.
//
// Matching runs an ordered list of scoring tiers, from highest precision
// to highest recall. The first tier that produces a result wins, so an
// exact hit is never displaced by a longer containing key, and a noisy
// CJK+Latin query still surfaces some candidate for the operator's
// confirmation step to vet.
package match

import (
	"strings"
	"unicode/utf8"
)

// Kind identifies which tier produced a match.
type Kind string

const (
	KindExact       Kind = "exact"
	KindContains    Kind = "contains"
	KindStartsWith  Kind = "starts_with"
	KindKeyword     Kind = "keyword"
	KindCharOverlap Kind = "char_overlap"
	KindSubstring   Kind = "substring"
)

// Label returns the operator-facing Chinese label for the tier.
func (k Kind) Label() string {
	switch k {
	case KindExact:
		return "完全匹配"
	case KindContains:
		return "包含匹配"
	case KindStartsWith:
		return "开头匹配"
	case KindKeyword:
		return "关键词匹配"
	case KindCharOverlap:
		return "字符匹配"
	case KindSubstring:
		return "部分匹配"
	}
	return string(k)
}

// Candidate is one indexed entry available for resolution. Candidates are
// kept in a slice, not a map, so "first seen wins" tie-breaking is
// deterministic.
type Candidate struct {
	Key   string // lower-cased name
	Path  string
	IsDir bool
}

// Result is the single best match for a query.
type Result struct {
	Candidate Candidate
	Kind      Kind
	Score     float64
}

// Config holds the empirically-chosen tier thresholds. They were tuned
// for recall ("found something wrong" beats "found nothing"), so keep
// them configurable rather than hard-coding.
type Config struct {
	// ScoreThreshold gates the containment/prefix/keyword tier.
	ScoreThreshold float64 `yaml:"score_threshold"`
	// CharOverlapThreshold gates the distinct-character-overlap tier.
	CharOverlapThreshold float64 `yaml:"char_overlap_threshold"`
	// MinSubstring is the minimum window length for the last-resort
	// substring tier.
	MinSubstring int `yaml:"min_substring"`
	// StopWords are generic suffixes stripped before keyword matching.
	StopWords []string `yaml:"stop_words"`
}

// DefaultConfig returns the thresholds the original corpus was tuned with.
func DefaultConfig() Config {
	return Config{
		ScoreThreshold:       0.20,
		CharOverlapThreshold: 0.40,
		MinSubstring:         2,
		StopWords:            []string{"ai", "软件", "应用", "文件夹", "服务站", "程序", "工具"},
	}
}

// Matcher resolves queries against candidate sets.
type Matcher struct {
	cfg Config
}

// New returns a Matcher with the given config. Zero-valued fields fall
// back to defaults.
func New(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = def.ScoreThreshold
	}
	if cfg.CharOverlapThreshold <= 0 {
		cfg.CharOverlapThreshold = def.CharOverlapThreshold
	}
	if cfg.MinSubstring <= 0 {
		cfg.MinSubstring = def.MinSubstring
	}
	if len(cfg.StopWords) == 0 {
		cfg.StopWords = def.StopWords
	}
	return &Matcher{cfg: cfg}
}

// Match returns the single best candidate for query, or nil when no tier
// fires. An empty query or empty candidate set never matches.
func (m *Matcher) Match(query string, candidates []Candidate) *Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(candidates) == 0 {
		return nil
	}

	// Tier 1: exact, case-insensitive. Always wins regardless of what a
	// longer containing key would score.
	for _, c := range candidates {
		if c.Key == q {
			return &Result{Candidate: c, Kind: KindExact, Score: 1.0}
		}
	}

	if r := m.bestScored(q, candidates); r != nil {
		return r
	}
	if r := m.charOverlap(q, candidates); r != nil {
		return r
	}
	return m.substringWindow(q, candidates)
}

// bestScored runs the containment / prefix / keyword tier. All three are
// scored together and the strictly highest score is kept; ties keep the
// first candidate encountered.
func (m *Matcher) bestScored(q string, candidates []Candidate) *Result {
	var best *Result
	for _, c := range candidates {
		kind, score := m.scoreOne(q, c.Key)
		if score <= 0 {
			continue
		}
		if best == nil || score > best.Score {
			best = &Result{Candidate: c, Kind: kind, Score: score}
		}
	}
	if best != nil && best.Score >= m.cfg.ScoreThreshold {
		return best
	}
	return nil
}

func (m *Matcher) scoreOne(q, key string) (Kind, float64) {
	// Length ratios count runes, not bytes, so CJK names score the same
	// as Latin ones of equal visible length.
	ql, kl := runeLen(q), runeLen(key)
	switch {
	case strings.Contains(key, q):
		return KindContains, ratio(ql, kl)
	case strings.Contains(q, key):
		return KindContains, ratio(kl, ql)
	case strings.HasPrefix(key, q) || strings.HasPrefix(q, key):
		return KindStartsWith, ratio(min(ql, kl), max(ql, kl))
	}

	qk := m.stripStopWords(q)
	kk := m.stripStopWords(key)
	if qk != "" && kk != "" && (strings.Contains(kk, qk) || strings.Contains(qk, kk)) {
		return KindKeyword, ratio(min(runeLen(qk), runeLen(kk)), max(runeLen(qk), runeLen(kk)))
	}
	return "", 0
}

// charOverlap returns the first candidate (first-seen order) whose
// distinct-rune overlap ratio meets the threshold.
func (m *Matcher) charOverlap(q string, candidates []Candidate) *Result {
	qset := runeSet(q)
	for _, c := range candidates {
		kset := runeSet(c.Key)
		common := 0
		for r := range qset {
			if kset[r] {
				common++
			}
		}
		if common == 0 {
			continue
		}
		r := float64(common) / float64(max(len(qset), len(kset)))
		if r >= m.cfg.CharOverlapThreshold {
			return &Result{Candidate: c, Kind: KindCharOverlap, Score: r}
		}
	}
	return nil
}

// substringWindow slides every contiguous rune window of the query (length
// >= MinSubstring) over each candidate and returns the first candidate
// containing any window. Last-resort tier for noisy multi-script queries.
func (m *Matcher) substringWindow(q string, candidates []Candidate) *Result {
	runes := []rune(q)
	for _, c := range candidates {
		for i := 0; i < len(runes); i++ {
			for j := i + m.cfg.MinSubstring; j <= len(runes); j++ {
				if strings.Contains(c.Key, string(runes[i:j])) {
					return &Result{Candidate: c, Kind: KindSubstring, Score: 0}
				}
			}
		}
	}
	return nil
}

func (m *Matcher) stripStopWords(s string) string {
	for _, w := range m.cfg.StopWords {
		s = strings.ReplaceAll(s, w, "")
	}
	return strings.TrimSpace(s)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		set[r] = true
	}
	return set
}
