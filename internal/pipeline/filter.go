package pipeline

import (
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/grahambrooks/astgen/internal/config"
)

// LanguageDetector maps a file path to a registered language name.
// Satisfied by ports.Parser.
type LanguageDetector interface {
	DetectLanguage(path string) (language string, ok bool)
}

// Decision is the outcome of filtering one candidate path.
type Decision int

const (
	Accept Decision = iota
	RejectIgnored
	RejectExcluded
	RejectNotIncluded
	RejectUnsupported
	RejectTooLarge
)

func (d Decision) String() string {
	switch d {
	case Accept:
		return "accept"
	case RejectIgnored:
		return "ignored"
	case RejectExcluded:
		return "excluded"
	case RejectNotIncluded:
		return "not included"
	case RejectUnsupported:
		return "unsupported file type"
	case RejectTooLarge:
		return "file too large"
	default:
		return "unknown"
	}
}

// Filter decides whether a candidate file is in scope. It is pure: the same
// path and size always produce the same decision for one configuration.
type Filter struct {
	ignoreRules *ignore.GitIgnore // ignore-file rules, nil when absent
	exclude     *ignore.GitIgnore // --exclude patterns, nil when none
	include     *ignore.GitIgnore // --include patterns, nil when none
	detect      func(string) (string, bool)
	maxBytes    int64
}

// NewFilter compiles the configured include/exclude patterns and binds the
// parser's extension lookup. ignoreRules may be nil. Pattern validity is
// checked by config.Validate before this runs; gitignore globs themselves
// cannot fail to compile.
func NewFilter(cfg *config.Config, ignoreRules *ignore.GitIgnore, detector LanguageDetector) *Filter {
	f := &Filter{
		ignoreRules: ignoreRules,
		detect:      detector.DetectLanguage,
		maxBytes:    cfg.MaxFileSizeBytes(),
	}
	if len(cfg.Excludes) > 0 {
		f.exclude = ignore.CompileIgnoreLines(cfg.Excludes...)
	}
	if len(cfg.Includes) > 0 {
		f.include = ignore.CompileIgnoreLines(cfg.Includes...)
	}
	return f
}

// WithIgnoreRules returns a copy of the filter bound to a different ignore
// rule set. Used by the discoverer, which loads ignore files per root.
func (f *Filter) WithIgnoreRules(rules *ignore.GitIgnore) *Filter {
	c := *f
	c.ignoreRules = rules
	return &c
}

// AcceptPath evaluates the fixed decision chain for one file. The order is
// part of the contract: ignore rules, then excludes (exclude always wins over
// include), then includes, then extension lookup, then the size limit. The
// size comes from directory metadata so huge files are never read.
func (f *Filter) AcceptPath(path string, size int64) (language string, d Decision) {
	if f.ignoreRules != nil && f.ignoreRules.MatchesPath(path) {
		return "", RejectIgnored
	}
	if f.exclude != nil && f.exclude.MatchesPath(path) {
		return "", RejectExcluded
	}
	if f.include != nil && !f.include.MatchesPath(path) {
		return "", RejectNotIncluded
	}
	lang, ok := f.detect(path)
	if !ok {
		return "", RejectUnsupported
	}
	if size > f.maxBytes {
		return "", RejectTooLarge
	}
	return lang, Accept
}

// PruneDir reports whether a directory subtree should be skipped before
// descending: either its name is in the default ignore set or an ignore-file
// or exclude rule matches the directory itself.
func (f *Filter) PruneDir(name, relPath string) bool {
	if skipDirs[name] {
		return true
	}
	dir := relPath + "/"
	if f.ignoreRules != nil && f.ignoreRules.MatchesPath(dir) {
		return true
	}
	if f.exclude != nil && f.exclude.MatchesPath(dir) {
		return true
	}
	return false
}
