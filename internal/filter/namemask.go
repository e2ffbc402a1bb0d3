package filter

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/zjrosen/opener/internal/cachemanager"
	"github.com/zjrosen/opener/internal/log"
)

// RegexpPrefix marks a name mask written as a regular expression rather than
// a glob. The expression must match the whole file name.
const RegexpPrefix = "regexp:"

type matcher func(name string) bool

type maskKey struct {
	pattern       string
	caseSensitive bool
}

func (k maskKey) CacheKey() string {
	return strconv.FormatBool(k.caseSensitive) + "\x00" + k.pattern
}

// Compiled masks are shared across filters; association files tend to repeat
// the same handful of extensions.
var masks = cachemanager.NewReadThroughCache[maskKey, matcher](
	cachemanager.NewInMemoryCacheManager[matcher]("name-masks", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval),
	compileMask,
	cachemanager.NoExpiration,
)

// NameMaskFilter accepts files whose name matches a glob or regular
// expression. Build one with NewNameMaskFilter; the zero value accepts
// nothing.
type NameMaskFilter struct {
	pattern       string
	caseSensitive bool
	match         matcher
}

// NewNameMaskFilter compiles pattern. Patterns use doublestar glob syntax
// ("*.sh", "{*.jpg,*.png}") unless prefixed with RegexpPrefix.
func NewNameMaskFilter(pattern string, caseSensitive bool) (*NameMaskFilter, error) {
	key := maskKey{pattern: pattern, caseSensitive: caseSensitive}
	m, err := masks.Get(context.Background(), key)
	if err != nil {
		return nil, err
	}
	return &NameMaskFilter{pattern: pattern, caseSensitive: caseSensitive, match: m}, nil
}

// MustNameMask is NewNameMaskFilter for patterns known to be valid.
func MustNameMask(pattern string, caseSensitive bool) *NameMaskFilter {
	f, err := NewNameMaskFilter(pattern, caseSensitive)
	if err != nil {
		panic(err)
	}
	return f
}

// Pattern returns the mask as written, including any RegexpPrefix.
func (n *NameMaskFilter) Pattern() string {
	return n.pattern
}

// CaseSensitive reports whether matching distinguishes case.
func (n *NameMaskFilter) CaseSensitive() bool {
	return n.caseSensitive
}

// Accept implements Filter.
func (n *NameMaskFilter) Accept(f File) bool {
	if n == nil || n.match == nil {
		return false
	}
	return n.match(f.Name)
}

func compileMask(_ context.Context, key maskKey) (matcher, error) {
	if key.pattern == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	if expr, ok := strings.CutPrefix(key.pattern, RegexpPrefix); ok {
		flags := ""
		if !key.caseSensitive {
			flags = "(?i)"
		}
		re, err := regexp.Compile(flags + `^(?:` + expr + `)$`)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, key.pattern, err)
		}
		log.Debug(log.CatFilter, "compiled regexp mask", "pattern", key.pattern, "case_sensitive", key.caseSensitive)
		return re.MatchString, nil
	}

	glob := key.pattern
	if !key.caseSensitive {
		glob = strings.ToLower(glob)
	}
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, key.pattern)
	}
	log.Debug(log.CatFilter, "compiled glob mask", "pattern", key.pattern, "case_sensitive", key.caseSensitive)

	if key.caseSensitive {
		return func(name string) bool {
			ok, _ := doublestar.Match(glob, name)
			return ok
		}, nil
	}
	return func(name string) bool {
		ok, _ := doublestar.Match(glob, strings.ToLower(name))
		return ok
	}, nil
}
