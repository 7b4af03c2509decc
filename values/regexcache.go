package values

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
)

// patternCache maps a pattern key to its index in patternTable, per
// SPEC_FULL.md's domain-stack wiring for the String regex cache design
// note (spec section 9). fastcache only stores byte slices, so it holds
// an index rather than the *regexp.Regexp itself. patternTable is never
// pruned: a key that fastcache evicts is recompiled and appended again,
// so the table grows with every compilation.
var patternCache = fastcache.New(4 * 1024 * 1024)

var (
	patternTableMu sync.Mutex
	patternTable   []*regexp.Regexp
)

func compiledPattern(pattern string, global bool) (*regexp.Regexp, error) {
	key := []byte(cacheKey(pattern, global))

	patternTableMu.Lock()
	defer patternTableMu.Unlock()

	if raw, ok := patternCache.HasGet(nil, key); ok {
		idx, err := strconv.Atoi(string(raw))
		if err == nil && idx >= 0 && idx < len(patternTable) {
			return patternTable[idx], nil
		}
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patternTable = append(patternTable, re)
	idx := len(patternTable) - 1
	patternCache.Set(key, []byte(strconv.Itoa(idx)))
	return re, nil
}

func cacheKey(pattern string, global bool) string {
	if global {
		return "g:" + pattern
	}
	return "s:" + pattern
}
