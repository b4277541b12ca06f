package taskfilter

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// exprCache is a simple bounded cache mapping ad hoc filter strings to their
// parsed expression trees. Filtering UIs tend to re-submit the same handful
// of filter strings on every refresh, so repeated identical inputs should not
// pay for tokenizing and parsing every time.
//
// Keys are xxhash digests of the input; the original string is kept alongside
// the tree so a digest collision falls back to a re-parse instead of handing
// out a stranger's AST.
//
// Eviction strategy: when the cache reaches its capacity limit the entire map
// is replaced. This is simpler than a true LRU and sufficient for the target
// use-case (a small number of distinct filter strings repeated many times).
//
// Cached trees are shared between callers. That is safe because Expr nodes
// are immutable after construction.
type exprCache struct {
	mu    sync.RWMutex
	items map[uint64]cachedExpr
	max   int
}

type cachedExpr struct {
	source string
	expr   Expr
}

var parsedExprCache = &exprCache{
	items: make(map[uint64]cachedExpr, 256),
	max:   256,
}

func (c *exprCache) get(source string) (Expr, bool) {
	key := xxhash.Sum64String(source)
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || entry.source != source {
		return nil, false
	}
	return entry.expr, true
}

func (c *exprCache) put(source string, expr Expr) {
	key := xxhash.Sum64String(source)
	c.mu.Lock()
	if len(c.items) >= c.max {
		// Evict everything and start fresh rather than tracking entry ages.
		c.items = make(map[uint64]cachedExpr, c.max)
	}
	c.items[key] = cachedExpr{source: source, expr: expr}
	c.mu.Unlock()
}
