package har

import (
	"strconv"
	"time"

	"github.com/OneOfOne/xxhash"
	gocache "github.com/patrickmn/go-cache"
)

// ContentHash fingerprints capture content. Used as the memoization key
// here and as the file fingerprint in run summaries.
func ContentHash(content []byte) string {
	return strconv.FormatUint(xxhash.Checksum64(content), 16)
}

// ResultCache memoizes successful parses by content hash. Parse itself is
// pure and stateless; this is a caller-side layer for flows that touch the
// same capture more than once (e.g. comparing a file against itself at a
// different threshold). Failures are never cached.
type ResultCache struct {
	parser *Parser
	memo   *gocache.Cache
}

// NewResultCache wraps parser with a memo that expires entries after ttl.
func NewResultCache(parser *Parser, ttl time.Duration) *ResultCache {
	if parser == nil {
		parser = NewParser()
	}
	return &ResultCache{
		parser: parser,
		memo:   gocache.New(ttl, 2*ttl),
	}
}

// Parse returns the memoized result for content, parsing on first sight.
func (c *ResultCache) Parse(content []byte) (*Result, error) {
	key := ContentHash(content)
	if v, ok := c.memo.Get(key); ok {
		return v.(*Result), nil
	}
	res, err := c.parser.Parse(content)
	if err != nil {
		return nil, err
	}
	c.memo.Set(key, res, gocache.DefaultExpiration)
	return res, nil
}
