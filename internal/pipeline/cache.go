package pipeline

import (
	"fmt"

	"cannibalisation-tool/internal/model"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey covers every input the detection result depends on.
type cacheKey struct {
	ContentHash  string
	ImpressionTh float64
	ClickTh      float64
}

// Cache memoises analyses keyed on file content and both thresholds.
type Cache struct {
	entries *lru.Cache[cacheKey, *model.Analysis]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, *model.Analysis](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Get(contentHash string, th model.Thresholds) (*model.Analysis, bool) {
	return c.entries.Get(keyFor(contentHash, th))
}

func (c *Cache) Add(a *model.Analysis) {
	c.entries.Add(keyFor(a.ContentHash, a.Thresholds), a)
}

func (c *Cache) Len() int {
	return c.entries.Len()
}

func keyFor(contentHash string, th model.Thresholds) cacheKey {
	return cacheKey{ContentHash: contentHash, ImpressionTh: th.ImpressionTh, ClickTh: th.ClickTh}
}
