package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/tuandm-dev/meeting-scribe/internal/infrastructure/cache"
)

// resultCache memoizes parsed summaries so repeated calls for the same
// transcript do not re-spend model tokens. A cached hit keeps the
// original processing_time and model_used.
type resultCache struct {
	store cache.Store
	ttl   time.Duration
}

func newResultCache(store cache.Store, ttl time.Duration) *resultCache {
	return &resultCache{store: store, ttl: ttl}
}

func (c *resultCache) enabled() bool {
	return c != nil && c.store != nil && c.ttl > 0
}

// key hashes everything that shapes the reply
func (c *resultCache) key(model, title, context, transcript string) string {
	h := sha256.New()
	for _, part := range []string{model, title, context, transcript} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "summary:" + hex.EncodeToString(h.Sum(nil))
}

func (c *resultCache) lookup(ctx context.Context, model, title, meetingContext, transcript string) (*Result, bool) {
	if !c.enabled() {
		return nil, false
	}
	raw, ok := c.store.Get(ctx, c.key(model, title, meetingContext, transcript))
	if !ok {
		return nil, false
	}
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	normalizeResult(&result)
	return &result, true
}

func (c *resultCache) save(ctx context.Context, model, title, meetingContext, transcript string, result *Result) {
	if !c.enabled() {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.store.Set(ctx, c.key(model, title, meetingContext, transcript), string(raw), c.ttl)
}
