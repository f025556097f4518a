package memory

import (
	"time"

	"studytrack-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

const ruleSetKey = "faq_rules"

// RuleCache holds the FAQ ruleset loaded from the store. The slice order is
// the created_at load order; callers must not reorder it, since the
// responder's first-match contract is order sensitive.
type RuleCache struct {
	cache *cache.Cache
}

func NewRuleCache(ttl time.Duration) *RuleCache {
	return &RuleCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func (r *RuleCache) Put(rules []*entity.FaqRule) {
	r.cache.Set(ruleSetKey, rules, cache.DefaultExpiration)
}

func (r *RuleCache) Get() ([]*entity.FaqRule, bool) {
	if x, found := r.cache.Get(ruleSetKey); found {
		return x.([]*entity.FaqRule), true
	}
	return nil, false
}
