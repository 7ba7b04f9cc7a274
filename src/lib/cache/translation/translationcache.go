package translationcache

// in memory translation cache, so re-reading a post in the same language
// does not hit openrouter again

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type entry struct {
	translation string
	expiresAt   time.Time
}

type TranslationCache struct {
	cache      map[string]entry
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

func New(ttl time.Duration, maxEntries int) *TranslationCache {
	return &TranslationCache{
		cache:      make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Key hashes the pair so large posts are not kept twice in memory.
func Key(targetLang, text string) string {
	sum := sha256.Sum256([]byte(targetLang + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (tc *TranslationCache) Get(key string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	e, exists := tc.cache[key]
	if !exists || !tc.now().Before(e.expiresAt) {
		return "", false
	}
	return e.translation, true
}

func (tc *TranslationCache) Set(key, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.maxEntries > 0 && len(tc.cache) >= tc.maxEntries {
		tc.evictLocked()
	}
	tc.cache[key] = entry{translation: translation, expiresAt: tc.now().Add(tc.ttl)}
}

// evictLocked drops expired entries, then arbitrary ones until there is room.
func (tc *TranslationCache) evictLocked() {
	now := tc.now()
	for k, e := range tc.cache {
		if !now.Before(e.expiresAt) {
			delete(tc.cache, k)
		}
	}
	for k := range tc.cache {
		if len(tc.cache) < tc.maxEntries {
			break
		}
		delete(tc.cache, k)
	}
}

func (tc *TranslationCache) Delete(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	delete(tc.cache, key)
}

func (tc *TranslationCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.cache = make(map[string]entry)
}

func (tc *TranslationCache) Size() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.cache)
}
