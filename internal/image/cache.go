package image

import "pmb-viewer/internal/pmb"

// DefaultCacheSize is the number of resampled rasters kept by default.
const DefaultCacheSize = 8

type resampleKey struct {
	scale         float64
	width, height int
}

// resampleCache is a fixed-capacity LRU cache of resampled rasters.
// It is not safe for concurrent use; Compositor serializes access.
type resampleCache struct {
	capacity    int
	entries     map[resampleKey]*cacheEntry
	first, last *cacheEntry
}

type cacheEntry struct {
	prev, next *cacheEntry
	key        resampleKey
	raster     *pmb.Raster
}

func newResampleCache(capacity int) *resampleCache {
	return &resampleCache{
		capacity: capacity,
		entries:  make(map[resampleKey]*cacheEntry, max(capacity, 0)),
	}
}

// Put adds a raster, evicting the least recently used entry when full.
func (l *resampleCache) Put(key resampleKey, r *pmb.Raster) {
	if l.capacity <= 0 {
		return
	}

	if ent, ok := l.entries[key]; ok {
		ent.raster = r
		l.moveToFront(ent)
		return
	}

	ent := &cacheEntry{key: key, raster: r}
	l.entries[key] = ent
	l.moveToFront(ent)

	if len(l.entries) > l.capacity {
		l.removeLast()
	}
}

// Get returns a cached raster and marks it as recently used.
func (l *resampleCache) Get(key resampleKey) (*pmb.Raster, bool) {
	ent, ok := l.entries[key]
	if !ok {
		return nil, false
	}
	l.moveToFront(ent)
	return ent.raster, true
}

// Has reports whether key is cached without touching its recency.
func (l *resampleCache) Has(key resampleKey) bool {
	_, ok := l.entries[key]
	return ok
}

// Len returns the number of cached rasters.
func (l *resampleCache) Len() int {
	return len(l.entries)
}

func (l *resampleCache) moveToFront(ent *cacheEntry) {
	if ent == l.first {
		return
	}

	if ent.prev != nil {
		ent.prev.next = ent.next
	}
	if ent.next != nil {
		ent.next.prev = ent.prev
	}
	if ent == l.last {
		l.last = ent.prev
	}

	ent.prev = nil
	ent.next = l.first
	if l.first != nil {
		l.first.prev = ent
	}
	l.first = ent
	if l.last == nil {
		l.last = ent
	}
}

func (l *resampleCache) removeLast() {
	if l.last == nil {
		return
	}

	delete(l.entries, l.last.key)
	if l.last.prev != nil {
		l.last.prev.next = nil
	}
	l.last = l.last.prev
	if l.last == nil {
		l.first = nil
	}
}
