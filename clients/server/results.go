// results.go — In-memory store of encoded images awaiting download.
package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type result struct {
	Name    string
	Data    []byte
	Mime    string
	Created time.Time
}

// errResultTooLarge is returned when a single result exceeds the store's
// byte budget.
var errResultTooLarge = errors.New("result exceeds the result store budget")

// resultStore keeps the most recent encoded images so a client can preview
// first and download the exact same bytes afterwards. Oldest entries are
// evicted until both the entry limit and the byte budget hold.
type resultStore struct {
	mu       sync.RWMutex
	items    map[string]*result
	order    []string
	limit    int
	maxBytes int64
	size     int64
}

func newResultStore(limit int, maxBytes int64) *resultStore {
	return &resultStore{items: make(map[string]*result), limit: limit, maxBytes: maxBytes}
}

func (rs *resultStore) add(name string, data []byte, mimeType string) (string, error) {
	n := int64(len(data))
	if n > rs.maxBytes {
		return "", errResultTooLarge
	}

	id := uuid.NewString()
	rs.mu.Lock()
	defer rs.mu.Unlock()

	for len(rs.order) > 0 && (len(rs.order) >= rs.limit || rs.size+n > rs.maxBytes) {
		rs.evict(rs.order[0])
	}
	rs.items[id] = &result{Name: name, Data: data, Mime: mimeType, Created: time.Now()}
	rs.order = append(rs.order, id)
	rs.size += n
	return id, nil
}

// evict drops id. The caller holds mu.
func (rs *resultStore) evict(id string) {
	r, ok := rs.items[id]
	if !ok {
		return
	}
	delete(rs.items, id)
	rs.size -= int64(len(r.Data))
	for i, v := range rs.order {
		if v == id {
			rs.order = append(rs.order[:i], rs.order[i+1:]...)
			break
		}
	}
}

// bytes returns the total size of stored results.
func (rs *resultStore) bytes() int64 {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.size
}

func (rs *resultStore) get(id string) (*result, bool) {
	rs.mu.RLock()
	r, ok := rs.items[id]
	rs.mu.RUnlock()
	return r, ok
}

func (rs *resultStore) listAll() []map[string]any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	out := make([]map[string]any, 0, len(rs.order))
	for _, id := range rs.order {
		r := rs.items[id]
		out = append(out, map[string]any{
			"id":      id,
			"name":    r.Name,
			"mime":    r.Mime,
			"size":    len(r.Data),
			"created": r.Created.UTC().Format(time.RFC3339),
			"url":     "/api/results/" + id,
		})
	}
	return out
}

func (rs *resultStore) remove(id string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if _, ok := rs.items[id]; !ok {
		return false
	}
	rs.evict(id)
	return true
}
