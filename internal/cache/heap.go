// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package cache

import "time"

// heapEntry is a cache key ordered by its expiry time.
type heapEntry struct {
	key       string
	expiresAt time.Time
	index     int // position in the heap array, kept for O(log n) removal
}

// expiryHeap is a min-heap of cache keys ordered by expiry time, with a
// parallel map for O(1) key lookup. It lets the cache find and evict the
// entry closest to expiry in O(log n).
//
// Not safe for concurrent use; the owning Cache holds its own lock.
type expiryHeap struct {
	heap  []*heapEntry
	byKey map[string]*heapEntry
}

func newExpiryHeap() *expiryHeap {
	return &expiryHeap{
		heap:  make([]*heapEntry, 0),
		byKey: make(map[string]*heapEntry),
	}
}

// push adds a key or, if it is already present, updates its expiry and
// reorders the heap.
func (h *expiryHeap) push(key string, expiresAt time.Time) {
	if existing, ok := h.byKey[key]; ok {
		existing.expiresAt = expiresAt
		h.fix(existing.index)
		return
	}

	entry := &heapEntry{key: key, expiresAt: expiresAt, index: len(h.heap)}
	h.heap = append(h.heap, entry)
	h.byKey[key] = entry
	h.bubbleUp(entry.index)
}

// popEarliest removes and returns the entry with the smallest expiry time,
// or nil if the heap is empty.
func (h *expiryHeap) popEarliest() *heapEntry {
	if len(h.heap) == 0 {
		return nil
	}
	return h.removeAt(0)
}

// remove deletes a key from the heap. Returns false if the key is absent.
func (h *expiryHeap) remove(key string) bool {
	entry, ok := h.byKey[key]
	if !ok {
		return false
	}
	h.removeAt(entry.index)
	return true
}

func (h *expiryHeap) len() int {
	return len(h.heap)
}

func (h *expiryHeap) removeAt(i int) *heapEntry {
	n := len(h.heap) - 1
	entry := h.heap[i]
	delete(h.byKey, entry.key)

	if i == n {
		h.heap = h.heap[:n]
		return entry
	}

	h.heap[i] = h.heap[n]
	h.heap[i].index = i
	h.heap = h.heap[:n]
	h.fix(i)
	return entry
}

func (h *expiryHeap) fix(i int) {
	if h.bubbleUp(i) {
		return
	}
	h.bubbleDown(i)
}

func (h *expiryHeap) bubbleUp(i int) bool {
	moved := false
	for i > 0 {
		parent := (i - 1) / 2
		if !h.heap[i].expiresAt.Before(h.heap[parent].expiresAt) {
			break
		}
		h.swap(i, parent)
		i = parent
		moved = true
	}
	return moved
}

func (h *expiryHeap) bubbleDown(i int) {
	n := len(h.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.heap[left].expiresAt.Before(h.heap[smallest].expiresAt) {
			smallest = left
		}
		if right < n && h.heap[right].expiresAt.Before(h.heap[smallest].expiresAt) {
			smallest = right
		}

		if smallest == i {
			break
		}

		h.swap(i, smallest)
		i = smallest
	}
}

func (h *expiryHeap) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
	h.heap[i].index = i
	h.heap[j].index = j
}
