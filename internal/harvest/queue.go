package harvest

import (
	"path"
	"sync"
)

// DownloadQueue accumulates the set of relative paths to fetch before any
// network activity starts. Entries are deduplicated and keep insertion order
// for deterministic iteration; order carries no fetch priority.
//
// Removal is safe under concurrent access: phase-1 workers remove their own
// entries as transfers succeed.
type DownloadQueue struct {
	mu      sync.Mutex
	present map[string]struct{}
	order   []string
}

// NewDownloadQueue returns an empty queue.
func NewDownloadQueue() *DownloadQueue {
	return &DownloadQueue{present: make(map[string]struct{})}
}

// Add inserts one relative path as a pending entry. Re-adding an
// already-queued path is a no-op; Add reports whether the path was new.
func (q *DownloadQueue) Add(relPath string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.present[relPath]; ok {
		return false
	}
	q.present[relPath] = struct{}{}
	q.order = append(q.order, relPath)
	return true
}

// Queue inserts subDir/p for each given path.
func (q *DownloadQueue) Queue(subDir string, relPaths ...string) {
	for _, p := range relPaths {
		q.Add(path.Join(subDir, p))
	}
}

// Remove deletes a path from the queue. Removing an absent path is a no-op.
// The order slice is pruned too, so a later re-Add cannot leave a stale
// duplicate behind.
func (q *DownloadQueue) Remove(relPath string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.present[relPath]; !ok {
		return
	}
	delete(q.present, relPath)
	for i, p := range q.order {
		if p == relPath {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether the path is still pending.
func (q *DownloadQueue) Contains(relPath string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.present[relPath]
	return ok
}

// Len returns the number of pending entries.
func (q *DownloadQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.present)
}

// Snapshot returns a stable point-in-time copy of the pending entries in
// insertion order. Callers must snapshot before starting concurrent drains,
// since the live queue shrinks as fetches succeed.
func (q *DownloadQueue) Snapshot() []string {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make([]string, len(q.order))
	copy(snapshot, q.order)
	return snapshot
}
