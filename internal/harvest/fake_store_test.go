package harvest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wcm-project/simfetch/pkg/gcsstore"
)

// fakeStore is an in-memory ObjectStore with per-path failure injection.
type fakeStore struct {
	mu       sync.Mutex
	root     string
	objects  map[string]string // full object name -> content
	failures map[string]int    // relative path -> remaining injected failures
	attempts map[string]int    // relative path -> Download call count
	listErr  error

	delay       time.Duration
	inFlight    int32
	maxInFlight int32
}

func listChildrenNames(names ...string) []gcsstore.ObjectSummary {
	out := make([]gcsstore.ObjectSummary, 0, len(names))
	for _, n := range names {
		out = append(out, gcsstore.ObjectSummary{Name: n})
	}
	return out
}

func newFakeStore(root string) *fakeStore {
	return &fakeStore{
		root:     root,
		objects:  make(map[string]string),
		failures: make(map[string]int),
		attempts: make(map[string]int),
	}
}

func (f *fakeStore) put(relPath, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[f.root+relPath] = content
}

func (f *fakeStore) failTimes(relPath string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[relPath] = n
}

func (f *fakeStore) attemptCount(relPath string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[relPath]
}

func (f *fakeStore) RootPrefix() string { return f.root }

func (f *fakeStore) ListObjects(ctx context.Context, relPrefix string) ([]gcsstore.ObjectSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	full := f.root + relPrefix
	var out []gcsstore.ObjectSummary
	for name := range f.objects {
		if strings.HasPrefix(name, full) {
			out = append(out, gcsstore.ObjectSummary{Name: name, Size: int64(len(f.objects[name]))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) ListChildren(ctx context.Context, relPrefix string) ([]gcsstore.ObjectSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}

	full := f.root + relPrefix
	seen := make(map[string]struct{})
	var out []gcsstore.ObjectSummary
	for name := range f.objects {
		if !strings.HasPrefix(name, full) {
			continue
		}
		rest := name[len(full):]
		if idx := strings.Index(rest, "/"); idx >= 0 {
			child := full + rest[:idx+1]
			if _, ok := seen[child]; !ok {
				seen[child] = struct{}{}
				out = append(out, gcsstore.ObjectSummary{Name: child})
			}
		} else {
			out = append(out, gcsstore.ObjectSummary{Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) Download(ctx context.Context, relPath string, localPath string) error {
	cur := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxInFlight, max, cur) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.attempts[relPath]++
	if f.failures[relPath] > 0 {
		f.failures[relPath]--
		f.mu.Unlock()
		return fmt.Errorf("injected failure for %s", relPath)
	}
	content, ok := f.objects[f.root+relPath]
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("object not found: %s%s", f.root, relPath)
	}
	return gcsstore.CopyReaderToFilePath(strings.NewReader(content), localPath)
}
