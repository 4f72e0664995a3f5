package index

import "sync"

// Rebuilds of the same index path must not interleave - the two-file publish
// is only atomic per rename, not across the pair. Readers never lock: they
// see the last fully committed pair and detect a racing rebuild through the
// build id check.

var (
	lockMu    sync.Mutex
	pathLocks = make(map[string]*sync.Mutex)
)

func writerLock(indexPath string) *sync.Mutex {
	lockMu.Lock()
	defer lockMu.Unlock()
	l, ok := pathLocks[indexPath]
	if !ok {
		l = new(sync.Mutex)
		pathLocks[indexPath] = l
	}
	return l
}
