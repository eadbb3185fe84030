package persona

import (
	"slices"
	"sync"

	"humanizer/internal/textproc"
)

// History records which persona indices were used per fingerprint.
type History interface {
	// Used returns the indices recorded for fp since its last reset, in pick order.
	Used(fp textproc.Fingerprint) []int
	Record(fp textproc.Fingerprint, idx int)
	Reset(fp textproc.Fingerprint)
}

// MemoryHistory is a session-scoped History. It is never persisted.
type MemoryHistory struct {
	mu   sync.Mutex
	used map[textproc.Fingerprint][]int
}

// NewMemoryHistory returns an empty history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{used: make(map[textproc.Fingerprint][]int)}
}

func (h *MemoryHistory) Used(fp textproc.Fingerprint) []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.used[fp])
}

// Record appends idx unless it is already recorded for fp.
func (h *MemoryHistory) Record(fp textproc.Fingerprint, idx int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if slices.Contains(h.used[fp], idx) {
		return
	}
	h.used[fp] = append(h.used[fp], idx)
}

func (h *MemoryHistory) Reset(fp textproc.Fingerprint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.used, fp)
}
