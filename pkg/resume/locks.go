package resume

import "sync"

// studentLocks serializes version assignment per student within this process.
// The database enforces the same invariant with a unique (student_id, version)
// constraint; the keyed mutex keeps the common path conflict-free instead of
// relying on constraint-violation retries.
type studentLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newStudentLocks() *studentLocks {
	return &studentLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *studentLocks) lock(studentID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[studentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[studentID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}
