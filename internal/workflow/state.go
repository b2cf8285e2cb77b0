package workflow

import (
	"sync"

	"github.com/akuznecov/skyvault/internal/models"
)

// Snapshot is an immutable view of the workflow state. Every transition
// produces a new snapshot; the presentation layer observes them through
// SubscribeState or polls CurrentSnapshot.
type Snapshot struct {
	Authenticated bool
	Session       *models.Session

	Files   []models.FileRecord
	Folders []models.FolderRecord
	Tasks   []models.UploadTask

	// SelectedFolderID is nil when the top level is selected.
	SelectedFolderID *string

	Loading bool
	// Err is the user-facing message of the last failed operation, empty when
	// the last operation succeeded.
	Err string
}

// clone deep-copies the slices so published snapshots never alias the
// internal state.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Files = append([]models.FileRecord(nil), s.Files...)
	out.Folders = append([]models.FolderRecord(nil), s.Folders...)
	out.Tasks = append([]models.UploadTask(nil), s.Tasks...)
	return out
}

// stateStore guards the current snapshot and fans transitions out to
// subscribers.
type stateStore struct {
	mu          sync.Mutex
	current     Snapshot
	subscribers map[int]func(Snapshot)
	nextSubID   int
}

func newStateStore() *stateStore {
	return &stateStore{subscribers: make(map[int]func(Snapshot))}
}

func (s *stateStore) snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.clone()
}

// update applies fn to a copy of the current snapshot, installs the result,
// and notifies subscribers outside the lock.
func (s *stateStore) update(fn func(*Snapshot)) Snapshot {
	s.mu.Lock()
	next := s.current.clone()
	fn(&next)
	s.current = next
	published := next.clone()
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		fns = append(fns, sub)
	}
	s.mu.Unlock()

	for _, sub := range fns {
		sub(published)
	}
	return published
}

func (s *stateStore) subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
