package workflow

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/akuznecov/skyvault/internal/auth"
	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/logging"
	"github.com/akuznecov/skyvault/internal/models"
	"github.com/google/uuid"
)

// -------- test fakes --------

// fakeProvider is an in-memory auth.Provider with a controllable session.
type fakeProvider struct {
	mu          sync.Mutex
	session     *models.Session
	sessionErr  error
	subscribers []func(auth.Event, *models.Session)
	signedOut   int
	unsubCalls  int
}

func (f *fakeProvider) CurrentSession(ctx context.Context) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	if f.session == nil {
		return nil, common.ErrNoSession
	}
	return f.session, nil
}

func (f *fakeProvider) Subscribe(fn func(auth.Event, *models.Session)) auth.Unsubscribe {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribers = append(f.subscribers, fn)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubCalls++
	}
}

func (f *fakeProvider) SignIn(ctx context.Context, email string, password []byte) (*models.Session, error) {
	return f.session, nil
}

func (f *fakeProvider) SignUp(ctx context.Context, email string, password []byte) error {
	return nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.signedOut++
	f.session = nil
	subs := make([]func(auth.Event, *models.Session), len(f.subscribers))
	copy(subs, f.subscribers)
	f.mu.Unlock()
	for _, fn := range subs {
		fn(auth.EventSignedOut, nil)
	}
	return nil
}

// fakeMetadata is an in-memory Metadata implementation with failure switches.
type fakeMetadata struct {
	mu      sync.Mutex
	files   map[string]models.FileRecord
	folders map[string]models.FolderRecord

	insertFileErr    error
	deleteFolderErr  error
	cascadeErr       error
	listFilesErr     error
	listFilesCalls   int
	cascadeCalls     int
	insertFileCalls  int
	deleteFolderDone int
}

func newFakeMetadata() *fakeMetadata {
	return &fakeMetadata{
		files:   make(map[string]models.FileRecord),
		folders: make(map[string]models.FolderRecord),
	}
}

func (f *fakeMetadata) ListFiles(ctx context.Context, userID string, folderID *string) ([]models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listFilesCalls++
	if f.listFilesErr != nil {
		return nil, f.listFilesErr
	}
	result := make([]models.FileRecord, 0)
	for _, r := range f.files {
		if r.UserID != userID {
			continue
		}
		if folderID == nil && r.FolderID != nil {
			continue
		}
		if folderID != nil && (r.FolderID == nil || *r.FolderID != *folderID) {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeMetadata) ListFolders(ctx context.Context, userID string) ([]models.FolderRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]models.FolderRecord, 0)
	for _, r := range f.folders {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeMetadata) InsertFile(ctx context.Context, record *models.FileRecord) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertFileCalls++
	if f.insertFileErr != nil {
		return nil, f.insertFileErr
	}
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now()
	f.files[record.ID] = *record
	return record, nil
}

func (f *fakeMetadata) GetFile(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.files[id]
	if !ok || r.UserID != userID {
		return nil, &common.StoreError{Kind: "not_found", Err: common.ErrorNotFound}
	}
	return &r, nil
}

func (f *fakeMetadata) DeleteFile(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.files[id]
	if !ok || r.UserID != userID {
		return &common.StoreError{Kind: "not_found", Err: common.ErrorNotFound}
	}
	delete(f.files, id)
	return nil
}

func (f *fakeMetadata) DeleteFilesByFolder(ctx context.Context, userID, folderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cascadeCalls++
	if f.cascadeErr != nil {
		return f.cascadeErr
	}
	for id, r := range f.files {
		if r.UserID == userID && r.FolderID != nil && *r.FolderID == folderID {
			delete(f.files, id)
		}
	}
	return nil
}

func (f *fakeMetadata) InsertFolder(ctx context.Context, userID, name string, parentID *string) (*models.FolderRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder := models.FolderRecord{
		ID:             uuid.NewString(),
		Name:           name,
		UserID:         userID,
		ParentFolderID: parentID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.folders[folder.ID] = folder
	return &folder, nil
}

func (f *fakeMetadata) DeleteFolder(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteFolderDone++
	if f.deleteFolderErr != nil {
		return f.deleteFolderErr
	}
	r, ok := f.folders[id]
	if !ok || r.UserID != userID {
		return &common.StoreError{Kind: "not_found", Err: common.ErrorNotFound}
	}
	delete(f.folders, id)
	return nil
}

// fakeBlobStore is an in-memory blob.Store with failure switches.
type fakeBlobStore struct {
	mu          sync.Mutex
	blobs       map[string][]byte
	uploadErr   error
	removeErr   error
	signErr     error
	uploadCalls int
	removeCalls int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(ctx context.Context, path string, payload io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	f.uploadCalls++
	err := f.uploadErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	data, rerr := io.ReadAll(payload)
	if rerr != nil {
		return &common.BlobError{Kind: "connectivity", Err: rerr}
	}
	f.mu.Lock()
	f.blobs[path] = data
	f.mu.Unlock()
	return nil
}

func (f *fakeBlobStore) Download(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[path]
	if !ok {
		return nil, &common.BlobError{Kind: "absent", Err: fmt.Errorf("no blob at %s", path)}
	}
	return data, nil
}

func (f *fakeBlobStore) Remove(ctx context.Context, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if f.removeErr != nil {
		return f.removeErr
	}
	for _, p := range paths {
		delete(f.blobs, p)
	}
	return nil
}

func (f *fakeBlobStore) CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signErr != nil {
		return "", f.signErr
	}
	if _, ok := f.blobs[path]; !ok {
		return "", &common.BlobError{Kind: "absent", Err: fmt.Errorf("no blob at %s", path)}
	}
	return "https://signed.example/" + path, nil
}

// -------- helpers --------

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testSession() *models.Session {
	return &models.Session{UserID: uuid.NewString(), Email: "user@example.com", AccessToken: "t", RefreshToken: "r"}
}

// newTestWorkflow returns an activated workflow over fresh fakes.
func newTestWorkflow(opts ...Option) (*Workflow, *fakeProvider, *fakeMetadata, *fakeBlobStore) {
	provider := &fakeProvider{session: testSession()}
	meta := newFakeMetadata()
	blobs := newFakeBlobStore()
	all := append([]Option{WithDismissDelay(10 * time.Millisecond)}, opts...)
	w := New(provider, meta, blobs, testLogger(), all...)
	return w, provider, meta, blobs
}

func payload(size int) io.Reader {
	return bytes.NewReader(bytes.Repeat([]byte{0xAB}, size))
}

func fileRecord(userID string, folderID *string, name string) *models.FileRecord {
	key := fmt.Sprintf("%s/%s", userID, uuid.NewString())
	return &models.FileRecord{
		Name:         key,
		OriginalName: name,
		FileType:     "text/plain",
		FileSize:     3,
		StoragePath:  key,
		UserID:       userID,
		FolderID:     folderID,
	}
}
