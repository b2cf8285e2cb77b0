package workflow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akuznecov/skyvault/internal/common"
	"github.com/akuznecov/skyvault/internal/models"
)

// Upload describes one file queued for upload.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Payload     io.Reader
}

// UploadFiles drives a batch of uploads strictly sequentially: one complete
// upload cycle finishes before the next begins. Each file's outcome is
// independent; a failure does not abort the remaining queue. The returned
// error is the first per-file error, for callers that want a single verdict.
func (w *Workflow) UploadFiles(ctx context.Context, uploads []Upload) error {
	var first error
	for i := range uploads {
		if err := w.uploadOne(ctx, &uploads[i]); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// uploadOne runs the per-file state machine:
//
//	reject oversize -> uploading -> blob write -> metadata insert -> completed
//
// A blob failure stops before any metadata write. A metadata failure after a
// successful blob write triggers a best-effort compensating blob delete; if
// that delete fails too, the orphan blob is logged and left behind (known
// gap), and no file record exists either way.
func (w *Workflow) uploadOne(ctx context.Context, up *Upload) error {
	session := w.session()
	if session == nil {
		return errNotSignedIn
	}

	// Oversized files are rejected before any task entry or store call.
	if up.Size > w.maxUploadBytes {
		err := fmt.Errorf("%s: %w (%d bytes, limit %d)",
			up.Name, common.ErrFileTooLarge, up.Size, w.maxUploadBytes)
		w.surface(err)
		return err
	}

	selected := w.state.snapshot().SelectedFolderID
	path := storageKey(session.UserID, selected, up.Name)

	task := models.UploadTask{
		ID:       uuid.NewString(),
		FileName: up.Name,
		Progress: 0,
		Status:   models.UploadStatusUploading,
	}
	w.state.update(func(s *Snapshot) { s.Tasks = append(s.Tasks, task) })

	contentType := up.ContentType
	if contentType == "" {
		contentType = common.DefaultContentType
	}

	reader := &progressReader{
		r:    up.Payload,
		size: up.Size,
		report: func(pct int) {
			w.setTaskProgress(task.ID, pct)
		},
	}

	if err := w.blobs.Upload(ctx, path, reader, up.Size, contentType); err != nil {
		w.failTask(task.ID, err)
		return err
	}

	record := &models.FileRecord{
		Name:         path,
		OriginalName: up.Name,
		FileType:     contentType,
		FileSize:     up.Size,
		StoragePath:  path,
		UserID:       session.UserID,
		FolderID:     selected,
	}
	if _, err := w.meta.InsertFile(ctx, record); err != nil {
		// Compensate: the blob exists but no record will reference it.
		if rmErr := w.blobs.Remove(ctx, []string{path}); rmErr != nil {
			w.logger.Error(ctx, "compensating blob delete failed, orphan blob left behind",
				"path", path, "error", rmErr.Error())
		}
		w.failTask(task.ID, err)
		return err
	}

	w.completeTask(task.ID)
	w.clearErr()
	w.refreshFiles(ctx)
	return nil
}

// storageKey builds a collision-resistant object key. Uniqueness comes from
// the timestamp plus random suffix; no coordination step is involved.
func storageKey(userID string, folderID *string, originalName string) string {
	var b strings.Builder
	b.WriteString(userID)
	b.WriteByte('/')
	if folderID != nil {
		b.WriteString(*folderID)
		b.WriteByte('/')
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	b.WriteString(fmt.Sprintf("%d-%s", time.Now().UnixNano(), suffix))
	if ext := filepath.Ext(originalName); ext != "" {
		b.WriteString(ext)
	}
	return b.String()
}

// progressReader reports byte-level progress as the transport drains the
// payload. Progress is monotone and reaches 100 only via completeTask, so a
// short read never shows a finished bar.
type progressReader struct {
	r      io.Reader
	size   int64
	read   int64
	report func(pct int)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 && p.size > 0 {
		p.read += int64(n)
		pct := int(p.read * 100 / p.size)
		if pct > 99 {
			pct = 99
		}
		p.report(pct)
	}
	return n, err
}

func (w *Workflow) setTaskProgress(id string, pct int) {
	w.state.update(func(s *Snapshot) {
		for i := range s.Tasks {
			if s.Tasks[i].ID == id && pct > s.Tasks[i].Progress {
				s.Tasks[i].Progress = pct
			}
		}
	})
}

func (w *Workflow) completeTask(id string) {
	w.state.update(func(s *Snapshot) {
		for i := range s.Tasks {
			if s.Tasks[i].ID == id {
				s.Tasks[i].Progress = 100
				s.Tasks[i].Status = models.UploadStatusCompleted
			}
		}
	})
	w.scheduleDismiss(id)
}

func (w *Workflow) failTask(id string, err error) {
	w.state.update(func(s *Snapshot) {
		for i := range s.Tasks {
			if s.Tasks[i].ID == id {
				s.Tasks[i].Progress = 100
				s.Tasks[i].Status = models.UploadStatusError
				s.Tasks[i].Detail = err.Error()
			}
		}
		s.Err = err.Error()
	})
	w.scheduleDismiss(id)
}

// scheduleDismiss drops a terminal task from the visible set after the
// dismiss delay. This is a display affordance, not a retry signal.
func (w *Workflow) scheduleDismiss(id string) {
	time.AfterFunc(w.dismissDelay, func() {
		w.state.update(func(s *Snapshot) {
			kept := s.Tasks[:0]
			for _, t := range s.Tasks {
				if t.ID != id {
					kept = append(kept, t)
				}
			}
			s.Tasks = kept
		})
	})
}
