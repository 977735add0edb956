package thumbnails

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/content"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

// DefaultSizes are the variant widths produced for every image.
var DefaultSizes = []int{500, 250, 100}

var (
	errMissingFileID = errors.New("missing fileId")
	errMissingUserID = errors.New("missing userId")
	errFileNotFound  = errors.New("file not found")
	errNotAnImage    = errors.New("file is not an image")
)

// FileLookup finds the record a job refers to.
type FileLookup interface {
	GetByID(ctx context.Context, id string) (*models.File, error)
}

// Worker consumes jobs from a Queue with a fixed number of goroutines.
type Worker struct {
	queue   Queue
	files   FileLookup
	store   content.Store
	sizes   []int
	workers int
	retry   time.Duration
	logger  logging.Logger
}

func NewWorker(q Queue, files FileLookup, store content.Store, sizes []int, workers int, logger logging.Logger) *Worker {
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}
	return &Worker{
		queue:   q,
		files:   files,
		store:   store,
		sizes:   sizes,
		workers: workers,
		retry:   time.Second,
		logger:  logger.With("module", "thumbnails"),
	}
}

// Run processes jobs until ctx is done. A worker count of zero returns
// immediately.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	log := w.logger.With("worker", id)
	for {
		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error(ctx, "dequeue failed", "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.retry):
			}
			continue
		}

		if err := w.Process(ctx, job); err != nil {
			log.Warn(ctx, "thumbnail job failed", "file_id", job.FileID, "error", err)
			continue
		}
		log.Debug(ctx, "thumbnails written", "file_id", job.FileID)
	}
}

// Process writes every configured variant of the job's image.
func (w *Worker) Process(ctx context.Context, job Job) error {
	if job.FileID == "" {
		return errMissingFileID
	}
	if job.UserID == "" {
		return errMissingUserID
	}

	f, err := w.files.GetByID(ctx, job.FileID)
	if err != nil {
		return fmt.Errorf("%w: %v", errFileNotFound, err)
	}
	if f.UserID != job.UserID {
		return errFileNotFound
	}
	if f.Type != models.FileTypeImage {
		return errNotAnImage
	}

	data, err := w.store.Read(ctx, f.LocalPath, f.Type)
	if err != nil {
		return fmt.Errorf("read original: %w", err)
	}

	for _, size := range w.sizes {
		thumb, err := Resize(data, size)
		if err != nil {
			return fmt.Errorf("resize %d: %w", size, err)
		}
		if err := w.store.WriteVariant(ctx, f.LocalPath, size, thumb); err != nil {
			return fmt.Errorf("write %d: %w", size, err)
		}
	}
	return nil
}
