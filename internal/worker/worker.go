// Package worker decodes submitted images in the background and hands the
// outcome back to the chat front end.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"qrscan_bot/internal/decoder"
	"qrscan_bot/internal/model"
)

// User-facing notices for images that produce no result card.
const (
	NoticeNoCode     = "No QR Code Found\n\nThe selected image does not contain a QR code."
	NoticeFailed     = "Failed to decode QR code"
	NoticeSaveFailed = "Failed to save scan"
	NoticeBusy       = "Dismiss the current result first."
)

// ErrQueueFull is returned by Submit when the job queue has no room.
var ErrQueueFull = errors.New("decode queue is full")

// Job is a single image waiting to be decoded.
type Job struct {
	ID     string
	ChatID int64
	FileID string
}

// FileResolver turns a chat file reference into a downloadable URL.
type FileResolver interface {
	FileURL(fileID string) (string, error)
}

// ImageDecoder downloads and decodes an image.
type ImageDecoder interface {
	DecodeURL(ctx context.Context, url string) (string, error)
}

// Recorder stores a decoded payload.
type Recorder interface {
	Record(ctx context.Context, chatID int64, payload string) (*model.Scan, error)
}

// Sender delivers decode outcomes to the user.
type Sender interface {
	SendResult(chatID int64, scan *model.Scan)
	SendMessage(chatID int64, text string)
}

// Worker runs a fixed number of decode goroutines fed from a queue.
type Worker struct {
	jobs     chan Job
	files    FileResolver
	decoder  ImageDecoder
	recorder Recorder
	gate     *Gate
	sender   Sender
	log      *slog.Logger
	workers  int
}

// New creates a Worker with n decode goroutines.
func New(files FileResolver, dec ImageDecoder, rec Recorder, gate *Gate, sender Sender, n int, log *slog.Logger) *Worker {
	if n < 1 {
		n = 1
	}
	return &Worker{
		jobs:     make(chan Job, n*8),
		files:    files,
		decoder:  dec,
		recorder: rec,
		gate:     gate,
		sender:   sender,
		log:      log,
		workers:  n,
	}
}

// Submit queues an image for decoding without blocking and returns the job ID.
func (w *Worker) Submit(chatID int64, fileID string) (string, error) {
	job := Job{ID: uuid.NewString(), ChatID: chatID, FileID: fileID}
	select {
	case w.jobs <- job:
		w.log.Debug("decode job queued", "job_id", job.ID, "chat_id", chatID)
		return job.ID, nil
	default:
		return "", ErrQueueFull
	}
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-w.jobs:
					w.process(ctx, job)
				}
			}
		}()
	}
	wg.Wait()
}

func (w *Worker) process(ctx context.Context, job Job) {
	log := w.log.With("job_id", job.ID, "chat_id", job.ChatID)

	url, err := w.files.FileURL(job.FileID)
	if err != nil {
		log.Error("resolve file", "error", err)
		w.sender.SendMessage(job.ChatID, NoticeFailed)
		return
	}

	payload, err := w.decoder.DecodeURL(ctx, url)
	switch {
	case errors.Is(err, decoder.ErrNoCode):
		log.Info("no code in image")
		w.sender.SendMessage(job.ChatID, NoticeNoCode)
		return
	case err != nil:
		log.Error("decode image", "error", err)
		w.sender.SendMessage(job.ChatID, NoticeFailed)
		return
	}

	if !w.gate.TryAcquire(job.ChatID) {
		log.Info("result dropped, another result is pending")
		w.sender.SendMessage(job.ChatID, NoticeBusy)
		return
	}

	scan, err := w.recorder.Record(ctx, job.ChatID, payload)
	if err != nil {
		w.gate.Release(job.ChatID)
		log.Error("record scan", "error", err)
		w.sender.SendMessage(job.ChatID, NoticeSaveFailed)
		return
	}

	w.gate.Attach(job.ChatID, scan.ID)
	log.Info("scan recorded", "scan_id", scan.ID, "tag", scan.Tag)
	w.sender.SendResult(job.ChatID, scan)
}
