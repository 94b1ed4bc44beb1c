package fileuploader

import (
	"github.com/gammazero/workerpool"

	"github.com/tilevision/segserve/internal/services/filestorage"
	"github.com/tilevision/segserve/internal/utils/hashutil"
)

// Uploader pushes result files to storage on a bounded worker pool so
// request handlers never block on slow backends.
type Uploader struct {
	wp      *workerpool.WorkerPool
	storage filestorage.FileStorage
}

func NewUploader(storage filestorage.FileStorage, maxWorkers int) *Uploader {
	return &Uploader{
		wp:      workerpool.New(maxWorkers),
		storage: storage,
	}
}

func (u *Uploader) Stop() {
	u.wp.StopWait()
}

// Upload submits the file and sends its public URL on response once
// stored. On failure the channel is closed without a value.
func (u *Uploader) Upload(file filestorage.FileInfo, response chan string) {
	u.wp.Submit(func() {
		url, err := u.storage.Upload(file)
		if err != nil {
			close(response)
			return
		}

		response <- url
	})
}

// UploadBytes stores content under its blake3 hash, making result names
// content-addressed and uploads idempotent.
func (u *Uploader) UploadBytes(content []byte, extension string, response chan string) {
	file := filestorage.FileInfo{
		Name:      hashutil.Blake3Hash(content),
		Extension: extension,
		Content:   content,
	}

	u.Upload(file, response)
}
