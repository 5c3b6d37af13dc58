package upload

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"

	"worklog/internal/storage"

	"github.com/google/uuid"
)

// TransferResult is the per-file outcome of the transfer stage. A failed
// transfer does not roll back completed siblings.
type TransferResult struct {
	File UploadedFile
	Key  string
	URL  string
	Err  error
}

// Transferrer moves validated in-memory buffers into the object store.
type Transferrer struct {
	store storage.Storage
}

func NewTransferrer(store storage.Storage) *Transferrer {
	return &Transferrer{store: store}
}

// Transfer uploads the files concurrently and waits for all of them.
// Results keep the input order; each carries its own error, if any.
func (t *Transferrer) Transfer(ctx context.Context, files []UploadedFile) []TransferResult {
	results := make([]TransferResult, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f UploadedFile) {
			defer wg.Done()

			key := storageKey(f)
			err := t.store.Upload(ctx, key, bytes.NewReader(f.Data), int64(len(f.Data)), f.ContentType)
			if err != nil {
				results[i] = TransferResult{File: f, Err: err}
				return
			}
			results[i] = TransferResult{
				File: f,
				Key:  key,
				URL:  t.store.PublicURL(key),
			}
		}(i, f)
	}
	wg.Wait()

	return results
}

func categoryFor(field string) string {
	if field == FieldDeliveryCertificate {
		return "delivery-certificates"
	}
	return "work-photos"
}

// storageKey derives a collision-resistant bucket key. Original filenames
// are attacker-influenced, so a random token prefixes the sanitized name.
func storageKey(f UploadedFile) string {
	return categoryFor(f.Field) + "/" + uuid.New().String() + "-" + sanitizeName(f.OriginalName)
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, base)
	base = strings.Trim(base, ".")
	if len(base) > 60 {
		base = base[:60]
	}
	if base == "" {
		base = "file"
	}

	ext = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, ext)
	if ext == "." {
		ext = ""
	}

	return base + ext
}
