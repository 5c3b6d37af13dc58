package upload

import "strings"

// certificateMimeTypes is the fixed allow-list for delivery documents.
var certificateMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// Policy decides, per file, whether an upload is accepted. Limits apply
// independently of the MIME check and rejections never abort sibling files.
type Policy struct {
	MaxPhotoSize    int64
	MaxDocumentSize int64
	MaxPhotos       int
	MaxCertificates int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxPhotoSize:    5 * 1024 * 1024,
		MaxDocumentSize: 10 * 1024 * 1024,
		MaxPhotos:       10,
		MaxCertificates: 1,
	}
}

// Validate classifies every file as accepted or rejected with a reason.
// Order within each field is preserved; excess files beyond the per-field
// cap are rejected individually.
func (p Policy) Validate(files []UploadedFile) (accepted []UploadedFile, rejected []Rejection) {
	counts := map[string]int{}

	for _, f := range files {
		switch f.Field {
		case FieldWorkPhotos:
			if counts[f.Field] >= p.MaxPhotos {
				rejected = append(rejected, reject(f, ErrTooManyFiles))
				continue
			}
			if !strings.HasPrefix(contentType(f), "image/") {
				rejected = append(rejected, reject(f, ErrUnsupportedMediaType))
				continue
			}
			if f.Size > p.MaxPhotoSize {
				rejected = append(rejected, reject(f, ErrPayloadTooLarge))
				continue
			}

		case FieldDeliveryCertificate:
			if counts[f.Field] >= p.MaxCertificates {
				rejected = append(rejected, reject(f, ErrTooManyFiles))
				continue
			}
			if !certificateMimeTypes[contentType(f)] {
				rejected = append(rejected, reject(f, ErrUnsupportedMediaType))
				continue
			}
			if f.Size > p.MaxDocumentSize {
				rejected = append(rejected, reject(f, ErrPayloadTooLarge))
				continue
			}

		default:
			rejected = append(rejected, reject(f, ErrUnknownField))
			continue
		}

		counts[f.Field]++
		accepted = append(accepted, f)
	}

	return accepted, rejected
}

// contentType strips charset parameters from a declared MIME type.
func contentType(f UploadedFile) string {
	ct := strings.TrimSpace(strings.Split(f.ContentType, ";")[0])
	return strings.ToLower(ct)
}
