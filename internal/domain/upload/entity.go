package upload

// Form field names accepted by the upload endpoint.
const (
	FieldWorkPhotos          = "workPhotos"
	FieldDeliveryCertificate = "deliveryCertificate"
)

// UploadedFile is one in-memory file received in a multipart request.
// It lives for the duration of the request: validated, transferred to the
// bucket, then discarded.
type UploadedFile struct {
	Field        string
	OriginalName string
	ContentType  string
	Size         int64
	Data         []byte
}

// Rejection reports why one file was refused. Sibling files in the same
// request are unaffected.
type Rejection struct {
	Field    string `json:"field"`
	Filename string `json:"filename"`
	Reason   string `json:"reason"`

	err error
}

func (r Rejection) Unwrap() error { return r.err }

func reject(f UploadedFile, err error) Rejection {
	return Rejection{
		Field:    f.Field,
		Filename: f.OriginalName,
		Reason:   err.Error(),
		err:      err,
	}
}
