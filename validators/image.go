package validators

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrFileTypeUnsupported = errors.New("unsupported file type, only images are accepted")
	ErrNoFile              = errors.New("no file provided")
)

// ImageValidator checks that fh is an image no bigger than maxSize. On success
// the opened file is returned rewound to the start, along with the detected
// mime type. The caller must close the file.
func ImageValidator(fh *multipart.FileHeader, maxSize int64) (int, multipart.File, *mimetype.MIME, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, nil, ErrNoFile
	}

	// Check headers first which is easy to spoof, but faster for legit clients
	if ct := fh.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return http.StatusBadRequest, nil, nil, ErrFileTypeUnsupported
	}

	if fh.Size > maxSize {
		return http.StatusRequestEntityTooLarge, nil, nil, ErrFileTooLarge
	}

	// And now do the checks on the actual file to avoid
	// malicious clients
	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, nil, err
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, nil, err
	}

	if !strings.HasPrefix(mime.String(), "image/") {
		f.Close()
		return http.StatusBadRequest, nil, nil, ErrFileTypeUnsupported
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, nil, err
	}

	return 0, f, mime, nil
}
