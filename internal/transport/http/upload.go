package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"leadtimecli/internal/dataprocessing"
	apierrors "leadtimecli/internal/errors"
)

// UploadField is the multipart form field carrying the input file.
const UploadField = "file"

// upload is one input file taken off a request.
type upload struct {
	Data   []byte
	Format dataprocessing.Format
	Name   string
}

// readUpload reads the input file from a multipart field named UploadField,
// or from the raw body otherwise. Bodies over maxBytes are rejected.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readMultipart(r)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return upload{}, uploadError(err)
	}
	return newUpload(data, "", r.Header.Get("Content-Type"))
}

func readMultipart(r *http.Request) (upload, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return upload{}, apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Malformed multipart body", err.Error())
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return upload{}, apierrors.ErrMissingInput
		}
		if err != nil {
			return upload{}, uploadError(err)
		}

		if part.FormName() != UploadField {
			part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return upload{}, uploadError(err)
		}
		return newUpload(data, part.FileName(), part.Header.Get("Content-Type"))
	}
}

func newUpload(data []byte, name, contentType string) (upload, error) {
	if len(data) == 0 {
		return upload{}, apierrors.ErrMissingInput
	}

	format, err := dataprocessing.DetectFormat(name, contentType, data)
	if err != nil {
		return upload{}, apierrors.UnsupportedFormat(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return upload{Data: data, Format: format, Name: name}, nil
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierrors.ErrPayloadTooLarge
	}
	return apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body", err.Error())
}
