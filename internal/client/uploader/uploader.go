// Package uploader turns a locally selected file plus metadata into a
// remote resource reference. It performs exactly one multipart submission
// per call; retries are caller policy, never applied here.
package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/biwott-v/campus-connect-cli/internal/client/api"
	"github.com/biwott-v/campus-connect-cli/internal/client/models"
	"github.com/biwott-v/campus-connect-cli/internal/logging"
)

// ErrUpload marks any failed upload. Callers match it with errors.Is; the
// underlying transport error stays wrapped alongside it.
var ErrUpload = errors.New("attachment upload failed")

// Meta accompanies every upload.
type Meta struct {
	Title       string
	Description string
	Category    string
}

// PendingFile is a file staged for upload: its content, the name to submit
// it under, and the resource metadata.
type PendingFile struct {
	Name   string
	Reader io.Reader
	Meta   Meta
}

// FromPath stages a local file for upload, defaulting the title to the file
// name. The returned close function must be called once the upload (or the
// send that carries it) has finished.
func FromPath(path string, meta Meta) (*PendingFile, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment: %w", err)
	}
	if meta.Title == "" {
		meta.Title = filepath.Base(path)
	}
	return &PendingFile{Name: filepath.Base(path), Reader: f, Meta: meta}, f.Close, nil
}

type Uploader struct {
	client api.Client
	log    logging.Logger
}

func NewUploader(client api.Client, log logging.Logger) *Uploader {
	return &Uploader{client: client, log: log.With("component", "uploader")}
}

// Upload submits the staged file and returns the resulting attachment
// reference. Failures always propagate: message composition needs to know
// whether an attachment exists before deciding to send at all.
func (u *Uploader) Upload(ctx context.Context, f PendingFile) (*models.AttachmentRef, error) {
	ref, err := u.client.CreateResource(ctx, f.Reader, f.Name, api.ResourceMeta(f.Meta))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}
	u.log.Info(ctx, "attachment uploaded", "resource_id", ref.ResourceID, "title", ref.Title)
	return ref, nil
}
