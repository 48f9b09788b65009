// Package netx contains small HTTP plumbing helpers shared by the API client.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// MultipartBody assembles a multipart/form-data request body with a single
// file part plus accompanying string fields. It returns the encoded body and
// the Content-Type header value carrying the boundary.
func MultipartBody(fileField, fileName string, file io.Reader, fields map[string]string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy file content: %w", err)
	}

	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
