package storage

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// UploadMultipartFile stores an uploaded menu image under imports/ and
// returns its public URL.
func UploadMultipartFile(ctx context.Context, r2 *R2Client, file *multipart.FileHeader) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", eris.Wrap(err, "open upload")
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := "imports/" + uuid.NewString() + ext

	url, err := r2.Upload(ctx, key, f, file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", eris.New("R2_PUBLIC_BASE_URL is not configured")
	}
	return url, nil
}
