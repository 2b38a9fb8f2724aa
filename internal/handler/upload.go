package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// multipartOverhead leaves room for the form framing around the file.
const multipartOverhead = 64 << 10

var ErrUploadDir = errors.New("upload directory is not writable")

// Uploader stores listing images on local disk under generated names.
type Uploader struct {
	dir string
}

func NewUploader(dir string) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadDir, err)
	}
	return &Uploader{dir: dir}, nil
}

// Save writes r to a fresh file and returns its name.
func (u *Uploader) Save(contentType string, r io.Reader) (string, error) {
	ext := ".img"
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		ext = exts[0]
	}
	name := uuid.NewString() + ext

	f, err := os.OpenFile(filepath.Join(u.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadDir, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, catalog.MaxImageBytes+1)); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return name, nil
}

func (u *Uploader) FileServer() http.Handler {
	return http.FileServer(http.Dir(u.dir))
}

func publicURL(r *http.Request, name string) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/uploads/" + name
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context()).With(zap.String("handler", "upload"))

	r.Body = http.MaxBytesReader(w, r.Body, catalog.MaxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(catalog.MaxImageBytes + multipartOverhead); err != nil {
		writeError(w, r, apperr.Invalid("image", "Image must be 2MB or smaller"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, apperr.Invalid("image", "Please select an image file"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := catalog.ValidateImage(contentType, header.Size); err != nil {
		writeError(w, r, err)
		return
	}

	name, err := h.uploads.Save(contentType, file)
	if err != nil {
		log.Error("failed to store upload", zap.Error(err))
		utils.WriteJSONError(w, "Upload failed", http.StatusInternalServerError)
		return
	}

	log.Info("image stored", zap.String("name", name), zap.Int64("size", header.Size))
	utils.WriteJSON(w, http.StatusCreated, map[string]string{"url": publicURL(r, name)})
}
