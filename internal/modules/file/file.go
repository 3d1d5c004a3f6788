package file

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appcfg "github.com/LeeBhin/boasting/internal/config"
	"github.com/LeeBhin/boasting/internal/pkg/response"
)

const (
	maxUploadBytes = 32 << 20
	maxBatchFiles  = 6
)

type Handler struct {
	staticDir string
	s3        *s3Store
	log       *zap.Logger
}

func NewHandler(cfg *appcfg.AppConfig, log *zap.Logger) (*Handler, error) {
	h := &Handler{
		staticDir: cfg.StaticDir,
		log:       log,
	}
	if cfg.S3.Enable {
		store, err := newS3Store(cfg.S3)
		if err != nil {
			return nil, err
		}
		h.s3 = store
	}
	return h, nil
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/files")
	g.POST("/upload", authMW, h.upload)
	g.POST("/batch-upload", authMW, h.batchUpload)
	g.GET("/:type/:name", h.get)
}

// saveOne stores a single multipart file and returns its public URL.
// S3 wins when configured; local static dir otherwise.
func (h *Handler) saveOne(c *gin.Context, typ string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > maxUploadBytes {
		return "", fmt.Errorf("파일 크기는 32MB를 넘을 수 없습니다.")
	}
	filename := buildFileName(fh.Filename)

	if h.s3 != nil {
		src, err := fh.Open()
		if err != nil {
			return "", err
		}
		defer src.Close()
		payload, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
		if err != nil {
			return "", err
		}
		return h.s3.Upload(c.Request.Context(), typ+"/"+filename,
			payload, fh.Header.Get("Content-Type"))
	}

	dir := filepath.Join(h.staticDir, typ)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(fh, filepath.Join(dir, filename)); err != nil {
		return "", err
	}
	return "/api/v1/files/" + typ + "/" + filename, nil
}

func (h *Handler) upload(c *gin.Context) {
	typ := normalizeTypeDefault(c.Query("type"), "file")
	if typ == "" {
		response.BadRequest(c, "invalid file type")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	url, err := h.saveOne(c, typ, fh)
	if err != nil {
		h.log.Warn("file upload failed",
			zap.String("name", fh.Filename), zap.Error(err))
		response.InternalError(c, err)
		return
	}

	storage := "local"
	if h.s3 != nil {
		storage = "s3"
	}
	response.OK(c, gin.H{"url": url, "storage": storage})
}

// batchUpload stores every file in the multipart form concurrently.
// Project submissions ship up to five images plus an attachment in one
// request, and the client needs all URLs or none.
func (h *Handler) batchUpload(c *gin.Context) {
	typ := normalizeTypeDefault(c.Query("type"), "image")
	if typ == "" {
		response.BadRequest(c, "invalid file type")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "multipart form is required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		response.BadRequest(c, "files are required")
		return
	}
	if len(files) > maxBatchFiles {
		response.BadRequest(c, fmt.Sprintf("한 번에 최대 %d개까지 올릴 수 있습니다.", maxBatchFiles))
		return
	}

	urls := make([]string, len(files))
	errs := make([]error, len(files))
	var wg sync.WaitGroup
	for i, fh := range files {
		wg.Add(1)
		go func(i int, fh *multipart.FileHeader) {
			defer wg.Done()
			urls[i], errs[i] = h.saveOne(c, typ, fh)
		}(i, fh)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			h.log.Warn("batch upload failed",
				zap.String("name", files[i].Filename), zap.Error(err))
			response.InternalError(c, err)
			return
		}
	}
	response.OK(c, gin.H{"urls": urls})
}

func (h *Handler) get(c *gin.Context) {
	typ := normalizeType(c.Param("type"))
	name := safeName(c.Param("name"))
	if typ == "" || name == "" {
		response.NotFound(c)
		return
	}

	path := filepath.Join(h.staticDir, typ, name)
	if _, err := os.Stat(path); err != nil {
		response.NotFound(c)
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

func normalizeType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || !isSafeSegment(raw) {
		return ""
	}
	return raw
}

func normalizeTypeDefault(raw, def string) string {
	typ := normalizeType(raw)
	if typ != "" {
		return typ
	}
	return normalizeType(def)
}

func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ""
	}
	if !isSafeSegment(name) {
		return ""
	}
	return name
}

func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}
