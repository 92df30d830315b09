// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"schoolhub_backend/internals/configs"
)

const MaxUploadSize = int64(5 * 1024 * 1024)

// BlobStore is the object storage used for documents and photos.
type BlobStore interface {
	// Put stores data under dir and returns the object key and public URL.
	Put(ctx context.Context, dir, filename, contentType string, data []byte) (key, url string, err error)
	Delete(ctx context.Context, key string) error
}

/* =======================================================================
   Aliyun OSS implementation
======================================================================= */

type OSSService struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := configs.GetEnv("ALI_OSS_ENDPOINT")
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var opts []oss.ClientOption
	if sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN"); sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	return &OSSService{
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
	}, nil
}

func (s *OSSService) Put(ctx context.Context, dir, filename, contentType string, data []byte) (string, string, error) {
	key := buildObjectKey(s.Prefix, dir, filename)
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.Bucket.PutObject(key, bytes.NewReader(data), opts...); err != nil {
		return "", "", err
	}
	return key, s.PublicURL(key), nil
}

func (s *OSSService) Delete(ctx context.Context, key string) error {
	return s.Bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSService) PublicURL(key string) string {
	ep := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, ep, key)
}

/* =======================================================================
   In-memory implementation (local dev, tests)
======================================================================= */

type MemoryBlobStore struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
}

func NewMemoryBlobStore(baseURL string) *MemoryBlobStore {
	return &MemoryBlobStore{BaseURL: strings.TrimRight(baseURL, "/"), Objects: map[string][]byte{}}
}

func (m *MemoryBlobStore) Put(_ context.Context, dir, filename, _ string, data []byte) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := buildObjectKey("", dir, filename)
	m.Objects[key] = append([]byte(nil), data...)
	return key, m.BaseURL + "/" + key, nil
}

func (m *MemoryBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}

// NewBlobStoreFromEnv returns OSS when ALI_OSS_* is configured, an in-memory store otherwise.
func NewBlobStoreFromEnv(prefix string) BlobStore {
	svc, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		configs.Logger("oss").Warn().Err(err).Msg("[OSS] not configured, using in-memory blob store")
		return NewMemoryBlobStore("/uploads")
	}
	return svc
}

/* =======================================================================
   Upload helpers
======================================================================= */

// UploadImage re-encodes an image upload to WebP before storing it.
func UploadImage(ctx context.Context, store BlobStore, dir string, fh *multipart.FileHeader) (key, url string, err error) {
	data, err := readFormFile(fh)
	if err != nil {
		return "", "", err
	}
	webpData, err := ConvertToWebP(data, fh.Filename, DefaultWebPOptions())
	if err != nil {
		return "", "", err
	}
	base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
	return store.Put(ctx, dir, base+".webp", "image/webp", webpData)
}

// UploadFile stores images as WebP and any other file as-is.
func UploadFile(ctx context.Context, store BlobStore, dir string, fh *multipart.FileHeader) (key, url, contentType string, err error) {
	data, err := readFormFile(fh)
	if err != nil {
		return "", "", "", err
	}
	ct := detectContentType(data, fh.Filename)
	if strings.HasPrefix(ct, "image/") {
		if webpData, convErr := ConvertToWebP(data, fh.Filename, DefaultWebPOptions()); convErr == nil {
			base := strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename))
			key, url, err = store.Put(ctx, dir, base+".webp", "image/webp", webpData)
			return key, url, "image/webp", err
		}
	}
	key, url, err = store.Put(ctx, dir, fh.Filename, ct, data)
	return key, url, ct, err
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh == nil {
		return nil, fmt.Errorf("nil file header")
	}
	if fh.Size > MaxUploadSize {
		return nil, fmt.Errorf("file too large (max %d bytes)", MaxUploadSize)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer src.Close()
	return io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
}

func detectContentType(data []byte, filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return http.DetectContentType(head)
}

func buildObjectKey(prefix, dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	parts := []string{}
	for _, p := range []string{prefix, dir} {
		if p = strings.Trim(p, "/"); p != "" {
			parts = append(parts, p)
		}
	}
	name := fmt.Sprintf("%s_%s_%s%s", safePart(base), time.Now().Format("20060102_150405"), randHex(3), ext)
	return strings.Join(append(parts, name), "/")
}

func safePart(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ' || r == '_':
			return '-'
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
