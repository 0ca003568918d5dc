package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StoredFile 已导出的报表文件
type StoredFile struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
	URL        string    `json:"url,omitempty"`
}

// ReportStore 导出报表的存放位置；下载链接有时效，成绩不公开访问
type ReportStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Link(ctx context.Context, key string, expiry time.Duration) (string, error)
	List(ctx context.Context, prefix string) ([]StoredFile, error)
}

// LocalReportStore 写入本地目录，链接指向需要主口令的 /files 路由
type LocalReportStore struct {
	Root string
}

func (s *LocalReportStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	dst := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

func (s *LocalReportStore) Link(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "/files/" + key, nil
}

func (s *LocalReportStore) List(ctx context.Context, prefix string) ([]StoredFile, error) {
	entries, err := os.ReadDir(filepath.Join(s.Root, filepath.FromSlash(prefix)))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	files := make([]StoredFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, StoredFile{
			Key:        path.Join(prefix, e.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return files, nil
}

// MinioReportStore 私有桶 + 预签名下载链接
type MinioReportStore struct {
	Bucket string
	Client *minio.Client
}

func NewMinioReportStore(cfg *config.StorageConfig) (*MinioReportStore, error) {
	if cfg.MinioEndpoint == "" || cfg.MinioBucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioReportStore{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (s *MinioReportStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioReportStore) Link(ctx context.Context, key string, expiry time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	u, err := s.Client.PresignedGetObject(ctx, s.Bucket, key, expiry, params)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *MinioReportStore) List(ctx context.Context, prefix string) ([]StoredFile, error) {
	var files []StoredFile
	for obj := range s.Client.ListObjects(ctx, s.Bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		files = append(files, StoredFile{Key: obj.Key, Size: obj.Size, ModifiedAt: obj.LastModified})
	}
	return files, nil
}

// OSSReportStore 阿里云 OSS，下载链接使用 URL 签名
type OSSReportStore struct {
	Bucket *oss.Bucket
}

func NewOSSReportStore(cfg *config.StorageConfig) (*OSSReportStore, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSBucket == "" {
		return nil, fmt.Errorf("oss endpoint and bucket are required")
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSReportStore{Bucket: bucket}, nil
}

func (s *OSSReportStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	return s.Bucket.PutObject(key, bytes.NewReader(data), oss.ContentType(contentType), oss.WithContext(ctx))
}

func (s *OSSReportStore) Link(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.Bucket.SignURL(key, oss.HTTPGet, int64(expiry.Seconds()))
}

func (s *OSSReportStore) List(ctx context.Context, prefix string) ([]StoredFile, error) {
	var files []StoredFile
	token := ""
	for {
		opts := []oss.Option{oss.Prefix(prefix), oss.WithContext(ctx)}
		if token != "" {
			opts = append(opts, oss.ContinuationToken(token))
		}
		res, err := s.Bucket.ListObjectsV2(opts...)
		if err != nil {
			return nil, err
		}
		for _, obj := range res.Objects {
			files = append(files, StoredFile{Key: obj.Key, Size: obj.Size, ModifiedAt: obj.LastModified})
		}
		if !res.IsTruncated {
			return files, nil
		}
		token = res.NextContinuationToken
	}
}

// StorageService 按 storage.type 选择实现，远端初始化失败时回退到本地目录
type StorageService struct {
	Store      ReportStore
	LinkExpiry time.Duration
}

func NewStorageService(cfg *config.Config) *StorageService {
	var store ReportStore
	switch cfg.Storage.Type {
	case util.StorageMinio:
		s, err := NewMinioReportStore(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("MinIO storage unavailable, falling back to local", zap.Error(err))
		} else {
			store = s
		}
	case util.StorageOSS:
		s, err := NewOSSReportStore(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("OSS storage unavailable, falling back to local", zap.Error(err))
		} else {
			store = s
		}
	}

	if store == nil {
		store = &LocalReportStore{Root: cfg.Storage.LocalPath}
	}

	expiry := cfg.Storage.LinkExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &StorageService{Store: store, LinkExpiry: expiry}
}

// Put 保存文件并返回下载链接
func (s *StorageService) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := s.Store.Save(ctx, key, data, contentType); err != nil {
		return "", err
	}
	return s.Store.Link(ctx, key, s.LinkExpiry)
}

// Files 列出 prefix 下的文件（最新在前）并附带下载链接
func (s *StorageService) Files(ctx context.Context, prefix string) ([]StoredFile, error) {
	files, err := s.Store.List(ctx, strings.TrimSuffix(prefix, "/")+"/")
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key > files[j].Key })

	for i := range files {
		if files[i].URL, err = s.Store.Link(ctx, files[i].Key, s.LinkExpiry); err != nil {
			return nil, err
		}
	}
	return files, nil
}
