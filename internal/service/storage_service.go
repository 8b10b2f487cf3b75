package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider abstracts where uploaded files live.
type StorageProvider interface {
	Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
}

// LocalProvider writes uploads under a directory on disk.
type LocalProvider struct {
	BasePath string
}

func (p *LocalProvider) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	fullPath := filepath.Join(p.BasePath, objectName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}
	out, err := os.Create(fullPath)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return "/uploads/" + objectName, nil
}

func (p *LocalProvider) Delete(ctx context.Context, objectName string) error {
	err := os.Remove(filepath.Join(p.BasePath, objectName))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MinioProvider stores uploads in a MinIO (S3 compatible) bucket.
type MinioProvider struct {
	Client *minio.Client
	Bucket string
}

func NewMinioProvider(cfg *config.Config) (*MinioProvider, error) {
	client, err := minio.New(cfg.Storage.MinioEndpoint, &minio.Options{
		Creds: credentials.NewStaticV4(cfg.Storage.MinioAccessID, cfg.Storage.MinioSecret, ""),
	})
	if err != nil {
		return nil, err
	}
	return &MinioProvider{Client: client, Bucket: cfg.Storage.MinioBucket}, nil
}

func (p *MinioProvider) Save(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", p.Bucket, objectName), nil
}

func (p *MinioProvider) Delete(ctx context.Context, objectName string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, objectName, minio.RemoveObjectOptions{})
}

// StorageService handles lesson video and thumbnail uploads.
type StorageService struct {
	Provider StorageProvider
	Config   *config.Config
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case "minio":
		p, err := NewMinioProvider(cfg)
		if err != nil {
			return nil, err
		}
		provider = p
	default:
		provider = &LocalProvider{BasePath: cfg.Storage.LocalPath}
	}
	return &StorageService{Provider: provider, Config: cfg}, nil
}

type UploadResult struct {
	URL       string          `json:"url"`
	Thumbnail string          `json:"thumbnail,omitempty"`
	Video     *util.VideoInfo `json:"video,omitempty"`
}

// UploadVideo stores a lesson video. With local storage the file is probed
// for duration and a thumbnail frame is extracted; object storage uploads
// skip probing since the bytes never touch local disk.
func (s *StorageService) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	objectName := objectNameFor("videos", file.Filename)
	url, err := s.Provider.Save(ctx, objectName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	result := &UploadResult{URL: url}

	if _, ok := s.Provider.(*LocalProvider); ok {
		localPath := filepath.Join(s.Config.Storage.LocalPath, objectName)
		if info, err := util.GetVideoInfo(localPath); err == nil {
			result.Video = info
		} else {
			logger.Log.Warn("video probe failed", zap.String("path", localPath), zap.Error(err))
		}
		thumbName := strings.TrimSuffix(objectName, filepath.Ext(objectName)) + ".jpg"
		thumbPath := filepath.Join(s.Config.Storage.LocalPath, thumbName)
		if err := util.GenerateThumbnail(localPath, thumbPath, "00:00:01"); err == nil {
			result.Thumbnail = "/uploads/" + thumbName
		} else {
			logger.Log.Warn("thumbnail generation failed", zap.String("path", localPath), zap.Error(err))
		}
	}
	return result, nil
}

// UploadImage stores an avatar or course thumbnail.
func (s *StorageService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	objectName := objectNameFor("images", file.Filename)
	url, err := s.Provider.Save(ctx, objectName, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return &UploadResult{URL: url}, nil
}

func (s *StorageService) DeleteObject(ctx context.Context, objectName string) error {
	return s.Provider.Delete(ctx, objectName)
}

// objectNameFor namespaces an upload by kind and date, keeping the original
// extension but not the original name.
func objectNameFor(kind, filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s/%s%s", kind, time.Now().UTC().Format("2006/01"), model.GenerateUUID(), ext)
}
