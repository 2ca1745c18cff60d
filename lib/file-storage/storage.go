package filestorage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"noblelift-backend/lib/utils/helpers"
)

const defaultContentType = "application/octet-stream"

// Provider хранилище файлов. Методы Put возвращают ключ объекта, который сохраняется в storage_path
type Provider interface {
	PutDocumentVersion(ctx context.Context, documentID string, version int, fileName string, reader io.Reader, size int64, contentType string) (key string, err error)
	PutTaskFile(ctx context.Context, taskID, fileName string, reader io.Reader, size int64, contentType string) (key string, err error)
	PutAvatar(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (key string, err error)
	GetFile(ctx context.Context, key string) (body io.ReadCloser, size int64, err error)
	DeleteFile(ctx context.Context, key string) error
}

var Instance Provider

func NewHandler(client *minio.Client, bucketName string) {
	Instance = NewInstance(client, bucketName)
}

func NewInstance(client *minio.Client, bucketName string) Provider {
	return &impl{
		client:     client,
		bucketName: bucketName,
	}
}

type impl struct {
	client     *minio.Client
	bucketName string
}

func DocumentVersionKey(documentID string, version int, fileName string) string {
	return fmt.Sprintf("docs/%v/%v/%v", documentID, version, helpers.SafeFileName(fileName))
}

func TaskFileKey(taskID, fileName string) string {
	return fmt.Sprintf("tasks/%v/%v_%v", taskID, uuid.NewString(), helpers.SafeFileName(fileName))
}

func AvatarKey(userID, fileName string) string {
	return "avatars/" + AvatarName(userID, fileName)
}

// AvatarName имя файла аватара, по нему аватар отдается через /static/avatars/{name}
func AvatarName(userID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(helpers.SafeFileName(fileName)))
	return fmt.Sprintf("%v_%v%v", userID, strings.ReplaceAll(uuid.NewString(), "-", "")[:8], ext)
}

func (i impl) put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	_, err := i.client.PutObject(ctx, i.bucketName, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrapf(err, "ошибка загрузки файла (%v)", key)
	}
	return key, nil
}

func (i impl) PutDocumentVersion(ctx context.Context, documentID string, version int, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	return i.put(ctx, DocumentVersionKey(documentID, version, fileName), reader, size, contentType)
}

func (i impl) PutTaskFile(ctx context.Context, taskID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	return i.put(ctx, TaskFileKey(taskID, fileName), reader, size, contentType)
}

func (i impl) PutAvatar(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	return i.put(ctx, AvatarKey(userID, fileName), reader, size, contentType)
}

func (i impl) GetFile(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := i.client.GetObject(ctx, i.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, errors.Wrapf(err, "ошибка получения файла (%v)", key)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, errors.Wrapf(err, "ошибка получения файла (%v)", key)
	}
	return obj, info.Size, nil
}

func (i impl) DeleteFile(ctx context.Context, key string) error {
	err := i.client.RemoveObject(ctx, i.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrapf(err, "ошибка удаления файла (%v)", key)
	}
	return nil
}
