package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"noblelift-backend/config"
	filestorage "noblelift-backend/lib/file-storage"
	s3client "noblelift-backend/s3"
)

func InitS3(ctx context.Context) {
	minioClient, err := s3client.NewClient(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
		config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		panic("Ошибка инициализации клиента S3: " + err.Error())
	}

	// Проверка соединения и наличия бакета
	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = s3client.MakeBucket(checkCtx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).WithField("bucket", config.Conf.S3.BucketName).Error("S3 недоступен, бакет не проверен")
	}

	s3client.Client = minioClient
	filestorage.NewHandler(minioClient, config.Conf.S3.BucketName)
	log.Info("S3 клиент успешно инициализирован")
}
