package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appConfig "github.com/cachapa/comanda-api/config"
	"github.com/cachapa/comanda-api/utils"
)

// PhotoService stores dish photos for the menu. Photos live in a private
// S3 bucket; the menu feed references them by key and the API hands out
// short-lived presigned URLs.
type PhotoService interface {
	// UploadPhoto validates and stores a photo, returning its storage key.
	UploadPhoto(fileHeader *multipart.FileHeader) (string, error)

	// PhotoURL generates a presigned URL for a stored photo.
	PhotoURL(key string) (string, error)

	// DeletePhoto removes a stored photo.
	DeletePhoto(key string) error
}

// S3PhotoService implements PhotoService on AWS S3.
type S3PhotoService struct {
	client *s3.Client
	bucket string
}

var photoServiceInstance PhotoService

// InitPhotoService initializes the S3-backed photo service from config.
func InitPhotoService() (PhotoService, error) {
	cfg := appConfig.GetConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	photoServiceInstance = &S3PhotoService{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}
	return photoServiceInstance, nil
}

// GetPhotoService returns the initialized photo service instance.
func GetPhotoService() PhotoService {
	return photoServiceInstance
}

// SetPhotoService sets the photo service instance (primarily for testing).
func SetPhotoService(svc PhotoService) {
	photoServiceInstance = svc
}

// UploadPhoto validates the file and puts it under menu/ in the bucket.
func (s *S3PhotoService) UploadPhoto(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := "image/png"
	if ext == ".jpg" || ext == ".jpeg" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("menu/%s%s", uuid.NewString(), ext)
	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	return key, nil
}

// PhotoURL presigns a GET for the key, valid for one hour.
func (s *S3PhotoService) PhotoURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	presign := s3.NewPresignClient(s.client)
	req, err := presign.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign photo URL: %w", err)
	}
	return req.URL, nil
}

// DeletePhoto removes the object from the bucket.
func (s *S3PhotoService) DeletePhoto(key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
