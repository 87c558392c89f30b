package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/nexafin/fincoach/config"
)

const MaxChatFileSize = 10 * 1024 * 1024 // 10 MB

// MediaService stores attachment blobs and profile images
type MediaService interface {
	UploadChatFile(fileHeader *multipart.FileHeader, conversationID string) (string, error)
	DeleteChatFile(key string) error
	UploadProfileImage(fileHeader *multipart.FileHeader, userID uint) (string, error)
}

type mediaService struct {
	Config *config.Config
}

// NewMediaService instantiate a mediaService
func NewMediaService(conf *config.Config) MediaService {
	return &mediaService{Config: conf}
}

func createS3Client() (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(os.Getenv("AWS_REGION")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config, %v", err)
	}

	return s3.NewFromConfig(cfg), nil
}

func (m *mediaService) putObject(key string, body *bytes.Reader) (string, error) {
	client, err := createS3Client()
	if err != nil {
		return "", err
	}

	bucketName := m.Config.ChatFilesBucket
	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %v", err)
	}

	fileURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucketName, os.Getenv("AWS_REGION"), key)
	log.Printf("File uploaded successfully, URL: %s", fileURL)
	return fileURL, nil
}

// UploadChatFile stores one attachment under a key namespaced by the owning
// conversation and a timestamp to avoid collisions
func (m *mediaService) UploadChatFile(fileHeader *multipart.FileHeader, conversationID string) (string, error) {
	if fileHeader.Size > MaxChatFileSize {
		return "", fmt.Errorf("file %s exceeds the maximum allowed size", fileHeader.Filename)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error opening file: %v", err)
	}
	defer file.Close()

	content := new(bytes.Buffer)
	if _, err := content.ReadFrom(file); err != nil {
		return "", fmt.Errorf("failed to read file content: %v", err)
	}

	sanitizedFilename := strings.ReplaceAll(fileHeader.Filename, " ", "_")
	key := fmt.Sprintf("%s/%d-%s", conversationID, time.Now().UnixMilli(), sanitizedFilename)

	return m.putObject(key, bytes.NewReader(content.Bytes()))
}

func (m *mediaService) DeleteChatFile(key string) error {
	client, err := createS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(m.Config.ChatFilesBucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %v", err)
	}
	return nil
}

// UploadProfileImage resizes the uploaded avatar to a thumbnail before
// storing it
func (m *mediaService) UploadProfileImage(fileHeader *multipart.FileHeader, userID uint) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error opening image file: %v", err)
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("error decoding image: %v", err)
	}

	thumbnail := resize.Resize(200, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", fmt.Errorf("error encoding thumbnail: %v", err)
	}

	key := fmt.Sprintf("profiles/%d/%d-thumb.jpg", userID, time.Now().UnixMilli())
	return m.putObject(key, bytes.NewReader(buf.Bytes()))
}
