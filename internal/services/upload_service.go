// internal/services/upload_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/config"
)

const (
	MaxUploadSize     = 10 * 1024 * 1024 // 10MB
	maxImageDimension = 1600
	maxImagePixels    = 40_000_000
	jpegQuality       = 88

	// LocalUploadsPrefix is the URL path local uploads are served under.
	LocalUploadsPrefix = "/uploads/"
)

var (
	ErrUnsupportedImage = errors.New("unsupported image format")
	ErrImageTooLarge    = errors.New("image exceeds maximum upload size")
)

type UploadService struct {
	uploader *s3manager.Uploader
	cfg      *config.Config
	log      logrus.FieldLogger
	now      func() time.Time

	maxPixels int
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// NewUploadService stores images on S3 when AWS credentials are configured
// and under UPLOADS_DIR otherwise.
func NewUploadService(cfg *config.Config, log logrus.FieldLogger) (*UploadService, error) {
	s := &UploadService{cfg: cfg, log: log, now: time.Now, maxPixels: maxImagePixels}
	if cfg.AWS.AccessKeyID == "" {
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.uploader = s3manager.NewUploader(sess)
	return s, nil
}

// UploadImage decodes the image, shrinks it to fit maxImageDimension on
// either side, re-encodes it and stores the result.
func (s *UploadService) UploadImage(ctx context.Context, r io.Reader, filename string) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrImageTooLarge
	}

	format, err := detectImageFormat(data)
	if err != nil {
		return nil, err
	}

	// Reject decompression bombs before allocating the full bitmap.
	imgCfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if imgCfg.Width*imgCfg.Height > s.maxPixels {
		return nil, ErrImageTooLarge
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxImageDimension || bounds.Dy() > maxImageDimension {
		img = imaging.Fit(img, maxImageDimension, maxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	result := &UploadResult{
		Key:      s.objectKey(format),
		Size:     int64(buf.Len()),
		MimeType: imageMimeType(format),
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}

	if s.uploader != nil {
		err = s.uploadToS3(ctx, buf.Bytes(), result)
	} else {
		err = s.uploadToLocal(buf.Bytes(), result)
	}
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"key":      result.Key,
		"size":     result.Size,
		"original": filename,
	}).Info("Image uploaded")

	return result, nil
}

func (s *UploadService) uploadToS3(ctx context.Context, data []byte, result *UploadResult) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:       aws.String(s.cfg.AWS.S3Bucket),
		Key:          aws.String(result.Key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(result.MimeType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
		ACL:          aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	result.URL = s.s3URL(result.Key)
	return nil
}

func (s *UploadService) uploadToLocal(data []byte, result *UploadResult) error {
	dest := filepath.Join(s.cfg.AWS.UploadsDir, filepath.FromSlash(result.Key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write upload: %w", err)
	}

	result.URL = LocalUploadsPrefix + result.Key
	return nil
}

func (s *UploadService) objectKey(format imaging.Format) string {
	ext := ".jpg"
	switch format {
	case imaging.PNG:
		ext = ".png"
	case imaging.GIF:
		ext = ".gif"
	}
	return path.Join("images", s.now().UTC().Format("2006/01"), uuid.NewString()+ext)
}

func (s *UploadService) s3URL(key string) string {
	if s.cfg.AWS.CloudFrontURL != "" {
		return strings.TrimRight(s.cfg.AWS.CloudFrontURL, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.AWS.S3Bucket, s.cfg.AWS.Region, key)
}

// detectImageFormat sniffs the content. Only JPEG, PNG and GIF are accepted;
// TIFF in particular is rejected before it reaches the decoder.
func detectImageFormat(data []byte) (imaging.Format, error) {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "jpeg"):
		return imaging.JPEG, nil
	case strings.Contains(contentType, "png"):
		return imaging.PNG, nil
	case strings.Contains(contentType, "gif"):
		return imaging.GIF, nil
	default:
		return 0, ErrUnsupportedImage
	}
}

func imageMimeType(format imaging.Format) string {
	switch format {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
