package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"
)

var ErrObjectNotFound = errors.New("object not found")

type ItfS3 interface {
	Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	Delete(ctx context.Context, bucket, key string) error
	PresignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
	PublicURL(bucket, key string) string
	KeyFromURL(bucket, publicURL string) (string, bool)
}

type s3Client struct {
	client     *s3.S3
	session    *session.Session
	log        *logrus.Logger
	endpoint   string
	region     string
	publicBase string
}

func New(log *logrus.Logger) (ItfS3, error) {
	endpoint := strings.TrimRight(os.Getenv("S3_ENDPOINT"), "/")

	sess, err := newSession(endpoint)
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:     s3.New(sess),
		session:    sess,
		log:        log,
		endpoint:   endpoint,
		region:     aws.StringValue(sess.Config.Region),
		publicBase: strings.TrimRight(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),
	}, nil
}

func (s *s3Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader) error {
	uploader := s3manager.NewUploader(s.session)

	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"bucket": bucket,
			"key":    key,
			"error":  err.Error(),
		}).Error("Failed to upload object")
		return err
	}

	return nil
}

func (s *s3Client) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	downloader := s3manager.NewDownloader(s.session)
	buf := aws.NewWriteAtBuffer(nil)

	_, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}

	return buf.Bytes(), nil
}

func (s *s3Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ErrObjectNotFound
		}
		return err
	}

	return nil
}

func (s *s3Client) PresignURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	_, err := s.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("head object: %w", err)
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})

	return req.Presign(ttl)
}

// PublicURL builds the anonymous read URL of an object in a public bucket.
func (s *s3Client) PublicURL(bucket, key string) string {
	return s.bucketBase(bucket) + "/" + escapeKey(key)
}

func (s *s3Client) KeyFromURL(bucket, publicURL string) (string, bool) {
	prefix := s.bucketBase(bucket) + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return "", false
	}

	key, err := url.PathUnescape(strings.TrimPrefix(publicURL, prefix))
	if err != nil || key == "" {
		return "", false
	}

	return key, true
}

func (s *s3Client) bucketBase(bucket string) string {
	switch {
	case s.publicBase != "":
		return s.publicBase + "/" + bucket
	case s.endpoint != "":
		return s.endpoint + "/" + bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, s.region)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}

func newSession(endpoint string) (*session.Session, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	cfg := &aws.Config{
		Region: aws.String(region),
		Credentials: credentials.NewStaticCredentials(
			os.Getenv("AWS_ACCESS_KEY_ID"),
			os.Getenv("AWS_SECRET_ACCESS_KEY"),
			"",
		),
	}

	// S3-compatible stores (MinIO, Supabase storage) only speak path-style addressing.
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	return session.NewSession(cfg)
}
