package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/waktunyapuasa/puasa/internal/model"
)

// S3CheckinRepository stores one object per check-in at
// <prefix>/<year>/<date>.json. Writes use a conditional PutObject
// (If-None-Match: *) so the bucket rejects a second write to the same key.
// Works with AWS S3 and compatible services that honour conditional writes
// (MinIO, Cloudflare R2).
type S3CheckinRepository struct {
	client *s3.Client
	bucket string
	prefix string
}

// S3Options holds configuration for the S3 store
type S3Options struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string // Optional: for S3-compatible services
	Prefix    string
}

func NewS3CheckinRepository(ctx context.Context, opts S3Options) (*S3CheckinRepository, error) {
	var loadOpts []func(*config.LoadOptions) error
	loadOpts = append(loadOpts, config.WithRegion(opts.Region))

	// Add static credentials if provided
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if opts.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true // Required for MinIO and some S3-compatible services
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	prefix := strings.Trim(opts.Prefix, "/")
	if prefix == "" {
		prefix = "checkins"
	}

	repo := &S3CheckinRepository{
		client: client,
		bucket: opts.Bucket,
		prefix: prefix,
	}

	err = repo.ensureBucket(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	slog.Info("s3 checkin store ready", "bucket", opts.Bucket, "region", opts.Region, "endpoint", opts.Endpoint)
	return repo, nil
}

// ensureBucket checks if bucket exists, creates it if not
func (r *S3CheckinRepository) ensureBucket(ctx context.Context) error {
	_, err := r.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err == nil {
		return nil
	}

	_, err = r.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(r.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %q does not exist and could not be created: %w", r.bucket, err)
	}

	slog.Info("created S3 bucket", "bucket", r.bucket)
	return nil
}

func (r *S3CheckinRepository) yearPrefix(year int) string {
	return path.Join(r.prefix, strconv.Itoa(year)) + "/"
}

func (r *S3CheckinRepository) objectKey(year int, dateISO string) string {
	return r.yearPrefix(year) + dateISO + ".json"
}

func (r *S3CheckinRepository) Checkin(ctx context.Context, year int, dateISO string) (*model.Checkin, error) {
	return r.read(ctx, r.objectKey(year, dateISO))
}

func (r *S3CheckinRepository) read(ctx context.Context, key string) (*model.Checkin, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrCheckinNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	checkin, err := decodeCheckin(raw)
	if err != nil {
		return nil, fmt.Errorf("corrupt checkin %s: %w", key, err)
	}
	return checkin, nil
}

func (r *S3CheckinRepository) Checkins(ctx context.Context, year int) ([]*model.Checkin, error) {
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.yearPrefix(year)),
	})

	var checkins []*model.Checkin
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list checkins: %w", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			checkin, err := r.read(ctx, key)
			if errors.Is(err, ErrCheckinNotFound) {
				continue
			}
			if err != nil {
				slog.Warn("skipping unreadable checkin", "key", key, "error", err)
				continue
			}
			checkins = append(checkins, checkin)
		}
	}

	sort.Slice(checkins, func(i, j int) bool { return checkins[i].DateISO < checkins[j].DateISO })
	return checkins, nil
}

func (r *S3CheckinRepository) InsertIfAbsent(ctx context.Context, checkin *model.Checkin) error {
	raw, err := encodeCheckin(checkin)
	if err != nil {
		return fmt.Errorf("failed to encode checkin: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.objectKey(checkin.Year, checkin.DateISO)),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if isConditionalWriteConflict(err) {
		return ErrCheckinExists
	}
	if err != nil {
		return fmt.Errorf("failed to upload checkin: %w", err)
	}
	return nil
}

// isConditionalWriteConflict reports whether S3 refused the write because
// the object already exists (412) or a concurrent conditional write won (409).
func isConditionalWriteConflict(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
