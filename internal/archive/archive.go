package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AdamBeresnev/sabo-arena/internal/bracket"
	"github.com/AdamBeresnev/sabo-arena/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Snapshot is the archived form of a finished tournament.
type Snapshot struct {
	Tournament   bracket.Tournament    `json:"tournament"`
	Participants []bracket.Participant `json:"participants"`
	Matches      []bracket.Match       `json:"matches"`
	Standings    []bracket.Standing    `json:"standings,omitempty"`
	ArchivedAt   time.Time             `json:"archived_at"`
}

// Key is the object key a tournament's snapshot is stored under.
func Key(s Snapshot) string {
	return fmt.Sprintf("brackets/%s/%s.json", s.Tournament.Format, s.Tournament.ID)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver uploads snapshots to an S3-compatible bucket (R2, MinIO, Supabase storage, AWS).
type S3Archiver struct {
	client objectPutter
	bucket string
}

func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load archive config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archiver{client: client, bucket: cfg.Bucket}, nil
}

// Archive stores the snapshot as JSON and returns its object key.
func (a *S3Archiver) Archive(ctx context.Context, snapshot Snapshot) (string, error) {
	if snapshot.ArchivedAt.IsZero() {
		snapshot.ArchivedAt = time.Now().UTC()
	}

	body, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := Key(snapshot)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	return key, nil
}
