// Package s3 provides a snapshot store backed by Amazon S3 or S3-compatible
// object storage.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/marmos91/mountscope/pkg/snapshot"
)

// S3Store implements snapshot.Store using S3-compatible object storage.
//
// The remote store is what makes fleet debugging work: test machines push
// their mount-table snapshots into one bucket, and comparisons run centrally
// with `diff` against canonicalized snapshots from any pair of machines.
//
// Object Key Design:
//   - Metadata: "<prefix>info/<name>.json"  (snapshot.Info, JSON)
//   - Body:     "<prefix>body/<name>.gz"    (wire-format lines, gzip)
//
// Keeping metadata under a separate key prefix means List only enumerates
// small JSON objects, and bucket contents stay human-inspectable.
//
// Consistency: S3 has no transactions, so Save writes the body first and
// the metadata last. A snapshot only becomes listable once both objects
// exist; a crash between the two writes leaves an orphan body, never a
// dangling listing.
type S3Store struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// S3StoreConfig contains configuration for the S3 snapshot store.
type S3StoreConfig struct {
	// Client is the configured S3 client
	Client *s3.Client

	// Bucket is the S3 bucket name. The bucket must already exist.
	Bucket string

	// KeyPrefix is an optional prefix for all object keys
	// Example: "mountscope/" results in keys like "mountscope/info/pre.json"
	KeyPrefix string
}

// NewS3Store creates a new S3-backed snapshot store.
//
// Bucket access is verified up front with a HeadBucket call so that
// misconfiguration surfaces at startup rather than on the first Save.
func NewS3Store(ctx context.Context, cfg S3StoreConfig) (*S3Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	_, err := cfg.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Store{
		client:    cfg.Client,
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// infoKey returns the object key for a snapshot's metadata.
func (s *S3Store) infoKey(name string) string {
	return s.keyPrefix + "info/" + name + ".json"
}

// bodyKey returns the object key for a snapshot's body.
func (s *S3Store) bodyKey(name string) string {
	return s.keyPrefix + "body/" + name + ".gz"
}

// Save persists the snapshot under its name.
func (s *S3Store) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if snap.Name == "" {
		return &snapshot.StoreError{Code: snapshot.ErrInvalidArgument, Message: "snapshot name is required"}
	}

	// S3 PutObject overwrites silently, so existence is checked explicitly
	// to honor the store contract. A concurrent Save of the same name can
	// still race; last write wins in that case.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.infoKey(snap.Name)),
	})
	if err == nil {
		return &snapshot.StoreError{Code: snapshot.ErrAlreadyExists, Message: "snapshot already exists", Name: snap.Name}
	}
	if !isNotFound(err) {
		return s.ioError(err, snap.Name)
	}

	infoBytes, err := encodeInfo(snap.Info)
	if err != nil {
		return s.ioError(err, snap.Name)
	}
	bodyBytes, err := encodeBody(snap.Body())
	if err != nil {
		return s.ioError(err, snap.Name)
	}

	// Body first, metadata last: the metadata object is what makes the
	// snapshot visible.
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.bodyKey(snap.Name)),
		Body:        bytes.NewReader(bodyBytes),
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		return s.ioError(err, snap.Name)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.infoKey(snap.Name)),
		Body:        bytes.NewReader(infoBytes),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return s.ioError(err, snap.Name)
	}

	return nil
}

// Get retrieves a snapshot by name, including its records.
func (s *S3Store) Get(ctx context.Context, name string) (*snapshot.Snapshot, error) {
	info, err := s.getInfo(ctx, name)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.bodyKey(name)),
	})
	if err != nil {
		return nil, s.ioError(err, name)
	}
	defer out.Body.Close()

	body, err := decodeBody(out.Body)
	if err != nil {
		return nil, s.ioError(err, name)
	}

	records, err := snapshot.ParseBody(body)
	if err != nil {
		return nil, &snapshot.StoreError{Code: snapshot.ErrIO, Message: "stored snapshot body is corrupt", Name: name}
	}

	return &snapshot.Snapshot{Info: info, Records: records}, nil
}

// getInfo fetches and decodes a snapshot's metadata object.
func (s *S3Store) getInfo(ctx context.Context, name string) (snapshot.Info, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.infoKey(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return snapshot.Info{}, &snapshot.StoreError{Code: snapshot.ErrNotFound, Message: "snapshot not found", Name: name}
		}
		return snapshot.Info{}, s.ioError(err, name)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return snapshot.Info{}, s.ioError(err, name)
	}
	info, err := decodeInfo(data)
	if err != nil {
		return snapshot.Info{}, s.ioError(err, name)
	}
	return info, nil
}

// List returns metadata for all stored snapshots, sorted by name.
func (s *S3Store) List(ctx context.Context) ([]snapshot.Info, error) {
	var infos []snapshot.Info

	prefix := s.keyPrefix + "info/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.ioError(err, "")
		}
		for _, obj := range page.Contents {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(obj.Key), prefix), ".json")
			info, err := s.getInfo(ctx, name)
			if err != nil {
				return nil, err
			}
			infos = append(infos, info)
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Delete removes a snapshot by name.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	// HeadObject first: S3 DeleteObject succeeds on missing keys, but the
	// store contract requires ErrNotFound.
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.infoKey(name)),
	})
	if err != nil {
		if isNotFound(err) {
			return &snapshot.StoreError{Code: snapshot.ErrNotFound, Message: "snapshot not found", Name: name}
		}
		return s.ioError(err, name)
	}

	for _, key := range []string{s.infoKey(name), s.bodyKey(name)} {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return s.ioError(err, name)
		}
	}

	return nil
}

// Close releases nothing; the S3 client holds no per-store resources.
func (s *S3Store) Close() error {
	return nil
}

// ioError wraps an S3 failure with the ErrIO code.
func (s *S3Store) ioError(err error, name string) error {
	return &snapshot.StoreError{Code: snapshot.ErrIO, Message: err.Error(), Name: name}
}

// isNotFound reports whether an S3 error means the object does not exist.
// HeadObject reports missing keys as NotFound, GetObject as NoSuchKey.
func isNotFound(err error) bool {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &notFound) || errors.As(err, &noSuchKey)
}
