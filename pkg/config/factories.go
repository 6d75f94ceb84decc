package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/mountscope/internal/logger"
	"github.com/marmos91/mountscope/pkg/snapshot"
	snapshotbadger "github.com/marmos91/mountscope/pkg/snapshot/badger"
	snapshotmemory "github.com/marmos91/mountscope/pkg/snapshot/memory"
	snapshots3 "github.com/marmos91/mountscope/pkg/snapshot/s3"
)

// CreateSnapshotStore creates a snapshot store based on configuration.
//
// This factory uses the Store field to determine which implementation to
// create, then decodes the type-specific configuration from the
// corresponding map and passes it to the store's constructor.
//
// Supported types:
//   - "memory": in-process only, nothing persists
//   - "badger": local persistent store (pkg/snapshot/badger)
//   - "s3": S3 or S3-compatible object storage (pkg/snapshot/s3)
func CreateSnapshotStore(ctx context.Context, cfg *Config) (snapshot.Store, error) {
	switch cfg.Snapshots.Store {
	case "memory":
		return snapshotmemory.NewMemoryStore(), nil
	case "badger":
		return createBadgerSnapshotStore(cfg.Snapshots.Badger)
	case "s3":
		return createS3SnapshotStore(ctx, cfg.Snapshots.S3)
	default:
		return nil, fmt.Errorf("unknown snapshot store type: %q", cfg.Snapshots.Store)
	}
}

// createBadgerSnapshotStore creates a BadgerDB-backed snapshot store.
func createBadgerSnapshotStore(options map[string]any) (snapshot.Store, error) {
	var storeCfg snapshotbadger.BadgerStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger snapshot store config: %w", err)
	}

	store, err := snapshotbadger.NewBadgerStore(storeCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger snapshot store: %w", err)
	}

	logger.Debug("badger snapshot store initialized: path=%s", storeCfg.Path)
	return store, nil
}

// createS3SnapshotStore creates an S3-backed snapshot store.
func createS3SnapshotStore(ctx context.Context, options map[string]any) (snapshot.Store, error) {
	// Define the configuration struct for the S3 snapshot store
	type S3SnapshotStoreConfig struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}

	var storeCfg S3SnapshotStoreConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 snapshot store config: %w", err)
	}

	if storeCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 snapshot store: bucket is required")
	}
	if storeCfg.Region == "" {
		return nil, fmt.Errorf("S3 snapshot store: region is required")
	}

	// ========================================================================
	// Step 1: Build AWS Config
	// ========================================================================

	var configOptions []func(*awsConfig.LoadOptions) error

	configOptions = append(configOptions, awsConfig.WithRegion(storeCfg.Region))

	// Set custom endpoint if provided (for MinIO, Localstack, etc.)
	if storeCfg.Endpoint != "" {
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		customResolver := aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
				return aws.Endpoint{
					URL:               storeCfg.Endpoint,
					HostnameImmutable: true,
					Source:            aws.EndpointSourceCustom,
				}, nil
			},
		)
		//nolint:staticcheck // TODO: migrate to BaseEndpoint when AWS SDK v2 stabilizes the new API
		configOptions = append(configOptions, awsConfig.WithEndpointResolverWithOptions(customResolver))
	}

	// Set credentials if provided, otherwise use default credential chain
	if storeCfg.AccessKeyID != "" && storeCfg.SecretAccessKey != "" {
		credProvider := credentials.NewStaticCredentialsProvider(
			storeCfg.AccessKeyID,
			storeCfg.SecretAccessKey,
			"", // session token (empty for static credentials)
		)
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(credProvider))
	}

	// Configure retries for resilience against temporary S3 failures
	maxRetries := storeCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 10
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	cfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// ========================================================================
	// Step 2: Create S3 Client
	// ========================================================================

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		// Force path-style addressing for compatibility with MinIO/Localstack
		if storeCfg.Endpoint != "" {
			o.UsePathStyle = true
		}
	})

	// ========================================================================
	// Step 3: Create S3 Snapshot Store
	// ========================================================================

	store, err := snapshots3.NewS3Store(ctx, snapshots3.S3StoreConfig{
		Client:    client,
		Bucket:    storeCfg.Bucket,
		KeyPrefix: storeCfg.KeyPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 snapshot store: %w", err)
	}

	logger.Info("S3 snapshot store initialized: bucket=%s, region=%s, prefix=%s",
		storeCfg.Bucket, storeCfg.Region, storeCfg.KeyPrefix)

	return store, nil
}
