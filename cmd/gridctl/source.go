package main

import (
	"context"
	"path"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/hupe1980/gridkit/blobstore"
	gridminio "github.com/hupe1980/gridkit/blobstore/minio"
	grids3 "github.com/hupe1980/gridkit/blobstore/s3"
	"github.com/hupe1980/gridkit/config"
	"github.com/hupe1980/gridkit/viewstore"
)

// Remote reads go through an in-memory cache of this size.
const remoteCacheBytes = 64 << 20

// openSource resolves a source to the store holding its dataset and the
// blob name of the dataset within that store. Remote reads are cached.
func openSource(ctx context.Context, src config.Source) (blobstore.BlobStore, string, error) {
	store, name, err := openStore(ctx, src)
	if err != nil {
		return nil, "", err
	}
	if _, local := store.(*blobstore.LocalStore); local {
		return store, name, nil
	}
	return blobstore.NewCachingStore(store, remoteCacheBytes), name, nil
}

// openStore is like openSource without the read cache.
func openStore(ctx context.Context, src config.Source) (blobstore.BlobStore, string, error) {
	scheme, bucket, key := src.Location()
	switch scheme {
	case "file":
		return blobstore.NewLocalStore(filepath.Dir(key)), filepath.Base(key), nil
	case "s3":
		var optFns []func(*awsconfig.LoadOptions) error
		if src.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(src.Region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, "", errors.Wrap(err, "load aws config")
		}
		client := awss3.NewFromConfig(cfg)
		dir, name := splitKey(key)
		return grids3.NewStore(client, bucket, dir), name, nil
	case "minio":
		client, err := minio.New(src.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(src.AccessKey, src.SecretKey, ""),
			Secure: src.UseSSL,
			Region: src.Region,
		})
		if err != nil {
			return nil, "", errors.Wrap(err, "minio client")
		}
		dir, name := splitKey(key)
		return gridminio.NewStore(client, bucket, dir), name, nil
	default:
		return nil, "", errors.Errorf("unsupported source scheme %q", scheme)
	}
}

// splitKey separates an object key into its prefix and base name.
func splitKey(key string) (string, string) {
	dir, name := path.Split(key)
	if dir == "" {
		return "", name
	}
	return path.Clean(dir), name
}

// openViews returns the saved view store of a grid config. Blob backed
// views default to a views directory next to the config file. View reads
// bypass the cache so version checks see other writers.
func openViews(ctx context.Context, cfg *config.Grid, configPath string) (viewstore.Store, error) {
	switch cfg.Views.Backend {
	case "dynamodb":
		var optFns []func(*awsconfig.LoadOptions) error
		if cfg.Source.Region != "" {
			optFns = append(optFns, awsconfig.WithRegion(cfg.Source.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
		if err != nil {
			return nil, errors.Wrap(err, "load aws config")
		}
		return viewstore.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.Views.Table), nil
	default:
		uri := cfg.Views.URI
		if uri == "" {
			return viewstore.NewBlobStore(blobstore.NewLocalStore(filepath.Dir(configPath))), nil
		}
		src := cfg.Source
		src.URI = uri
		store, name, err := openStore(ctx, src)
		if err != nil {
			return nil, err
		}
		return viewstore.NewBlobStore(store, viewstore.WithPrefix(name)), nil
	}
}
