package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"attest-go/internal/attest"
)

// S3Options locates the bucket holding entity envelopes. Endpoint is set for
// S3-compatible stores and switches the client to path-style addressing.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Ledger keeps one object per entity under <prefix>/entities/<key>.json.
// String annotations are mirrored into object metadata so entities can be
// inspected without downloading them.
type S3Ledger struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
	signer   *Signer
	blocks   BlockClock
	ids      attest.IDGenerator
}

var _ attest.Ledger = (*S3Ledger)(nil)

// NewS3Ledger creates an S3-backed ledger.
func NewS3Ledger(ctx context.Context, opts S3Options, signer *Signer, blocks BlockClock, ids attest.IDGenerator) (*S3Ledger, error) {
	if opts.Bucket == "" {
		return nil, attest.NewError(attest.KindConfig, "s3 ledger", "s3_bucket required for s3 ledger", nil)
	}
	if opts.Region == "" {
		return nil, attest.NewError(attest.KindConfig, "s3 ledger", "s3_region required for s3 ledger", nil)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Ledger{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
		signer:   signer,
		blocks:   blocks,
		ids:      ids,
	}, nil
}

func (l *S3Ledger) CreateEntity(ctx context.Context, data []byte, btl uint64, annotations attest.Annotations) (*attest.Receipt, error) {
	if l.signer == nil {
		return nil, attest.NewError(attest.KindConfig, "create entity", "ledger private key is not configured", nil)
	}

	height := l.blocks.Height()
	env, key, err := newEnvelope(l.signer, l.ids.New(), data, btl, annotations, height, l.blocks.Clock.Now())
	if err != nil {
		return nil, fmt.Errorf("building envelope: %w", err)
	}
	encoded, err := encodeEnvelope(env)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"created-block":    env.CreatedAtBlock,
		"expiration-block": env.ExpirationBlock,
		"signer":           env.Signer,
	}
	for _, a := range annotations.Strings {
		metadata[a.Key] = a.Value
	}

	_, err = l.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(l.bucket),
		Key:         aws.String(l.objectKey(key)),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String("application/json"),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, attest.NewError(attest.KindLedgerUnavailable, "create entity", "uploading entity", err)
	}

	expiration, _ := new(big.Int).SetString(env.ExpirationBlock, 10)
	return &attest.Receipt{EntityKey: key, ExpirationBlock: expiration}, nil
}

func (l *S3Ledger) CurrentHeight(ctx context.Context) (*big.Int, error) {
	return l.blocks.Height(), nil
}

func (l *S3Ledger) GetEntity(ctx context.Context, key string) (*attest.LedgerEntity, error) {
	if !validKey(key) {
		return nil, nil
	}
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, nil
		}
		return nil, attest.NewError(attest.KindLedgerUnavailable, "get entity", "downloading entity", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, attest.NewError(attest.KindLedgerUnavailable, "get entity", "reading entity body", err)
	}
	env, err := decodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	if err := env.Verify(key); err != nil {
		return nil, fmt.Errorf("verifying entity %s: %w", key, err)
	}
	return env.Entity(key)
}

func (l *S3Ledger) objectKey(key string) string {
	return path.Join(l.prefix, "entities", key+".json")
}
