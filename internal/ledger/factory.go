package ledger

import (
	"context"
	"fmt"
	"time"

	"attest-go/internal/attest"
	"attest-go/internal/config"
)

// NewLedgerFromConfig creates a ledger based on the ledger config type.
// An empty private key is not an error here: the ledger is still readable and
// writes fail with a config error.
func NewLedgerFromConfig(ctx context.Context, cfg config.LedgerConfig, encryptor attest.Encryptor, clock attest.Clock, ids attest.IDGenerator) (attest.Ledger, error) {
	var signer *Signer
	if cfg.PrivateKey != "" {
		s, err := NewSigner(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		signer = s
	}

	blocks := BlockClock{
		Genesis:   cfg.Genesis,
		BlockTime: time.Duration(cfg.BlockTimeSeconds) * time.Second,
		Clock:     clock,
	}

	var l attest.Ledger
	switch cfg.Type {
	case "memory":
		l = NewMemoryLedger(signer, cfg.InitialHeight, clock, ids)
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("fs_root required for filesystem ledger")
		}
		fsl, err := NewFileSystemLedger(cfg.FSRoot, signer, blocks, ids)
		if err != nil {
			return nil, err
		}
		l = fsl
	case "s3":
		s3l, err := NewS3Ledger(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}, signer, blocks, ids)
		if err != nil {
			return nil, err
		}
		l = s3l
	default:
		return nil, fmt.Errorf("unknown ledger type: %q", cfg.Type)
	}

	if cfg.Seal {
		if encryptor == nil {
			return nil, fmt.Errorf("ledger seal requires an encryptor")
		}
		l = NewSealedLedger(l, encryptor)
	}
	return l, nil
}
