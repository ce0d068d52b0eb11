package ledger

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"attest-go/internal/attest"
)

// FileSystemLedger is an append-only ledger kept in a directory:
//
//	<root>/
//	  entities/
//	    <key>.json   (signed envelope, never rewritten)
//
// Heights come from a BlockClock.
type FileSystemLedger struct {
	root        string
	entitiesDir string
	signer      *Signer
	blocks      BlockClock
	ids         attest.IDGenerator
}

var _ attest.Ledger = (*FileSystemLedger)(nil)

// NewFileSystemLedger creates a filesystem ledger rooted at root.
func NewFileSystemLedger(root string, signer *Signer, blocks BlockClock, ids attest.IDGenerator) (*FileSystemLedger, error) {
	entitiesDir := filepath.Join(root, "entities")
	if err := os.MkdirAll(entitiesDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create entities directory: %w", err)
	}

	return &FileSystemLedger{
		root:        root,
		entitiesDir: entitiesDir,
		signer:      signer,
		blocks:      blocks,
		ids:         ids,
	}, nil
}

func (l *FileSystemLedger) CreateEntity(ctx context.Context, data []byte, btl uint64, annotations attest.Annotations) (*attest.Receipt, error) {
	if l.signer == nil {
		return nil, attest.NewError(attest.KindConfig, "create entity", "ledger private key is not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, attest.NewError(attest.KindLedgerUnavailable, "create entity", "request cancelled", err)
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
	if err := l.writeFile(l.entityPath(key), encoded); err != nil {
		return nil, attest.NewError(attest.KindLedgerUnavailable, "create entity", "writing entity", err)
	}

	expiration, _ := new(big.Int).SetString(env.ExpirationBlock, 10)
	return &attest.Receipt{EntityKey: key, ExpirationBlock: expiration}, nil
}

func (l *FileSystemLedger) CurrentHeight(ctx context.Context) (*big.Int, error) {
	return l.blocks.Height(), nil
}

func (l *FileSystemLedger) GetEntity(ctx context.Context, key string) (*attest.LedgerEntity, error) {
	if !validKey(key) {
		return nil, nil
	}
	b, err := os.ReadFile(l.entityPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, attest.NewError(attest.KindLedgerUnavailable, "get entity", "reading entity", err)
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

func (l *FileSystemLedger) entityPath(key string) string {
	return filepath.Join(l.entitiesDir, key+".json")
}

// writeFile writes data to destPath using an atomic write (temp file + rename).
// Existing entities are never overwritten.
func (l *FileSystemLedger) writeFile(destPath string, data []byte) error {
	if _, err := os.Stat(destPath); err == nil {
		return fmt.Errorf("entity already exists: %s", filepath.Base(destPath))
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// validKey accepts 0x-prefixed lowercase hex SHA-256 keys only, which keeps
// lookups inside the entities directory.
func validKey(key string) bool {
	hexPart, ok := strings.CutPrefix(key, "0x")
	if !ok || len(hexPart) != 64 {
		return false
	}
	for _, c := range hexPart {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
