package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"reports/config"
	"reports/internal/store"
	"reports/models"
)

// ErrArchiveFailed wraps failures that happen after the store transaction
// has committed: the ingested rows are live even though the archive or
// audit entry is missing. Callers must not retry the store mutation.
var ErrArchiveFailed = errors.New("report ingested but archiving failed")

// BrandNameResolver supplies the brand display name used to strip brand
// prefixes during metadata backfill. An unknown brand resolves to "".
type BrandNameResolver interface {
	DisplayName(ctx context.Context, brandID string) (string, error)
}

// Result describes one completed ingestion.
type Result struct {
	RowCount     int
	ArchivedPath string
}

// Pipeline runs the full ingestion sequence for one report file:
// parse → replace → backfill metadata → archive → audit. Ingestion is
// serialized per brand; the store transaction covers only the replace step,
// so two concurrent ingestions of one brand would interleave archive and
// audit writes.
type Pipeline struct {
	cfg    *config.Config
	brands BrandNameResolver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPipeline(cfg *config.Config, brands BrandNameResolver) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		brands: brands,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (p *Pipeline) brandLock(brandID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[brandID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[brandID] = l
	}
	return l
}

// Run ingests the report at path into the brand's store. On a parse
// failure nothing is mutated and the file stays in place so the caller can
// retry a corrected file at the same path. Errors after the store commit
// wrap ErrArchiveFailed.
func (p *Pipeline) Run(ctx context.Context, st *store.Store, brandID, path string) (*Result, error) {
	lock := p.brandLock(brandID)
	lock.Lock()
	defer lock.Unlock()

	lines, err := ParseReport(path)
	if err != nil {
		return nil, err
	}

	count, err := st.ReplaceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	brandName := ""
	if p.brands != nil {
		brandName, err = p.brands.DisplayName(ctx, brandID)
		if err != nil {
			log.Printf("failed to resolve brand name for %s: %v", brandID, err)
			brandName = ""
		}
	}
	if err := st.EnsureAsinMeta(ctx, brandName); err != nil {
		return nil, err
	}

	res := &Result{RowCount: count}

	if err := p.cfg.EnsureBrandDirs(brandID); err != nil {
		return res, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}

	ts := time.Now().UTC()
	archivedName := ts.Format("20060102T150405Z") + "__" + filepath.Base(path)
	archivedPath := filepath.Join(p.cfg.BrandArchiveDir(brandID), archivedName)

	if err := moveFile(path, archivedPath); err != nil {
		return res, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	res.ArchivedPath = archivedPath

	sha, err := fileSHA256(archivedPath)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}

	rec := &models.ImportRecord{
		OriginalPath: path,
		ArchivedPath: archivedPath,
		ImportedAt:   ts,
		RowCount:     count,
		FileSHA256:   sha,
	}
	if err := st.RecordImport(ctx, rec); err != nil {
		return res, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}

	log.Printf("ingested %d rows from %s, archived to %s", count, filepath.Base(path), archivedPath)
	return res, nil
}

// moveFile renames src to dst, copying across filesystems when rename is
// not possible (tmp uploads may live on a different mount than the data
// dir).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
