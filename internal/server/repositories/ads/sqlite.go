package ads

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmarket/internal/common"
	"github.com/dmitrijs2005/gophmarket/internal/dbx"
	"github.com/dmitrijs2005/gophmarket/internal/filex"
	"github.com/dmitrijs2005/gophmarket/internal/server/migrations"
	"github.com/dmitrijs2005/gophmarket/internal/server/models"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const storeExt = ".db"

var ownerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// SQLiteRepository keeps one SQLite database file per owner inside dir.
// Handles are opened lazily, migrated once, and cached until Close.
type SQLiteRepository struct {
	dir string

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

func NewSQLiteRepository(dir string) (*SQLiteRepository, error) {
	dir, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &SQLiteRepository{dir: dir, dbs: make(map[string]*sql.DB)}, nil
}

func (r *SQLiteRepository) path(ownerID string) string {
	return filepath.Join(r.dir, ownerID+storeExt)
}

// store returns the handle for ownerID. When create is false and the owner
// has no file yet, it returns (nil, nil).
func (r *SQLiteRepository) store(ctx context.Context, ownerID string, create bool) (*sql.DB, error) {
	if !ownerIDPattern.MatchString(ownerID) {
		return nil, fmt.Errorf("%w: malformed owner id %q", common.ErrValidation, ownerID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if db, ok := r.dbs[ownerID]; ok {
		return db, nil
	}

	path := r.path(ownerID)
	if !create {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open owner store: %w", err)
	}
	if err := migrateOwnerStore(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate owner store %s: %w", ownerID, err)
	}

	r.dbs[ownerID] = db
	return db, nil
}

func migrateOwnerStore(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrations.OwnerStore, "ownerstore")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Owners lists every *.db file in the data directory.
func (r *SQLiteRepository) Owners(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var owners []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, storeExt) {
			continue
		}
		owner := strings.TrimSuffix(name, storeExt)
		if ownerIDPattern.MatchString(owner) {
			owners = append(owners, owner)
		}
	}
	sort.Strings(owners)
	return owners, nil
}

const selectColumns = `id, public_id, seller_id, content, sync_status, version, boost_score,
	is_flagged, report_reason, takedown_reason, takedown_version, cloud_url, signature,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAd(row rowScanner) (*models.Ad, error) {
	var (
		ad               models.Ad
		content          string
		status           string
		created, updated int64
	)
	if err := row.Scan(&ad.ID, &ad.PublicID, &ad.SellerID, &content, &status, &ad.Version, &ad.BoostScore,
		&ad.IsFlagged, &ad.ReportReason, &ad.TakedownReason, &ad.TakedownVersion, &ad.CloudURL, &ad.Signature,
		&created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(content), &ad.Content); err != nil {
		return nil, fmt.Errorf("decode content of %s: %w", ad.ID, err)
	}
	ad.SyncStatus = models.SyncStatus(status)
	ad.CreatedAt = time.Unix(0, created).UTC()
	ad.UpdatedAt = time.Unix(0, updated).UTC()
	return &ad, nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]models.Ad, error) {
	db, err := r.store(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return []models.Ad{}, nil
	}

	rows, err := db.QueryContext(ctx, `SELECT `+selectColumns+` FROM ads ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select ads: %w", err)
	}
	defer rows.Close()

	result := []models.Ad{}
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ad)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, ownerID, id string) (*models.Ad, error) {
	db, err := r.store(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, common.ErrNotFound
	}

	ad, err := scanAd(db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM ads WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return ad, nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, ownerID string, ad *models.Ad) error {
	db, err := r.store(ctx, ownerID, true)
	if err != nil {
		return err
	}
	content, err := json.Marshal(ad.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	query := `INSERT INTO ads (id, public_id, seller_id, content, sync_status, version, boost_score,
		is_flagged, report_reason, takedown_reason, takedown_version, cloud_url, signature,
		created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.ExecContext(ctx, query,
		ad.ID, ad.PublicID, ad.SellerID, string(content), string(ad.SyncStatus), ad.Version, ad.BoostScore,
		ad.IsFlagged, ad.ReportReason, ad.TakedownReason, ad.TakedownVersion, ad.CloudURL, ad.Signature,
		ad.CreatedAt.UnixNano(), ad.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to insert ad: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Replace(ctx context.Context, ownerID string, ad *models.Ad) error {
	db, err := r.store(ctx, ownerID, false)
	if err != nil {
		return err
	}
	if db == nil {
		return common.ErrNotFound
	}
	content, err := json.Marshal(ad.Content)
	if err != nil {
		return fmt.Errorf("encode content: %w", err)
	}

	query := `UPDATE ads SET public_id = ?, seller_id = ?, content = ?, sync_status = ?, version = ?,
		boost_score = ?, is_flagged = ?, report_reason = ?, takedown_reason = ?, takedown_version = ?,
		cloud_url = ?, signature = ?, created_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := db.ExecContext(ctx, query,
		ad.PublicID, ad.SellerID, string(content), string(ad.SyncStatus), ad.Version,
		ad.BoostScore, ad.IsFlagged, ad.ReportReason, ad.TakedownReason, ad.TakedownVersion,
		ad.CloudURL, ad.Signature, ad.CreatedAt.UnixNano(), ad.UpdatedAt.UnixNano(),
		ad.ID)
	if err != nil {
		return fmt.Errorf("failed to update ad: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	db, err := r.store(ctx, ownerID, false)
	if err != nil {
		return false, err
	}
	if db == nil {
		return false, nil
	}

	res, err := db.ExecContext(ctx, `DELETE FROM ads WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete ad: %w", err)
	}
	if err := dbx.ExpectOneRow(res); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Close releases every cached owner handle.
func (r *SQLiteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for owner, db := range r.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", owner, err))
		}
		delete(r.dbs, owner)
	}
	return errors.Join(errs...)
}
