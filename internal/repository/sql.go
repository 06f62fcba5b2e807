package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"custodian/internal/catalog"
	"custodian/internal/metrics"
	"custodian/internal/repository/migrations"
	"custodian/pkg/logging"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// serviceRow is one row of the services table.
type serviceRow struct {
	Name        string `db:"name"`
	Position    int64  `db:"position"`
	Fingerprint string `db:"fingerprint"`
	Document    string `db:"document"`
	UpdatedAt   string `db:"updated_at"`
}

// SQLStore implements catalog.ReadWriter on top of a SQL database.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

var _ catalog.ReadWriter = (*SQLStore)(nil)

// Open connects to the database, applies the embedded migrations and returns
// a ready store. Connection failures are returned as *catalog.UnavailableError.
func Open(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, catalog.Unavailable(driver, fmt.Errorf("failed to connect: %w", err))
	}

	if driver == DriverSQLite {
		// :memory: databases are per connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logging.Info("Catalog", "Opened %s catalog store", driver)
	return s, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return catalog.Unavailable(s.driver, s.db.PingContext(ctx))
}

func (s *SQLStore) migrate(ctx context.Context) error {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(files)

	for _, f := range files {
		content, err := migrations.FS.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f, err)
		}
		for _, stmt := range strings.Split(string(content), ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return catalog.Unavailable(s.driver, fmt.Errorf("migration %s: %w", f, err))
			}
		}
		logging.Debug("Catalog", "Applied migration %s", f)
	}
	return nil
}

func (s *SQLStore) instrument(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.StoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	return err
}

// ListServices implements catalog.Store.
func (s *SQLStore) ListServices(ctx context.Context) ([]catalog.ServiceRecord, error) {
	var rows []serviceRow
	err := s.instrument("list", func() error {
		return s.db.SelectContext(ctx, &rows, `SELECT * FROM services ORDER BY position, name`)
	})
	if err != nil {
		return nil, catalog.Unavailable(s.driver, err)
	}

	out := make([]catalog.ServiceRecord, 0, len(rows))
	for _, row := range rows {
		r, err := decodeRow(row)
		if err != nil {
			return nil, catalog.Unavailable(s.driver, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// GetService implements catalog.Store.
func (s *SQLStore) GetService(ctx context.Context, name string) (*catalog.ServiceRecord, error) {
	var row serviceRow
	err := s.instrument("get", func() error {
		return s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM services WHERE name = ?`), name)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, catalog.Unavailable(s.driver, err)
	}

	r, err := decodeRow(row)
	if err != nil {
		return nil, catalog.Unavailable(s.driver, err)
	}
	return &r, nil
}

// UpsertService implements catalog.Writer. New services are appended at the
// end of the catalog order; updates keep their position.
func (s *SQLStore) UpsertService(ctx context.Context, record catalog.ServiceRecord) (bool, error) {
	if err := catalog.Validate(record); err != nil {
		return false, err
	}
	fp, err := catalog.Fingerprint(record)
	if err != nil {
		return false, fmt.Errorf("fingerprint %s: %w", record.Name, err)
	}
	doc, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", record.Name, err)
	}

	var changed bool
	err = s.instrument("upsert", func() error {
		var err error
		for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
			changed, err = s.upsertTx(ctx, record.Name, fp, string(doc))
			if !errors.Is(err, errInsertConflict) {
				return err
			}
			logging.Debug("Catalog", "Position conflict inserting %s (attempt %d)", record.Name, attempt)
		}
		return err
	})
	if err != nil {
		return false, catalog.Unavailable(s.driver, err)
	}
	return changed, nil
}

// maxInsertAttempts bounds retries when a concurrent writer claims the same
// position first.
const maxInsertAttempts = 3

var errInsertConflict = errors.New("position taken by a concurrent insert")

func (s *SQLStore) upsertTx(ctx context.Context, name, fp, doc string) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var existing string
	err = tx.GetContext(ctx, &existing, tx.Rebind(`SELECT fingerprint FROM services WHERE name = ?`), name)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		var next int64
		if err := tx.GetContext(ctx, &next, `SELECT COALESCE(MAX(position), 0) + 1 FROM services`); err != nil {
			return false, err
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`INSERT INTO services (name, position, fingerprint, document, updated_at) VALUES (?, ?, ?, ?, ?)`),
			name, next, fp, doc, now); err != nil {
			// Lost a race for the name or position.
			return false, fmt.Errorf("%w: %v", errInsertConflict, err)
		}
	case err != nil:
		return false, err
	case existing == fp:
		return false, nil
	default:
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`UPDATE services SET fingerprint = ?, document = ?, updated_at = ? WHERE name = ?`),
			fp, doc, now, name); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteService implements catalog.Writer.
func (s *SQLStore) DeleteService(ctx context.Context, name string) error {
	var res sql.Result
	err := s.instrument("delete", func() error {
		var err error
		res, err = s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM services WHERE name = ?`), name)
		return err
	})
	if err != nil {
		return catalog.Unavailable(s.driver, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return catalog.Unavailable(s.driver, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", catalog.ErrServiceNotFound, name)
	}
	return nil
}

func decodeRow(row serviceRow) (catalog.ServiceRecord, error) {
	var r catalog.ServiceRecord
	if err := json.Unmarshal([]byte(row.Document), &r); err != nil {
		return r, fmt.Errorf("decode stored service %s: %w", row.Name, err)
	}
	return r, nil
}
