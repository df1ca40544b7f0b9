package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder syntax for the SQL store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Term kinds stored in catalog_terms.
const (
	termAlias   = "alias"
	termSynonym = "synonym"
	termUnit    = "unit"
)

const (
	metaVersion       = "version"
	metaNoPrecautions = "no_precautions_message"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS catalog_meta (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_rules (
		position     INTEGER PRIMARY KEY,
		analyte      TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		unit         TEXT NOT NULL DEFAULT '',
		low_value    DOUBLE PRECISION,
		high_value   DOUBLE PRECISION,
		msg_low      TEXT NOT NULL DEFAULT '',
		msg_normal   TEXT NOT NULL,
		msg_high     TEXT NOT NULL DEFAULT '',
		prec_low     TEXT NOT NULL DEFAULT '',
		prec_high    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_terms (
		analyte  TEXT NOT NULL,
		kind     TEXT NOT NULL,
		position INTEGER NOT NULL,
		term     TEXT NOT NULL,
		PRIMARY KEY (analyte, kind, position)
	)`,
}

const (
	selectMeta  = `SELECT name, value FROM catalog_meta`
	selectRules = `SELECT analyte, display_name, unit, low_value, high_value, msg_low, msg_normal, msg_high, prec_low, prec_high FROM catalog_rules ORDER BY position`
	selectTerms = `SELECT analyte, kind, term FROM catalog_terms ORDER BY analyte, kind, position`
)

// ErrEmptyStore is returned by Load when no catalog has been synced yet.
var ErrEmptyStore = errors.New("catalog store is empty")

// Store persists a catalog in a SQL database so operators can edit reference ranges
// without rebuilding the binary.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *slog.Logger
	closers []func()
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB, dialect Dialect, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, dialect: dialect, logger: logger}
}

// IsStoreSource reports whether source names a database rather than a file.
func IsStoreSource(source string) bool {
	return strings.HasPrefix(source, "sqlite://") ||
		strings.HasPrefix(source, "postgres://") ||
		strings.HasPrefix(source, "postgresql://")
}

// OpenStore connects to "sqlite://<path>" or a postgres DSN.
func OpenStore(ctx context.Context, source string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path, ok := strings.CutPrefix(source, "sqlite://"); ok {
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite catalog: %w", err)
		}
		// A single writer avoids SQLITE_BUSY during Sync.
		db.SetMaxOpenConns(1)
		s := NewStore(db, DialectSQLite, logger)
		s.closers = append(s.closers, func() { _ = db.Close() })
		return s, nil
	}

	logger.Info("connecting to catalog database")
	pc, err := pgxpool.ParseConfig(source)
	if err != nil {
		return nil, fmt.Errorf("parse catalog dsn: %w", err)
	}
	pc.MaxConns = 4
	pc.ConnConfig.RuntimeParams["application_name"] = "labreport"

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to catalog database", "error", err)
		return nil, fmt.Errorf("connect catalog database: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)
	s := NewStore(db, DialectPostgres, logger)
	s.closers = append(s.closers, func() { _ = db.Close() }, pool.Close)
	return s, nil
}

// Close releases the underlying connections.
func (s *Store) Close() {
	for _, c := range s.closers {
		c()
	}
}

func (s *Store) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		if s.dialect == DialectPostgres {
			parts[i] = "$" + strconv.Itoa(i+1)
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

// EnsureSchema creates the catalog tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create catalog schema: %w", err)
		}
	}
	return nil
}

// Sync replaces the stored catalog with c in a single transaction.
func (s *Store) Sync(ctx context.Context, c *Catalog) (err error) {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog sync: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"catalog_terms", "catalog_rules", "catalog_meta"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	insertMeta := "INSERT INTO catalog_meta (name, value) VALUES (" + s.placeholders(2) + ")"
	for _, kv := range [][2]string{{metaVersion, c.Version()}, {metaNoPrecautions, c.NoPrecautionsMessage()}} {
		if _, err = tx.ExecContext(ctx, insertMeta, kv[0], kv[1]); err != nil {
			return fmt.Errorf("insert catalog meta %s: %w", kv[0], err)
		}
	}

	insertRule := "INSERT INTO catalog_rules (position, analyte, display_name, unit, low_value, high_value, msg_low, msg_normal, msg_high, prec_low, prec_high) VALUES (" + s.placeholders(11) + ")"
	insertTerm := "INSERT INTO catalog_terms (analyte, kind, position, term) VALUES (" + s.placeholders(4) + ")"
	for i, r := range c.rules {
		if _, err = tx.ExecContext(ctx, insertRule,
			i, string(r.Analyte), r.DisplayName, r.Unit,
			nullFloat(r.Low), nullFloat(r.High),
			r.Messages.Low, r.Messages.Normal, r.Messages.High,
			r.Precautions.Low, r.Precautions.High,
		); err != nil {
			return fmt.Errorf("insert rule %s: %w", r.Analyte, err)
		}
		terms := map[string][]string{termAlias: r.Aliases, termSynonym: r.Synonyms, termUnit: r.MatchUnits}
		for _, kind := range []string{termAlias, termSynonym, termUnit} {
			for pos, term := range terms[kind] {
				if _, err = tx.ExecContext(ctx, insertTerm, string(r.Analyte), kind, pos, term); err != nil {
					return fmt.Errorf("insert %s for %s: %w", kind, r.Analyte, err)
				}
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog sync: %w", err)
	}
	s.logger.Info("catalog synced", "version", c.Version(), "rules", c.Len(), "dialect", string(s.dialect))
	return nil
}

// Load assembles a catalog from the stored rows.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	meta, err := s.loadMeta(ctx)
	if err != nil {
		return nil, err
	}
	rules, index, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, ErrEmptyStore
	}
	if err := s.loadTerms(ctx, rules, index); err != nil {
		return nil, err
	}
	c, err := New(meta[metaVersion], rules, WithNoPrecautionsMessage(meta[metaNoPrecautions]))
	if err != nil {
		return nil, fmt.Errorf("stored catalog is invalid: %w", err)
	}
	s.logger.Debug("catalog loaded from store", "version", c.Version(), "rules", c.Len())
	return c, nil
}

func (s *Store) loadMeta(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, selectMeta)
	if err != nil {
		return nil, fmt.Errorf("query catalog meta: %w", err)
	}
	defer rows.Close()
	meta := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan catalog meta: %w", err)
		}
		meta[name] = value
	}
	return meta, rows.Err()
}

func (s *Store) loadRules(ctx context.Context) ([]Rule, map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, selectRules)
	if err != nil {
		return nil, nil, fmt.Errorf("query catalog rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	index := make(map[string]int)
	for rows.Next() {
		var (
			r         Rule
			analyte   string
			low, high sql.NullFloat64
		)
		if err := rows.Scan(&analyte, &r.DisplayName, &r.Unit, &low, &high,
			&r.Messages.Low, &r.Messages.Normal, &r.Messages.High,
			&r.Precautions.Low, &r.Precautions.High); err != nil {
			return nil, nil, fmt.Errorf("scan catalog rule: %w", err)
		}
		r.Analyte = analyteID(analyte)
		if low.Valid {
			r.Low = ptr(low.Float64)
		}
		if high.Valid {
			r.High = ptr(high.Float64)
		}
		index[analyte] = len(rules)
		rules = append(rules, r)
	}
	return rules, index, rows.Err()
}

func (s *Store) loadTerms(ctx context.Context, rules []Rule, index map[string]int) error {
	rows, err := s.db.QueryContext(ctx, selectTerms)
	if err != nil {
		return fmt.Errorf("query catalog terms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var analyte, kind, term string
		if err := rows.Scan(&analyte, &kind, &term); err != nil {
			return fmt.Errorf("scan catalog term: %w", err)
		}
		i, ok := index[analyte]
		if !ok {
			s.logger.Warn("catalog term for unknown analyte", "analyte", analyte, "kind", kind)
			continue
		}
		switch kind {
		case termAlias:
			rules[i].Aliases = append(rules[i].Aliases, term)
		case termSynonym:
			rules[i].Synonyms = append(rules[i].Synonyms, term)
		case termUnit:
			rules[i].MatchUnits = append(rules[i].MatchUnits, term)
		default:
			s.logger.Warn("unknown catalog term kind", "analyte", analyte, "kind", kind)
		}
	}
	return rows.Err()
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
