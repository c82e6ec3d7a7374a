package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/cricket-fantasy/internal/config"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
)

const (
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxLifetime = 30 * time.Minute
	dbPingTimeout     = 5 * time.Second

	// pq reads this option in both URL and key=value connection strings.
	textResultsOption = "disable_prepared_binary_result"
	maxSpanQueryBytes = 512
)

var errNoDatabaseName = errors.New("DB_URL has no database name")

// dataSource is a DB_URL ready for lib/pq plus the database name reported on
// spans and pool metrics.
type dataSource struct {
	dsn    string
	dbName string
}

// parseDataSource accepts postgres:// URLs and key=value strings. With
// textResults set it asks pq for text results unless the caller already chose.
func parseDataSource(raw string, textResults bool) (dataSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return dataSource{}, fmt.Errorf("DB_URL is required when STORE_DRIVER=%s", config.StoreDriverPostgres)
	}
	if strings.Contains(raw, "://") {
		return parseURLDataSource(raw, textResults)
	}
	return parseKeyValueDataSource(raw, textResults)
}

func parseURLDataSource(raw string, textResults bool) (dataSource, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return dataSource{}, fmt.Errorf("parse DB_URL: %w", err)
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return dataSource{}, fmt.Errorf("parse DB_URL: unsupported scheme %q", parsed.Scheme)
	}

	name := strings.Trim(parsed.Path, "/ ")
	if name == "" {
		return dataSource{}, errNoDatabaseName
	}

	if textResults {
		query := parsed.Query()
		if !query.Has(textResultsOption) {
			query.Set(textResultsOption, "yes")
			parsed.RawQuery = query.Encode()
		}
	}
	return dataSource{dsn: parsed.String(), dbName: name}, nil
}

func parseKeyValueDataSource(raw string, textResults bool) (dataSource, error) {
	var (
		name     string
		hasTexts bool
	)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok {
			return dataSource{}, fmt.Errorf("parse DB_URL: malformed option %q", token)
		}
		switch key {
		case "dbname":
			name = strings.Trim(value, `"'`)
		case textResultsOption:
			hasTexts = true
		}
	}
	if name == "" {
		return dataSource{}, errNoDatabaseName
	}

	dsn := raw
	if textResults && !hasTexts {
		dsn += " " + textResultsOption + "=yes"
	}
	return dataSource{dsn: dsn, dbName: name}, nil
}

// spanQuery flattens a statement onto one line and caps it for span attributes.
func spanQuery(query string) string {
	flat := strings.TrimSuffix(strings.Join(strings.Fields(query), " "), ";")
	if len(flat) <= maxSpanQueryBytes {
		return flat
	}
	cut := maxSpanQueryBytes
	for cut > 0 && !utf8.RuneStart(flat[cut]) {
		cut--
	}
	return flat[:cut] + "..."
}

func openDB(ctx context.Context, cfg config.Config, logger *logging.Logger) (*sqlx.DB, error) {
	source, err := parseDataSource(cfg.DBURL, cfg.DBDisablePreparedBinary)
	if err != nil {
		return nil, err
	}

	db, err := otelsqlx.Open("postgres", source.dsn,
		otelsql.WithDBName(source.dbName),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(spanQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database %s: %w", source.dbName, err)
	}

	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(source.dbName))
	logger.Info("database connected", "db_name", source.dbName, "text_results", cfg.DBDisablePreparedBinary)
	return db, nil
}
