package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/football-data-pipeline/internal/config"
)

const maxTracedQueryLength = 512

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgresDSN(cfg.DBURL).withPreparedBinaryResult(cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(postgresDSN(dsn).dbName()),
		otelsql.WithQueryFormatter(traceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB)
	return db, nil
}

// postgresDSN is DB_URL in either URL or key=value form.
type postgresDSN string

// withPreparedBinaryResult sets lib/pq's disable_prepared_binary_result unless
// the DSN already carries it.
func (d postgresDSN) withPreparedBinaryResult(disable bool) string {
	raw := strings.TrimSpace(string(d))
	if !disable || raw == "" {
		return raw
	}

	if !d.isURL() {
		if strings.Contains(raw, "disable_prepared_binary_result=") {
			return raw
		}
		return raw + " disable_prepared_binary_result=yes"
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func (d postgresDSN) dbName() string {
	raw := strings.TrimSpace(string(d))
	if d.isURL() {
		if parsed, err := url.Parse(raw); err == nil {
			return strings.TrimPrefix(parsed.Path, "/")
		}
		return ""
	}

	for _, token := range strings.Fields(raw) {
		if name, ok := strings.CutPrefix(token, "dbname="); ok {
			return strings.Trim(name, `"'`)
		}
	}
	return ""
}

func (d postgresDSN) isURL() bool {
	raw := strings.TrimSpace(string(d))
	return strings.HasPrefix(raw, "postgres://") || strings.HasPrefix(raw, "postgresql://")
}

// traceQuery collapses whitespace and folds the VALUES list of chunked
// upserts down to its first tuple before attaching the statement to a span.
func traceQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if query == "" {
		return query
	}

	if head, rest, ok := strings.Cut(query, " VALUES ("); ok {
		if tuple, tail, ok := strings.Cut(rest, "), ("); ok {
			rows := strings.Count(rest, "), (") + 1
			suffix := ""
			if _, conflict, ok := strings.Cut(tail, ") ON CONFLICT"); ok {
				suffix = " ON CONFLICT" + conflict
			}
			query = head + " VALUES (" + tuple + "), ... /* " + strconv.Itoa(rows) + " rows */" + suffix
		}
	}

	if len(query) <= maxTracedQueryLength {
		return query
	}
	return query[:maxTracedQueryLength] + "..."
}
