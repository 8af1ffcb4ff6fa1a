package ingestion

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"breachlens/internal/errors"
	"breachlens/internal/models"
)

// DefaultQueryLimit bounds how many historical rows a store query returns.
const DefaultQueryLimit = 500

const selectLogs = `
	SELECT timestamp, server_id, firewall_id, username, action_type,
	       policy_name, policy_rule, status, ml_risk_score, log_source,
	       blockchain_tx, notes
	FROM logs
	ORDER BY timestamp DESC
	LIMIT $1`

// Store supplies historical log rows from Postgres. Its rows match the
// recognized input schema, so they feed the same pipeline as CSV input.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenStore connects to Postgres and verifies the connection.
func OpenStore(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStoreConnectError("postgres", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreConnectError("postgres", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecentRows returns up to limit most-recent log rows as loosely-typed row
// maps. NULL columns stay unset so normalization treats them as absent.
func (s *Store) RecentRows(ctx context.Context, limit int) ([]models.RowMap, error) {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	rows, err := s.db.QueryContext(ctx, selectLogs, limit)
	if err != nil {
		return nil, errors.NewStoreQueryError("select logs", err)
	}
	defer rows.Close()

	var out []models.RowMap
	for rows.Next() {
		var (
			ts                             sql.NullTime
			server, firewall, user, action sql.NullString
			policyName, policyRule, status sql.NullString
			risk                           sql.NullFloat64
			logSource, blockchainTx, notes sql.NullString
		)
		if err := rows.Scan(&ts, &server, &firewall, &user, &action,
			&policyName, &policyRule, &status, &risk,
			&logSource, &blockchainTx, &notes); err != nil {
			return nil, errors.NewStoreQueryError("scan logs", err)
		}

		row := models.RowMap{}
		if ts.Valid {
			row[models.ColTimestamp] = ts.Time.UTC().Format("2006-01-02T15:04:05.000Z07:00")
		}
		setIf(row, models.ColServerID, server)
		setIf(row, models.ColFirewallID, firewall)
		setIf(row, models.ColUser, user)
		setIf(row, models.ColActionType, action)
		setIf(row, models.ColPolicyName, policyName)
		setIf(row, models.ColPolicyRule, policyRule)
		setIf(row, models.ColStatus, status)
		if risk.Valid {
			row[models.ColMLRiskScore] = strconv.FormatFloat(risk.Float64, 'f', -1, 64)
		}
		setIf(row, models.ColLogSource, logSource)
		setIf(row, models.ColBlockchainTx, blockchainTx)
		setIf(row, models.ColNotes, notes)

		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreQueryError("iterate logs", err)
	}

	s.logger.Debug("store_rows_loaded", zap.Int("row_count", len(out)))
	return out, nil
}

func setIf(row models.RowMap, col string, v sql.NullString) {
	if v.Valid {
		row[col] = v.String
	}
}
