package datastore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mastra-ai/go-mastra/pkg/logger"
)

type PostgresClient struct {
	conn *pgx.Conn
}

func NewPostgresClient(config *PostgresConfig) (*PostgresClient, error) {
	if !config.Enabled {
		return &PostgresClient{}, nil
	}
	conn, err := pgx.Connect(context.Background(), config.GetURL())
	if err != nil {
		logger.Log.Error().Caller().Err(err).Msg("failed to connect to postgres")
		return nil, ErrRunStoreConnection
	}
	return &PostgresClient{
		conn: conn,
	}, nil
}

func (c *PostgresClient) GetRun(runID string) (*RunRecord, error) {
	if c.conn == nil {
		return nil, ErrRunStoreNotEnabled
	}
	sql := `
		SELECT kind, key, status, error, started_at, finished_at FROM mastra.runs
		WHERE run_id=$1
	`
	row := c.conn.QueryRow(context.Background(), sql, runID)

	record := RunRecord{RunID: runID}
	if err := row.Scan(&record.Kind, &record.Key, &record.Status, &record.Error, &record.StartedAt, &record.FinishedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrRunStoreNotFound
		}
		logger.Log.Error().Caller().Err(err).Msg("failed to query postgres")
		return nil, ErrRunStoreSelect
	}

	logger.Log.Debug().Msgf("found run '%s' in run store", runID)

	return &record, nil
}

func (c *PostgresClient) ListRuns(key string, limit int) ([]*RunRecord, error) {
	if c.conn == nil {
		return nil, ErrRunStoreNotEnabled
	}
	sql := `
		SELECT run_id, kind, key, status, error, started_at, finished_at FROM mastra.runs
		WHERE key=$1
		ORDER BY started_at DESC
		LIMIT $2
	`
	rows, err := c.conn.Query(context.Background(), sql, key, limit)
	if err != nil {
		logger.Log.Error().Caller().Err(err).Msg("failed to query postgres")
		return nil, ErrRunStoreSelect
	}
	defer rows.Close()

	records := make([]*RunRecord, 0)
	for rows.Next() {
		record := RunRecord{}
		if err := rows.Scan(&record.RunID, &record.Kind, &record.Key, &record.Status, &record.Error, &record.StartedAt, &record.FinishedAt); err != nil {
			return nil, ErrRunStoreSelect
		}
		records = append(records, &record)
	}
	return records, nil
}

func (c *PostgresClient) Store(record *RunRecord) error {
	if c.conn == nil {
		return ErrRunStoreNotEnabled
	}
	sql := `
		INSERT INTO mastra.runs (run_id, kind, key, status, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (run_id) DO UPDATE SET status=$4, error=$5, finished_at=$7
	`
	_, err := c.conn.Exec(context.Background(), sql, record.RunID, record.Kind, record.Key, record.Status, record.Error, record.StartedAt, record.FinishedAt)
	if err != nil {
		logger.Log.Error().Caller().Err(err).Msg("failed to exec on postgres")
		return ErrRunStoreInsert
	}
	return nil
}

func (c *PostgresClient) Close(ctx context.Context) error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close(ctx)
}
