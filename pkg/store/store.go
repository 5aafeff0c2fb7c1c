// Package store persists coverage datasets to the coverage database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"

	"github.com/LambdaTest/coverage-aggregator/config"
	"github.com/LambdaTest/coverage-aggregator/pkg/core"
	"github.com/LambdaTest/coverage-aggregator/pkg/errs"
	"github.com/LambdaTest/coverage-aggregator/pkg/global"
	"github.com/LambdaTest/coverage-aggregator/pkg/lumber"
)

const columnsPerRow = 9

type coverageStore struct {
	logger  lumber.Logger
	cfg     config.DB
	connect func(ctx context.Context) (*sql.DB, error)
}

// New returns a new CoverageStore backed by MySQL.
func New(cfg *config.AggregatorConfig, logger lumber.Logger) core.CoverageStore {
	s := &coverageStore{
		logger: logger,
		cfg:    cfg.DB,
	}
	s.connect = s.dial
	return s
}

// Store flattens the dataset into one row per entry, in dataset order, and
// bulk-inserts all rows in a single transaction. Any failure rolls the
// whole transaction back so no partial rows are ever persisted.
func (s *coverageStore) Store(ctx context.Context, dataset *core.CoverageDataset, revision, suite string) error {
	if dataset.Len() == 0 {
		s.logger.Warnf("empty coverage dataset, nothing to persist")
		return nil
	}

	db, err := s.connect(ctx)
	if err != nil {
		return errs.NewDBError(errs.DBConnect, err)
	}
	defer db.Close()

	query, args := buildInsert(dataset, revision, suite)
	s.logger.Debugf("inserting %d rows into %s table", dataset.Len(), global.CoverageTableName)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errs.NewDBError(errs.DBConnect, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		s.logger.Errorf("error updating database: %v", err)
		if rbErr := tx.Rollback(); rbErr != nil {
			return errs.NewDBError(errs.DBRollback, rbErr)
		}
		return errs.NewDBError(errs.DBInsert, err)
	}

	if err := tx.Commit(); err != nil {
		return errs.NewDBError(errs.DBCommit, err)
	}
	s.logger.Infof("added coverage to database")
	return nil
}

// dial opens the connection and verifies it with a retried ping, since the
// database may still be warming up when a run starts.
func (s *coverageStore) dial(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s", s.cfg.User, s.cfg.Password, s.cfg.Host, s.cfg.Name)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = global.DefaultDBDialTimeout
	if err := backoff.Retry(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(bo, ctx)); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// buildInsert renders the multi-row insert statement and its arguments.
// Absent metric pairs become SQL NULLs.
func buildInsert(dataset *core.CoverageDataset, revision, suite string) (string, []interface{}) {
	labels := dataset.Labels()
	placeholders := make([]string, 0, len(labels))
	args := make([]interface{}, 0, len(labels)*columnsPerRow)

	for _, label := range labels {
		cov, _ := dataset.Get(label)
		placeholders = append(placeholders, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, revision, label, suite)
		for m := range cov {
			args = append(args, nullableInt(cov[m].Count), nullableFloat(cov[m].Percent))
		}
	}

	query := "INSERT INTO `coverage`" +
		" (`rev`, `test`, `suite`, `lines`, `line_cov`, `functions`," +
		" `function_cov`, `branches`, `branch_cov`)" +
		" VALUES " + strings.Join(placeholders, ", ")
	return query, args
}

func nullableInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
