package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var errNoServer = errors.New("dry run: no database server")

// recordingPool stands in for the connection pool. Statements never reach it
// in dry-run mode; it only counts transaction boundaries.
type recordingPool struct {
	begun, committed, rolledBack int
}

func (p *recordingPool) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoServer
}

func (p *recordingPool) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoServer
}

func (p *recordingPool) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoServer
}

func (p *recordingPool) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (p *recordingPool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	p.begun++
	return &recordingTx{recordingPool: p}, nil
}

type recordingTx struct {
	*recordingPool
}

func (tx *recordingTx) Commit() error {
	tx.committed++
	return nil
}

func (tx *recordingTx) Rollback() error {
	tx.rolledBack++
	return nil
}

type recordedInsert struct {
	table string
	sql   string
	inTx  bool
}

// dryRunDB builds postgres statements without a server and records every
// insert along with whether it ran inside a transaction.
func dryRunDB(t *testing.T) (*gorm.DB, *recordingPool, *[]recordedInsert) {
	t.Helper()
	pool := &recordingPool{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}

	var inserts []recordedInsert
	err = db.Callback().Create().After("gorm:create").Register("test:record_insert", func(tx *gorm.DB) {
		if tx.Error != nil {
			return
		}
		_, inTx := tx.Statement.ConnPool.(*recordingTx)
		inserts = append(inserts, recordedInsert{
			table: tx.Statement.Table,
			sql:   tx.Statement.SQL.String(),
			inTx:  inTx,
		})
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	return db, pool, &inserts
}
