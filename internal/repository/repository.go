package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kosa-recruit/panel-manager/backend/internal/config"
)

// queryer 抽象了 *sql.DB 和 *sql.Tx 的公共查询能力，
// 使得同一套查询方法既能直接执行，也能在事务中执行。
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
	db     queryer
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
		db:     dbpool,
	}
}

// InTx 在单个数据库事务中执行 fn，fn 收到的 Repository 绑定到该事务。
// 如果当前 Repository 已经绑定到某个事务，则直接复用该事务。
func (r *Repository) InTx(fn func(txRepo *Repository) error) error {
	if _, ok := r.db.(*sql.Tx); ok {
		return fn(r)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txRepo := &Repository{
		cfg:    r.cfg,
		dbpool: r.dbpool,
		db:     tx,
	}
	if err := fn(txRepo); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}
