// Package database — Transaction yönetimi.
//
// WithTx, birden fazla DB operasyonunun atomik (all-or-nothing) çalışmasını
// sağlar. Karşılıklı beğeni → match + conversation oluşturma akışı gibi çok
// adımlı yazmalar bu helper ile sarılır:
//
//	err := database.WithTx(ctx, db.Conn, func(tx *sql.Tx) error {
//	    if err := matchRepo.CreateTx(ctx, tx, match); err != nil {
//	        return err // → ROLLBACK
//	    }
//	    return convRepo.CreateTx(ctx, tx, conv) // nil → COMMIT
//	})
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxQuerier, hem *sql.DB hem *sql.Tx tarafından karşılanan interface.
// Repository'ler bu interface'i kabul ederse normal operasyonlarda *sql.DB,
// transaction içinde *sql.Tx geçilebilir (Go duck typing).
type TxQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx, verilen fonksiyonu bir SQL transaction içinde çalıştırır.
//
// 1. BEGIN  2. fn(tx)  3. nil → COMMIT, error → ROLLBACK,
// panic → ROLLBACK + re-panic (transaction açık kalıp DB lock'a neden olmasın).
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
