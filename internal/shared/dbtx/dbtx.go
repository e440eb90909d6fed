package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle whose statements execute on tx, so gorm
// repositories join the same transaction as raw *sql.Tx writers (outbox).
func Bind(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if db == nil || tx == nil {
		return db
	}
	bound := db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}
