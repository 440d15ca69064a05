package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

const Schema = `
CREATE TABLE IF NOT EXISTS currencies (
    chain_id   BIGINT      NOT NULL,
    address    CHAR(42)    NOT NULL,
    symbol     TEXT        NOT NULL,
    name       TEXT        NOT NULL,
    decimals   SMALLINT    NOT NULL CHECK (decimals BETWEEN 0 AND 77),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (chain_id, address)
);

CREATE TABLE IF NOT EXISTS book_depths (
    chain_id   BIGINT         NOT NULL,
    book_id    NUMERIC(78, 0) NOT NULL,
    tick       INTEGER        NOT NULL,
    raw_amount NUMERIC(20, 0) NOT NULL CHECK (raw_amount >= 0),
    updated_at TIMESTAMPTZ    NOT NULL DEFAULT NOW(),
    PRIMARY KEY (chain_id, book_id, tick)
);
`

// Migrate creates the snapshot tables if they do not exist yet.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
