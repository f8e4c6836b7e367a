package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

// TxRunner is the transaction boundary for multi-repo writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return apperrors.External("tx", gorm.ErrInvalidDB)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}
