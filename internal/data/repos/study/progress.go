package study

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type ProgressRepo interface {
	Get(dbc dbctx.Context, assignmentID uuid.UUID) (*types.Progress, error)
	Upsert(dbc dbctx.Context, p *types.Progress) error
	Delete(dbc dbctx.Context, assignmentID uuid.UUID) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *progressRepo) Get(dbc dbctx.Context, assignmentID uuid.UUID) (*types.Progress, error) {
	var row types.ProgressRecord
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("assignment_id = ?", assignmentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("progress for assignment %s", assignmentID)
	}
	if err != nil {
		return nil, apperrors.External("progress get", err)
	}
	p, err := row.ToProgress()
	if err != nil {
		return nil, apperrors.External("progress decode", err)
	}
	return p, nil
}

func (r *progressRepo) Upsert(dbc dbctx.Context, p *types.Progress) error {
	if p == nil || p.AssignmentID == uuid.Nil {
		return apperrors.Invalid("progress requires an assignment id")
	}
	row, err := types.NewProgressRecord(p)
	if err != nil {
		return apperrors.Invalid("progress encode: %v", err)
	}
	err = r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completed_tasks",
				"total_tasks",
				"study_hours_completed",
				"study_hours_target",
				"topic_progress",
				"milestones",
				"updated_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return apperrors.External("progress upsert", err)
	}
	return nil
}

func (r *progressRepo) Delete(dbc dbctx.Context, assignmentID uuid.UUID) error {
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&types.ProgressRecord{}).Error; err != nil {
		return apperrors.External("progress delete", err)
	}
	return nil
}
