package study

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type AssignmentRepo interface {
	Create(dbc dbctx.Context, a *types.Assignment) (*types.Assignment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error)
	List(dbc dbctx.Context) ([]*types.Assignment, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch types.AssignmentPatch) (*types.Assignment, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{db: db, log: baseLog.With("repo", "AssignmentRepo")}
}

func (r *assignmentRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// Create assigns the id when the caller did not.
func (r *assignmentRepo) Create(dbc dbctx.Context, a *types.Assignment) (*types.Assignment, error) {
	if a == nil {
		return nil, apperrors.Invalid("assignment required")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(a).Error; err != nil {
		return nil, apperrors.External("assignment create", err)
	}
	return a, nil
}

func (r *assignmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error) {
	var out types.Assignment
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("assignment %s", id)
	}
	if err != nil {
		return nil, apperrors.External("assignment get", err)
	}
	return &out, nil
}

// List returns every assignment, soonest due first.
func (r *assignmentRepo) List(dbc dbctx.Context) ([]*types.Assignment, error) {
	out := []*types.Assignment{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Order("due_date ASC").
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperrors.External("assignment list", err)
	}
	return out, nil
}

func (r *assignmentRepo) Update(dbc dbctx.Context, id uuid.UUID, patch types.AssignmentPatch) (*types.Assignment, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return r.GetByID(dbc, id)
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Assignment{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, apperrors.External("assignment update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("assignment %s", id)
	}
	return r.GetByID(dbc, id)
}

func (r *assignmentRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Assignment{})
	if res.Error != nil {
		return apperrors.External("assignment delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("assignment %s", id)
	}
	return nil
}
