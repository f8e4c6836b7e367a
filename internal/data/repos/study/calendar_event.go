package study

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

type CalendarEventRepo interface {
	CreateMany(dbc dbctx.Context, events []*types.CalendarEvent) ([]*types.CalendarEvent, error)
	List(dbc dbctx.Context) ([]*types.CalendarEvent, error)
	ListByAssignment(dbc dbctx.Context, assignmentID uuid.UUID) ([]*types.CalendarEvent, error)
	ListBetween(dbc dbctx.Context, from, to time.Time) ([]*types.CalendarEvent, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CalendarEvent, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch types.EventPatch) (*types.CalendarEvent, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
	DeleteByAssignment(dbc dbctx.Context, assignmentID uuid.UUID) (int64, error)
}

type calendarEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
	return &calendarEventRepo{db: db, log: baseLog.With("repo", "CalendarEventRepo")}
}

func (r *calendarEventRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

// Times are stored in UTC so range queries compare consistently on every driver.
func (r *calendarEventRepo) CreateMany(dbc dbctx.Context, events []*types.CalendarEvent) ([]*types.CalendarEvent, error) {
	rows := make([]*types.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e == nil {
			continue
		}
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.Start = e.Start.UTC()
		e.End = e.End.UTC()
		rows = append(rows, e)
	}
	if len(rows) == 0 {
		return rows, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, apperrors.External("calendar event create", err)
	}
	return rows, nil
}

func (r *calendarEventRepo) List(dbc dbctx.Context) ([]*types.CalendarEvent, error) {
	out := []*types.CalendarEvent{}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperrors.External("calendar event list", err)
	}
	return out, nil
}

func (r *calendarEventRepo) ListByAssignment(dbc dbctx.Context, assignmentID uuid.UUID) ([]*types.CalendarEvent, error) {
	out := []*types.CalendarEvent{}
	if assignmentID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("assignment_id = ?", assignmentID).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperrors.External("calendar event list", err)
	}
	return out, nil
}

// ListBetween returns events overlapping the half-open range [from, to).
func (r *calendarEventRepo) ListBetween(dbc dbctx.Context, from, to time.Time) ([]*types.CalendarEvent, error) {
	out := []*types.CalendarEvent{}
	if !from.Before(to) {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("start_at < ? AND end_at > ?", to.UTC(), from.UTC()).
		Order("start_at ASC").
		Find(&out).Error; err != nil {
		return nil, apperrors.External("calendar event list", err)
	}
	return out, nil
}

func (r *calendarEventRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CalendarEvent, error) {
	var out types.CalendarEvent
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("calendar event %s", id)
	}
	if err != nil {
		return nil, apperrors.External("calendar event get", err)
	}
	return &out, nil
}

func (r *calendarEventRepo) Update(dbc dbctx.Context, id uuid.UUID, patch types.EventPatch) (*types.CalendarEvent, error) {
	if patch.Start != nil {
		s := patch.Start.UTC()
		patch.Start = &s
	}
	if patch.End != nil {
		e := patch.End.UTC()
		patch.End = &e
	}
	cols := patch.Columns()
	if len(cols) == 0 {
		return r.GetByID(dbc, id)
	}
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.CalendarEvent{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return nil, apperrors.External("calendar event update", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("calendar event %s", id)
	}
	return r.GetByID(dbc, id)
}

func (r *calendarEventRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.CalendarEvent{})
	if res.Error != nil {
		return apperrors.External("calendar event delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("calendar event %s", id)
	}
	return nil
}

func (r *calendarEventRepo) DeleteByAssignment(dbc dbctx.Context, assignmentID uuid.UUID) (int64, error) {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&types.CalendarEvent{})
	if res.Error != nil {
		return 0, apperrors.External("calendar event delete", res.Error)
	}
	return res.RowsAffected, nil
}
