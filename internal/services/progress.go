package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	studyrepo "github.com/yungbote/studyplanner-backend/internal/data/repos/study"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/modules/progress"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dateutil"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	"github.com/yungbote/studyplanner-backend/internal/pkg/keyedmutex"
	"github.com/yungbote/studyplanner-backend/internal/platform/cache"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
)

// ProgressService is the cache-aside owner of progress records.
//
// Reads go cache -> repo -> cache. Writes go repo first, then cache; a failed
// cache write evicts the key so the next read repopulates from the repo. Every
// read-modify-write runs under a per-assignment lock.
type ProgressService interface {
	Get(ctx context.Context, assignmentID uuid.UUID) (*types.Progress, error)
	Report(ctx context.Context, assignmentID uuid.UUID) (*types.ProgressReport, error)
	// Initialize writes a fresh record inside dbc's transaction. Call Prime
	// once the transaction commits.
	Initialize(dbc dbctx.Context, a *types.Assignment) (*types.Progress, error)
	Prime(ctx context.Context, p *types.Progress)
	RecordSession(ctx context.Context, assignmentID uuid.UUID, s progress.Session) (*types.ProgressReport, error)
	CompleteTopic(ctx context.Context, assignmentID uuid.UUID, topicName string) (*types.ProgressReport, error)
	// Discard removes the stored record inside dbc's transaction. Call Forget
	// once the transaction commits.
	Discard(dbc dbctx.Context, assignmentID uuid.UUID) error
	Forget(ctx context.Context, assignmentID uuid.UUID)
}

type progressService struct {
	log    *logger.Logger
	repo   studyrepo.ProgressRepo
	cache  cache.ProgressCache
	notify StudyNotifier
	clock  dateutil.Clock

	locks *keyedmutex.Mutex[uuid.UUID]
	group singleflight.Group
}

func NewProgressService(log *logger.Logger, repo studyrepo.ProgressRepo, c cache.ProgressCache, notify StudyNotifier, clock dateutil.Clock) ProgressService {
	if c == nil {
		c = cache.NewMemoryProgressCache()
	}
	if notify == nil {
		notify = NewStudyNotifier(nil)
	}
	if clock == nil {
		clock = dateutil.SystemClock
	}
	return &progressService{
		log:    log.With("service", "ProgressService"),
		repo:   repo,
		cache:  c,
		notify: notify,
		clock:  clock,
		locks:  keyedmutex.New[uuid.UUID](),
	}
}

func (s *progressService) Get(ctx context.Context, assignmentID uuid.UUID) (*types.Progress, error) {
	p, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// load is the read-through path. Concurrent misses for one id share a single
// repo read; callers must clone before mutating. It runs without the
// assignment lock, so the fill only lands in an empty slot.
func (s *progressService) load(ctx context.Context, assignmentID uuid.UUID) (*types.Progress, error) {
	metrics := observability.Current()
	if p, ok, err := s.cache.Get(ctx, assignmentID); err != nil {
		metrics.ObserveProgressCache("error")
		s.log.Warn("Progress cache read failed; falling back to repo", "assignment_id", assignmentID, "error", err)
	} else if ok {
		metrics.ObserveProgressCache("hit")
		return p, nil
	} else {
		metrics.ObserveProgressCache("miss")
	}

	v, err, _ := s.group.Do(assignmentID.String(), func() (any, error) {
		p, err := s.repo.Get(dbctx.New(ctx), assignmentID)
		if err != nil {
			return nil, err
		}
		s.cacheFill(ctx, p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.Progress), nil
}

func (s *progressService) Report(ctx context.Context, assignmentID uuid.UUID) (*types.ProgressReport, error) {
	p, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	r := progress.BuildReport(p)
	return &r, nil
}

func (s *progressService) Initialize(dbc dbctx.Context, a *types.Assignment) (*types.Progress, error) {
	p, err := progress.Initialize(*a)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(dbc, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *progressService) Prime(ctx context.Context, p *types.Progress) {
	s.cacheSet(ctx, p)
}

func (s *progressService) RecordSession(ctx context.Context, assignmentID uuid.UUID, sess progress.Session) (*types.ProgressReport, error) {
	report, err := s.mutate(ctx, assignmentID, func(p *types.Progress, now time.Time) (*types.Progress, error) {
		return progress.RecordSession(p, sess, now)
	})
	if err == nil {
		observability.Current().AddStudyHours(sess.DurationHours)
	}
	return report, err
}

func (s *progressService) CompleteTopic(ctx context.Context, assignmentID uuid.UUID, topicName string) (*types.ProgressReport, error) {
	return s.mutate(ctx, assignmentID, func(p *types.Progress, now time.Time) (*types.Progress, error) {
		return progress.CompleteTopic(p, topicName, now)
	})
}

func (s *progressService) mutate(ctx context.Context, assignmentID uuid.UUID, fn func(*types.Progress, time.Time) (*types.Progress, error)) (*types.ProgressReport, error) {
	unlock := s.locks.Lock(assignmentID)
	defer unlock()

	current, err := s.load(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	next, err := fn(current, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Upsert(dbctx.New(ctx), next); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, next)

	r := progress.BuildReport(next)
	s.notify.ProgressUpdated(ctx, r)
	return &r, nil
}

func (s *progressService) Discard(dbc dbctx.Context, assignmentID uuid.UUID) error {
	return s.repo.Delete(dbc, assignmentID)
}

func (s *progressService) Forget(ctx context.Context, assignmentID uuid.UUID) {
	if err := s.cache.Delete(ctx, assignmentID); err != nil {
		s.log.Warn("Progress cache delete failed", "assignment_id", assignmentID, "error", err)
	}
}

func (s *progressService) cacheSet(ctx context.Context, p *types.Progress) {
	if p == nil {
		return
	}
	if err := s.cache.Set(ctx, p); err != nil {
		s.log.Warn("Progress cache write failed", "assignment_id", p.AssignmentID, "error", err)
		// A stale entry would shadow the repo write.
		s.Forget(ctx, p.AssignmentID)
	}
}

// cacheFill stores a repo read unless a writer cached a newer record first.
func (s *progressService) cacheFill(ctx context.Context, p *types.Progress) {
	if p == nil {
		return
	}
	if _, err := s.cache.SetIfAbsent(ctx, p); err != nil {
		s.log.Warn("Progress cache fill failed", "assignment_id", p.AssignmentID, "error", err)
	}
}
