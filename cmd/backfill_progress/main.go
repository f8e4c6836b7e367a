package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/studyplanner-backend/internal/app"
	"github.com/yungbote/studyplanner-backend/internal/data/db"
	types "github.com/yungbote/studyplanner-backend/internal/domain/study"
	"github.com/yungbote/studyplanner-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/studyplanner-backend/internal/pkg/errors"
)

type idList []string

func (l *idList) String() string { return strings.Join(*l, ",") }
func (l *idList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v != "" {
		*l = append(*l, v)
	}
	return nil
}

// Repairs assignments left without a progress record or without any
// scheduled sessions.
func main() {
	var ids idList
	var dryRun bool
	var limit int
	var workers int
	flag.Var(&ids, "assignment", "assignment id to repair (repeatable)")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned repairs without writing")
	flag.IntVar(&limit, "limit", 0, "limit number of assignments processed")
	flag.IntVar(&workers, "workers", 4, "concurrent repairs")
	flag.Parse()

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	rows, err := loadAssignments(ctx, application, ids)
	if err != nil {
		fmt.Printf("load assignments: %v\n", err)
		application.Close()
		os.Exit(1)
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	if workers < 1 {
		workers = 1
	}

	var initialized, rescheduled atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, a := range rows {
		if a == nil || a.ID == uuid.Nil {
			continue
		}
		g.Go(func() error {
			didInit, didSchedule, err := repair(gctx, application, a, dryRun)
			if err != nil {
				fmt.Printf("repair failed for assignment %s: %v\n", a.ID.String(), err)
				return nil
			}
			if didInit {
				initialized.Add(1)
			}
			if didSchedule {
				rescheduled.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	fmt.Printf("done; assignments=%d progress_initialized=%d rescheduled=%d\n", len(rows), initialized.Load(), rescheduled.Load())
}

func loadAssignments(ctx context.Context, application *app.App, raw idList) ([]*types.Assignment, error) {
	dbc := dbctx.New(ctx)
	if len(raw) == 0 {
		return application.Repos.Assignment.List(dbc)
	}
	out := make([]*types.Assignment, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil || id == uuid.Nil {
			fmt.Printf("skipping invalid assignment id %q\n", s)
			continue
		}
		a, err := application.Repos.Assignment.GetByID(dbc, id)
		if apperrors.IsNotFound(err) {
			fmt.Printf("assignment %s not found\n", id.String())
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func repair(ctx context.Context, application *app.App, a *types.Assignment, dryRun bool) (bool, bool, error) {
	dbc := dbctx.New(ctx)

	_, err := application.Repos.Progress.Get(dbc, a.ID)
	missingProgress := apperrors.IsNotFound(err)
	if err != nil && !missingProgress {
		return false, false, err
	}
	events, err := application.Repos.CalendarEvent.ListByAssignment(dbc, a.ID)
	if err != nil {
		return false, false, err
	}
	missingEvents := len(events) == 0

	if dryRun {
		if missingProgress {
			fmt.Printf("[dry-run] initialize progress assignment_id=%s\n", a.ID.String())
		}
		if missingEvents {
			fmt.Printf("[dry-run] reschedule assignment_id=%s\n", a.ID.String())
		}
		return false, false, nil
	}

	if missingProgress {
		var p *types.Progress
		err := db.NewGormTxRunner(application.DB).InTx(ctx, func(txc dbctx.Context) error {
			var err error
			p, err = application.Services.Progress.Initialize(txc, a)
			return err
		})
		if err != nil {
			return false, false, fmt.Errorf("initialize progress: %w", err)
		}
		application.Services.Progress.Prime(ctx, p)
	}
	if missingEvents {
		if _, err := application.Services.Assignment.Reschedule(ctx, a.ID); err != nil {
			return missingProgress, false, fmt.Errorf("reschedule: %w", err)
		}
	}
	return missingProgress, missingEvents, nil
}
