package usecase

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

// Messages shown by the user lookup page.
const (
	InvalidUserIDMessage = "Please enter a valid user ID (number)"
	UserNotFoundMessage  = "User not found or an error occurred"
)

// ErrUserLookupFailed hides whether the learner is missing or the API is down.
var ErrUserLookupFailed = errors.New(UserNotFoundMessage)

// UserReport is what the user lookup page shows for one learner.
type UserReport struct {
	UserID      int64
	Assessments []entity.Assessment
	Progress    entity.UserProgress
}

// UserLookup loads a learner's assessments and progress.
type UserLookup interface {
	Lookup(ctx context.Context, rawID string, page repository.Pagination) (*UserReport, error)
}

type userLookup struct {
	repo repository.UserRepository
	log  logrus.FieldLogger
}

func NewUserLookup(repo repository.UserRepository, log logrus.FieldLogger) UserLookup {
	return &userLookup{repo: repo, log: log}
}

// Lookup validates rawID, then fetches both views concurrently. Any failure
// collapses into ErrUserLookupFailed; the cause is logged.
func (u *userLookup) Lookup(ctx context.Context, rawID string, page repository.Pagination) (*UserReport, error) {
	id, err := entity.ParseUserID(rawID)
	if err != nil {
		return nil, err
	}

	report := &UserReport{UserID: id}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := u.repo.ListAssessments(gctx, id, page)
		if err != nil {
			return err
		}
		report.Assessments = items
		return nil
	})
	g.Go(func() error {
		progress, err := u.repo.Progress(gctx, id)
		if err != nil {
			return err
		}
		report.Progress = *progress
		return nil
	})
	if err := g.Wait(); err != nil {
		u.log.WithError(err).WithField("user_id", id).Error("user lookup failed")
		return nil, ErrUserLookupFailed
	}
	if report.Assessments == nil {
		report.Assessments = []entity.Assessment{}
	}
	return report, nil
}

// LookupMessage maps a Lookup error to the text shown to the operator.
func LookupMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, entity.ErrInvalidUserID):
		return InvalidUserIDMessage
	default:
		return UserNotFoundMessage
	}
}
