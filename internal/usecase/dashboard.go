package usecase

import (
	"context"
	"math"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/repository"
)

const recentDialogLimit = 5

// CategoryShare is one row of the dialogs-by-category breakdown.
type CategoryShare struct {
	Category string
	Label    string
	Count    int
	Percent  int
}

// DashboardView is the overview page model.
type DashboardView struct {
	TotalDialogs    int
	TotalPhrases    int
	TotalCategories int
	Online          bool
	MockMode        bool
	Health          *entity.HealthCheck
	Distribution    []CategoryShare
	Recent          []entity.Dialog
}

func (v DashboardView) APIStatus() string {
	if v.Online {
		return "Online"
	}
	return "Offline"
}

func (v DashboardView) Mode() string {
	if v.MockMode {
		return "Mock Mode"
	}
	return "Production"
}

// Dashboard builds the overview page.
type Dashboard interface {
	Load(ctx context.Context) (*DashboardView, error)
}

type dashboard struct {
	dialogs    repository.DialogRepository
	health     repository.HealthRepository
	categories repository.CategoryRepository
	log        logrus.FieldLogger
}

// NewDashboard builds the usecase. categories may be nil; it is only used to
// label dialogs that reference their category by id.
func NewDashboard(dialogs repository.DialogRepository, health repository.HealthRepository, categories repository.CategoryRepository, log logrus.FieldLogger) Dashboard {
	return &dashboard{dialogs: dialogs, health: health, categories: categories, log: log}
}

// Load fetches dialogs and health together. When either fails the failure is
// logged and an empty view is returned along with the error.
func (d *dashboard) Load(ctx context.Context) (*DashboardView, error) {
	var (
		dialogs    []entity.Dialog
		health     *entity.HealthCheck
		categories []entity.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := d.dialogs.List(gctx)
		dialogs = items
		return err
	})
	g.Go(func() error {
		h, err := d.health.Health(gctx)
		health = h
		return err
	})
	if d.categories != nil {
		g.Go(func() error {
			items, err := d.categories.List(gctx)
			if err != nil {
				d.log.WithError(err).Warn("dashboard category labels unavailable")
				return nil
			}
			categories = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.log.WithError(err).Error("Failed to fetch dashboard data")
		return &DashboardView{Distribution: []CategoryShare{}, Recent: []entity.Dialog{}}, err
	}

	if len(categories) > 0 {
		if migrated, err := entity.MigrateDialogs(dialogs, categories); err == nil {
			dialogs = migrated
		}
	}
	return BuildDashboard(dialogs, health), nil
}

// BuildDashboard derives the overview from already fetched data.
func BuildDashboard(dialogs []entity.Dialog, health *entity.HealthCheck) *DashboardView {
	view := &DashboardView{
		TotalDialogs: len(dialogs),
		TotalPhrases: lo.SumBy(dialogs, func(d entity.Dialog) int { return len(d.Phrases) }),
		Health:       health,
		Recent:       append([]entity.Dialog{}, dialogs[:min(recentDialogLimit, len(dialogs))]...),
	}
	if health != nil {
		view.Online = health.Healthy()
		view.MockMode = health.MockMode
	}

	keys := lo.Uniq(lo.Map(dialogs, func(d entity.Dialog, _ int) string { return d.CategoryKey() }))
	groups := lo.GroupBy(dialogs, func(d entity.Dialog) string { return d.CategoryKey() })
	view.TotalCategories = len(keys)
	view.Distribution = lo.Map(keys, func(key string, _ int) CategoryShare {
		return CategoryShare{
			Category: key,
			Label:    entity.DisplayName(key),
			Count:    len(groups[key]),
			Percent:  int(math.Round(float64(len(groups[key])) / float64(len(dialogs)) * 100)),
		}
	})
	return view
}
