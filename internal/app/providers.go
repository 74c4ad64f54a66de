package app

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/adapter/apiclient"
	"github.com/eslsoft/pronadmin/internal/entity"
	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
	"github.com/eslsoft/pronadmin/internal/repository"
	"github.com/eslsoft/pronadmin/internal/usecase"
)

// ProvideConfig loads and validates the configuration.
func ProvideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func ProvideSchema(cfg *config.Config) entity.SchemaVersion {
	return cfg.Schema()
}

// ProvideAPIClient builds the REST client from the api section.
func ProvideAPIClient(cfg *config.Config, logger *logrus.Logger) (*apiclient.Client, error) {
	return apiclient.New(apiclient.Options{
		BaseURL:     cfg.API.BaseURL,
		VersionPath: cfg.API.VersionPath,
		Schema:      cfg.Schema(),
		Timeout:     cfg.API.Timeout,
		Logger:      logger,
	})
}

func ProvideCategoryRepository(c *apiclient.Client) repository.CategoryRepository {
	return c.Categories()
}

func ProvideDialogRepository(c *apiclient.Client) repository.DialogRepository {
	return c.Dialogs()
}

func ProvidePhraseRepository(c *apiclient.Client) repository.PhraseRepository {
	return c.Phrases()
}

func ProvideUserRepository(c *apiclient.Client) repository.UserRepository {
	return c.Users()
}

func ProvideHealthRepository(c *apiclient.Client) repository.HealthRepository {
	return c.HealthChecker()
}

// ProvideDashboard leaves out the categories repository on label-only
// servers, which have no categories endpoint.
func ProvideDashboard(dialogs repository.DialogRepository, health repository.HealthRepository, categories repository.CategoryRepository, schema entity.SchemaVersion, logger logrus.FieldLogger) usecase.Dashboard {
	if !schema.HasCategoryAPI() {
		categories = nil
	}
	return usecase.NewDashboard(dialogs, health, categories, logger)
}
