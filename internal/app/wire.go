//go:build wireinject
// +build wireinject

package app

import (
	"net/http"

	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/adapter/console"
	"github.com/eslsoft/pronadmin/internal/infrastructure/server"
	"github.com/eslsoft/pronadmin/internal/usecase"
	"github.com/eslsoft/pronadmin/internal/usecase/session"
)

var configSet = wire.NewSet(
	ProvideConfig,
	ProvideSchema,
)

var repositorySet = wire.NewSet(
	ProvideAPIClient,
	ProvideCategoryRepository,
	ProvideDialogRepository,
	ProvidePhraseRepository,
	ProvideUserRepository,
	ProvideHealthRepository,
)

var usecaseSet = wire.NewSet(
	usecase.NewCategoryStore,
	usecase.NewDialogStore,
	usecase.NewUserLookup,
	ProvideDashboard,
	session.DefaultCredentials,
)

var consoleSet = wire.NewSet(
	wire.Struct(new(console.Deps), "*"),
	console.NewHandler,
	wire.Bind(new(http.Handler), new(*console.Handler)),
)

var serverSet = wire.NewSet(
	server.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		repositorySet,
		usecaseSet,
		consoleSet,
		serverSet,
		wire.Struct(new(Container), "Config", "Logger", "Server"),
	)
	return nil, nil, nil
}
