package app

import (
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/pronadmin/internal/infrastructure/config"
	"github.com/eslsoft/pronadmin/internal/infrastructure/server"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Server *server.Server
}
