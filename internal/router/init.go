package router

import (
	"github.com/dpalamar/contacts-api/internal/application"
	"github.com/dpalamar/contacts-api/internal/container"
	pginfra "github.com/dpalamar/contacts-api/internal/infrastructure/postgres"
	handlers "github.com/dpalamar/contacts-api/internal/interface/http"
	"github.com/dpalamar/contacts-api/internal/router/modules"
	"github.com/dpalamar/contacts-api/pkg/avatar"
)

// InitModules builds the feature modules from container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	contacts := pginfra.NewContactRepository(pool)

	avatars := avatar.NewProcessor(cfg.AvatarsDir, avatar.DefaultSize)

	authSvc := application.NewAuthService(
		users,
		container.GetJWT(),
		avatars,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetRabbitPub(),
		logger,
		cfg,
	)
	contactSvc := application.NewContactService(
		contacts,
		logger,
		container.GetES(),
		cfg.ESContactsIndex,
	)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, logger), users, container.GetJWT()))
	r.Add(modules.NewContactModule(handlers.NewContactHandler(contactSvc, logger), users, container.GetJWT()))
}
