// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"dentalhub_backend/internal/app"
	"dentalhub_backend/internal/application"
	"dentalhub_backend/internal/article"
	"dentalhub_backend/internal/config"
	"dentalhub_backend/internal/event"
	"dentalhub_backend/internal/firebase"
	"dentalhub_backend/internal/forum"
	"dentalhub_backend/internal/job"
	"dentalhub_backend/internal/jobs"
	"dentalhub_backend/internal/moderation"
	"dentalhub_backend/internal/notification"
	"dentalhub_backend/internal/platform/database"
	"dentalhub_backend/internal/platform/logger"
	"dentalhub_backend/internal/platform/search"
	"dentalhub_backend/internal/shared"
	"dentalhub_backend/internal/user"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		search.NewClient,

		// Firebase Service
		firebase.NewFirebaseService,

		// Identity
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(*user.ServiceImplementation)),
		user.NewHandler,

		// Notifications
		notification.NewGORMRepository,
		notification.NewCounter,
		notification.NewService,
		notification.NewHandler,

		// Content modules
		article.NewGORMRepository,
		article.NewService,
		article.NewHandler,
		event.NewGORMRepository,
		event.NewService,
		event.NewHandler,
		job.NewGORMRepository,
		job.NewService,
		job.NewHandler,
		forum.NewGORMRepository,
		forum.NewService,
		forum.NewHandler,
		application.NewGORMRepository,
		application.NewService,
		application.NewHandler,

		// Moderation workflow
		app.NewModerationService,
		moderation.NewHandler,

		// Background jobs
		jobs.NewScheduler,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
