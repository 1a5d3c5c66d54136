// File: internal/app/moderation.go
package app

import (
	"context"

	"dentalhub_backend/internal/application"
	"dentalhub_backend/internal/article"
	"dentalhub_backend/internal/content"
	"dentalhub_backend/internal/event"
	"dentalhub_backend/internal/forum"
	"dentalhub_backend/internal/job"
	"dentalhub_backend/internal/moderation"
	"dentalhub_backend/internal/notification"
	"dentalhub_backend/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewModerationService assembles the moderation workflow: every content
// repository is registered as a source, and the post-decision hooks connect
// moderation outcomes to the search index and the professor promotion flow.
func NewModerationService(
	db *gorm.DB,
	notifService notification.Service,
	logger *zap.Logger,
	articleRepo article.Repository,
	eventRepo event.Repository,
	jobRepo job.Repository,
	forumRepo forum.Repository,
	applicationRepo application.Repository,
	articleService *article.Service,
	userService *user.ServiceImplementation,
) *moderation.Service {
	modService := moderation.NewService(db, notifService, logger.Named("ModerationService"))

	modService.RegisterSource(articleRepo)
	modService.RegisterSource(eventRepo)
	modService.RegisterSource(jobRepo)
	modService.RegisterSource(forumRepo)
	modService.RegisterSource(applicationRepo)

	// Approved articles become searchable; rejected or deleted ones leave
	// the index.
	modService.RegisterHook(content.KindArticle, articleService.OnModerationDecision)

	// An approved verification application promotes the applicant.
	modService.RegisterHook(content.KindApplication, func(ctx context.Context, item *content.Item, decision moderation.Decision) error {
		if decision != moderation.DecisionApproved {
			return nil
		}
		return userService.PromoteToProfessor(ctx, item.OwnerID)
	})

	return modService
}
