package handler

import (
	"github.com/portfolio/internal/auth"
	"github.com/portfolio/internal/service"
	"github.com/portfolio/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	portfolio     *service.PortfolioService
	messages      *service.MessageService
	documents     *service.DocumentService
	announcements *service.AnnouncementService
	comments      *service.CommentService
	admins        *service.AdminService
	tokens        *auth.Tokens
	gate          *auth.Gate
	files         *storage.Manager
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, files *storage.Manager, tokens *auth.Tokens) *API {
	return &API{
		portfolio:     service.NewPortfolioService(db),
		messages:      service.NewMessageService(db),
		documents:     service.NewDocumentService(db, files),
		announcements: service.NewAnnouncementService(db, files),
		comments:      service.NewCommentService(db),
		admins:        service.NewAdminService(db),
		tokens:        tokens,
		gate:          auth.NewGate(tokens),
		files:         files,
	}
}

