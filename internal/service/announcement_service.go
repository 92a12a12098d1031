package service

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrAnnouncementNotFound     = errors.New("announcement not found")
	ErrAnnouncementInvalidInput = errors.New("invalid announcement input")
)

// AnnouncementService handles announcements and their optional attachment.
type AnnouncementService struct {
	db    *gorm.DB
	files FileStore
}

// AnnouncementInput is what the admin form submits. File may be nil.
type AnnouncementInput struct {
	Title   string
	Content string
	Type    string
	File    *multipart.FileHeader
}

// NewAnnouncementService creates an AnnouncementService.
func NewAnnouncementService(gdb *gorm.DB, files FileStore) *AnnouncementService {
	return &AnnouncementService{db: gdb, files: files}
}

// List returns announcements newest first with content rendered to sanitized HTML.
func (s *AnnouncementService) List() ([]db.Announcement, error) {
	items := []db.Announcement{}
	if err := s.db.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	for i := range items {
		s.render(&items[i])
	}
	return items, nil
}

// Create validates the input, stores the attachment if any and records the
// announcement. Without an explicit type the attachment's kind is used, and
// text when there is no attachment.
func (s *AnnouncementService) Create(input AnnouncementInput) (*db.Announcement, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrAnnouncementInvalidInput)
	}
	kind := strings.ToLower(strings.TrimSpace(input.Type))
	if kind != "" && !db.IsAnnouncementType(kind) {
		return nil, fmt.Errorf("%w: type must be one of text, image, video, audio, file", ErrAnnouncementInvalidInput)
	}

	item := db.Announcement{
		Title:   title,
		Content: strings.TrimSpace(input.Content),
		Type:    kind,
	}

	if input.File == nil {
		if item.Type == "" {
			item.Type = db.AnnouncementTypeText
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("create announcement: %w", err)
		}
		s.render(&item)
		return &item, nil
	}

	stored, err := s.files.Save(input.File)
	if err != nil {
		return nil, err
	}
	if item.Type == "" {
		item.Type = storage.Kind(stored.MIME)
	}
	path := stored.URL
	item.FilePath = &path

	if err := storage.Compensate(s.files, stored, func() error {
		return s.db.Create(&item).Error
	}); err != nil {
		return nil, fmt.Errorf("create announcement: %w", err)
	}
	s.render(&item)
	return &item, nil
}

// Delete removes the announcement with its comments and their replies in one
// transaction, then deletes the attachment.
func (s *AnnouncementService) Delete(id uint) error {
	var item db.Announcement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAnnouncementNotFound
			}
			return fmt.Errorf("find announcement: %w", err)
		}

		commentIDs := tx.Model(&db.AnnouncementComment{}).Select("id").Where("announcement_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&db.CommentReply{}).Error; err != nil {
			return fmt.Errorf("delete comment replies: %w", err)
		}
		if err := tx.Where("announcement_id = ?", id).Delete(&db.AnnouncementComment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Delete(&db.Announcement{}, id).Error; err != nil {
			return fmt.Errorf("delete announcement: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if item.FilePath != nil {
		removeStoredFile(s.files, *item.FilePath)
	}
	return nil
}

func (s *AnnouncementService) render(item *db.Announcement) {
	html, err := renderMarkdown(item.Content)
	if err != nil {
		log.Printf("[WARN] failed to render announcement %d: %v", item.ID, err)
		return
	}
	item.ContentHTML = html
}
