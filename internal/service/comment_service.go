package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound          = errors.New("comment not found")
	ErrCommentInvalidInput      = errors.New("invalid comment input")
	ErrCommentReplyNotFound     = errors.New("reply not found")
	ErrCommentReplyInvalidInput = errors.New("invalid reply input")
)

// CommentService handles visitor comments on announcements and replies to them.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// CommentInput holds a comment submission.
type CommentInput struct {
	CommenterName string `json:"commenter_name"`
	CommentText   string `json:"comment_text"`
}

// ReplyInput holds a reply submission.
type ReplyInput struct {
	ReplierName string `json:"replier_name"`
	ReplyText   string `json:"reply_text"`
}

// ListComments returns an announcement's comments newest first.
func (s *CommentService) ListComments(announcementID uint) ([]db.AnnouncementComment, error) {
	if err := ensureExists(s.db, &db.Announcement{}, announcementID, ErrAnnouncementNotFound); err != nil {
		return nil, err
	}

	items := []db.AnnouncementComment{}
	if err := s.db.Where("announcement_id = ?", announcementID).
		Order("commented_at DESC").Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return items, nil
}

// AddComment records a comment on an existing announcement.
func (s *CommentService) AddComment(announcementID uint, input CommentInput) (*db.AnnouncementComment, error) {
	comment := db.AnnouncementComment{
		AnnouncementID: announcementID,
		CommenterName:  strings.TrimSpace(input.CommenterName),
		CommentText:    strings.TrimSpace(input.CommentText),
	}
	if comment.CommenterName == "" || comment.CommentText == "" {
		return nil, fmt.Errorf("%w: commenter_name and comment_text are required", ErrCommentInvalidInput)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &db.Announcement{}, announcementID, ErrAnnouncementNotFound); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment together with its replies.
func (s *CommentService) DeleteComment(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &db.AnnouncementComment{}, id, ErrCommentNotFound); err != nil {
			return err
		}
		if err := tx.Where("comment_id = ?", id).Delete(&db.CommentReply{}).Error; err != nil {
			return fmt.Errorf("delete comment replies: %w", err)
		}
		if err := tx.Delete(&db.AnnouncementComment{}, id).Error; err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}

// ListReplies returns a comment's replies newest first.
func (s *CommentService) ListReplies(commentID uint) ([]db.CommentReply, error) {
	if err := ensureExists(s.db, &db.AnnouncementComment{}, commentID, ErrCommentNotFound); err != nil {
		return nil, err
	}

	items := []db.CommentReply{}
	if err := s.db.Where("comment_id = ?", commentID).
		Order("replied_at DESC").Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	return items, nil
}

// AddReply records a reply to an existing comment.
func (s *CommentService) AddReply(commentID uint, input ReplyInput) (*db.CommentReply, error) {
	reply := db.CommentReply{
		CommentID:   commentID,
		ReplierName: strings.TrimSpace(input.ReplierName),
		ReplyText:   strings.TrimSpace(input.ReplyText),
	}
	if reply.ReplierName == "" || reply.ReplyText == "" {
		return nil, fmt.Errorf("%w: replier_name and reply_text are required", ErrCommentReplyInvalidInput)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &db.AnnouncementComment{}, commentID, ErrCommentNotFound); err != nil {
			return err
		}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("create reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// DeleteReply removes a single reply by id.
func (s *CommentService) DeleteReply(id uint) error {
	result := s.db.Delete(&db.CommentReply{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete reply: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCommentReplyNotFound
	}
	return nil
}
