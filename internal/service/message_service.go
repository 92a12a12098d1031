package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/portfolio/internal/db"
	"gorm.io/gorm"
)

// DefaultStatsDays 是留言趋势统计的默认回溯天数
const DefaultStatsDays = 30

const statsDateLayout = "2006-01-02"

var (
	// ErrMessageNotFound 在指定留言不存在时返回
	ErrMessageNotFound = errors.New("message not found")
	// ErrMessageInvalidInput 在留言字段缺失时返回
	ErrMessageInvalidInput = errors.New("invalid message input")
	// ErrReplyInvalidInput 在回复内容为空时返回
	ErrReplyInvalidInput = errors.New("invalid reply input")
)

// MessageService 处理联系表单留言及管理员回复
type MessageService struct {
	db *gorm.DB
}

// NewMessageService 构造 MessageService
func NewMessageService(gdb *gorm.DB) *MessageService {
	return &MessageService{db: gdb}
}

// MessageInput 是访客提交留言的字段
type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// DailyCount 是单日的留言数量
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Create 保存访客留言，三个字段去除空白后都不能为空
func (s *MessageService) Create(input MessageInput) (*db.Message, error) {
	msg := db.Message{
		Name:  strings.TrimSpace(input.Name),
		Email: strings.TrimSpace(input.Email),
		Body:  strings.TrimSpace(input.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Body == "" {
		return nil, fmt.Errorf("%w: name, email and message are required", ErrMessageInvalidInput)
	}

	if err := s.db.Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &msg, nil
}

// List 返回全部留言，最新的在前
func (s *MessageService) List() ([]db.Message, error) {
	items := []db.Message{}
	if err := s.db.Order("received_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return items, nil
}

// Delete 在同一事务中删除留言及其全部回复
func (s *MessageService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &db.Message{}, id, ErrMessageNotFound); err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", id).Delete(&db.MessageReply{}).Error; err != nil {
			return fmt.Errorf("delete message replies: %w", err)
		}
		if err := tx.Delete(&db.Message{}, id).Error; err != nil {
			return fmt.Errorf("delete message: %w", err)
		}
		return nil
	})
}

// ListReplies 返回留言的回复，最新的在前
func (s *MessageService) ListReplies(messageID uint) ([]db.MessageReply, error) {
	if err := ensureExists(s.db, &db.Message{}, messageID, ErrMessageNotFound); err != nil {
		return nil, err
	}

	items := []db.MessageReply{}
	if err := s.db.Where("message_id = ?", messageID).
		Order("replied_at DESC").Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list message replies: %w", err)
	}
	return items, nil
}

// Reply 为已存在的留言追加一条回复
func (s *MessageService) Reply(messageID uint, text string) (*db.MessageReply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: reply_text is required", ErrReplyInvalidInput)
	}

	reply := db.MessageReply{MessageID: messageID, ReplyText: text}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &db.Message{}, messageID, ErrMessageNotFound); err != nil {
			return err
		}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("create message reply: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// Stats 统计 now 之前 days 天内每天收到的留言数，按日期升序。
// fill 为 false 时只返回有留言的日期；为 true 时窗口内每一天都有一条记录。
// 日期按 now 所在时区划分。
func (s *MessageService) Stats(now time.Time, days int, fill bool) ([]DailyCount, error) {
	if days <= 0 {
		days = DefaultStatsDays
	}
	since := now.AddDate(0, 0, -days)

	var received []time.Time
	if err := s.db.Model(&db.Message{}).
		Where("received_at >= ?", since).
		Order("received_at ASC").
		Pluck("received_at", &received).Error; err != nil {
		return nil, fmt.Errorf("load message stats: %w", err)
	}

	loc := now.Location()
	counts := make(map[string]int64, len(received))
	for _, at := range received {
		counts[at.In(loc).Format(statsDateLayout)]++
	}

	result := []DailyCount{}
	if fill {
		start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, loc)
		last := now.Format(statsDateLayout)
		for day := start; ; day = day.AddDate(0, 0, 1) {
			key := day.Format(statsDateLayout)
			result = append(result, DailyCount{Date: key, Count: counts[key]})
			if key == last {
				break
			}
		}
		return result, nil
	}

	for _, at := range received {
		key := at.In(loc).Format(statsDateLayout)
		if n := len(result); n > 0 && result[n-1].Date == key {
			continue
		}
		result = append(result, DailyCount{Date: key, Count: counts[key]})
	}
	return result, nil
}

// ensureExists 检查主键对应的行是否存在，不存在时返回 notFound
func ensureExists(tx *gorm.DB, model any, id uint, notFound error) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check existence: %w", err)
	}
	if count == 0 {
		return notFound
	}
	return nil
}
