package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/portfolio/internal/auth"
	"github.com/portfolio/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials 同时覆盖用户名不存在与密码错误，调用方无法区分两者
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAdminNotFound 在重置密码时找不到账号时返回
	ErrAdminNotFound = errors.New("no admin found with that username")
	// ErrAdminInvalidInput 在用户名或密码为空时返回
	ErrAdminInvalidInput = errors.New("invalid admin input")
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// timingHash 返回一个固定的 bcrypt 哈希，用户名不存在时仍做一次比较以拉平耗时
func timingHash() []byte {
	dummyHashOnce.Do(func() {
		hashed, err := bcrypt.GenerateFromPassword([]byte("portfolio-timing-guard"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[WARN] failed to prepare timing hash: %v", err)
			return
		}
		dummyHash = hashed
	})
	return dummyHash
}

// AdminService 负责管理员账号的校验、初始化与密码重置
type AdminService struct {
	db *gorm.DB
}

// NewAdminService 构造 AdminService
func NewAdminService(gdb *gorm.DB) *AdminService {
	return &AdminService{db: gdb}
}

// ResetNotice 是密码重置请求的确认信息
type ResetNotice struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// VerifyCredentials 按用户名精确匹配账号并比较 bcrypt 哈希
func (s *AdminService) VerifyCredentials(username, password string) (auth.Identity, error) {
	if username == "" || password == "" {
		return auth.Identity{}, ErrInvalidCredentials
	}

	var account db.AdminAccount
	if err := s.db.Where("username = ?", username).First(&account).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Identity{}, fmt.Errorf("find admin: %w", err)
		}
		if hash := timingHash(); hash != nil {
			_ = bcrypt.CompareHashAndPassword(hash, []byte(password))
		}
		return auth.Identity{}, ErrInvalidCredentials
	}

	// MySQL 默认排序规则不区分大小写，这里再做一次精确比较
	if account.Username != username {
		return auth.Identity{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return auth.Identity{}, ErrInvalidCredentials
	}

	return auth.Identity{ID: account.ID, Username: account.Username}, nil
}

// RequestPasswordReset 确认账号存在并记录一条“将发送邮件”的日志，不生成令牌也不发送邮件
func (s *AdminService) RequestPasswordReset(username string) (*ResetNotice, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrAdminInvalidInput)
	}

	var account db.AdminAccount
	if err := s.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("find admin: %w", err)
	}

	log.Printf("[INFO] password reset requested for admin %s, instructions would be sent to %s", account.Username, account.Email)
	return &ResetNotice{
		Message:  fmt.Sprintf("Password reset instructions would be sent to %s", account.Email),
		Username: account.Username,
	}, nil
}

// EnsureAdmin 在账号缺失时按配置创建管理员，已存在时只同步邮箱
func (s *AdminService) EnsureAdmin(username, password, email string) error {
	return db.EnsureAdmin(s.db, username, password, email)
}

// SetPassword 创建账号或覆盖已有账号的密码哈希，供命令行初始化工具使用。
// 返回值 created 表示是否新建了账号。
func (s *AdminService) SetPassword(username, password, email string) (created bool, err error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, fmt.Errorf("%w: username and password are required", ErrAdminInvalidInput)
	}

	hashed, err := db.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var account db.AdminAccount
		findErr := tx.Where("username = ?", username).First(&account).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			account = db.AdminAccount{Username: username, Password: hashed, Email: strings.TrimSpace(email)}
			return tx.Create(&account).Error
		case findErr != nil:
			return findErr
		}

		updates := map[string]any{"password": hashed}
		if trimmed := strings.TrimSpace(email); trimmed != "" {
			updates["email"] = trimmed
		}
		return tx.Model(&account).Updates(updates).Error
	})
	if err != nil {
		return false, fmt.Errorf("save admin: %w", err)
	}
	return created, nil
}
