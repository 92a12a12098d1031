package db

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminAccount 定义后台管理员账号
type AdminAccount struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Email     string    `gorm:"size:100" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 返回自定义表名
func (AdminAccount) TableName() string {
	return "admins"
}

// HashPassword 使用 bcrypt 生成密码哈希。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// EnsureAdmin 存在性检查：用户名与密码均非空且账号不存在时创建 bcrypt 哈希的管理员；
// 账号已存在时只同步邮箱，不覆盖密码。密码按原样哈希，与登录时的比较保持一致。
func EnsureAdmin(gdb *gorm.DB, username, password, email string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedEmail := strings.TrimSpace(email)
	if trimmedUser == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	var existing AdminAccount
	if err := gdb.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := HashPassword(password)
		if err != nil {
			return err
		}

		return gdb.Create(&AdminAccount{Username: trimmedUser, Password: hashed, Email: trimmedEmail}).Error
	}

	if trimmedEmail != "" && existing.Email != trimmedEmail {
		return gdb.Model(&existing).Update("email", trimmedEmail).Error
	}
	return nil
}
