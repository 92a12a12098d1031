package db

import "time"

// Message 是访客通过联系表单提交的留言
type Message struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Email      string         `gorm:"size:100;not null" json:"email"`
	Body       string         `gorm:"column:message;type:text;not null" json:"message"`
	ReceivedAt time.Time      `gorm:"autoCreateTime;index" json:"received_at"`
	Replies    []MessageReply `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 返回自定义表名
func (Message) TableName() string {
	return "messages"
}

// MessageReply 是管理员对留言的回复，随留言级联删除
type MessageReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;index" json:"message_id"`
	ReplyText string    `gorm:"type:text;not null" json:"reply_text"`
	RepliedAt time.Time `gorm:"autoCreateTime" json:"replied_at"`
}

// TableName 返回自定义表名
func (MessageReply) TableName() string {
	return "message_replies"
}
