package db

import "time"

// 公告附件的展示方式
const (
	AnnouncementTypeText  = "text"
	AnnouncementTypeImage = "image"
	AnnouncementTypeVideo = "video"
	AnnouncementTypeAudio = "audio"
	AnnouncementTypeFile  = "file"
)

// Announcement 定义公告，评论与评论回复随公告级联删除
type Announcement struct {
	ID          uint                  `gorm:"primaryKey" json:"id"`
	Title       string                `gorm:"size:255;not null" json:"title"`
	Content     string                `gorm:"type:text" json:"content"`
	ContentHTML string                `gorm:"-" json:"content_html"`
	FilePath    *string               `gorm:"size:255" json:"file_path"`
	Type        string                `gorm:"size:10;not null;default:text" json:"type"`
	CreatedAt   time.Time             `gorm:"index" json:"created_at"`
	Comments    []AnnouncementComment `gorm:"foreignKey:AnnouncementID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 返回自定义表名
func (Announcement) TableName() string {
	return "announcements"
}

// IsAnnouncementType 判断类型是否属于允许的取值
func IsAnnouncementType(kind string) bool {
	switch kind {
	case AnnouncementTypeText, AnnouncementTypeImage, AnnouncementTypeVideo, AnnouncementTypeAudio, AnnouncementTypeFile:
		return true
	default:
		return false
	}
}

// AnnouncementComment 是访客对公告的评论
type AnnouncementComment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AnnouncementID uint           `gorm:"not null;index" json:"announcement_id"`
	CommenterName  string         `gorm:"size:100;not null" json:"commenter_name"`
	CommentText    string         `gorm:"type:text;not null" json:"comment_text"`
	CommentedAt    time.Time      `gorm:"autoCreateTime" json:"commented_at"`
	Replies        []CommentReply `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 返回自定义表名
func (AnnouncementComment) TableName() string {
	return "announcement_comments"
}

// CommentReply 是对评论的回复
type CommentReply struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommentID   uint      `gorm:"not null;index" json:"comment_id"`
	ReplierName string    `gorm:"size:100;not null" json:"replier_name"`
	ReplyText   string    `gorm:"type:text;not null" json:"reply_text"`
	RepliedAt   time.Time `gorm:"autoCreateTime" json:"replied_at"`
}

// TableName 返回自定义表名
func (CommentReply) TableName() string {
	return "announcement_comment_replies"
}
