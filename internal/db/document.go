package db

import "time"

// DefaultDocumentType 为未指定分类的文档使用
const DefaultDocumentType = "other"

// Document 记录上传文件的元数据，FilePath 指向 uploads 下的公开路径
type Document struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	FilePath     string    `gorm:"size:255;not null" json:"file_path"`
	FileType     string    `gorm:"size:50;not null" json:"file_type"`
	UploadDate   time.Time `gorm:"autoCreateTime;index" json:"upload_date"`
}

// TableName 返回自定义表名
func (Document) TableName() string {
	return "documents"
}
