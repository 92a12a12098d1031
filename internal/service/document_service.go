package service

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/portfolio/internal/db"
	"github.com/portfolio/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrDocumentNotFound     = errors.New("document not found")
	ErrDocumentTypeRequired = errors.New("file_type is required")
)

// FileStore writes uploads to disk and removes them by public path.
type FileStore interface {
	Save(fh *multipart.FileHeader) (*storage.StoredFile, error)
	storage.Remover
}

// DocumentService manages uploaded documents and their files.
type DocumentService struct {
	db    *gorm.DB
	files FileStore
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(gdb *gorm.DB, files FileStore) *DocumentService {
	return &DocumentService{db: gdb, files: files}
}

// DocumentView is the listing shape; FilePath is left empty for visitors.
type DocumentView struct {
	ID           uint      `json:"id"`
	OriginalName string    `json:"original_name"`
	FilePath     string    `json:"file_path,omitempty"`
	FileType     string    `json:"file_type"`
	UploadDate   time.Time `json:"upload_date"`
}

// Upload stores the file and records it. The file is removed again when the row
// cannot be written.
func (s *DocumentService) Upload(fh *multipart.FileHeader, fileType string) (*db.Document, error) {
	stored, err := s.files.Save(fh)
	if err != nil {
		return nil, err
	}

	doc := db.Document{
		OriginalName: stored.OriginalName,
		FilePath:     stored.URL,
		FileType:     normalizeDocumentType(fileType),
	}
	if err := storage.Compensate(s.files, stored, func() error {
		return s.db.Create(&doc).Error
	}); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return &doc, nil
}

// List returns documents newest first. file_path is included only when includePath is set.
func (s *DocumentService) List(includePath bool) ([]DocumentView, error) {
	docs, err := s.ListAll()
	if err != nil {
		return nil, err
	}

	views := make([]DocumentView, 0, len(docs))
	for _, doc := range docs {
		view := DocumentView{
			ID:           doc.ID,
			OriginalName: doc.OriginalName,
			FileType:     doc.FileType,
			UploadDate:   doc.UploadDate,
		}
		if includePath {
			view.FilePath = doc.FilePath
		}
		views = append(views, view)
	}
	return views, nil
}

// ListAll returns every document row newest first.
func (s *DocumentService) ListAll() ([]db.Document, error) {
	docs := []db.Document{}
	if err := s.db.Order("upload_date DESC").Order("id DESC").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// UpdateType changes the document's type tag, the only mutable field.
func (s *DocumentService) UpdateType(id uint, fileType string) (*db.Document, error) {
	fileType = strings.TrimSpace(fileType)
	if fileType == "" {
		return nil, ErrDocumentTypeRequired
	}

	var doc db.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}

	if err := s.db.Model(&doc).Update("file_type", fileType).Error; err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	doc.FileType = fileType
	return &doc, nil
}

// Delete removes the row first and then the file. A file that is already gone is
// logged and tolerated.
func (s *DocumentService) Delete(id uint) error {
	var doc db.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("find document: %w", err)
	}

	if err := s.db.Delete(&db.Document{}, doc.ID).Error; err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	removeStoredFile(s.files, doc.FilePath)
	return nil
}

func normalizeDocumentType(fileType string) string {
	if trimmed := strings.TrimSpace(fileType); trimmed != "" {
		return trimmed
	}
	return db.DefaultDocumentType
}

// removeStoredFile deletes the file after its row is gone. Failures leave an
// orphaned file behind and are only logged.
func removeStoredFile(files storage.Remover, publicPath string) {
	if publicPath == "" {
		return
	}
	if err := files.Remove(publicPath); err != nil {
		if errors.Is(err, storage.ErrFileMissing) {
			log.Printf("[WARN] file %s was already missing", publicPath)
			return
		}
		log.Printf("[ERROR] failed to remove file %s: %v", publicPath, err)
	}
}
