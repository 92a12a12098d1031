package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/auth"
	"github.com/portfolio/internal/service"
)

type documentTypeRequest struct {
	FileType string `json:"file_type"`
}

// ListDocuments lists documents for everyone; file_path is only shown to a
// caller holding a valid admin token.
func (a *API) ListDocuments() gin.HandlerFunc {
	return a.withAccess(func(c *gin.Context, access auth.Access) {
		items, err := a.documents.List(access.Authenticated())
		if err != nil {
			respondServerError(c, "Failed to fetch documents", err)
			return
		}
		c.JSON(http.StatusOK, items)
	})
}

// ListAllDocuments returns full document rows for the admin panel.
func (a *API) ListAllDocuments(c *gin.Context) {
	items, err := a.documents.ListAll()
	if err != nil {
		respondServerError(c, "Failed to fetch documents", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UploadDocument accepts a multipart "document" file with an optional documentType.
func (a *API) UploadDocument(c *gin.Context) {
	file, ok := formFile(c, "document", true)
	if !ok {
		return
	}

	doc, err := a.documents.Upload(file, c.PostForm("documentType"))
	if err != nil {
		respondUploadError(c, "Failed to upload document", err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// UpdateDocumentType changes a document's file_type.
func (a *API) UpdateDocumentType(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req documentTypeRequest
	if !bindJSON(c, &req, "File type is required") {
		return
	}

	doc, err := a.documents.UpdateType(id, req.FileType)
	if err != nil {
		handleDocumentError(c, err, "Failed to update document")
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocument removes the document row and its file.
func (a *API) DeleteDocument(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.documents.Delete(id); err != nil {
		handleDocumentError(c, err, "Failed to delete document")
		return
	}
	c.Status(http.StatusNoContent)
}

func handleDocumentError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "Document not found")
	case errors.Is(err, service.ErrDocumentTypeRequired):
		respondError(c, http.StatusBadRequest, "File type is required")
	default:
		respondServerError(c, message, err)
	}
}
