package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

// ListAnnouncements returns announcements newest first.
func (a *API) ListAnnouncements(c *gin.Context) {
	items, err := a.announcements.List()
	if err != nil {
		respondServerError(c, "Failed to fetch announcements", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateAnnouncement accepts multipart title, content, type and an optional file.
func (a *API) CreateAnnouncement(c *gin.Context) {
	file, ok := formFile(c, "file", false)
	if !ok {
		return
	}

	item, err := a.announcements.Create(service.AnnouncementInput{
		Title:   c.PostForm("title"),
		Content: c.PostForm("content"),
		Type:    c.PostForm("type"),
		File:    file,
	})
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementInvalidInput) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondUploadError(c, "Failed to create announcement", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// DeleteAnnouncement removes an announcement with its comments, replies and file.
func (a *API) DeleteAnnouncement(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.announcements.Delete(id); err != nil {
		handleDiscussionError(c, err, "Failed to delete announcement")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListComments returns an announcement's comments.
func (a *API) ListComments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := a.comments.ListComments(id)
	if err != nil {
		handleDiscussionError(c, err, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateComment adds a visitor comment to an announcement.
func (a *API) CreateComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input service.CommentInput
	if !bindJSON(c, &input, "Name and comment text are required") {
		return
	}

	comment, err := a.comments.AddComment(id, input)
	if err != nil {
		handleDiscussionError(c, err, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment and its replies.
func (a *API) DeleteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.comments.DeleteComment(id); err != nil {
		handleDiscussionError(c, err, "Failed to delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListCommentReplies returns the replies to a comment.
func (a *API) ListCommentReplies(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := a.comments.ListReplies(id)
	if err != nil {
		handleDiscussionError(c, err, "Failed to fetch replies")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateCommentReply adds a reply to a comment.
func (a *API) CreateCommentReply(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input service.ReplyInput
	if !bindJSON(c, &input, "Name and reply text are required") {
		return
	}

	reply, err := a.comments.AddReply(id, input)
	if err != nil {
		handleDiscussionError(c, err, "Failed to add reply")
		return
	}
	c.JSON(http.StatusCreated, reply)
}

// DeleteCommentReply removes a single reply.
func (a *API) DeleteCommentReply(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.comments.DeleteReply(id); err != nil {
		handleDiscussionError(c, err, "Failed to delete reply")
		return
	}
	c.Status(http.StatusNoContent)
}

func handleDiscussionError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrAnnouncementNotFound):
		respondError(c, http.StatusNotFound, "Announcement not found")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "Comment not found")
	case errors.Is(err, service.ErrCommentReplyNotFound):
		respondError(c, http.StatusNotFound, "Reply not found")
	case errors.Is(err, service.ErrCommentInvalidInput):
		respondError(c, http.StatusBadRequest, "Name and comment text are required")
	case errors.Is(err, service.ErrCommentReplyInvalidInput):
		respondError(c, http.StatusBadRequest, "Name and reply text are required")
	default:
		respondServerError(c, message, err)
	}
}
