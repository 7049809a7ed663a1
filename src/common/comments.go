package common

import (
	"context"
	"errors"
	"strings"
	"time"

	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"
	"voyagemate/src/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentNotifier is told about comments posted on a shared trip.
type CommentNotifier interface {
	CommentPosted(ctx context.Context, link *models.TripShareLink, comment *models.TripShareComment)
}

func listComments(db *gorm.DB, linkID uint, viewerID *uint) ([]models.TripShareComment, error) {
	comments := []models.TripShareComment{}
	if err := db.
		Where("trip_share_link_id = ?", linkID).
		Scopes(scopes.Latest).
		Find(&comments).
		Error; err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].CanEdit = comments[i].EditableBy(viewerID)
	}
	return comments, nil
}

// PostComment adds a comment through an active share link. Guests may post;
// actorID is recorded when the poster is signed in.
func PostComment(ctx context.Context, db *gorm.DB, notifier CommentNotifier, token string, body *types.PostCommentRequestBody, actorID *uint, now time.Time) (*models.TripShareComment, error) {
	link, err := ResolveActiveLink(db, token, now)
	if err != nil {
		return nil, err
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Body = strings.TrimSpace(body.Body)
	if body.Email != nil && strings.TrimSpace(*body.Email) == "" {
		body.Email = nil
	}
	if err := Validate(body); err != nil {
		return nil, err
	}
	comment := models.TripShareComment{
		ShareLinkID: link.ID,
		UserID:      actorID,
		Name:        body.Name,
		Email:       body.Email,
		Body:        body.Body,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, err
	}
	comment.CanEdit = comment.EditableBy(actorID)
	logger.L.Info("share comment posted",
		zap.Uint("link_id", link.ID),
		zap.Uint("comment_id", comment.ID),
		zap.Bool("guest", actorID == nil),
	)
	if notifier != nil {
		notifier.CommentPosted(ctx, link, &comment)
	}
	return &comment, nil
}

// editableComment applies the checks shared by update and delete: the link
// must be active, the comment must hang off that link, and only its signed in
// author may touch it. Guest comments are never editable.
func editableComment(db *gorm.DB, token string, commentID uint, actorID *uint, now time.Time) (*models.TripShareComment, error) {
	link, err := ResolveActiveLink(db, token, now)
	if err != nil {
		return nil, err
	}
	var comment models.TripShareComment
	if err := db.
		Scopes(scopes.WithID(commentID)).
		Where("trip_share_link_id = ?", link.ID).
		First(&comment).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !comment.EditableBy(actorID) {
		return nil, ErrForbidden
	}
	return &comment, nil
}

func UpdateComment(db *gorm.DB, token string, commentID uint, body *types.UpdateCommentRequestBody, actorID *uint, now time.Time) (*models.TripShareComment, error) {
	comment, err := editableComment(db, token, commentID, actorID, now)
	if err != nil {
		return nil, err
	}
	body.Body = strings.TrimSpace(body.Body)
	if err := Validate(body); err != nil {
		return nil, err
	}
	if err := db.Model(comment).Update("body", body.Body).Error; err != nil {
		return nil, err
	}
	comment.Body = body.Body
	comment.CanEdit = true
	return comment, nil
}

func DeleteComment(db *gorm.DB, token string, commentID uint, actorID *uint, now time.Time) error {
	comment, err := editableComment(db, token, commentID, actorID, now)
	if err != nil {
		return err
	}
	return db.Delete(comment).Error
}
