package common

import (
	"context"
	"fmt"
	"time"

	"voyagemate/src/lib"
	"voyagemate/src/lib/mailer"
	"voyagemate/src/logger"
	"voyagemate/src/models"
	"voyagemate/src/models/scopes"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const notificationTimeout = 30 * time.Second

// MailNotifier emails the trip owner when someone comments on a shared
// trip. Owners are not told about their own comments.
type MailNotifier struct {
	DB       *gorm.DB
	Mailer   mailer.Mailer
	From     string
	FromName string
	// Async sends in a background goroutine so the commenter never waits on
	// mail delivery.
	Async bool
}

func (n *MailNotifier) CommentPosted(ctx context.Context, link *models.TripShareLink, comment *models.TripShareComment) {
	if n.Async {
		go n.notify(context.Background(), link.TripID, *comment)
		return
	}
	n.notify(ctx, link.TripID, *comment)
}

func (n *MailNotifier) notify(ctx context.Context, tripID uint, comment models.TripShareComment) {
	ctx, cancel := context.WithTimeout(ctx, notificationTimeout)
	defer cancel()

	var trip models.Trip
	if err := n.DB.Scopes(scopes.WithID(tripID)).First(&trip).Error; err != nil {
		logger.L.Warn("comment notification: trip lookup failed", zap.Uint("trip_id", tripID), zap.Error(err))
		return
	}
	if comment.UserID != nil && *comment.UserID == trip.UserID {
		return
	}
	var owner models.User
	if err := n.DB.Scopes(scopes.WithID(trip.UserID)).First(&owner).Error; err != nil || owner.Email == "" {
		return
	}
	input := &lib.SendMailInput{
		From:     n.From,
		FromName: n.FromName,
		To:       []string{owner.Email},
		Subject:  fmt.Sprintf("New comment on %s", trip.Title),
		Body:     fmt.Sprintf("%s commented on your shared trip \"%s\":\n\n%s", comment.Name, trip.Title, comment.Body),
	}
	if comment.Email != nil {
		input.ReplyTo = *comment.Email
	}
	if err := n.Mailer.Send(ctx, input); err != nil {
		logger.L.Error("comment notification failed", zap.Uint("trip_id", tripID), zap.Uint("comment_id", comment.ID), zap.Error(err))
	}
}
