package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/services/push"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FriendRequestTopic is the fixed topic string attached to friend-request
// pushes so clients can route them.
const FriendRequestTopic = "FRIEND_REQUEST"

// FriendNotifier dispatches friend-request notifications: an in-app
// UserNotification row plus one push message per registered device of the
// target. Everything here is best-effort; no failure ever reaches the
// friendship operation that triggered it.
type FriendNotifier struct {
	db   *gorm.DB
	push *push.Client
}

// NewFriendNotifier creates a new friend notifier. pushClient may be nil when
// no push provider is configured.
func NewFriendNotifier(db *gorm.DB, pushClient *push.Client) *FriendNotifier {
	return &FriendNotifier{db: db, push: pushClient}
}

// NotifyFriendRequest tells targetID that requesterID wants to be friends.
// Intended to run in its own goroutine; it never returns an error and logs
// every failure it swallows.
func (n *FriendNotifier) NotifyFriendRequest(requesterID, targetID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var requester model.User
	if err := n.db.WithContext(ctx).First(&requester, requesterID).Error; err != nil {
		log.Printf("friend notifier: failed to load requester %d: %v", requesterID, err)
		return
	}

	body := fmt.Sprintf("%s wants to be your new friend", requester.FullName())

	n.persistNotification(ctx, targetID, requester, body)
	n.pushToDevices(ctx, targetID, requester, body)
}

func (n *FriendNotifier) persistNotification(ctx context.Context, targetID uint, requester model.User, body string) {
	metadata, err := json.Marshal(model.FriendRequestMetadata{
		RequesterID:   requester.ID,
		RequesterName: requester.FullName(),
	})
	if err != nil {
		log.Printf("friend notifier: failed to marshal metadata: %v", err)
		return
	}

	notification := model.UserNotification{
		UserID:   targetID,
		Type:     model.NotificationTypeInfo,
		Category: model.NotificationCategoryFriendRequest,
		Title:    "New friend request",
		Message:  body,
		Metadata: datatypes.JSON(metadata),
	}
	if err := n.db.WithContext(ctx).Create(&notification).Error; err != nil {
		log.Printf("friend notifier: failed to persist notification for user %d: %v", targetID, err)
	}
}

func (n *FriendNotifier) pushToDevices(ctx context.Context, targetID uint, requester model.User, body string) {
	if n.push == nil {
		return
	}

	var devices []model.Device
	if err := n.db.WithContext(ctx).Where("user_id = ?", targetID).Find(&devices).Error; err != nil {
		log.Printf("friend notifier: failed to load devices of user %d: %v", targetID, err)
		return
	}

	data := map[string]string{
		"topic":        FriendRequestTopic,
		"requester_id": strconv.FormatUint(uint64(requester.ID), 10),
	}
	for _, device := range devices {
		if err := n.push.Send(ctx, device.Token, FriendRequestTopic, body, data); err != nil {
			log.Printf("friend notifier: push to device %d failed: %v", device.ID, err)
		}
	}
}
