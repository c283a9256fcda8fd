package services

import (
	"context"
	"fmt"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

// FriendshipService manages the directed request → accepted/declined
// lifecycle between two students. A pending request is a single REQUESTED
// row; an accepted friendship is a mirrored pair of ACCEPTED rows, written by
// a single transactional path so the pair can never be half-committed.
type FriendshipService struct {
	db       *gorm.DB
	notifier *FriendNotifier
}

// NewFriendshipService creates a new friendship service. notifier may be nil;
// notification dispatch is best-effort either way.
func NewFriendshipService(db *gorm.DB, notifier *FriendNotifier) *FriendshipService {
	return &FriendshipService{db: db, notifier: notifier}
}

// AddFriendRequest inserts a REQUESTED edge from requester to target. The
// target must exist and be a student; an existing REQUESTED or ACCEPTED edge
// in either direction is a conflict. Notification dispatch never fails the
// request.
func (s *FriendshipService) AddFriendRequest(ctx context.Context, requesterID, targetID uint) (*model.Friendship, error) {
	if requesterID == targetID {
		return nil, apperr.Validation("cannot send a friend request to yourself")
	}

	var target model.User
	if err := s.db.WithContext(ctx).First(&target, targetID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("friend")
		}
		return nil, fmt.Errorf("failed to fetch target user: %w", err)
	}
	if !target.IsStudent() {
		return nil, apperr.NotFound("friend")
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Friendship{}).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			requesterID, targetID, targetID, requesterID).
		Where("status IN ?", []model.FriendshipStatus{model.FriendshipStatusRequested, model.FriendshipStatusAccepted}).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing friendship: %w", err)
	}
	if count > 0 {
		return nil, apperr.Conflict("request")
	}

	friendship := model.Friendship{
		UserID:   requesterID,
		FriendID: targetID,
		Status:   model.FriendshipStatusRequested,
	}
	if err := s.db.WithContext(ctx).Create(&friendship).Error; err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	if s.notifier != nil {
		go s.notifier.NotifyFriendRequest(requesterID, targetID)
	}
	return &friendship, nil
}

// HandleRequest resolves the pending request from friendID to ownerID. Accept
// transitions the request row to ACCEPTED and upserts the mirrored row in the
// same transaction; both writes succeed or neither does. Decline deletes the
// request rows between the pair and returns an ephemeral DECLINED result
// without persisting one.
func (s *FriendshipService) HandleRequest(ctx context.Context, ownerID, friendID uint, accept bool) (*model.Friendship, error) {
	if !accept {
		result := s.db.WithContext(ctx).
			Where("user_id = ? AND friend_id = ? AND status = ?",
				friendID, ownerID, model.FriendshipStatusRequested).
			Delete(&model.Friendship{})
		if result.Error != nil {
			return nil, fmt.Errorf("failed to decline friend request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperr.NotFound("request")
		}
		return &model.Friendship{
			UserID:   friendID,
			FriendID: ownerID,
			Status:   model.FriendshipStatusDeclined,
		}, nil
	}

	var mirror model.Friendship
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request model.Friendship
		err := tx.Where("user_id = ? AND friend_id = ? AND status = ?",
			friendID, ownerID, model.FriendshipStatusRequested).
			First(&request).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("request")
			}
			return fmt.Errorf("failed to fetch friend request: %w", err)
		}

		request.Status = model.FriendshipStatusAccepted
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to accept friend request: %w", err)
		}

		// Upsert the mirrored edge so the accepted pair is always symmetric.
		err = tx.Where("user_id = ? AND friend_id = ?", ownerID, friendID).
			First(&mirror).Error
		switch err {
		case nil:
			mirror.Status = model.FriendshipStatusAccepted
			if err := tx.Save(&mirror).Error; err != nil {
				return fmt.Errorf("failed to update mirrored friendship: %w", err)
			}
		case gorm.ErrRecordNotFound:
			mirror = model.Friendship{
				UserID:   ownerID,
				FriendID: friendID,
				Status:   model.FriendshipStatusAccepted,
			}
			if err := tx.Create(&mirror).Error; err != nil {
				return fmt.Errorf("failed to create mirrored friendship: %w", err)
			}
		default:
			return fmt.Errorf("failed to fetch mirrored friendship: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mirror, nil
}

// DeleteFriend removes both directions of an accepted friendship. Exactly two
// rows must go; anything else means the pair was not in a consistent ACCEPTED
// state, so the transaction rolls back and the caller gets NotFound.
func (s *FriendshipService) DeleteFriend(ctx context.Context, userID, friendID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("((user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)) AND status = ?",
			userID, friendID, friendID, userID, model.FriendshipStatusAccepted).
			Delete(&model.Friendship{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete friendship: %w", result.Error)
		}
		if result.RowsAffected != 2 {
			return apperr.NotFound("friend")
		}
		return nil
	})
}

// ListFriends returns the ACCEPTED counterparts of a user, filtered by a
// case-insensitive substring match on first+last name, paginated.
func (s *FriendshipService) ListFriends(ctx context.Context, userID uint, nameFilter string, page, limit int) ([]model.FriendResponse, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Friendship{}).
		Joins("JOIN users ON users.id = friendships.friend_id AND users.deleted_at IS NULL").
		Where("friendships.user_id = ? AND friendships.status = ?", userID, model.FriendshipStatusAccepted)
	if nameFilter != "" {
		query = query.Where("(users.first_name || ' ' || users.last_name) ILIKE ?", "%"+nameFilter+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count friends: %w", err)
	}

	var friends []model.FriendResponse
	offset := (page - 1) * limit
	err := query.
		Select("users.id AS user_id, users.email, users.first_name, users.last_name, friendships.updated_at AS since").
		Order("users.first_name, users.last_name").
		Limit(limit).
		Offset(offset).
		Scan(&friends).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch friends: %w", err)
	}
	return friends, total, nil
}

// ListFriendRequests returns the identities of all users with a pending
// request targeting userID.
func (s *FriendshipService) ListFriendRequests(ctx context.Context, userID uint) ([]model.FriendResponse, error) {
	var requesters []model.FriendResponse
	err := s.db.WithContext(ctx).Model(&model.Friendship{}).
		Joins("JOIN users ON users.id = friendships.user_id AND users.deleted_at IS NULL").
		Where("friendships.friend_id = ? AND friendships.status = ?", userID, model.FriendshipStatusRequested).
		Select("DISTINCT users.id AS user_id, users.email, users.first_name, users.last_name, friendships.created_at AS since").
		Order("since DESC").
		Scan(&requesters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch friend requests: %w", err)
	}
	return requesters, nil
}
