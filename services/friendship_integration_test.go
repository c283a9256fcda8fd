package services

import (
	"context"
	"testing"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/apperr"
	"gorm.io/gorm"
)

func countEdges(t *testing.T, db *gorm.DB, userID, friendID uint, status model.FriendshipStatus) int64 {
	t.Helper()
	var count int64
	err := db.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ? AND status = ?", userID, friendID, status).
		Count(&count).Error
	if err != nil {
		t.Fatalf("failed to count friendship edges: %v", err)
	}
	return count
}

func TestFriendRequestLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	bob := createTestUser(t, db, "bob@example.com", "Bob", "Okafor", model.RoleStudent)

	request, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("AddFriendRequest failed: %v", err)
	}
	if request.Status != model.FriendshipStatusRequested {
		t.Errorf("status = %s, want REQUESTED", request.Status)
	}

	// Bob sees the pending request
	requests, err := svc.ListFriendRequests(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListFriendRequests failed: %v", err)
	}
	if len(requests) != 1 || requests[0].UserID != alice.ID {
		t.Fatalf("expected exactly Alice's request, got %+v", requests)
	}

	// Accept creates the mirrored ACCEPTED pair
	if _, err := svc.HandleRequest(ctx, bob.ID, alice.ID, true); err != nil {
		t.Fatalf("HandleRequest(accept) failed: %v", err)
	}
	if countEdges(t, db, alice.ID, bob.ID, model.FriendshipStatusAccepted) != 1 {
		t.Error("missing ACCEPTED edge alice→bob")
	}
	if countEdges(t, db, bob.ID, alice.ID, model.FriendshipStatusAccepted) != 1 {
		t.Error("missing ACCEPTED edge bob→alice")
	}

	// Both sides list each other
	for _, pair := range []struct{ owner, friend uint }{{alice.ID, bob.ID}, {bob.ID, alice.ID}} {
		friends, total, err := svc.ListFriends(ctx, pair.owner, "", 1, 10)
		if err != nil {
			t.Fatalf("ListFriends failed: %v", err)
		}
		if total != 1 || len(friends) != 1 || friends[0].UserID != pair.friend {
			t.Errorf("user %d: expected friend %d, got %+v", pair.owner, pair.friend, friends)
		}
	}
}

func TestFriendRequestDuplicateIsConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	bob := createTestUser(t, db, "bob@example.com", "Bob", "Okafor", model.RoleStudent)

	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFriendRequest failed: %v", err)
	}

	// Same direction
	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); !apperr.IsConflict(err) {
		t.Errorf("duplicate request: expected conflict, got %v", err)
	}
	// Opposite direction while pending
	if _, err := svc.AddFriendRequest(ctx, bob.ID, alice.ID); !apperr.IsConflict(err) {
		t.Errorf("reverse request: expected conflict, got %v", err)
	}

	// Still conflicting once accepted
	if _, err := svc.HandleRequest(ctx, bob.ID, alice.ID, true); err != nil {
		t.Fatalf("HandleRequest(accept) failed: %v", err)
	}
	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); !apperr.IsConflict(err) {
		t.Errorf("request to existing friend: expected conflict, got %v", err)
	}
}

func TestFriendRequestTargetValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	admin := createTestUser(t, db, "admin@example.com", "Ad", "Min", model.RoleAdmin)

	// Self request
	if _, err := svc.AddFriendRequest(ctx, alice.ID, alice.ID); err == nil || apperr.IsNotFound(err) {
		t.Errorf("self request: expected validation error, got %v", err)
	}
	// Missing user
	if _, err := svc.AddFriendRequest(ctx, alice.ID, 99999); apperr.NotFoundKind(err) != "friend" {
		t.Errorf("missing target: expected NotFound(friend), got %v", err)
	}
	// Non-student target
	if _, err := svc.AddFriendRequest(ctx, alice.ID, admin.ID); apperr.NotFoundKind(err) != "friend" {
		t.Errorf("admin target: expected NotFound(friend), got %v", err)
	}
}

func TestDeclineLeavesNothingBehind(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	bob := createTestUser(t, db, "bob@example.com", "Bob", "Okafor", model.RoleStudent)

	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFriendRequest failed: %v", err)
	}

	declined, err := svc.HandleRequest(ctx, bob.ID, alice.ID, false)
	if err != nil {
		t.Fatalf("HandleRequest(decline) failed: %v", err)
	}
	if declined.Status != model.FriendshipStatusDeclined {
		t.Errorf("status = %s, want DECLINED", declined.Status)
	}

	// No rows survive a decline
	var count int64
	if err := db.Model(&model.Friendship{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 friendship rows after decline, got %d", count)
	}

	// A fresh request is possible again
	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Errorf("re-request after decline failed: %v", err)
	}
}

func TestHandleRequestWithoutPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	bob := createTestUser(t, db, "bob@example.com", "Bob", "Okafor", model.RoleStudent)

	if _, err := svc.HandleRequest(ctx, bob.ID, alice.ID, true); apperr.NotFoundKind(err) != "request" {
		t.Errorf("accept without request: expected NotFound(request), got %v", err)
	}
	if _, err := svc.HandleRequest(ctx, bob.ID, alice.ID, false); apperr.NotFoundKind(err) != "request" {
		t.Errorf("decline without request: expected NotFound(request), got %v", err)
	}
}

func TestDeleteFriendRemovesBothDirections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	bob := createTestUser(t, db, "bob@example.com", "Bob", "Okafor", model.RoleStudent)

	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFriendRequest failed: %v", err)
	}
	if _, err := svc.HandleRequest(ctx, bob.ID, alice.ID, true); err != nil {
		t.Fatalf("HandleRequest(accept) failed: %v", err)
	}

	if err := svc.DeleteFriend(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("DeleteFriend failed: %v", err)
	}

	var count int64
	if err := db.Model(&model.Friendship{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 friendship rows after unfriend, got %d", count)
	}

	// A second unfriend finds nothing
	if err := svc.DeleteFriend(ctx, alice.ID, bob.ID); apperr.NotFoundKind(err) != "friend" {
		t.Errorf("expected NotFound(friend), got %v", err)
	}
}

func TestDeleteFriendRejectsPendingRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com", "Alice", "Nguyen", model.RoleStudent)
	bob := createTestUser(t, db, "bob@example.com", "Bob", "Okafor", model.RoleStudent)

	if _, err := svc.AddFriendRequest(ctx, alice.ID, bob.ID); err != nil {
		t.Fatalf("AddFriendRequest failed: %v", err)
	}

	// Only a REQUESTED edge exists; unfriending must not touch it
	if err := svc.DeleteFriend(ctx, alice.ID, bob.ID); apperr.NotFoundKind(err) != "friend" {
		t.Errorf("expected NotFound(friend), got %v", err)
	}
	if countEdges(t, db, alice.ID, bob.ID, model.FriendshipStatusRequested) != 1 {
		t.Error("pending request must survive a failed unfriend")
	}
}

func TestListFriendsNameFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db, nil)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com", "Omar", "Haddad", model.RoleStudent)
	maria := createTestUser(t, db, "maria@example.com", "Maria", "Silva", model.RoleStudent)
	marco := createTestUser(t, db, "marco@example.com", "Marco", "Rossi", model.RoleStudent)

	for _, friend := range []*model.User{maria, marco} {
		if _, err := svc.AddFriendRequest(ctx, owner.ID, friend.ID); err != nil {
			t.Fatalf("AddFriendRequest failed: %v", err)
		}
		if _, err := svc.HandleRequest(ctx, friend.ID, owner.ID, true); err != nil {
			t.Fatalf("HandleRequest failed: %v", err)
		}
	}

	friends, total, err := svc.ListFriends(ctx, owner.ID, "maria silva", 1, 10)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if total != 1 || len(friends) != 1 || friends[0].UserID != maria.ID {
		t.Errorf("full-name filter: expected only Maria, got %+v", friends)
	}

	_, total, err = svc.ListFriends(ctx, owner.ID, "mar", 1, 10)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if total != 2 {
		t.Errorf("substring filter: expected 2 matches, got %d", total)
	}
}
