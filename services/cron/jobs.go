package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/unilink-app/unilink-api/model"
	"github.com/unilink-app/unilink-api/utils/auth"
)

// StaleDeviceAge is how long a device may go without an update before it is
// pruned. Push tokens rotate, so a device this old is almost certainly dead.
const StaleDeviceAge = 180 * 24 * time.Hour

// CleanupExpiredPasswordResets removes expired or used password reset tokens.
func (m *CronManager) CleanupExpiredPasswordResets() {
	jobName := "cleanup_password_resets"

	result := m.db.Unscoped().
		Where("expires_at < ? OR used_at IS NOT NULL", time.Now()).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("removed %d tokens", result.RowsAffected))
}

// CleanupExpiredBlacklistEntries drops blacklist rows whose tokens have
// already expired on their own.
func (m *CronManager) CleanupExpiredBlacklistEntries() {
	jobName := "cleanup_token_blacklist"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	blacklist := auth.NewBlacklistService(m.db)
	if err := blacklist.CleanupExpiredTokens(ctx); err != nil {
		m.logJobError(jobName, err)
		return
	}

	m.logJobComplete(jobName, "expired entries removed")
}

// PruneStaleDevices removes push devices that have not been refreshed within
// StaleDeviceAge.
func (m *CronManager) PruneStaleDevices() {
	jobName := "prune_stale_devices"

	cutoff := time.Now().Add(-StaleDeviceAge)
	result := m.db.Where("updated_at < ?", cutoff).Delete(&model.Device{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("removed %d devices", result.RowsAffected))
}
