package cron

import (
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronManager manages all scheduled maintenance jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron: c,
		db:   db,
	}
}

// Start registers all jobs and starts the scheduler
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs and waits for running ones to finish
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every hour: drop expired password reset tokens
	_, err := m.cron.AddFunc("0 0 * * * *", func() {
		m.logJobStart("cleanup_password_resets")
		m.CleanupExpiredPasswordResets()
	})
	if err != nil {
		return err
	}

	// Every 6 hours: drop expired JWT blacklist entries
	_, err = m.cron.AddFunc("0 0 */6 * * *", func() {
		m.logJobStart("cleanup_token_blacklist")
		m.CleanupExpiredBlacklistEntries()
	})
	if err != nil {
		return err
	}

	// Daily at 03:00: prune devices that have not checked in for months
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("prune_stale_devices")
		m.PruneStaleDevices()
	})
	return err
}

func (m *CronManager) logJobStart(name string) {
	log.Printf("[CRON] %s starting", name)
}

func (m *CronManager) logJobComplete(name, detail string) {
	log.Printf("[CRON] %s complete: %s", name, detail)
}

func (m *CronManager) logJobError(name string, err error) {
	log.Printf("[CRON] %s failed: %v", name, err)
}
