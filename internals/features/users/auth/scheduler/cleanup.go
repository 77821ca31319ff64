package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	authRepo "schooladmin_backend/internals/features/users/auth/repository"
)

// StartBlacklistCleanupScheduler purges expired blacklist rows once a day.
func StartBlacklistCleanupScheduler(db *gorm.DB) *cron.Cron {
	ttlDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)
	spec := configs.GetEnv("TOKEN_BLACKLIST_CRON", "30 2 * * *")

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() { RunBlacklistCleanup(db, ttlDays, time.Now()) }); err != nil {
		log.Printf("[CLEANUP] invalid schedule %q: %v", spec, err)
		return nil
	}
	c.Start()
	log.Printf("[CLEANUP] token_blacklist cleanup scheduled %q (ttl=%dd)", spec, ttlDays)
	return c
}

func RunBlacklistCleanup(db *gorm.DB, ttlDays int, now time.Time) {
	before := now.Add(-time.Duration(ttlDays) * 24 * time.Hour)
	n, err := authRepo.CleanupExpiredBlacklist(db, before)
	if err != nil {
		log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
		return
	}
	log.Printf("[CLEANUP] %d expired tokens removed", n)
}
