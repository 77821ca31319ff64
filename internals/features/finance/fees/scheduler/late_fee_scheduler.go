package scheduler

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"schooladmin_backend/internals/configs"
	"schooladmin_backend/internals/features/finance/fees/service"
)

// StartLateFeeScheduler runs the late-fee sweep on LATE_FEE_CRON (default daily 01:00).
func StartLateFeeScheduler(db *gorm.DB) *cron.Cron {
	cfg := configs.LoadLateFeeConfig()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc(cfg.Cron, func() { RunLateFeeSweep(db, cfg, time.Now()) }); err != nil {
		log.Printf("[LATE-FEE] invalid schedule %q: %v", cfg.Cron, err)
		return nil
	}
	c.Start()
	log.Printf("[LATE-FEE] sweep scheduled %q (per_day=%s)", cfg.Cron, cfg.PerDay)
	return c
}

func RunLateFeeSweep(db *gorm.DB, cfg configs.LateFeeConfig, now time.Time) {
	if _, err := service.RecalculateLateFees(db, now, cfg.PerDay); err != nil {
		log.Printf("[LATE-FEE ERROR] sweep failed: %v", err)
	}
}
