package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ScheduleAudit регистрирует периодическую сверку остатков. Запускать через Start у возвращённого планировщика.
func ScheduleAudit(a *Auditor, spec string, logger *zap.SugaredLogger) (*cron.Cron, error) {
	sched := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := sched.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorw("stock audit panicked", "panic", r)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := a.Check(ctx); err != nil {
			logger.Errorw("stock audit failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("audit schedule %q: %w", spec, err)
	}
	return sched, nil
}
