package system

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/neetprep/service_layer/pkg/logger"
)

// CronService runs periodic housekeeping jobs.
type CronService struct {
	cron *cron.Cron
	log  *logger.Logger
}

// NewCronService returns a stopped scheduler.
func NewCronService(log *logger.Logger) *CronService {
	if log == nil {
		log = logger.NewDefault("cron")
	}
	return &CronService{cron: cron.New(), log: log}
}

// Schedule registers fn under spec (standard cron syntax or @every <duration>).
func (c *CronService) Schedule(spec, name string, fn func()) error {
	_, err := c.cron.AddFunc(spec, func() {
		c.log.WithField("job", name).Debug("running scheduled job")
		fn()
	})
	return err
}

func (c *CronService) Name() string { return "cron" }

func (c *CronService) Start(ctx context.Context) error {
	c.cron.Start()
	return nil
}

// Stop waits for running jobs or ctx, whichever ends first.
func (c *CronService) Stop(ctx context.Context) error {
	done := c.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
