// Package scheduler runs the background SIP installment job on a cron
// schedule. Installments are also applied on demand through the pipeline
// endpoint; the scheduler covers deployments without an external trigger.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"wealthpath/internal/logger"
	"wealthpath/internal/services"
)

// Scheduler wraps a cron runner that applies due SIP installments.
type Scheduler struct {
	cron       *cron.Cron
	sipService services.SIPServicer
}

// New creates a Scheduler that runs the SIP installment job on the given
// cron expression (standard 5-field format).
func New(sipService services.SIPServicer, schedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(),
		sipService: sipService,
	}

	if _, err := s.cron.AddFunc(schedule, s.runSIPJob); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Get().Info("SIP installment scheduler started")
}

// Stop stops the cron runner and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Get().Info("SIP installment scheduler stopped")
}

func (s *Scheduler) runSIPJob() {
	start := time.Now()
	count, err := s.sipService.ProcessDue(start)
	if err != nil {
		logger.Get().Errorw("SIP installment run failed", "error", err)
		return
	}
	logger.Get().Infow("SIP installment run completed",
		"installments_processed", count,
		"duration", time.Since(start).String(),
	)
}
