package storage

import (
	"guessd/internal/providers"
	"guessd/internal/services"
	"guessd/internal/storage/interfaces"
	"guessd/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	store  services.ScoreStoreInterface
	cron   *gron.Cron
	opsMu  sync.Mutex
	now    func() time.Time
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.Persistence.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	s.cron.AddFunc(gron.Every(interval), s.sweep)
	s.cron.Start()
}

func (s *Scheduler) sweep() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	removed, err := s.store.SweepExpiredBuffs(s.now())
	if err != nil {
		s.logger.Errorf(providers.TypeScore, "Error while sweeping expired buffs: %s", err)
		return
	}
	if removed > 0 {
		s.logger.Infof(providers.TypeScore, "Removed %d expired buffs", removed)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.store.Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeScore, "Persisting scores to %s", s.config.Persistence.FilePath)
	err := s.store.Flush()
	if err != nil {
		s.logger.Errorf(providers.TypeScore, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, store services.ScoreStoreInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		store:  store,
		now:    time.Now,
	}
}
