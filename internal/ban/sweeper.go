package ban

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically deactivates expired bans. The sweep is an
// optimization, not a correctness requirement: every read path re-checks
// end timestamps independently.
type Sweeper struct {
	log      *zap.Logger
	service  *Service
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(log *zap.Logger, service *Service, interval time.Duration) *Sweeper {
	return &Sweeper{
		log:      log,
		service:  service,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := s.service.DeactivateExpiredBans(ctx); err != nil {
				s.log.Error("ban sweep failed", zap.Error(err))
			}
			cancel()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
