package storage

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"
)

// StartCompaction agenda Compact(retain) a cada every. O chamador faz o
// Shutdown do scheduler devolvido.
func StartCompaction(s *Store, clock clockwork.Clock, every time.Duration, retain uint64, logger hclog.Logger) (gocron.Scheduler, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	sched, err := gocron.NewScheduler(gocron.WithClock(clock))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			removed, err := s.Compact(retain)
			if err != nil {
				logger.Error("journal compaction failed", "error", err)
				return
			}
			if removed > 0 {
				logger.Info("journal compacted", "removed", removed, "retain", retain)
			}
		}),
		gocron.WithName("journal-compaction"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule compaction: %w", err)
	}

	sched.Start()
	logger.Debug("journal compaction scheduled", "every", every, "retain", retain)
	return sched, nil
}
