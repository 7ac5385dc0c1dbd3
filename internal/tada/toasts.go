package tada

import (
	"github.com/colonyops/tada/internal/core/config"
	"github.com/colonyops/tada/internal/core/logging"
	"github.com/colonyops/tada/internal/core/schedule"
	"github.com/colonyops/tada/internal/core/toast"
)

// NewNotifier builds the toast holder selected by cfg.Mode. Exactly one
// holder exists per process. A nil sched uses the wall clock.
func NewNotifier(cfg config.ToastConfig, sched schedule.Scheduler) toast.Notifier {
	log := logging.Component("toast")

	switch cfg.Mode {
	case config.ToastModeSlot:
		log.Debug().Dur("delay", cfg.Delay).Msg("using single-slot toasts")
		return toast.NewSlot(sched, cfg.Delay)
	default:
		log.Debug().Dur("delay", cfg.Delay).Msg("using toast queue")
		return toast.NewQueue(sched, cfg.Delay)
	}
}
