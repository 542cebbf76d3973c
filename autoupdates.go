package papertrail

import (
	"context"
	"time"

	"github.com/agentstation/papertrail/pkg/constants"
	"github.com/agentstation/papertrail/pkg/errors"
	"github.com/agentstation/papertrail/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoUpdater = (*papertrail)(nil)

// AutoUpdateFunc replaces the work done on each scheduled update.
type AutoUpdateFunc func(ctx context.Context, pt Papertrail) error

// AutoUpdater provides controls for scheduled updates.
type AutoUpdater interface {
	// AutoUpdatesOn begins scheduled updates
	AutoUpdatesOn() error

	// AutoUpdatesOff stops scheduled updates
	AutoUpdatesOff() error
}

// AutoUpdatesOn begins updating followed authors every configured interval.
func (p *papertrail) AutoUpdatesOn() error {
	if p.options.autoUpdateInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoUpdateInterval",
			Value:   p.options.autoUpdateInterval,
			Message: "update interval must be positive",
		}
	}

	// Stop any existing schedule before starting a new one
	if err := p.AutoUpdatesOff(); err != nil {
		return err
	}

	p.stopCh = make(chan struct{})
	p.updateTicker = time.NewTicker(p.options.autoUpdateInterval)

	ctx, cancel := context.WithCancel(context.Background())
	p.updateCancel = cancel

	go func(parentCtx context.Context, ticker *time.Ticker, stopCh chan struct{}) {
		for {
			select {
			case <-ticker.C:
				updateCtx, updateCancel := context.WithTimeout(parentCtx, constants.UpdateContextTimeout)
				err := p.scheduledUpdate(updateCtx)
				updateCancel()

				if err != nil {
					// A run that timed out on its own leaves the schedule running.
					if parentCtx.Err() != nil {
						return
					}
					logging.Error().Err(err).Msg("Scheduled update failed")
				}
			case <-parentCtx.Done():
				return
			case <-stopCh:
				return
			}
		}
	}(ctx, p.updateTicker, p.stopCh)

	return nil
}

// AutoUpdatesOff stops scheduled updates.
func (p *papertrail) AutoUpdatesOff() error {
	if p.updateTicker != nil {
		p.updateTicker.Stop()
		p.updateTicker = nil
	}
	if p.updateCancel != nil {
		p.updateCancel()
		p.updateCancel = nil
	}
	select {
	case <-p.stopCh:
		// Already closed
	default:
		close(p.stopCh)
	}
	return nil
}

func (p *papertrail) scheduledUpdate(ctx context.Context) error {
	if p.options.autoUpdateFunc != nil {
		return p.options.autoUpdateFunc(ctx, p)
	}
	result, err := p.Update(ctx)
	if result != nil {
		logging.Ctx(ctx).Info().Str("summary", result.Summary()).Msg("Scheduled update finished")
	}
	return err
}
