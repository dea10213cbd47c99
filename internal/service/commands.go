package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/models"
)

// ErrUnknownTarget is returned for a toggle target the device does not have.
var ErrUnknownTarget = errors.New("unknown toggle target")

// Toggler flips an output locally before the device confirms it.
type Toggler interface {
	Flip(t models.Target) bool
}

// CommandService sends single best-effort toggle commands. Failures are
// reported but the optimistic flip is not rolled back; a later push frame
// or status snapshot settles the value.
type CommandService struct {
	device DeviceAPI
	store  Toggler
	events Recorder
	log    *logger.Logger
}

func NewCommandService(device DeviceAPI, store Toggler, events Recorder, log *logger.Logger) *CommandService {
	return &CommandService{device: device, store: store, events: events, log: log.Named("commands")}
}

// Toggle flips target optimistically and posts the command once.
func (s *CommandService) Toggle(ctx context.Context, target models.Target) error {
	endpoint, ok := target.Endpoint()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
	commandID := uuid.NewString()
	on := s.store.Flip(target)

	meta := map[string]any{
		"command_id": commandID,
		"target":     string(target),
		"endpoint":   endpoint,
		"assumed_on": on,
	}
	if err := s.device.Toggle(ctx, endpoint); err != nil {
		s.log.Errorw("toggle_failed", "command_id", commandID, "target", target, "endpoint", endpoint, "err", err)
		meta["error"] = err.Error()
		record(ctx, s.events, models.EventCommandError, "Toggle command failed", meta)
		return fmt.Errorf("toggle %s: %w", target, err)
	}

	s.log.Infow("toggle_sent", "command_id", commandID, "target", target, "assumed_on", on)
	record(ctx, s.events, models.EventCommand, "Toggle command sent", meta)
	return nil
}
