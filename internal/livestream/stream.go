package livestream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mossy-p/livestream-gateway/internal/logging"
	"github.com/mossy-p/livestream-gateway/internal/twilio"
)

const (
	StatusStreaming    = "You are streaming"
	StatusNotStreaming = "You are not streaming"
)

type composerContext struct {
	Room     composerRoom `json:"room"`
	Identity string       `json:"identity"`
	Outputs  []string     `json:"outputs"`
}

type composerRoom struct {
	Name string `json:"name"`
}

// ActiveStreamer returns the first started player streamer, or nil when
// none is running. Only one livestream is assumed at a time; extra started
// streamers are ignored.
func (s *Service) ActiveStreamer(ctx context.Context) (*twilio.PlayerStreamer, error) {
	streamers, err := s.provider.ListPlayerStreamers(ctx, twilio.StatusStarted)
	if err != nil {
		return nil, fmt.Errorf("failed to list started streamers: %w", err)
	}
	if len(streamers) == 0 {
		return nil, nil
	}
	return &streamers[0], nil
}

// StreamingStatus renders the homepage banner text.
func (s *Service) StreamingStatus(ctx context.Context) (string, error) {
	streamer, err := s.ActiveStreamer(ctx)
	if err != nil {
		return "", err
	}
	if streamer == nil {
		return StatusNotStreaming, nil
	}
	return StatusStreaming, nil
}

// StartStream creates a player streamer and a composer media processor
// that feeds it from the room. It does nothing when a streamer is already
// started. When a Locker is configured and another caller holds the start
// lock, it also does nothing.
func (s *Service) StartStream(ctx context.Context) error {
	l := logging.Ctx(ctx)

	if s.locker != nil {
		token, ok, err := s.locker.Acquire(ctx, startLockName, s.cfg.LockTTL)
		if err != nil {
			return err
		}
		if !ok {
			l.Info().Msg("another start is in progress, skipping")
			return nil
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), startLockName, token); err != nil {
				l.Warn().Err(err).Msg("failed to release start lock")
			}
		}()
	}

	active, err := s.ActiveStreamer(ctx)
	if err != nil {
		return err
	}
	if active != nil {
		l.Debug().Str("player_streamer_sid", active.SID).Msg("livestream already running")
		return nil
	}

	streamer, err := s.provider.CreatePlayerStreamer(ctx)
	if err != nil {
		return fmt.Errorf("failed to create player streamer: %w", err)
	}

	extCtx, err := json.Marshal(composerContext{
		Room:     composerRoom{Name: s.cfg.RoomName},
		Identity: s.cfg.ComposerIdentity,
		Outputs:  []string{streamer.SID},
	})
	if err != nil {
		return fmt.Errorf("failed to encode composer context: %w", err)
	}

	processor, err := s.provider.CreateMediaProcessor(ctx, twilio.CreateMediaProcessorParams{
		Extension:        ComposerExtension,
		ExtensionContext: string(extCtx),
	})
	if err != nil {
		return fmt.Errorf("failed to create media processor: %w", err)
	}

	l.Info().
		Str("media_processor_sid", processor.SID).
		Str("player_streamer_sid", streamer.SID).
		Msg("created livestream")
	return nil
}

// StopStream ends every live resource: streamers that are created or
// started and processors that are started. All three listings are taken
// before any update. The first failed update aborts the sweep.
func (s *Service) StopStream(ctx context.Context) error {
	created, err := s.provider.ListPlayerStreamers(ctx, twilio.StatusCreated)
	if err != nil {
		return fmt.Errorf("failed to list created streamers: %w", err)
	}
	started, err := s.provider.ListPlayerStreamers(ctx, twilio.StatusStarted)
	if err != nil {
		return fmt.Errorf("failed to list started streamers: %w", err)
	}
	processors, err := s.provider.ListMediaProcessors(ctx, twilio.StatusStarted)
	if err != nil {
		return fmt.Errorf("failed to list started processors: %w", err)
	}

	for _, group := range [][]twilio.PlayerStreamer{created, started} {
		for _, streamer := range group {
			if _, err := s.provider.UpdatePlayerStreamer(ctx, streamer.SID, twilio.StatusEnded); err != nil {
				return fmt.Errorf("failed to end player streamer %s: %w", streamer.SID, err)
			}
		}
	}
	for _, processor := range processors {
		if _, err := s.provider.UpdateMediaProcessor(ctx, processor.SID, twilio.StatusEnded); err != nil {
			return fmt.Errorf("failed to end media processor %s: %w", processor.SID, err)
		}
	}

	l := logging.Ctx(ctx)
	l.Info().
		Int("player_streamers", len(created)+len(started)).
		Int("media_processors", len(processors)).
		Msg("stopped all resources")
	return nil
}
