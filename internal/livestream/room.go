package livestream

import (
	"context"
	"errors"
	"fmt"

	"github.com/mossy-p/livestream-gateway/internal/logging"
	"github.com/mossy-p/livestream-gateway/internal/twilio"
)

// RoomInfo is the room the gateway serves plus its connected head count.
type RoomInfo struct {
	Room         *twilio.Room
	Participants int
	Created      bool
}

// EnsureRoom fetches the configured room by unique name and creates it as a
// group room when the provider reports it missing. Any other fetch failure
// is returned unchanged. Safe to call on every page load.
func (s *Service) EnsureRoom(ctx context.Context) (*RoomInfo, error) {
	l := logging.Ctx(ctx)
	info := &RoomInfo{}

	room, err := s.provider.FetchRoom(ctx, s.cfg.RoomName)
	switch {
	case err == nil:
	case errors.Is(err, twilio.ErrNotFound):
		room, err = s.provider.CreateRoom(ctx, twilio.CreateRoomParams{
			UniqueName:      s.cfg.RoomName,
			MaxParticipants: s.cfg.MaxParticipants,
			Type:            twilio.RoomTypeGroup,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}
		info.Created = true
		l.Info().Str("room_sid", room.SID).Str("room", room.UniqueName).Msg("created video room")
	default:
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	info.Room = room

	participants, err := s.provider.ListParticipants(ctx, room.SID, twilio.ParticipantConnected)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	info.Participants = len(participants)

	l.Info().
		Str("room", room.UniqueName).
		Int("participants", info.Participants).
		Msgf("%s has %d participants in it", room.UniqueName, info.Participants)

	return info, nil
}
