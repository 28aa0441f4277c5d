package livestream

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/mossy-p/livestream-gateway/internal/accesstoken"
)

// ErrEmptyGrant is returned when the provider answers a playback grant
// request without a grant.
var ErrEmptyGrant = errors.New("provider returned an empty playback grant")

// RoomToken mints a token that lets identity join the configured room.
// identity is passed through unchecked; the room enforces its own cap.
func (s *Service) RoomToken(identity string) (string, error) {
	token, err := s.signer.Sign(accesstoken.Grants{
		Identity: identity,
		Video:    &accesstoken.VideoGrant{Room: s.cfg.RoomName},
	})
	if err != nil {
		return "", fmt.Errorf("failed to mint room token: %w", err)
	}
	return token, nil
}

// StreamToken mints an anonymous playback token for the active streamer.
// ok is false, with an empty token and nil error, when no stream is running.
func (s *Service) StreamToken(ctx context.Context) (token string, ok bool, err error) {
	streamer, err := s.ActiveStreamer(ctx)
	if err != nil {
		return "", false, err
	}
	if streamer == nil {
		return "", false, nil
	}

	grant, err := s.provider.CreatePlaybackGrant(ctx, streamer.SID)
	if err != nil {
		return "", false, fmt.Errorf("failed to create playback grant: %w", err)
	}
	if g := bytes.TrimSpace(grant.Grant); len(g) == 0 || bytes.Equal(g, []byte("null")) {
		return "", false, fmt.Errorf("streamer %s: %w", streamer.SID, ErrEmptyGrant)
	}

	token, err = s.signer.Sign(accesstoken.Grants{Player: grant.Grant})
	if err != nil {
		return "", false, fmt.Errorf("failed to mint playback token: %w", err)
	}
	return token, true, nil
}
