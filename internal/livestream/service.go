// Package livestream implements the gateway operations: bootstrapping the
// shared video room, minting room and playback tokens, and starting and
// stopping the composer pipeline that feeds the livestream.
//
// The provider is the only source of truth. Nothing here remembers which
// streamer or processor it created; every call rediscovers state through
// listings.
package livestream

import (
	"context"
	"time"

	"github.com/mossy-p/livestream-gateway/internal/accesstoken"
	"github.com/mossy-p/livestream-gateway/internal/twilio"
)

const (
	// ComposerExtension is the media extension that joins a room and
	// relays its audio and video into a player streamer.
	ComposerExtension = "video-composer-v1"

	DefaultComposerIdentity = "livestreamer"

	startLockName  = "start-stream"
	defaultLockTTL = 30 * time.Second
)

// Provider is the subset of the video/media API the service depends on.
// *twilio.Client satisfies it.
type Provider interface {
	FetchRoom(ctx context.Context, nameOrSID string) (*twilio.Room, error)
	CreateRoom(ctx context.Context, params twilio.CreateRoomParams) (*twilio.Room, error)
	ListParticipants(ctx context.Context, roomSID string, status twilio.ParticipantStatus) ([]twilio.Participant, error)

	ListPlayerStreamers(ctx context.Context, status twilio.Status) ([]twilio.PlayerStreamer, error)
	CreatePlayerStreamer(ctx context.Context) (*twilio.PlayerStreamer, error)
	UpdatePlayerStreamer(ctx context.Context, sid string, status twilio.Status) (*twilio.PlayerStreamer, error)
	CreatePlaybackGrant(ctx context.Context, streamerSID string) (*twilio.PlaybackGrant, error)

	ListMediaProcessors(ctx context.Context, status twilio.Status) ([]twilio.MediaProcessor, error)
	CreateMediaProcessor(ctx context.Context, params twilio.CreateMediaProcessorParams) (*twilio.MediaProcessor, error)
	UpdateMediaProcessor(ctx context.Context, sid string, status twilio.Status) (*twilio.MediaProcessor, error)
}

// TokenSigner mints serialized access tokens. *accesstoken.Signer satisfies it.
type TokenSigner interface {
	Sign(grants accesstoken.Grants) (string, error)
}

// Locker is an advisory lock used to serialise StartStream across
// processes. *redis.Client satisfies it.
type Locker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, name, token string) error
}

// Config names the shared room and tunes the composer pipeline.
type Config struct {
	RoomName         string
	MaxParticipants  int
	ComposerIdentity string
	LockTTL          time.Duration
}

// Service is safe for concurrent use as long as its Provider is.
type Service struct {
	provider Provider
	signer   TokenSigner
	locker   Locker
	cfg      Config
}

// Option customises a Service at construction.
type Option func(*Service)

// WithLocker makes StartStream take an advisory lock before its
// find-or-create sequence. Without it, two concurrent starts may each
// create a streamer.
func WithLocker(l Locker) Option {
	return func(s *Service) {
		s.locker = l
	}
}

// NewService builds a Service. An empty ComposerIdentity or non-positive
// LockTTL falls back to the package defaults.
func NewService(provider Provider, signer TokenSigner, cfg Config, opts ...Option) *Service {
	if cfg.ComposerIdentity == "" {
		cfg.ComposerIdentity = DefaultComposerIdentity
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = defaultLockTTL
	}

	s := &Service{
		provider: provider,
		signer:   signer,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RoomName returns the unique name of the room this service manages.
func (s *Service) RoomName() string {
	return s.cfg.RoomName
}
