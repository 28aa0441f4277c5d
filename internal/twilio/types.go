package twilio

import "encoding/json"

// Status is the lifecycle state shared by player streamers and media processors.
type Status string

const (
	StatusCreated Status = "created"
	StatusStarted Status = "started"
	StatusEnded   Status = "ended"
)

// RoomType selects the provider's room topology.
type RoomType string

const (
	RoomTypeGroup RoomType = "group"
	RoomTypeGo    RoomType = "go"
	RoomTypeP2P   RoomType = "peer-to-peer"
)

type ParticipantStatus string

const (
	ParticipantConnected    ParticipantStatus = "connected"
	ParticipantDisconnected ParticipantStatus = "disconnected"
)

type Room struct {
	SID             string
	UniqueName      string
	Status          string
	Type            RoomType
	MaxParticipants int
	URL             string
}

type Participant struct {
	SID      string
	RoomSID  string
	Identity string
	Status   ParticipantStatus
}

type PlayerStreamer struct {
	SID    string
	Status Status
	Video  bool
	URL    string
}

type MediaProcessor struct {
	SID              string
	Status           Status
	Extension        string
	ExtensionContext string
	URL              string
}

// PlaybackGrant is a one-time grant minted for a single player streamer.
// Grant is opaque and is embedded as-is into an access token. It is nil
// when the provider returned no grant.
type PlaybackGrant struct {
	SID   string
	URL   string
	Grant json.RawMessage
}

type CreateRoomParams struct {
	UniqueName      string
	MaxParticipants int
	Type            RoomType
}

type CreateMediaProcessorParams struct {
	Extension        string
	ExtensionContext string
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
