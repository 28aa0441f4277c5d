package twilio

import (
	"context"
	"net/url"

	video "github.com/twilio/twilio-go/rest/video/v1"
)

// FetchRoom looks a room up by SID or unique name. Only in-progress rooms
// resolve by unique name; a missing room yields an error matching ErrNotFound.
func (c *Client) FetchRoom(ctx context.Context, nameOrSID string) (*Room, error) {
	op := "fetch room " + nameOrSID
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	room, err := c.rest.VideoV1.FetchRoom(url.PathEscape(nameOrSID))
	if err != nil {
		return nil, wrapError(op, err)
	}
	return toRoom(room), nil
}

// CreateRoom creates a room. Zero-valued params are left to provider defaults.
func (c *Client) CreateRoom(ctx context.Context, params CreateRoomParams) (*Room, error) {
	op := "create room " + params.UniqueName
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &video.CreateRoomParams{}
	p.SetUniqueName(params.UniqueName)
	if params.MaxParticipants > 0 {
		p.SetMaxParticipants(params.MaxParticipants)
	}
	if params.Type != "" {
		p.SetType(string(params.Type))
	}

	room, err := c.rest.VideoV1.CreateRoom(p)
	if err != nil {
		return nil, wrapError(op, err)
	}
	return toRoom(room), nil
}

// ListParticipants lists the participants of a room, optionally filtered
// by status. Every page is read.
func (c *Client) ListParticipants(ctx context.Context, roomSID string, status ParticipantStatus) ([]Participant, error) {
	op := "list participants of " + roomSID
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &video.ListRoomParticipantParams{}
	if status != "" {
		p.SetStatus(string(status))
	}

	records, err := c.rest.VideoV1.ListRoomParticipant(url.PathEscape(roomSID), p)
	if err != nil {
		return nil, wrapError(op, err)
	}

	participants := make([]Participant, 0, len(records))
	for _, r := range records {
		participants = append(participants, Participant{
			SID:      deref(r.Sid),
			RoomSID:  deref(r.RoomSid),
			Identity: deref(r.Identity),
			Status:   ParticipantStatus(deref(r.Status)),
		})
	}
	return participants, nil
}

func toRoom(r *video.VideoV1Room) *Room {
	return &Room{
		SID:             deref(r.Sid),
		UniqueName:      deref(r.UniqueName),
		Status:          deref(r.Status),
		Type:            RoomType(deref(r.Type)),
		MaxParticipants: deref(r.MaxParticipants),
		URL:             deref(r.Url),
	}
}
