package twilio

import (
	"context"
	"encoding/json"

	media "github.com/twilio/twilio-go/rest/media/v1"
)

// ListPlayerStreamers lists player streamers, optionally filtered by status.
func (c *Client) ListPlayerStreamers(ctx context.Context, status Status) ([]PlayerStreamer, error) {
	const op = "list player streamers"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &media.ListPlayerStreamerParams{}
	if status != "" {
		p.SetStatus(string(status))
	}

	records, err := c.rest.MediaV1.ListPlayerStreamer(p)
	if err != nil {
		return nil, wrapError(op, err)
	}

	streamers := make([]PlayerStreamer, 0, len(records))
	for i := range records {
		streamers = append(streamers, *toPlayerStreamer(&records[i]))
	}
	return streamers, nil
}

// CreatePlayerStreamer creates a video player streamer in the created state.
func (c *Client) CreatePlayerStreamer(ctx context.Context) (*PlayerStreamer, error) {
	const op = "create player streamer"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	streamer, err := c.rest.MediaV1.CreatePlayerStreamer(&media.CreatePlayerStreamerParams{})
	if err != nil {
		return nil, wrapError(op, err)
	}
	return toPlayerStreamer(streamer), nil
}

// UpdatePlayerStreamer moves a streamer to status. Only StatusEnded is
// accepted by the provider.
func (c *Client) UpdatePlayerStreamer(ctx context.Context, sid string, status Status) (*PlayerStreamer, error) {
	op := "update player streamer " + sid
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &media.UpdatePlayerStreamerParams{}
	p.SetStatus(string(status))

	streamer, err := c.rest.MediaV1.UpdatePlayerStreamer(sid, p)
	if err != nil {
		return nil, wrapError(op, err)
	}
	return toPlayerStreamer(streamer), nil
}

// CreatePlaybackGrant mints a single-use playback grant for a streamer.
func (c *Client) CreatePlaybackGrant(ctx context.Context, streamerSID string) (*PlaybackGrant, error) {
	op := "create playback grant for " + streamerSID
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	resp, err := c.rest.MediaV1.CreatePlayerStreamerPlaybackGrant(streamerSID, &media.CreatePlayerStreamerPlaybackGrantParams{})
	if err != nil {
		return nil, wrapError(op, err)
	}

	grant := &PlaybackGrant{SID: deref(resp.Sid), URL: deref(resp.Url)}
	if resp.Grant != nil && *resp.Grant != nil {
		raw, err := json.Marshal(*resp.Grant)
		if err != nil {
			return nil, wrapError(op, err)
		}
		grant.Grant = raw
	}
	return grant, nil
}

// ListMediaProcessors lists media processors, optionally filtered by status.
func (c *Client) ListMediaProcessors(ctx context.Context, status Status) ([]MediaProcessor, error) {
	const op = "list media processors"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &media.ListMediaProcessorParams{}
	if status != "" {
		p.SetStatus(string(status))
	}

	records, err := c.rest.MediaV1.ListMediaProcessor(p)
	if err != nil {
		return nil, wrapError(op, err)
	}

	processors := make([]MediaProcessor, 0, len(records))
	for i := range records {
		processors = append(processors, *toMediaProcessor(&records[i]))
	}
	return processors, nil
}

// CreateMediaProcessor starts a media extension with the given context.
func (c *Client) CreateMediaProcessor(ctx context.Context, params CreateMediaProcessorParams) (*MediaProcessor, error) {
	const op = "create media processor"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &media.CreateMediaProcessorParams{}
	p.SetExtension(params.Extension)
	p.SetExtensionContext(params.ExtensionContext)

	processor, err := c.rest.MediaV1.CreateMediaProcessor(p)
	if err != nil {
		return nil, wrapError(op, err)
	}
	return toMediaProcessor(processor), nil
}

// UpdateMediaProcessor moves a processor to status. Only StatusEnded is
// accepted by the provider.
func (c *Client) UpdateMediaProcessor(ctx context.Context, sid string, status Status) (*MediaProcessor, error) {
	op := "update media processor " + sid
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	p := &media.UpdateMediaProcessorParams{}
	p.SetStatus(string(status))

	processor, err := c.rest.MediaV1.UpdateMediaProcessor(sid, p)
	if err != nil {
		return nil, wrapError(op, err)
	}
	return toMediaProcessor(processor), nil
}

func toPlayerStreamer(s *media.MediaV1PlayerStreamer) *PlayerStreamer {
	return &PlayerStreamer{
		SID:    deref(s.Sid),
		Status: Status(deref(s.Status)),
		Video:  deref(s.Video),
		URL:    deref(s.Url),
	}
}

func toMediaProcessor(p *media.MediaV1MediaProcessor) *MediaProcessor {
	return &MediaProcessor{
		SID:              deref(p.Sid),
		Status:           Status(deref(p.Status)),
		Extension:        deref(p.Extension),
		ExtensionContext: deref(p.ExtensionContext),
		URL:              deref(p.Url),
	}
}
