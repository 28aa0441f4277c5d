// Package twilio adapts the twilio-go SDK to the parts of the Video and
// Media REST APIs used by the livestream gateway: rooms, participants,
// player streamers, media processors and playback grants.
//
// Results are converted into small value types so callers never handle the
// SDK's pointer-heavy models, and REST errors are mapped to *APIError.
package twilio
