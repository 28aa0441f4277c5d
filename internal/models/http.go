package models

const (
	MessageSuccess      = "success"
	MessageNotStreaming = "The stream is not in progress"
)

// TokenRequest is the body of POST /token. Identity is not validated.
type TokenRequest struct {
	Identity string `json:"identity"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// StreamTokenResponse carries a null token when no stream is in progress.
type StreamTokenResponse struct {
	Token   *string `json:"token"`
	Message string  `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
