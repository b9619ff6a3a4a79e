package model

// APIResponse is the wire envelope of every endpoint. Token is set only by
// login; Error carries the verbatim underlying message on the few paths
// that surface it.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Token   string `json:"token,omitempty"`
	Error   string `json:"error,omitempty"`
}
