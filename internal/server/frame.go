package server

// Frame types.
const (
	// FrameCommand carries a line of user input to the server.
	FrameCommand = "command"
	// FrameMessage carries a rendered response to the user.
	FrameMessage = "message"
	// FrameError reports a malformed frame.
	FrameError = "error"
	FramePing  = "ping"
	FramePong  = "pong"
)

// Frame is the JSON envelope exchanged over the websocket, e.g.
//
//	{"type":"command","text":"/roll 20"}
//	{"type":"message","text":"alice rolled 17 (total 17).","color":"info"}
type Frame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Color string `json:"color,omitempty"`
}
