package wsbridge

import (
	"encoding/json"

	"github.com/vango-dev/vroute/internal/errors"
)

// FrameType identifies a websocket frame.
type FrameType string

const (
	// FrameLocation (client → server) reports the client's current
	// reference: on connect, and after back/forward navigation.
	FrameLocation FrameType = "location"

	// FrameNavigate (client → server) asks the router to push or replace.
	FrameNavigate FrameType = "navigate"

	// FrameCommit (server → client) tells the client to write its history.
	FrameCommit FrameType = "commit"

	// FrameState (server → client) carries the location and matching
	// routes after every change.
	FrameState FrameType = "state"

	// FrameError (server → client) reports a rejected frame.
	FrameError FrameType = "error"
)

// Frame is the JSON envelope of every message in both directions.
type Frame struct {
	Type FrameType `json:"type"`

	// Value is the reference for location, navigate, commit and state.
	Value string `json:"value,omitempty"`

	// Mode is "push" or "replace" for navigate, the committed mode for
	// commit.
	Mode string `json:"mode,omitempty"`

	// Path, Query and Matches describe the location in state frames.
	Path    string            `json:"path,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Matches []string          `json:"matches,omitempty"`

	// Code and Message describe an error frame.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// DecodeFrame parses a client frame. Only location and navigate frames
// are accepted from clients.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Frame{}, errors.New(errors.CodeInvalidFrame).
			WithDetail("frame is not valid JSON").
			Wrap(err)
	}
	switch f.Type {
	case FrameLocation:
	case FrameNavigate:
		if f.Value == "" {
			return Frame{}, errors.New(errors.CodeInvalidFrame).
				WithDetail("navigate frame without a value")
		}
	default:
		return Frame{}, errors.New(errors.CodeInvalidFrame).
			WithInput(string(f.Type)).
			WithDetail("unknown frame type")
	}
	return f, nil
}

// errorFrame converts err into an error frame.
func errorFrame(err error) Frame {
	f := Frame{Type: FrameError, Message: err.Error()}
	if re, ok := err.(*errors.RouterError); ok {
		f.Code = re.Code
		f.Message = re.Message
		if re.Input != "" {
			f.Message += ": " + re.Input
		}
	}
	return f
}
