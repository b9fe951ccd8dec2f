package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/jsonviz/pkg/errors"
	"github.com/matzehuels/jsonviz/pkg/observability"
	"github.com/matzehuels/jsonviz/pkg/scene"
	"github.com/matzehuels/jsonviz/pkg/value"
)

// Message types exchanged with the view.
const (
	// Inbound
	TypeReady       = "ready"
	TypeSetJSON     = "set-json" // also outbound, echoing the document
	TypeSetText     = "set-text"
	TypePatchJSON   = "patch-json"
	TypeToggle      = "toggle"
	TypeExpandAll   = "expand-all"
	TypeCollapseAll = "collapse-all"
	TypeExpandWhere = "expand-where"
	TypeViewport    = "viewport"
	TypeFit         = "fit"

	// Outbound
	TypeUpdate = "update"
	TypeError  = "error"
)

// Message is one host or view message. Only the fields of its Type are set.
type Message struct {
	Type string `json:"type"`

	// set-json (both directions) and patch-json
	Payload json.RawMessage `json:"payload,omitempty"`
	// set-text
	Text string `json:"text,omitempty"`
	// toggle
	Path string `json:"path,omitempty"`
	// expand-where
	Expr string `json:"expr,omitempty"`
	// ready
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	// viewport
	Transform *scene.Transform `json:"transform,omitempty"`

	// update
	SVG     string       `json:"svg,omitempty"`
	Scene   *scene.Scene `json:"scene,omitempty"`
	Matched *int         `json:"matched,omitempty"`
	Error   string       `json:"error,omitempty"`

	// error
	Code    errors.Code `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ParseMessage decodes a message received from the view.
func ParseMessage(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, errors.Wrap(errors.ErrCodeInvalidMessage, err, "malformed message")
	}
	if m.Type == "" {
		return Message{}, errors.New(errors.ErrCodeInvalidMessage, "message type is required")
	}
	return m, nil
}

// ErrorMessage returns the outbound message reporting err.
func ErrorMessage(err error) Message {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return Message{Type: TypeError, Code: code, Message: errors.UserMessage(err)}
}

// Handle applies an inbound message and returns the messages to send back.
//
// Validation failures (bad paths, expressions, patches) are answered with an
// error message and also returned. A malformed document in set-json or
// set-text is not a failure of the message: the placeholder is drawn and the
// update carries the parse error.
func (s *Session) Handle(ctx context.Context, m Message) ([]Message, error) {
	start := time.Now()
	out, err := s.handle(ctx, m)
	observability.Session().OnMessage(ctx, s.ID, m.Type, time.Since(start), err)
	if err != nil {
		s.logger.Debug("message rejected", "type", m.Type, "error", err)
		return []Message{ErrorMessage(err)}, err
	}
	return out, nil
}

func (s *Session) handle(ctx context.Context, m Message) ([]Message, error) {
	var matched *int

	switch m.Type {
	case TypeReady:
		if err := s.Resize(ctx, m.Width, m.Height); err != nil {
			return nil, err
		}
		echo, err := s.documentMessage()
		if err != nil {
			return nil, err
		}
		update, err := s.Update()
		if err != nil {
			return nil, err
		}
		return []Message{echo, update}, nil

	case TypeSetJSON:
		v, err := decodePayload(m.Payload)
		if err != nil {
			return nil, err
		}
		if err := s.SetValue(ctx, v); err != nil && !errors.IsValidation(err) {
			return nil, err
		}

	case TypeSetText:
		if err := s.SetText(ctx, m.Text); err != nil && !errors.IsValidation(err) {
			return nil, err
		}

	case TypePatchJSON:
		if err := s.Patch(ctx, m.Payload); err != nil {
			return nil, err
		}

	case TypeToggle:
		if err := s.Toggle(ctx, m.Path); err != nil {
			return nil, err
		}

	case TypeExpandAll:
		if err := s.ExpandAll(ctx); err != nil {
			return nil, err
		}

	case TypeCollapseAll:
		if err := s.CollapseAll(ctx); err != nil {
			return nil, err
		}

	case TypeExpandWhere:
		n, err := s.ExpandWhere(ctx, m.Expr)
		if err != nil {
			return nil, err
		}
		matched = &n

	case TypeViewport:
		if m.Transform == nil {
			return nil, errors.New(errors.ErrCodeInvalidMessage, "viewport message without transform")
		}
		s.SetViewport(*m.Transform)
		return nil, nil

	case TypeFit:
		if err := s.Fit(ctx); err != nil {
			return nil, err
		}

	default:
		return nil, errors.New(errors.ErrCodeInvalidMessage, "unknown message type %q", m.Type)
	}

	update, err := s.Update()
	if err != nil {
		return nil, err
	}
	update.Matched = matched
	return []Message{update}, nil
}

// Update returns an update message for the current scene.
func (s *Session) Update() (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	svg, err := s.svg()
	if err != nil {
		return Message{}, err
	}
	m := Message{Type: TypeUpdate, SVG: string(svg), Scene: s.scene}
	if s.err != nil {
		m.Error = errors.UserMessage(s.err)
	}
	return m, nil
}

// documentMessage returns the set-json echo of the current document. The
// payload is null when no valid document is loaded.
func (s *Session) documentMessage() (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := json.RawMessage("null")
	if s.raw != nil {
		data, err := value.MarshalJSON(s.raw)
		if err != nil {
			return Message{}, err
		}
		payload = data
	}
	return Message{Type: TypeSetJSON, Payload: payload}, nil
}

func decodePayload(p json.RawMessage) (any, error) {
	if len(p) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidMessage, "set-json message without payload")
	}
	return value.DecodeJSON(p)
}
