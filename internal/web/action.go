package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"

	"github.com/jaminalder/undo-tic-tac-toe/internal/domain"
)

var errBadPayload = errors.New("bad payload")

// actionRequest is the wire form of an action. Payload shape depends on
// Type: a cell index (or {"position": n}) for moves, {"winner": n} for FINISH.
type actionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type movePayload struct {
	Position int `mapstructure:"position"`
}

type finishPayload struct {
	Winner int `mapstructure:"winner"`
}

func decodeAction(body io.Reader) (domain.Action, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var req actionRequest
	if err := dec.Decode(&req); err != nil {
		return domain.Action{}, fmt.Errorf("invalid json: %w", err)
	}
	typ, err := domain.ParseActionType(req.Type)
	if err != nil {
		return domain.Action{}, err
	}
	a := domain.Action{Type: typ}
	switch typ {
	case domain.PlayX, domain.PlayO:
		var p movePayload
		if n, ok := req.Payload.(json.Number); ok {
			err = decodePayload(n, &p.Position)
		} else {
			err = decodePayload(req.Payload, &p)
		}
		if err != nil {
			return domain.Action{}, err
		}
		a.Position = p.Position
	case domain.Finish:
		var p finishPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return domain.Action{}, err
		}
		if p.Winner < int(domain.O) || p.Winner > int(domain.X) {
			return domain.Action{}, fmt.Errorf("%w: winner %d", errBadPayload, p.Winner)
		}
		a.Winner = domain.Cell(p.Winner)
	}
	return a, nil
}

func decodePayload(in, out any) error {
	if in == nil {
		return fmt.Errorf("%w: missing", errBadPayload)
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		ErrorUnset:  true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}
