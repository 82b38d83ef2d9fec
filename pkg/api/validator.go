package api

import (
	"errors"
	"fmt"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

var ErrUnknownCommand = errors.New("unknown command")

func (c ClientCommand) Validate() error {
	switch c.Event {
	case EventResetRequest, EventPauseRequest:
		return nil
	case "":
		return errors.New("event is required")
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, c.Event)
	}
}

func (v EncounterView) Validate() error {
	if len(v.Entities) == 0 {
		return errors.New("encounter view has no entities")
	}
	for _, e := range v.Entities {
		if e.Type != "PLAYER" && e.Type != "ESTHER" {
			return fmt.Errorf("entity %q has unexpected type %s", e.Name, e.Type)
		}
		if e.Damage.Dealt <= 0 {
			return fmt.Errorf("entity %q has no damage", e.Name)
		}
	}
	return nil
}
