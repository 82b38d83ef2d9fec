package api

import (
	"errors"
	"testing"
)

func TestClientCommand_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     ClientCommand
		wantErr bool
	}{
		{"Reset", ClientCommand{Event: EventResetRequest}, false},
		{"Pause", ClientCommand{Event: EventPauseRequest}, false},
		{"Empty", ClientCommand{}, true},
		{"Unknown", ClientCommand{Event: "explode"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if err := (ClientCommand{Event: "explode"}).Validate(); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Expected ErrUnknownCommand, got %v", err)
	}
}

func TestEncounterView_Validate(t *testing.T) {
	ok := EncounterView{Entities: []EntityView{{Name: "A", Type: "PLAYER", Damage: DamageView{Dealt: 1}}}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	bad := EncounterView{Entities: []EntityView{{Name: "Boss", Type: "BOSS", Damage: DamageView{Dealt: 1}}}}
	if err := bad.Validate(); err == nil {
		t.Error("Expected error for boss in entity list")
	}

	if err := (EncounterView{}).Validate(); err == nil {
		t.Error("Expected error for empty view")
	}
}
