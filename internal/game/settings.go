package game

// Settings are the host-tunable match options. Timer durations are in
// seconds to match the wire contract.
type Settings struct {
	GameTimerEnabled bool `json:"gameTimerEnabled"`
	GameTimeSeconds  int  `json:"gameTimeSeconds"`
	TurnTimerEnabled bool `json:"turnTimerEnabled"`
	TurnTimeSeconds  int  `json:"turnTimeSeconds"`
}

// DefaultSettings mirrors the stock match configuration: a five minute
// game clock and ten seconds per turn, both enabled.
func DefaultSettings() Settings {
	return Settings{
		GameTimerEnabled: true,
		GameTimeSeconds:  300,
		TurnTimerEnabled: true,
		TurnTimeSeconds:  10,
	}
}

// SettingsPatch is a shallow merge into Settings; nil fields are left
// untouched.
type SettingsPatch struct {
	GameTimerEnabled *bool `json:"gameTimerEnabled,omitempty"`
	GameTimeSeconds  *int  `json:"gameTimeSeconds,omitempty"`
	TurnTimerEnabled *bool `json:"turnTimerEnabled,omitempty"`
	TurnTimeSeconds  *int  `json:"turnTimeSeconds,omitempty"`
}

func (s *Settings) apply(patch SettingsPatch) {
	if patch.GameTimerEnabled != nil {
		s.GameTimerEnabled = *patch.GameTimerEnabled
	}
	if patch.GameTimeSeconds != nil {
		s.GameTimeSeconds = *patch.GameTimeSeconds
	}
	if patch.TurnTimerEnabled != nil {
		s.TurnTimerEnabled = *patch.TurnTimerEnabled
	}
	if patch.TurnTimeSeconds != nil {
		s.TurnTimeSeconds = *patch.TurnTimeSeconds
	}
}
