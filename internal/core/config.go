package core

// RuntimeConfig is passed to games at reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Frames per second driven by the platform
	Seed     int64 // RNG seed; 0 lets the platform pick one
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score    int
	Stage    int
	Phase    string
	GameOver bool // Run ended: final stage won or stage lost
	Paused   bool
}

// StageOutcome describes a finished stage.
type StageOutcome struct {
	Stage   int
	Won     bool
	Ticks   uint64
	Cleared int // Pixels removed during the stage
}

// StepResult is returned by Game.Step after each frame.
type StepResult struct {
	State    GameState
	Outcomes []StageOutcome // Stages that ended during this frame
}
