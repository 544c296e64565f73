package game

const (
	DefaultGravity             = float32(-20)
	DefaultTerminalVelocity    = float32(-50)
	DefaultGroundingDistance   = float32(0.5)
	DefaultGroundingMultiplier = float32(3)
	DefaultMaxGravityDelta     = float32(10)

	DefaultPredictionSteps    = 60
	DefaultPredictionStepTime = float32(1.0 / 60.0)

	DefaultCharacterRadius = float32(0.3)
	DefaultCharacterHeight = float32(1.8)
	DefaultSkinWidth       = float32(0.08)
	DefaultPushStrength    = float32(0.1)

	DefaultStationaryTurnThreshold = float32(90)
	DefaultMovingTurnThreshold     = float32(140)
	DefaultTurnMagnitudeTolerance  = float32(0.25)
	DefaultTurnHistorySize         = 5
	DefaultMaxTurnSpeed            = float32(540)
	DefaultAirborneTurnScale       = float32(0.5)
	DefaultEasingSpeed             = float32(360)
	DefaultEasingDuration          = float32(0.25)
	DefaultTurnSpeedSmoothing      = float32(10)

	DefaultSpeedWindow          = 5
	DefaultStrafeAlignTolerance = float32(5)
	DefaultWalkScale            = float32(0.6)
	DefaultMaxGroundSpeed       = float32(6)

	// StationarySpeedEpsilon is the normalized forward speed under which a character counts as
	// standing still.
	StationarySpeedEpsilon = float32(1e-3)
)
