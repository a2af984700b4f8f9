package physics

// Simulation constants. Units are pixels and ticks; nothing here is physically calibrated.
const (
	// ContactTolerance is added to the sum of radii when testing ball contact.
	ContactTolerance = 1.0

	DefaultStepBudget         = 100
	DefaultBounceBudget       = 3
	DefaultTargetBounceBudget = 1
	DefaultLookAhead          = 1.0

	// Stick tip modelled as a small striker ball.
	DefaultStickTipRadius = 4.0
	DefaultStrikerStep    = 10.0
)
