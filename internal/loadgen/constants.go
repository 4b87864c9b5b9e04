package loadgen

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	percentageMultiplier = 100
	minPlayers           = 2
)
