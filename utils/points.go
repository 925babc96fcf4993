package utils

// Point values for a single day's creative work.
const (
	PhotoPoints        = 10
	VideoPoints        = 30
	EditingPoints      = 20
	CompleteDayBonus   = 50
	CompleteDayPhotos  = 3
	GoalDays           = 100
)

type Level string

const (
	LevelSeedling Level = "seedling"
	LevelTarget   Level = "target"
	LevelStar     Level = "star"
	LevelDiamond  Level = "diamond"
	LevelTrophy   Level = "trophy"
)

// Minimum total points for each level. Boundary values belong to the
// higher tier (exactly 500 is target, not seedling).
const (
	TargetMinPoints  = 500
	StarMinPoints    = 1500
	DiamondMinPoints = 3000
	TrophyMinPoints  = 5000
)

var LevelEmojis = map[Level]string{
	LevelSeedling: "🌱",
	LevelTarget:   "🎯",
	LevelStar:     "⭐",
	LevelDiamond:  "💎",
	LevelTrophy:   "🏆",
}

// CalculateDayPoints scores one day of logged activity. A day is complete
// when it has at least 3 photos plus finished video and editing work, which
// earns the completion bonus on top of the per-item points.
// photosCount is not clamped here; callers clamp negatives to zero.
func CalculateDayPoints(photosCount int, videoCompleted, editingCompleted bool) (int, bool) {
	points := photosCount * PhotoPoints
	if videoCompleted {
		points += VideoPoints
	}
	if editingCompleted {
		points += EditingPoints
	}

	isComplete := photosCount >= CompleteDayPhotos && videoCompleted && editingCompleted
	if isComplete {
		points += CompleteDayBonus
	}

	return points, isComplete
}

// LevelFromPoints maps a running point total onto its gamified level.
func LevelFromPoints(points int) Level {
	switch {
	case points >= TrophyMinPoints:
		return LevelTrophy
	case points >= DiamondMinPoints:
		return LevelDiamond
	case points >= StarMinPoints:
		return LevelStar
	case points >= TargetMinPoints:
		return LevelTarget
	default:
		return LevelSeedling
	}
}

// ProgressPercentage converts completed days into percent progress toward
// the 100-day goal, capped at 100.
func ProgressPercentage(completedDays int) int {
	if completedDays > GoalDays {
		return 100
	}
	if completedDays < 0 {
		return 0
	}
	return completedDays * 100 / GoalDays
}
