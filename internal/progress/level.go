package progress

// XPPerLevel is the experience needed to advance one level.
const XPPerLevel = 100

// LevelFor returns the level for an experience total:
// floor(experience / XPPerLevel) + 1. Negative experience counts as zero.
func LevelFor(experience int) int {
	return max(experience, 0)/XPPerLevel + 1
}

// Credit applies a positive score delta to a profile. Non-positive deltas
// return the profile unchanged, with changed=false.
func Credit(p Profile, delta int) (ProfileUpdate, bool) {
	if delta <= 0 {
		return ProfileUpdate{TotalScore: p.TotalScore, Experience: p.Experience, Level: LevelFor(p.Experience)}, false
	}
	xp := p.Experience + delta
	return ProfileUpdate{
		TotalScore: p.TotalScore + delta,
		Experience: xp,
		Level:      LevelFor(xp),
	}, true
}

// LevelProgress describes where a profile sits within its current level.
type LevelProgress struct {
	Level   int
	IntoXP  int     // experience earned inside the current level
	NeedXP  int     // experience still needed for the next level
	Percent float64 // 0.0 at the start of the level, approaching 1.0
}

// ProgressFor computes display-ready level progress for an experience total.
func ProgressFor(experience int) LevelProgress {
	xp := max(experience, 0)
	into := xp % XPPerLevel
	return LevelProgress{
		Level:   LevelFor(xp),
		IntoXP:  into,
		NeedXP:  XPPerLevel - into,
		Percent: float64(into) / float64(XPPerLevel),
	}
}
