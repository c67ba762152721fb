package progress

// Tier buckets a progress percentage.
type Tier int

const (
	TierStarting Tier = iota
	TierBuilding
	TierHalfway
	TierFinishing
)

var tierNames = map[Tier]string{
	TierStarting:  "starting",
	TierBuilding:  "building",
	TierHalfway:   "halfway",
	TierFinishing: "finishing",
}

func (t Tier) String() string {
	return tierNames[t]
}

func TierFor(progress int) Tier {
	switch {
	case progress >= 80:
		return TierFinishing
	case progress >= 50:
		return TierHalfway
	case progress >= 25:
		return TierBuilding
	default:
		return TierStarting
	}
}

var tips = map[Tier][]string{
	TierFinishing: {
		"🎉 Great progress! Focus on revision now",
		"📝 Take practice tests to boost confidence",
		"💪 Keep up the momentum!",
	},
	TierHalfway: {
		"🔥 Halfway there! Maintain your pace",
		"📚 Review what you've learned daily",
		"⏰ Don't forget to rest before the exam",
	},
	TierBuilding: {
		"💪 Good start! Try to increase study time",
		"🎯 Focus on high-priority subjects",
		"📅 Consider adjusting your schedule",
	},
	TierStarting: {
		"🚀 Start strong! Every minute counts",
		"📖 Break topics into smaller chunks",
		"⏱️ Use Pomodoro to stay focused",
	},
}

// Tips returns three pieces of advice for the given progress percentage.
// daysUntilExam is accepted for exam-proximity messaging but does not yet
// change the advice.
func Tips(progress int, daysUntilExam *int) []string {
	src := tips[TierFor(progress)]
	out := make([]string, len(src))
	copy(out, src)
	return out
}
