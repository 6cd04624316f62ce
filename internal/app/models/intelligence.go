package models

// Intelligence level labels by score band.
const (
	LevelGenius   = "Genius"
	LevelExpert   = "Expert"
	LevelSmart    = "Smart"
	LevelLearning = "Learning"
	LevelNovice   = "Novice"
)

// IntelligenceScore is the 0-100 composite engagement metric plus the raw
// counts it was derived from.
type IntelligenceScore struct {
	Score     int    `json:"score"`
	Level     string `json:"level"`
	Behaviors int64  `json:"behaviors"`
	Feedbacks int64  `json:"feedbacks"`
	Insights  int64  `json:"insights"`
}

// EngagementCounts are the per-user collection counts feeding the score.
type EngagementCounts struct {
	Behaviors int64
	Feedbacks int64
	Insights  int64
}
