package models

import "time"

// DefaultChildName is the Persian placeholder name given to a child
// profile created without one.
const DefaultChildName = "کودک"

// Achievement types tracked per child. Every child gets one zero-count row
// per type at creation; counts only ever move by relative increments.
const (
	AchievementStars           = "stars"
	AchievementRegularBrushing = "regularBrushing"
	AchievementDiamonds        = "diamonds"
	AchievementCleanedAreas    = "cleanedAreas"
	AchievementHealthySnacks   = "healthySnacks"
)

// AchievementTypes lists all achievement types in their initialization order.
var AchievementTypes = []string{
	AchievementStars,
	AchievementRegularBrushing,
	AchievementDiamonds,
	AchievementCleanedAreas,
	AchievementHealthySnacks,
}

// Child is a child profile owned by a parent user. Age zero and empty
// gender/avatar mean the field was never filled in.
type Child struct {
	ID        int64  `json:"id"`
	ParentID  int64  `json:"parent_id"`
	Name      string `json:"name"`
	Age       int    `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Achievement is one counter for one child. Exactly one row exists per
// (child, type) pair.
type Achievement struct {
	ID          int64     `json:"id"`
	ChildID     int64     `json:"child_id"`
	Type        string    `json:"type"`
	Count       int       `json:"count"`
	LastUpdated time.Time `json:"last_updated"`
}

// GameScore holds the latest score for one child in one mini-game.
type GameScore struct {
	ID        int64     `json:"id"`
	ChildID   int64     `json:"child_id"`
	GameType  string    `json:"game_type"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VideoProgress tracks how far a child has watched one educational video.
type VideoProgress struct {
	ID          int64     `json:"id"`
	ChildID     int64     `json:"child_id"`
	VideoID     string    `json:"video_id"`
	Progress    float64   `json:"progress"`
	Completed   bool      `json:"completed"`
	LastWatched time.Time `json:"last_watched"`
}
