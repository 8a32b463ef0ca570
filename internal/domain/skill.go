package domain

import "context"

// Skill is an entry in the shared skill dictionary. Names are unique and case-sensitive.
type Skill struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SkillRepository interface {
	List(ctx context.Context) ([]Skill, error)
	ForUser(ctx context.Context, userID int64) ([]string, error)
	// AddToUser links name to the user, creating the dictionary entry when missing.
	AddToUser(ctx context.Context, userID int64, name string) error
}

type SkillUsecase interface {
	ListSkills(ctx context.Context) ([]Skill, error)
}
