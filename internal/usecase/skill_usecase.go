package usecase

import (
	"context"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
)

type skillUsecase struct {
	skillRepo domain.SkillRepository
}

func NewSkillUsecase(skillRepo domain.SkillRepository) domain.SkillUsecase {
	return &skillUsecase{skillRepo: skillRepo}
}

func (uc *skillUsecase) ListSkills(ctx context.Context) ([]domain.Skill, error) {
	skills, err := uc.skillRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return skills, nil
}
