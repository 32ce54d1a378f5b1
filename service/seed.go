package service

import (
	"context"
	"errors"

	"roadside/pkg/apperr"
	"roadside/pkg/logger"
	"roadside/pkg/models"
)

// DemoPassword is shared by every demo account.
const DemoPassword = "123456"

var demoUsers = []models.NewUser{
	{Name: "Gerente", Email: "gerente@exemplo.com", Role: models.RoleManager},
	{Name: "Mecânico 1", Email: "mecanico1@exemplo.com", Role: models.RoleMechanic},
	{Name: "Mecânico 2", Email: "mecanico2@exemplo.com", Role: models.RoleMechanic},
	{Name: "Condutor 1", Email: "condutor1@exemplo.com", Role: models.RoleDriver},
	{Name: "Condutor 2", Email: "condutor2@exemplo.com", Role: models.RoleDriver},
}

func (s *service) Seed(ctx context.Context) error {
	for _, pt := range models.DefaultProblemTypes {
		pt := pt
		if err := s.stg.ProblemType().Upsert(ctx, &pt); err != nil {
			return err
		}
	}

	created := 0
	for _, in := range demoUsers {
		_, err := s.stg.User().GetByEmail(ctx, in.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		in.Password = DemoPassword
		if _, err := createUser(ctx, s.stg, s.log, s.now(), in); err != nil {
			return err
		}
		created++
	}

	s.log.Info("seed finished", logger.Int("users_created", created))
	return nil
}
