package repository

import (
	"context"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
)

// ReferenceRepository datos de referencia para factibilidad. El motor solo lee;
// los Upsert los usa el comando de carga inicial.
type ReferenceRepository interface {
	GetTerritory(ctx context.Context, id string) (*entity.Territory, error)
	GetCrew(ctx context.Context, id string) (*entity.Crew, error)
	GetProfile(ctx context.Context, id string) (*entity.TeamProfile, error)
	GetProjectTypeByProduct(ctx context.Context, productType string) (*entity.ProjectType, error)
	ListCoverage(ctx context.Context, assigneeKind, assigneeID string) ([]entity.TerritoryCoverage, error)
	ListSkills(ctx context.Context, assigneeKind, assigneeID string) ([]entity.Skill, error)

	UpsertTerritory(ctx context.Context, t *entity.Territory) error
	UpsertCrew(ctx context.Context, c *entity.Crew) error
	UpsertProfile(ctx context.Context, p *entity.TeamProfile) error
	UpsertProjectType(ctx context.Context, pt *entity.ProjectType) error
	UpsertSkill(ctx context.Context, s *entity.Skill) error
	UpsertCoverage(ctx context.Context, c *entity.TerritoryCoverage) error
}
