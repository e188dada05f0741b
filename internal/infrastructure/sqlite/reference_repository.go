package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo territorios, cuadrillas, perfiles, habilidades y cobertura en SQLite.
type ReferenceRepo struct{ db *gorm.DB }

func NewReferenceRepo(db *gorm.DB) *ReferenceRepo { return &ReferenceRepo{db: db} }

func (r *ReferenceRepo) GetTerritory(ctx context.Context, id string) (*entity.Territory, error) {
	row, err := firstOrNil[territoryRow](ctx, r.db, "id = ?", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.Territory{ID: row.ID, Code: row.Code, Name: row.Name, Active: row.Active}, nil
}

func (r *ReferenceRepo) GetCrew(ctx context.Context, id string) (*entity.Crew, error) {
	row, err := firstOrNil[crewRow](ctx, r.db, "id = ?", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.Crew{
		ID:            row.ID,
		Name:          row.Name,
		LeadProfileID: row.LeadProfileID,
		MaxDailyLF:    row.MaxDailyLF,
		Active:        row.Active,
	}, nil
}

func (r *ReferenceRepo) GetProfile(ctx context.Context, id string) (*entity.TeamProfile, error) {
	row, err := firstOrNil[profileRow](ctx, r.db, "id = ?", id)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.TeamProfile{
		ID:                  row.ID,
		Name:                row.Name,
		Email:               row.Email,
		Role:                row.Role,
		MaxDailyAssessments: row.MaxDailyAssessments,
		Active:              row.Active,
	}, nil
}

func (r *ReferenceRepo) GetProjectTypeByProduct(ctx context.Context, productType string) (*entity.ProjectType, error) {
	row, err := firstOrNil[projectTypeRow](ctx, r.db, "product_type = ?", productType)
	if err != nil || row == nil {
		return nil, err
	}
	return &entity.ProjectType{ID: row.ID, Name: row.Name, ProductType: row.ProductType}, nil
}

func (r *ReferenceRepo) ListCoverage(ctx context.Context, assigneeKind, assigneeID string) ([]entity.TerritoryCoverage, error) {
	var rows []coverageRow
	err := r.db.WithContext(ctx).Where("assignee_kind = ? AND assignee_id = ?", assigneeKind, assigneeID).
		Order("territory_id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: listar cobertura: %w", err)
	}
	out := make([]entity.TerritoryCoverage, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.TerritoryCoverage{
			ID:           row.ID,
			AssigneeID:   row.AssigneeID,
			AssigneeKind: row.AssigneeKind,
			TerritoryID:  row.TerritoryID,
			Days:         parseDays(row.Days),
		})
	}
	return out, nil
}

func (r *ReferenceRepo) ListSkills(ctx context.Context, assigneeKind, assigneeID string) ([]entity.Skill, error) {
	var rows []skillRow
	err := r.db.WithContext(ctx).Where("assignee_kind = ? AND assignee_id = ?", assigneeKind, assigneeID).
		Order("project_type_id ASC").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: listar habilidades: %w", err)
	}
	out := make([]entity.Skill, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Skill{
			ID:            row.ID,
			AssigneeID:    row.AssigneeID,
			AssigneeKind:  row.AssigneeKind,
			ProjectTypeID: row.ProjectTypeID,
			Proficiency:   entity.Proficiency(row.Proficiency),
		})
	}
	return out, nil
}

func (r *ReferenceRepo) upsert(ctx context.Context, row any, columns ...string) error {
	cols := make([]clause.Column, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, clause.Column{Name: c})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{Columns: cols, UpdateAll: true}).Create(row).Error
}

func (r *ReferenceRepo) UpsertTerritory(ctx context.Context, t *entity.Territory) error {
	row := &territoryRow{ID: t.ID, Code: t.Code, Name: t.Name, Active: t.Active}
	if err := r.upsert(ctx, row, "id"); err != nil {
		return fmt.Errorf("sqlite: guardar territorio: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) UpsertCrew(ctx context.Context, c *entity.Crew) error {
	row := &crewRow{ID: c.ID, Name: c.Name, LeadProfileID: c.LeadProfileID, MaxDailyLF: c.MaxDailyLF, Active: c.Active}
	if err := r.upsert(ctx, row, "id"); err != nil {
		return fmt.Errorf("sqlite: guardar cuadrilla: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) UpsertProfile(ctx context.Context, p *entity.TeamProfile) error {
	row := &profileRow{
		ID:                  p.ID,
		Name:                p.Name,
		Email:               p.Email,
		Role:                p.Role,
		MaxDailyAssessments: p.MaxDailyAssessments,
		Active:              p.Active,
	}
	if err := r.upsert(ctx, row, "id"); err != nil {
		return fmt.Errorf("sqlite: guardar perfil: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) UpsertProjectType(ctx context.Context, pt *entity.ProjectType) error {
	row := &projectTypeRow{ID: pt.ID, Name: pt.Name, ProductType: pt.ProductType}
	if err := r.upsert(ctx, row, "id"); err != nil {
		return fmt.Errorf("sqlite: guardar tipo de proyecto: %w", err)
	}
	return nil
}

// UpsertSkill la clave natural es (tipo de asignado, asignado, tipo de proyecto).
func (r *ReferenceRepo) UpsertSkill(ctx context.Context, s *entity.Skill) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	row := &skillRow{
		ID:            s.ID,
		AssigneeKind:  s.AssigneeKind,
		AssigneeID:    s.AssigneeID,
		ProjectTypeID: s.ProjectTypeID,
		Proficiency:   string(s.Proficiency),
	}
	if err := r.upsert(ctx, row, "assignee_kind", "assignee_id", "project_type_id"); err != nil {
		return fmt.Errorf("sqlite: guardar habilidad: %w", err)
	}
	return nil
}

// UpsertCoverage la clave natural es (tipo de asignado, asignado, territorio).
func (r *ReferenceRepo) UpsertCoverage(ctx context.Context, c *entity.TerritoryCoverage) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	row := &coverageRow{
		ID:           c.ID,
		AssigneeKind: c.AssigneeKind,
		AssigneeID:   c.AssigneeID,
		TerritoryID:  c.TerritoryID,
		Days:         formatDays(c.Days),
	}
	if err := r.upsert(ctx, row, "assignee_kind", "assignee_id", "territory_id"); err != nil {
		return fmt.Errorf("sqlite: guardar cobertura: %w", err)
	}
	return nil
}
