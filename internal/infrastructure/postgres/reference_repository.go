package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

var _ repository.ReferenceRepository = (*ReferenceRepo)(nil)

// ReferenceRepo territorios, cuadrillas, perfiles, tipos de proyecto, habilidades y cobertura.
type ReferenceRepo struct {
	q Querier
}

// NewReferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReferenceRepository(q Querier) *ReferenceRepo {
	return &ReferenceRepo{q: q}
}

func (r *ReferenceRepo) GetTerritory(ctx context.Context, id string) (*entity.Territory, error) {
	var t entity.Territory
	err := r.q.QueryRow(ctx, `SELECT id, code, name, active FROM territories WHERE id = $1`, id).
		Scan(&t.ID, &t.Code, &t.Name, &t.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get territory: %w", err)
	}
	return &t, nil
}

func (r *ReferenceRepo) GetCrew(ctx context.Context, id string) (*entity.Crew, error) {
	var c entity.Crew
	err := r.q.QueryRow(ctx, `SELECT id, name, lead_profile_id, max_daily_lf, active FROM crews WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.LeadProfileID, &c.MaxDailyLF, &c.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get crew: %w", err)
	}
	return &c, nil
}

func (r *ReferenceRepo) GetProfile(ctx context.Context, id string) (*entity.TeamProfile, error) {
	var p entity.TeamProfile
	err := r.q.QueryRow(ctx, `
		SELECT id, name, email, role, max_daily_assessments, active
		FROM team_profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Role, &p.MaxDailyAssessments, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get team profile: %w", err)
	}
	return &p, nil
}

func (r *ReferenceRepo) GetProjectTypeByProduct(ctx context.Context, productType string) (*entity.ProjectType, error) {
	var pt entity.ProjectType
	err := r.q.QueryRow(ctx, `SELECT id, name, product_type FROM project_types WHERE product_type = $1`, productType).
		Scan(&pt.ID, &pt.Name, &pt.ProductType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project type: %w", err)
	}
	return &pt, nil
}

// ListCoverage days NULL se lee como slice nil (todos los días).
func (r *ReferenceRepo) ListCoverage(ctx context.Context, assigneeKind, assigneeID string) ([]entity.TerritoryCoverage, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, assignee_kind, assignee_id, territory_id, days
		FROM territory_coverage
		WHERE assignee_kind = $1 AND assignee_id = $2
		ORDER BY territory_id`, assigneeKind, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("list coverage: %w", err)
	}
	defer rows.Close()

	var out []entity.TerritoryCoverage
	for rows.Next() {
		var c entity.TerritoryCoverage
		var days []int16
		if err := rows.Scan(&c.ID, &c.AssigneeKind, &c.AssigneeID, &c.TerritoryID, &days); err != nil {
			return nil, fmt.Errorf("scan coverage: %w", err)
		}
		if days != nil {
			c.Days = make([]time.Weekday, 0, len(days))
			for _, d := range days {
				c.Days = append(c.Days, time.Weekday(d))
			}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) ListSkills(ctx context.Context, assigneeKind, assigneeID string) ([]entity.Skill, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, assignee_kind, assignee_id, project_type_id, proficiency
		FROM skills
		WHERE assignee_kind = $1 AND assignee_id = $2
		ORDER BY project_type_id`, assigneeKind, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	var out []entity.Skill
	for rows.Next() {
		var s entity.Skill
		var proficiency string
		if err := rows.Scan(&s.ID, &s.AssigneeKind, &s.AssigneeID, &s.ProjectTypeID, &proficiency); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		s.Proficiency = entity.Proficiency(proficiency)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ReferenceRepo) UpsertTerritory(ctx context.Context, t *entity.Territory) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO territories (id, code, name, active) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET code = EXCLUDED.code, name = EXCLUDED.name, active = EXCLUDED.active`,
		t.ID, t.Code, t.Name, t.Active)
	if err != nil {
		return fmt.Errorf("upsert territory: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) UpsertCrew(ctx context.Context, c *entity.Crew) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO crews (id, name, lead_profile_id, max_daily_lf, active) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, lead_profile_id = EXCLUDED.lead_profile_id,
		    max_daily_lf = EXCLUDED.max_daily_lf, active = EXCLUDED.active`,
		c.ID, c.Name, c.LeadProfileID, c.MaxDailyLF, c.Active)
	if err != nil {
		return fmt.Errorf("upsert crew: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) UpsertProfile(ctx context.Context, p *entity.TeamProfile) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO team_profiles (id, name, email, role, max_daily_assessments, active) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role,
		    max_daily_assessments = EXCLUDED.max_daily_assessments, active = EXCLUDED.active`,
		p.ID, p.Name, p.Email, p.Role, p.MaxDailyAssessments, p.Active)
	if err != nil {
		return fmt.Errorf("upsert team profile: %w", err)
	}
	return nil
}

func (r *ReferenceRepo) UpsertProjectType(ctx context.Context, pt *entity.ProjectType) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO project_types (id, name, product_type) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, product_type = EXCLUDED.product_type`,
		pt.ID, pt.Name, pt.ProductType)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product type %q already mapped: %w", pt.ProductType, err)
		}
		return fmt.Errorf("upsert project type: %w", err)
	}
	return nil
}

// UpsertSkill la clave natural es (tipo de asignado, asignado, tipo de proyecto).
func (r *ReferenceRepo) UpsertSkill(ctx context.Context, s *entity.Skill) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO skills (id, assignee_kind, assignee_id, project_type_id, proficiency) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assignee_kind, assignee_id, project_type_id) DO UPDATE SET proficiency = EXCLUDED.proficiency
		RETURNING id`,
		s.ID, s.AssigneeKind, s.AssigneeID, s.ProjectTypeID, string(s.Proficiency)).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("upsert skill: %w", err)
	}
	return nil
}

// UpsertCoverage la clave natural es (tipo de asignado, asignado, territorio).
func (r *ReferenceRepo) UpsertCoverage(ctx context.Context, c *entity.TerritoryCoverage) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	var days []int16
	if c.Days != nil {
		days = make([]int16, 0, len(c.Days))
		for _, d := range c.Days {
			days = append(days, int16(d))
		}
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO territory_coverage (id, assignee_kind, assignee_id, territory_id, days) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (assignee_kind, assignee_id, territory_id) DO UPDATE SET days = EXCLUDED.days
		RETURNING id`,
		c.ID, c.AssigneeKind, c.AssigneeID, c.TerritoryID, days).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("upsert coverage: %w", err)
	}
	return nil
}
