// Package seed carga datos de referencia (territorios, cuadrillas, perfiles, tipos de
// proyecto, habilidades y cobertura) desde un archivo YAML.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/domain/repository"
)

// File estructura del archivo de referencia.
type File struct {
	Territories  []Territory   `yaml:"territories"`
	ProjectTypes []ProjectType `yaml:"project_types"`
	Crews        []Crew        `yaml:"crews"`
	Profiles     []Profile     `yaml:"profiles"`
}

type Territory struct {
	ID     string `yaml:"id"`
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Active *bool  `yaml:"active"`
}

type ProjectType struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	ProductType string `yaml:"product_type"`
}

// Coverage territorio cubierto; sin days cubre todos los días.
type Coverage struct {
	Territory string   `yaml:"territory"`
	Days      []string `yaml:"days"`
}

type Skill struct {
	ProjectType string `yaml:"project_type"`
	Proficiency string `yaml:"proficiency"`
}

type Crew struct {
	ID            string     `yaml:"id"`
	Name          string     `yaml:"name"`
	LeadProfileID string     `yaml:"lead_profile_id"`
	MaxDailyLF    string     `yaml:"max_daily_lf"`
	Active        *bool      `yaml:"active"`
	Territories   []Coverage `yaml:"territories"`
	Skills        []Skill    `yaml:"skills"`
}

type Profile struct {
	ID                  string     `yaml:"id"`
	Name                string     `yaml:"name"`
	Email               string     `yaml:"email"`
	Role                string     `yaml:"role"`
	MaxDailyAssessments int        `yaml:"max_daily_assessments"`
	Active              *bool      `yaml:"active"`
	Territories         []Coverage `yaml:"territories"`
	Skills              []Skill    `yaml:"skills"`
}

// Summary cantidades aplicadas.
type Summary struct {
	Territories  int
	ProjectTypes int
	Crews        int
	Profiles     int
	Skills       int
	Coverage     int
}

// Decode lee el YAML. charset "latin1" (o "iso-8859-1") convierte exportaciones heredadas a UTF-8.
func Decode(r io.Reader, charset string) (*File, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "-", "")) {
	case "", "utf8":
	case "latin1", "iso88591":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("seed: charset no soportado: %q", charset)
	}
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("seed: decodificar YAML: %w", err)
	}
	return &f, nil
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func parseDays(days []string) ([]time.Weekday, error) {
	if len(days) == 0 {
		return nil, nil
	}
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		k := strings.ToLower(strings.TrimSpace(d))
		if len(k) > 3 {
			k = k[:3]
		}
		wd, ok := weekdays[k]
		if !ok {
			return nil, fmt.Errorf("día desconocido %q", d)
		}
		out = append(out, wd)
	}
	return out, nil
}

func active(b *bool) bool { return b == nil || *b }

var profileRoles = map[string]bool{
	entity.RoleAdmin: true, entity.RoleManager: true, entity.RoleSalesRep: true,
	entity.RoleOffice: true, entity.RoleYard: true, entity.RoleCrew: true,
}

// Validate revisa identificadores, roles, niveles y días antes de escribir nada.
func (f *File) Validate() error {
	types := make(map[string]bool, len(f.ProjectTypes))
	for _, pt := range f.ProjectTypes {
		if pt.ID == "" || pt.ProductType == "" {
			return fmt.Errorf("seed: tipo de proyecto sin id o product_type")
		}
		types[pt.ID] = true
	}
	territories := make(map[string]bool, len(f.Territories))
	for _, t := range f.Territories {
		if t.ID == "" || t.Code == "" {
			return fmt.Errorf("seed: territorio sin id o code")
		}
		territories[t.ID] = true
	}
	checkLinks := func(owner string, cov []Coverage, skills []Skill) error {
		for _, c := range cov {
			if !territories[c.Territory] {
				return fmt.Errorf("seed: %s: territorio %q no declarado", owner, c.Territory)
			}
			if _, err := parseDays(c.Days); err != nil {
				return fmt.Errorf("seed: %s: %w", owner, err)
			}
		}
		for _, s := range skills {
			if !types[s.ProjectType] {
				return fmt.Errorf("seed: %s: tipo de proyecto %q no declarado", owner, s.ProjectType)
			}
			if !entity.Proficiency(s.Proficiency).Valid() {
				return fmt.Errorf("seed: %s: nivel %q desconocido", owner, s.Proficiency)
			}
		}
		return nil
	}
	for _, c := range f.Crews {
		if c.ID == "" {
			return fmt.Errorf("seed: cuadrilla sin id")
		}
		lf, err := decimal.NewFromString(c.MaxDailyLF)
		if err != nil || !lf.IsPositive() {
			return fmt.Errorf("seed: cuadrilla %s: max_daily_lf inválido %q", c.ID, c.MaxDailyLF)
		}
		if err := checkLinks("cuadrilla "+c.ID, c.Territories, c.Skills); err != nil {
			return err
		}
	}
	for _, p := range f.Profiles {
		if p.ID == "" {
			return fmt.Errorf("seed: perfil sin id")
		}
		if !profileRoles[p.Role] {
			return fmt.Errorf("seed: perfil %s: rol %q desconocido", p.ID, p.Role)
		}
		if p.MaxDailyAssessments < 0 {
			return fmt.Errorf("seed: perfil %s: max_daily_assessments negativo", p.ID)
		}
		if err := checkLinks("perfil "+p.ID, p.Territories, p.Skills); err != nil {
			return err
		}
	}
	return nil
}

// Apply valida y escribe todo en una sola transacción; las altas son idempotentes (upsert).
func Apply(ctx context.Context, tx ports.TxRunner, f *File) (Summary, error) {
	if err := f.Validate(); err != nil {
		return Summary{}, err
	}
	var sum Summary
	err := tx.RunInTx(ctx, func(repos ports.Repositories) error {
		sum = Summary{}
		return f.apply(ctx, repos.Reference, &sum)
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func (f *File) apply(ctx context.Context, ref repository.ReferenceRepository, sum *Summary) error {
	for _, t := range f.Territories {
		if err := ref.UpsertTerritory(ctx, &entity.Territory{ID: t.ID, Code: t.Code, Name: t.Name, Active: active(t.Active)}); err != nil {
			return fmt.Errorf("territorio %s: %w", t.ID, err)
		}
		sum.Territories++
	}
	for _, pt := range f.ProjectTypes {
		if err := ref.UpsertProjectType(ctx, &entity.ProjectType{ID: pt.ID, Name: pt.Name, ProductType: pt.ProductType}); err != nil {
			return fmt.Errorf("tipo de proyecto %s: %w", pt.ID, err)
		}
		sum.ProjectTypes++
	}
	for _, p := range f.Profiles {
		err := ref.UpsertProfile(ctx, &entity.TeamProfile{
			ID: p.ID, Name: p.Name, Email: p.Email, Role: p.Role,
			MaxDailyAssessments: p.MaxDailyAssessments, Active: active(p.Active),
		})
		if err != nil {
			return fmt.Errorf("perfil %s: %w", p.ID, err)
		}
		sum.Profiles++
		if err := links(ctx, ref, entity.AssigneeProfile, p.ID, p.Territories, p.Skills, sum); err != nil {
			return err
		}
	}
	for _, c := range f.Crews {
		lf, _ := decimal.NewFromString(c.MaxDailyLF)
		err := ref.UpsertCrew(ctx, &entity.Crew{
			ID: c.ID, Name: c.Name, LeadProfileID: c.LeadProfileID, MaxDailyLF: lf, Active: active(c.Active),
		})
		if err != nil {
			return fmt.Errorf("cuadrilla %s: %w", c.ID, err)
		}
		sum.Crews++
		if err := links(ctx, ref, entity.AssigneeCrew, c.ID, c.Territories, c.Skills, sum); err != nil {
			return err
		}
	}
	return nil
}

func links(ctx context.Context, ref repository.ReferenceRepository, kind, id string, cov []Coverage, skills []Skill, sum *Summary) error {
	for _, c := range cov {
		days, _ := parseDays(c.Days)
		if err := ref.UpsertCoverage(ctx, &entity.TerritoryCoverage{AssigneeKind: kind, AssigneeID: id, TerritoryID: c.Territory, Days: days}); err != nil {
			return fmt.Errorf("cobertura %s/%s: %w", id, c.Territory, err)
		}
		sum.Coverage++
	}
	for _, s := range skills {
		err := ref.UpsertSkill(ctx, &entity.Skill{
			AssigneeKind: kind, AssigneeID: id, ProjectTypeID: s.ProjectType, Proficiency: entity.Proficiency(s.Proficiency),
		})
		if err != nil {
			return fmt.Errorf("habilidad %s/%s: %w", id, s.ProjectType, err)
		}
		sum.Skills++
	}
	return nil
}
