package seed_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fencepro-workflow/internal/application/ports"
	"github.com/jhoicas/fencepro-workflow/internal/domain/entity"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/seed"
	"github.com/jhoicas/fencepro-workflow/internal/infrastructure/sqlite"
)

const referenceYAML = `
territories:
  - id: ter-n
    code: N
    name: Norte
  - id: ter-s
    code: S
    name: Sur
    active: false
project_types:
  - id: pt-vinyl
    name: Vinyl Privacy
    product_type: vinyl_privacy
profiles:
  - id: rep-1
    name: Sofía
    role: sales_rep
    max_daily_assessments: 3
    territories:
      - territory: ter-n
    skills:
      - project_type: pt-vinyl
        proficiency: basic
crews:
  - id: crew-1
    name: Norte A
    max_daily_lf: "500"
    territories:
      - territory: ter-n
        days: [mon, tue, Wednesday]
    skills:
      - project_type: pt-vinyl
        proficiency: advanced
`

func openStore(t *testing.T) (ports.Repositories, ports.TxRunner) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "seed.db"), true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close(db) })
	return sqlite.NewRepositories(db), sqlite.NewTxRunner(db)
}

func TestApply_CargaReferencia(t *testing.T) {
	ctx := context.Background()
	repos, tx := openStore(t)

	f, err := seed.Decode(strings.NewReader(referenceYAML), "")
	require.NoError(t, err)
	sum, err := seed.Apply(ctx, tx, f)
	require.NoError(t, err)
	assert.Equal(t, seed.Summary{Territories: 2, ProjectTypes: 1, Crews: 1, Profiles: 1, Skills: 2, Coverage: 2}, sum)

	ter, err := repos.Reference.GetTerritory(ctx, "ter-s")
	require.NoError(t, err)
	require.NotNil(t, ter)
	assert.False(t, ter.Active)

	crew, err := repos.Reference.GetCrew(ctx, "crew-1")
	require.NoError(t, err)
	require.NotNil(t, crew)
	assert.True(t, crew.Active, "sin active se asume activo")
	assert.Equal(t, "500", crew.MaxDailyLF.String())

	cov, err := repos.Reference.ListCoverage(ctx, entity.AssigneeCrew, "crew-1")
	require.NoError(t, err)
	require.Len(t, cov, 1)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, cov[0].Days)

	repCov, err := repos.Reference.ListCoverage(ctx, entity.AssigneeProfile, "rep-1")
	require.NoError(t, err)
	require.Len(t, repCov, 1)
	assert.Nil(t, repCov[0].Days, "sin días cubre toda la semana")

	// Idempotente
	sum, err = seed.Apply(ctx, tx, f)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Skills)
	skills, err := repos.Reference.ListSkills(ctx, entity.AssigneeCrew, "crew-1")
	require.NoError(t, err)
	assert.Len(t, skills, 1)
}

func TestDecode_Latin1(t *testing.T) {
	raw := "profiles:\n  - id: rep-2\n    name: \"Sof\xeda\"\n    role: sales_rep\n"
	f, err := seed.Decode(strings.NewReader(raw), "ISO-8859-1")
	require.NoError(t, err)
	require.Len(t, f.Profiles, 1)
	assert.Equal(t, "Sofía", f.Profiles[0].Name)

	_, err = seed.Decode(strings.NewReader(raw), "ebcdic")
	assert.Error(t, err)
}

func TestDecode_CampoDesconocido(t *testing.T) {
	_, err := seed.Decode(strings.NewReader("territories:\n  - id: x\n    colour: red\n"), "")
	assert.Error(t, err)
}

func TestApply_ValidaAntesDeEscribir(t *testing.T) {
	ctx := context.Background()
	repos, tx := openStore(t)

	cases := map[string]string{
		"territorio no declarado": "crews:\n  - id: c\n    max_daily_lf: \"100\"\n    territories:\n      - territory: nada\n",
		"capacidad inválida":      "crews:\n  - id: c\n    max_daily_lf: \"0\"\n",
		"rol desconocido":         "profiles:\n  - id: p\n    role: pirata\n",
		"nivel desconocido":       "project_types:\n  - id: pt\n    product_type: wood\nprofiles:\n  - id: p\n    role: sales_rep\n    skills:\n      - project_type: pt\n        proficiency: guru\n",
		"día desconocido":         "territories:\n  - id: t\n    code: T\nprofiles:\n  - id: p\n    role: sales_rep\n    territories:\n      - territory: t\n        days: [funday]\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := seed.Decode(strings.NewReader(raw), "")
			require.NoError(t, err)
			_, err = seed.Apply(ctx, tx, f)
			assert.Error(t, err)
		})
	}

	p, err := repos.Reference.GetProfile(ctx, "p")
	require.NoError(t, err)
	assert.Nil(t, p, "nada se escribe si la validación falla")
}
