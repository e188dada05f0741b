package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/fencepro-workflow/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateParse_RoundTrip(t *testing.T) {
	id := pkgjwt.Identity{ActorID: "user-1", Name: "Dana", Role: "manager"}
	tok, err := pkgjwt.Generate(testSecret, "fencepro-test", id, 5)
	require.NoError(t, err)

	got, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "fencepro-test", pkgjwt.Identity{ActorID: "user-1", Role: "crew"}, 5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "fencepro-test", pkgjwt.Identity{ActorID: "user-1", Role: "crew"}, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "fencepro-test", pkgjwt.Identity{ActorID: "user-1"}, 5)
	assert.Error(t, err)
}
