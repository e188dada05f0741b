package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más la identidad del actor del flujo de trabajo.
// Role se usa para las operaciones privilegiadas (aprobación de cotizaciones, overrides de asignación).
type Claims struct {
	jwt.RegisteredClaims
	ActorID string `json:"actor_id"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"` // "admin" | "manager" | "sales_rep" | "office" | "yard" | "crew"
}

// Identity es el resultado de validar un token.
type Identity struct {
	ActorID string
	Name    string
	Role    string
}

// Generate genera un token JWT firmado para el actor indicado.
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.ActorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		ActorID: id.ActorID,
		Name:    id.Name,
		Role:    id.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad del actor.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.ActorID == "" {
		return Identity{}, fmt.Errorf("actor_id vacío")
	}
	return Identity{ActorID: claims.ActorID, Name: claims.Name, Role: claims.Role}, nil
}
