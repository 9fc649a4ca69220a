package jwtutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzomar/agrinote/pkg/config"
	"github.com/enzomar/agrinote/pkg/jwtutil"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	token, err := util.GenerateToken("operatore@demo.it", "farm-001", "operator")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "operatore@demo.it", claims.Email)
	assert.Equal(t, "farm-001", claims.FarmID)
	assert.Equal(t, "operator", claims.Role)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "key-one", ExpirationHours: 1})
	verifier := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "key-two", ExpirationHours: 1})

	token, err := issuer.GenerateToken("operatore@demo.it", "farm-001", "operator")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	util := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: -1})

	token, err := util.GenerateToken("operatore@demo.it", "farm-001", "operator")
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	util := jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	_, err := util.ValidateToken("not.a.token")
	assert.Error(t, err)
}
