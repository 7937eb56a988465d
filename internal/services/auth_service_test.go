package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutor-system2025/tutor-system/internal/dto"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	_, auth, _, _ := newFixture(t)

	registerUser(t, auth, "a@x.com")

	_, err := auth.Register(&dto.RegisterRequest{
		FirstName: "Another",
		Surname:   "Person",
		Email:     "a@x.com",
		Password:  "different",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterMissingFields(t *testing.T) {
	_, auth, _, _ := newFixture(t)

	_, err := auth.Register(&dto.RegisterRequest{Email: "a@x.com"})
	assert.True(t, IsValidation(err))
}

func TestLoginTokenCarriesIdentity(t *testing.T) {
	_, auth, _, _ := newFixture(t)
	user := registerUser(t, auth, "a@x.com")

	resp, err := auth.Login(&dto.LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.False(t, resp.User.IsAdmin)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "a@x.com", claims["email"])
	assert.Equal(t, false, claims["is_admin"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	_, auth, _, _ := newFixture(t)
	registerUser(t, auth, "a@x.com")

	_, err := auth.Login(&dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = auth.Login(&dto.LoginRequest{Email: "nobody@x.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfilePartial(t *testing.T) {
	_, auth, _, _ := newFixture(t)
	user := registerUser(t, auth, "a@x.com")

	updated, err := auth.UpdateProfile(user.ID, &dto.UpdateProfileRequest{FirstName: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)
	assert.Equal(t, user.Surname, updated.Surname)
	assert.Equal(t, "a@x.com", updated.Email)
}

func TestUpdateProfileEmailCollision(t *testing.T) {
	_, auth, _, _ := newFixture(t)
	registerUser(t, auth, "a@x.com")
	other := registerUser(t, auth, "b@x.com")

	_, err := auth.UpdateProfile(other.ID, &dto.UpdateProfileRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSeedManagerIdempotent(t *testing.T) {
	db, auth, _, _ := newFixture(t)

	require.NoError(t, auth.SeedManager())
	require.NoError(t, auth.SeedManager())

	var count int64
	require.NoError(t, db.Table("users").Where("email = ?", testManagerEmail).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	resp, err := auth.Login(&dto.LoginRequest{Email: testManagerEmail, Password: "manager-password"})
	require.NoError(t, err)
	assert.True(t, resp.User.IsAdmin)
}
