package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	r, _ := setupRouter(t, 0)

	w := doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "newuser",
		"email":    "newuser@example.com",
		"password": "secret123",
		"name":     "New User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var registered struct {
		Token   string         `json:"token"`
		Message string         `json:"message"`
		User    map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "newuser", registered.User["username"])
	assert.NotContains(t, registered.User, "password")

	// Same username again is a conflict
	w = doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "newuser",
		"email":    "other@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Conflict", errorKind(t, w))

	w = doJSON(r, http.MethodPost, "/api/login", gin.H{
		"email":    "newuser@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var loggedIn struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	assert.NotEmpty(t, loggedIn.Token)
	assert.Equal(t, "newuser", loggedIn.User["username"])

	w = doJSON(r, http.MethodPost, "/api/login", gin.H{
		"email":    "newuser@example.com",
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_Validation(t *testing.T) {
	r, _ := setupRouter(t, 0)

	// Missing password
	w := doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "nopass",
		"email":    "nopass@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", errorKind(t, w))

	// Malformed email
	w = doJSON(r, http.MethodPost, "/api/register", gin.H{
		"username": "bademail",
		"email":    "not-an-email",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
