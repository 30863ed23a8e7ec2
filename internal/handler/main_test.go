package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"site-lock-system/internal/database"
	"site-lock-system/internal/server"
	"site-lock-system/internal/service"
	"site-lock-system/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := database.OpenTest()

	log := logrus.New()
	log.SetOutput(io.Discard)

	feed := service.NewFeed()
	activity := service.NewActivityService(db, feed, nil, log)
	keys := service.NewKeyService(db, activity, log)
	tokens := util.NewTokenManager("test-secret")

	app := server.NewApp(server.Deps{
		DB:       db,
		Log:      log,
		Tokens:   tokens,
		Keys:     keys,
		Activity: activity,
		Feed:     feed,
	})
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp, decoded
}

// registerAndLogin creates a dashboard user and returns a session token.
func registerAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	resp, _ := doJSON(t, app, "POST", "/api/v1/users/register", "", map[string]string{
		"username": username,
		"password": "password123",
		"email":    username + "@example.com",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/v1/users/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	token, ok := body["token"].(string)
	require.True(t, ok, "login response missing token")
	return token
}
