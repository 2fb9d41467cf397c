package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_LoginDemo(t *testing.T) {
	t.Run("adopts token in bearer mode", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/users/demo", r.URL.Path)
			writeJSON(w, http.StatusOK, map[string]any{"user_id": 1, "access_token": "tok-123"})
		}, Options{})

		demo, err := client.LoginDemo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, demo.UserID)
		assert.Equal(t, "tok-123", client.Token())
	})

	t.Run("missing token is an auth error", func(t *testing.T) {
		for _, body := range []map[string]any{
			{"user_id": 1},
			{"user_id": 1, "access_token": ""},
			{"user_id": 1, "access_token": "null"},
		} {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, body)
			}, Options{})

			_, err := client.LoginDemo(context.Background())
			require.Error(t, err)
			assert.True(t, IsKind(err, KindUnauthorized))
			assert.True(t, errors.Is(err, ErrNoToken))
			assert.Empty(t, client.Token())
		}
	})

	t.Run("tokenless mode accepts no token", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"user_id": 2})
		}, Options{Auth: AuthNone})

		demo, err := client.LoginDemo(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, demo.UserID)
	})

	t.Run("server failure propagates", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, Options{})

		_, err := client.LoginDemo(context.Background())
		assert.True(t, IsKind(err, KindStatus))
	})
}
