package registry

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutombe/zim-rec-sub000/internal/domain"
	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
	"github.com/Mutombe/zim-rec-sub000/internal/pkg/session"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess, err := session.Open(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return NewClient(srv.URL, sess), sess
}

// unsignedJWT builds a structurally valid token carrying only an exp claim;
// the client inspects expiry without verifying signatures.
func unsignedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload, err := sonic.Marshal(map[string]interface{}{"exp": exp.Unix()})
	require.NoError(t, err)
	return fmt.Sprintf("%s.%s.", header, base64.RawURLEncoding.EncodeToString(payload))
}

func TestLoginPersistsCredentials(t *testing.T) {
	client, sess := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login/", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"email":"a@b.c","password":"secret"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access":"tok-a","refresh":"tok-r","user":{"id":7,"email":"a@b.c"}}`))
	}))

	user, err := client.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.EqualValues(t, 7, user.ID)
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "tok-a", sess.Access())
	assert.Equal(t, "tok-r", sess.Refresh())
}

func TestBearerTokenIsAttached(t *testing.T) {
	var got string
	client, sess := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	access := unsignedJWT(t, time.Now().Add(time.Hour))
	require.NoError(t, sess.SetCredentials(session.Credentials{Access: access, Refresh: "tok-r"}))

	_, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+access, got)
}

// A 401 on a token the registry no longer honours triggers exactly one
// refresh-and-retry.
func TestRejectedTokenIsRefreshedExactlyOnce(t *testing.T) {
	var listCalls, refreshCalls int
	revoked := unsignedJWT(t, time.Now().Add(time.Hour))
	client, sess := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/devices/":
			listCalls++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`[{"id":1,"user":7}]`))
		case "/api/token/refresh/":
			refreshCalls++
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"refresh":"tok-r"}`, string(body))
			_, _ = w.Write([]byte(`{"access":"fresh"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	require.NoError(t, sess.SetCredentials(session.Credentials{Access: revoked, Refresh: "tok-r"}))

	devices, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)

	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 2, listCalls, "one failed attempt plus one retry")
	assert.Equal(t, "fresh", sess.Access())
}

// A token close to its exp claim is refreshed before the call goes out, so
// the request never earns a 401 at all.
func TestNearExpiryTokenIsRefreshedProactively(t *testing.T) {
	var listCalls, refreshCalls int
	client, sess := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/devices/":
			listCalls++
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[]`))
		case "/api/token/refresh/":
			refreshCalls++
			_, _ = w.Write([]byte(`{"access":"fresh"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	require.NoError(t, sess.SetCredentials(session.Credentials{
		Access:  unsignedJWT(t, time.Now().Add(time.Second)),
		Refresh: "tok-r",
	}))

	_, err := client.ListDevices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, refreshCalls)
	assert.Equal(t, 1, listCalls)
}

func TestRefreshFailureSurfacesWithoutRetryLoop(t *testing.T) {
	var refreshCalls int
	client, sess := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/refresh/" {
			refreshCalls++
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	require.NoError(t, sess.SetCredentials(session.Credentials{
		Access:  unsignedJWT(t, time.Now().Add(time.Hour)),
		Refresh: "stale",
	}))

	_, err := client.UpdateDevice(context.Background(), 1, map[string]interface{}{"name": "x"})
	require.Error(t, err)
	assert.Equal(t, 1, refreshCalls)
}

func TestValidationErrorsAreParsedPerField(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"capacity":["out of range"],"name":["taken"]}`))
	}))

	_, err := client.UpdateDevice(context.Background(), 1, map[string]interface{}{"name": "x"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, apiErr.Transient())
	assert.Equal(t, FieldErrors{
		"capacity": {"out of range"},
		"name":     {"taken"},
	}, apiErr.Fields)
}

func TestFlatErrorBodiesAreKeyedToo(t *testing.T) {
	fields := parseFieldErrors([]byte(`{"detail":"not found"}`))
	assert.Equal(t, FieldErrors{"detail": {"not found"}}, fields)

	assert.Nil(t, parseFieldErrors([]byte(`not json at all`)))
	assert.Nil(t, parseFieldErrors([]byte(`[]`)))
}

func TestListRetriesTransientFailuresOnly(t *testing.T) {
	t.Run("server errors retry", func(t *testing.T) {
		var calls int
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		}))

		_, err := client.ListRequests(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("client errors are final", func(t *testing.T) {
		var calls int
		client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusForbidden)
		}))

		_, err := client.ListRequests(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestCreateDeviceSendsMultipart(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Gwanda Solar", r.FormValue("name"))
		assert.Equal(t, "ES100", r.FormValue("device_fuel"))

		file, header, err := r.FormFile("project_photos")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "site.jpg", header.Filename)
		content, _ := io.ReadAll(file)
		assert.Equal(t, []byte("jpeg-bytes"), content)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42,"name":"Gwanda Solar","status":"Draft"}`))
	}))

	created, err := client.CreateDevice(context.Background(), dto.DevicePayload{
		Fields: map[string]string{"name": "Gwanda Solar", "device_fuel": "ES100"},
		Files: []dto.FilePart{{
			Field:       "project_photos",
			Name:        "site.jpg",
			ContentType: "image/jpeg",
			Content:     []byte("jpeg-bytes"),
		}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 42, created.ID)
	assert.Equal(t, domain.DeviceDraft, created.Status)
}

func TestTechnologyOptionsEscapesFuelType(t *testing.T) {
	var query string
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"code":"TC110","label":"PV ground mounted","fuel_type":"ES100"}]`))
	}))

	options, err := client.TechnologyOptions(context.Background(), domain.FuelSolar)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, "TC110", options[0].Code)
	assert.Equal(t, "fuel_type=ES100", query)
}
