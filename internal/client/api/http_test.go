package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestLogin_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])
		assert.Equal(t, "secret1", body["password"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   false,
			"message": "success",
			"loginResult": map[string]string{
				"userId": "u1", "name": "Alice", "token": "tok123",
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client(), nil)
	got, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok123", got.Token)
	assert.Equal(t, "Alice", got.Name)
}

func TestLogin_ServerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": true, "message": "Invalid password"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client(), nil)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Invalid password", se.Message)
	assert.False(t, IsUnavailable(err), "a rejection is not a transport failure")
}

func TestStories_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": false, "message": "success",
			"listStory": []map[string]any{
				{"id": "1", "name": "Rex", "description": "d", "createdAt": "2024-05-01T12:00:00Z"},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client(), staticTokens("tok123"))
	got, err := c.Stories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rex", got[0].Name)
}

func TestStories_NoTokenMeansNoHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"error": false, "listStory": []any{}})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client(), staticTokens(""))
	_, err := c.Stories(context.Background())
	require.NoError(t, err)
}

func TestStories_NormalizesRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": false,
			"listStory": []map[string]any{
				{"id": "1", "description": "no name, bad lat", "lat": 95.0, "lon": 10.0},
			},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client(), nil)
	got, err := c.Stories(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].Name, "placeholder applied at network boundary")
	assert.Nil(t, got[0].Lat)
}

func TestStory_ByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stories/42", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": false,
			"story": map[string]any{"id": "42", "name": "Rex", "description": "d"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, srv.Client(), nil)
	got, err := c.Story(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", got.ID)
}

func TestCreateStory_MultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "Found a fossil", r.FormValue("description"))
		assert.Equal(t, "10.5", r.FormValue("lat"))
		assert.Equal(t, "20.5", r.FormValue("lon"))

		file, header, err := r.FormFile("photo")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "camera-capture.jpg", header.Filename)

		_ = json.NewEncoder(w).Encode(map[string]any{"error": false, "message": "Story created"})
	}))
	defer srv.Close()

	lat, lon := 10.5, 20.5
	c := NewHTTPClient(srv.URL, srv.Client(), nil)
	got, err := c.CreateStory(context.Background(), CreateStoryRequest{
		Description: "Found a fossil",
		Lat:         &lat,
		Lon:         &lon,
		PhotoName:   "camera-capture.jpg",
		Photo:       []byte{0xff, 0xd8},
	})
	require.NoError(t, err)
	assert.Equal(t, "Found a fossil", got.Description)
}

func TestCreateStory_OmitsLocationWhenIncomplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Empty(t, r.FormValue("lat"))
		assert.Empty(t, r.FormValue("lon"))
		_ = json.NewEncoder(w).Encode(map[string]any{"error": false})
	}))
	defer srv.Close()

	lat := 10.5
	c := NewHTTPClient(srv.URL, srv.Client(), nil)
	_, err := c.CreateStory(context.Background(), CreateStoryRequest{Description: "d", Lat: &lat})
	require.NoError(t, err)
}

func TestTransportFailure_ReportsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listens anymore

	c := NewHTTPClient(url, nil, nil)
	_, err := c.Stories(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))

	var se *StatusError
	assert.False(t, errors.As(err, &se), "transport failure must not look like a rejection")
}
