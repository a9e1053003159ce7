package http

import (
	"encoding/json"
	"net/http"
)

// storyJSON is the wire representation of a story.
type storyJSON struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PhotoURL    string   `json:"photoUrl"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	CreatedAt   string   `json:"createdAt"`
}

type loginResultJSON struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// envelope is the common response wrapper of the story API.
type envelope struct {
	Error       bool             `json:"error"`
	Message     string           `json:"message"`
	LoginResult *loginResultJSON `json:"loginResult,omitempty"`
	ListStory   []storyJSON      `json:"listStory,omitempty"`
	Story       *storyJSON       `json:"story,omitempty"`
	UserID      string           `json:"userId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Error: true, Message: message})
}
