// Package api is the remote gateway for the story API. It wraps the outbound
// HTTP calls behind a uniform contract and reports transport failures
// (ErrUnavailable) distinctly from server rejections (*StatusError), because
// the services fall back to local storage only for the former.
package api

import (
	"context"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
)

// LoginResult is the identity payload returned by a successful login.
type LoginResult struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// RegisterResult reports the outcome of a registration.
type RegisterResult struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// CreateStoryRequest is the multipart payload for story creation. Photo is
// optional; when present it is sent as a file part.
type CreateStoryRequest struct {
	Description string
	Lat         *float64
	Lon         *float64
	PhotoName   string
	Photo       []byte
}

// Client defines the remote operations used by the services.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Register(ctx context.Context, name, email, password string) (*RegisterResult, error)
	Stories(ctx context.Context) ([]models.Story, error)
	Story(ctx context.Context, id string) (*models.Story, error)
	CreateStory(ctx context.Context, req CreateStoryRequest) (*models.Story, error)
}
