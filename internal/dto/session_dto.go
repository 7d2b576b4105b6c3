package dto

import (
	"time"

	"github.com/google/uuid"

	"financial-assistant-be/pkg/workspace"
)

type InitializeSessionRequest struct {
	ProdMode bool   `json:"prod_mode"`
	CacheDir string `json:"cache_dir,omitempty"` // explicit root override, mainly for local runs
}

type SessionResponse struct {
	SessionId  uuid.UUID        `json:"session_id"`
	Token      string           `json:"token,omitempty"` // only set by initialize
	CacheDir   string           `json:"cache_dir"`
	ProdMode   bool             `json:"prod_mode"`
	LaunchTime time.Time        `json:"launch_time"`
	Paths      workspace.Layout `json:"paths"`
}

type SubmitEdgarDetailsRequest struct {
	Organization string `json:"organization" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
}

type EdgarDetailsResponse struct {
	UserAgent string `json:"user_agent"` // fair-access header value derived from the identity
}

type CloseSessionRequest struct {
	DeleteRoot bool `json:"delete_root"`
}
