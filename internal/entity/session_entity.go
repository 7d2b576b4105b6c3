package entity

import (
	"time"

	"github.com/google/uuid"

	"financial-assistant-be/pkg/workspace"
)

// Session is the server-side state of one assistant session: the cache root,
// the derived path layout and a few transient flags. Everything else the
// session owns lives on disk under CacheDir.
type Session struct {
	Id                uuid.UUID        `json:"id"`
	CacheDir          string           `json:"cache_dir"`
	ProdMode          bool             `json:"prod_mode"`
	Layout            workspace.Layout `json:"layout"`
	EdgarOrganization string           `json:"edgar_organization,omitempty"`
	EdgarEmail        string           `json:"edgar_email,omitempty"`
	LaunchTime        time.Time        `json:"launch_time"`
	LastSeenAt        time.Time        `json:"last_seen_at"`
}
