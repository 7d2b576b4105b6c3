package dto

import "time"

type BrowseDirectoryResponse struct {
	Path           string   `json:"path"`
	Subdirectories []string `json:"subdirectories"`
	Files          []string `json:"files"`
	Message        string   `json:"message,omitempty"` // "No files found" when the directory is empty
}

type ClearCacheRequest struct {
	DeleteRoot bool `json:"delete_root"`
	Verbose    bool `json:"verbose"`
}

type ScheduleDeletionRequest struct {
	Path         string `json:"path,omitempty"` // defaults to the session cache root
	DelayMinutes int    `json:"delay_minutes" validate:"min=0"`
}

type ScheduledJobResponse struct {
	Path    string    `json:"path"`
	FireAt  time.Time `json:"fire_at"`
	State   string    `json:"state"`
	Created bool      `json:"created"`
}

type CancelDeletionRequest struct {
	Path string `json:"path" validate:"required"`
}

type PruneSubdirectoriesRequest struct {
	Exclude []string `json:"exclude,omitempty"` // absolute paths under the cache root to keep
	Verbose bool     `json:"verbose"`
}

type CreateTempDirRequest struct {
	Name    string   `json:"name" validate:"required"`
	Subdirs []string `json:"subdirs,omitempty"` // created relative to the new directory
}

type TempDirResponse struct {
	Path string `json:"path"`
}

type DeleteTempDirRequest struct {
	Name    string `json:"name" validate:"required"`
	Verbose bool   `json:"verbose"`
}
