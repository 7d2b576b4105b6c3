package service

import "errors"

// Sentinel errors shared by the services; controllers map them to HTTP
// status codes.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrPathOutsideCache = errors.New("path escapes the session cache root")
	ErrUnknownTarget    = errors.New("unknown export target")
	ErrJobNotFound      = errors.New("no scheduled deletion for this path")
	ErrNotDownloadable  = errors.New("file type is not downloadable")
	ErrFileNotFound     = errors.New("file not found")
)
