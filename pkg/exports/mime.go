package exports

import "path/filepath"

// MimeFromPath maps a file extension to the mime type served for downloads.
// The match is case sensitive; unknown extensions are not downloadable.
func MimeFromPath(path string) (string, bool) {
	switch filepath.Ext(path) {
	case ".txt":
		return "text/plain", true
	case ".csv":
		return "text/csv", true
	case ".png":
		return "image/png", true
	case ".pdf":
		return "application/pdf", true
	default:
		return "", false
	}
}
