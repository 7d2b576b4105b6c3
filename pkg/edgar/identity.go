package edgar

import (
	"errors"
	"os"
)

// Identity is the requester identity sent with every filing download, per
// the SEC EDGAR fair access policy. Both fields must be set before any
// filing retrieval can run.
type Identity struct {
	Organization string `json:"organization"`
	Email        string `json:"email"`
}

var ErrIncomplete = errors.New("organization and email are required for SEC EDGAR access")

// FromEnv reads the identity from SEC_API_ORGANIZATION and SEC_API_EMAIL.
func FromEnv() Identity {
	return Identity{
		Organization: os.Getenv("SEC_API_ORGANIZATION"),
		Email:        os.Getenv("SEC_API_EMAIL"),
	}
}

func (i Identity) Complete() bool {
	return i.Organization != "" && i.Email != ""
}

// UserAgent renders the identity in the header format EDGAR expects.
func (i Identity) UserAgent() string {
	return i.Organization + " " + i.Email
}

// Store persists the identity into the process environment where the filing
// download tooling reads it.
func (i Identity) Store() error {
	if !i.Complete() {
		return ErrIncomplete
	}
	if err := os.Setenv("SEC_API_ORGANIZATION", i.Organization); err != nil {
		return err
	}
	return os.Setenv("SEC_API_EMAIL", i.Email)
}
