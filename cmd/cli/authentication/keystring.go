package authentication

// Session persistence for the CLI, kept in the OS keyring.
import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	serviceName = "animedrop-cli"
	sessionKey  = "session"
)

// ErrNotLoggedIn is returned when no usable session is stored.
var ErrNotLoggedIn = errors.New("not logged in, please run 'animedrop auth login' first")

type StoredUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Session struct {
	Token string     `json:"token"`
	User  StoredUser `json:"user"`
}

func StoreSession(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return keyring.Set(serviceName, sessionKey, string(data))
}

// GetSession returns the stored session. A corrupt entry is removed and
// reported as ErrNotLoggedIn.
func GetSession() (*Session, error) {
	value, err := keyring.Get(serviceName, sessionKey)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal([]byte(value), &s); err != nil || s.Token == "" {
		_ = keyring.Delete(serviceName, sessionKey)
		return nil, ErrNotLoggedIn
	}
	return &s, nil
}

// DeleteSession clears the stored session. Clearing an absent session is
// not an error.
func DeleteSession() error {
	err := keyring.Delete(serviceName, sessionKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
