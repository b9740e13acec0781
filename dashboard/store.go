package dashboard

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/Vaishnavi4104/TodoFlow/authsvc"
	"github.com/gorilla/securecookie"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store persists the credential and the theme preference across runs; it
// is the durable-storage half of the session.
type Store interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
	Theme() string
	SetTheme(theme string) error
}

// FileStore keeps both values under a config directory. The token is
// sealed with securecookie so a leaked state file is not a usable
// credential by itself.
type FileStore struct {
	dir   string
	codec *securecookie.SecureCookie
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "todoflow")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	codec := securecookie.New([]byte(authsvc.CookieHashKey), []byte(authsvc.CookieBlockKey))

	return &FileStore{dir: dir, codec: codec}, nil
}

func (s *FileStore) Token() string {
	b, err := ioutil.ReadFile(filepath.Join(s.dir, "session"))
	if err != nil {
		return ""
	}

	var token string
	if err := s.codec.Decode("session", strings.TrimSpace(string(b)), &token); err != nil {
		return ""
	}
	return token
}

func (s *FileStore) SetToken(token string) error {
	sealed, err := s.codec.Encode("session", token)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filepath.Join(s.dir, "session"), []byte(sealed), 0o600)
}

func (s *FileStore) ClearToken() error {
	err := os.Remove(filepath.Join(s.dir, "session"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) Theme() string {
	b, err := ioutil.ReadFile(filepath.Join(s.dir, "theme"))
	if err != nil {
		return ThemeLight
	}

	theme := strings.TrimSpace(string(b))
	if theme != ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

func (s *FileStore) SetTheme(theme string) error {
	return ioutil.WriteFile(filepath.Join(s.dir, "theme"), []byte(theme), 0o600)
}
