package gitremote

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// AuthConfig selects how to authenticate against the remote.
type AuthConfig struct {
	// Type is one of "token", "ssh" or "none" (empty means none)
	Type string

	Token            string
	SSHKeyPath       string
	SSHKeyPassphrase string
}

// NewAuth builds a transport auth method from cfg. A nil method means
// anonymous access.
func NewAuth(cfg AuthConfig) (transport.AuthMethod, error) {
	switch cfg.Type {
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires non-empty token")
		}
		return &http.BasicAuth{
			Username: "git", // any non-empty name works with a token
			Password: cfg.Token,
		}, nil

	case "ssh":
		if cfg.SSHKeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires ssh_key_path")
		}
		info, err := os.Stat(cfg.SSHKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to access SSH key file: %w", err)
		}
		if mode := info.Mode().Perm(); mode&0077 != 0 {
			return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
		}
		auth, err := ssh.NewPublicKeysFromFile("git", cfg.SSHKeyPath, cfg.SSHKeyPassphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to load SSH key: %w", err)
		}
		return auth, nil

	case "none", "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown auth type %q (must be token, ssh, or none)", cfg.Type)
	}
}
