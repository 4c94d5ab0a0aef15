package gitremote

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

func TestBranchNames(t *testing.T) {
	hash := plumbing.NewHash("0123456789abcdef0123456789abcdef01234567")
	refs := []*plumbing.Reference{
		plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("main")),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("feature/login"), hash),
		plumbing.NewHashReference(plumbing.NewTagReferenceName("v1.0.0"), hash),
		plumbing.NewHashReference(plumbing.ReferenceName("refs/pull/12/head"), hash),
		plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash),
	}

	got := branchNames(refs)
	want := []string{"feature/login", "main"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("branchNames() = %v, want %v", got, want)
	}
}

// TestNewAuth tests auth selection from configuration.
func TestNewAuth(t *testing.T) {
	t.Run("token", func(t *testing.T) {
		auth, err := NewAuth(AuthConfig{Type: "token", Token: "abc"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		basic, ok := auth.(*http.BasicAuth)
		if !ok {
			t.Fatalf("expected *http.BasicAuth, got %T", auth)
		}
		if basic.Password != "abc" {
			t.Errorf("expected token as password")
		}
	})

	t.Run("empty token", func(t *testing.T) {
		if _, err := NewAuth(AuthConfig{Type: "token"}); err == nil {
			t.Error("expected error for empty token")
		}
	})

	t.Run("none", func(t *testing.T) {
		auth, err := NewAuth(AuthConfig{})
		if err != nil || auth != nil {
			t.Errorf("expected nil auth and nil error, got %v, %v", auth, err)
		}
	})

	t.Run("ssh key too open", func(t *testing.T) {
		keyPath := filepath.Join(t.TempDir(), "id_ed25519")
		if err := os.WriteFile(keyPath, []byte("not a key"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewAuth(AuthConfig{Type: "ssh", SSHKeyPath: keyPath}); err == nil {
			t.Error("expected error for world-readable key")
		}
	})

	t.Run("ssh missing key", func(t *testing.T) {
		if _, err := NewAuth(AuthConfig{Type: "ssh", SSHKeyPath: "/nonexistent/key"}); err == nil {
			t.Error("expected error for missing key")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := NewAuth(AuthConfig{Type: "kerberos"}); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}

func TestNewLister_RequiresURL(t *testing.T) {
	if _, err := NewLister("", AuthConfig{}); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := NewLister("https://git.example.com/acme/site.git", AuthConfig{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
