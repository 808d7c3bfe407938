package tui

import (
	"crypto/ed25519"
	"strings"
	"testing"

	gossh "golang.org/x/crypto/ssh"
)

func TestSSHPlayerID(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("GenerateKey() failed: %v", err)
	}
	key, err := gossh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("NewPublicKey() failed: %v", err)
	}

	keyed := sshPlayerID("alice", key)
	if !strings.HasPrefix(keyed, "ssh-key:SHA256:") {
		t.Errorf("sshPlayerID with key = %q, expected a SHA256 fingerprint", keyed)
	}
	if again := sshPlayerID("bob", key); again != keyed {
		t.Errorf("Same key gave %q and %q, expected one id regardless of user", keyed, again)
	}

	if got := sshPlayerID("alice", nil); got != "ssh-user:alice" {
		t.Errorf("sshPlayerID without key = %q, expected ssh-user:alice", got)
	}
	if sshPlayerID("alice", nil) == sshPlayerID("bob", nil) {
		t.Error("Different users without keys should get different ids")
	}
}
