package cloudinit

import (
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

const testHash = "$6$rounds=4096$saltsalt$hashedhashedhashedhashed"

func TestGenerateUserData(t *testing.T) {
	content, err := GenerateUserData("demo1", "alice", testHash)
	if err != nil {
		t.Fatalf("GenerateUserData() error = %v", err)
	}

	if !strings.HasPrefix(content, "#cloud-config\n") {
		t.Error("user-data must start with '#cloud-config'")
	}

	var userData UserData
	if err := yaml.Unmarshal([]byte(strings.TrimPrefix(content, "#cloud-config\n")), &userData); err != nil {
		t.Fatalf("failed to parse user-data YAML: %v", err)
	}

	if userData.Hostname != "demo1" {
		t.Errorf("hostname = %q, want %q", userData.Hostname, "demo1")
	}
	if userData.FQDN != "demo1.local" {
		t.Errorf("fqdn = %q, want %q", userData.FQDN, "demo1.local")
	}
	if userData.Timezone != Timezone {
		t.Errorf("timezone = %q, want %q", userData.Timezone, Timezone)
	}
	if !userData.SSHPasswordAuth {
		t.Error("ssh_pwauth must be enabled")
	}
	if userData.DisableRoot {
		t.Error("root login must not be disabled")
	}

	if userData.Network.Version != 2 {
		t.Errorf("network version = %d, want 2", userData.Network.Version)
	}
	eth, ok := userData.Network.Ethernets[guestInterface]
	if !ok {
		t.Fatalf("missing %s in network config", guestInterface)
	}
	if !eth.DHCP4 || !eth.DHCP6 {
		t.Error("interface must use DHCP for v4 and v6")
	}

	if len(userData.Users) != 2 {
		t.Fatalf("users = %d, want 2", len(userData.Users))
	}
	user, root := userData.Users[0], userData.Users[1]
	if user.Name != "alice" {
		t.Errorf("user name = %q, want alice", user.Name)
	}
	if user.Sudo != "ALL=(ALL) NOPASSWD:ALL" {
		t.Errorf("user sudo = %q", user.Sudo)
	}
	if user.Passwd == "" || user.Passwd == "secret123" {
		t.Error("user passwd must be the hash, never the plaintext")
	}
	if root.Name != "root" {
		t.Errorf("second user = %q, want root", root.Name)
	}
	if root.Passwd != user.Passwd {
		t.Error("root and user must share the same hash")
	}
	if user.LockPasswd || root.LockPasswd {
		t.Error("accounts must not be locked")
	}

	for _, pkg := range []string{"openssh-server", "avahi-daemon", "sudo"} {
		if !contains(userData.Packages, pkg) {
			t.Errorf("packages missing %q", pkg)
		}
	}
	if !contains(userData.RunCmd, "systemctl enable ssh") {
		t.Error("runcmd must enable ssh")
	}
	if !contains(userData.RunCmd, "systemctl start avahi-daemon") {
		t.Error("runcmd must start avahi-daemon")
	}
}

func TestGenerateUserDataValidation(t *testing.T) {
	tests := []struct {
		name     string
		vmName   string
		username string
		hash     string
	}{
		{name: "missing name", username: "alice", hash: testHash},
		{name: "missing username", vmName: "demo1", hash: testHash},
		{name: "missing hash", vmName: "demo1", username: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := GenerateUserData(tt.vmName, tt.username, tt.hash); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGenerateMetaData(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	content, err := GenerateMetaData("demo1", now)
	if err != nil {
		t.Fatalf("GenerateMetaData() error = %v", err)
	}

	var metaData MetaData
	if err := yaml.Unmarshal([]byte(content), &metaData); err != nil {
		t.Fatalf("failed to parse meta-data YAML: %v", err)
	}

	wantID := "demo1-1748779200"
	if metaData.InstanceID != wantID {
		t.Errorf("instance-id = %q, want %q", metaData.InstanceID, wantID)
	}
	if metaData.LocalHostname != "demo1" {
		t.Errorf("local-hostname = %q, want demo1", metaData.LocalHostname)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
