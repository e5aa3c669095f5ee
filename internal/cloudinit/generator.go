// Package cloudinit generates the first-boot guest configuration
// consumed by the cloud-init NoCloud datasource: user-data and
// meta-data documents, packaged onto a mountable ISO volume.
//
// See https://cloudinit.readthedocs.io/en/latest/reference/datasources/nocloud.html
package cloudinit

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Timezone configured in every guest.
const Timezone = "Europe/Rome"

// guestInterface is the single predictable-name NIC of the virt
// machine type; cloud-init configures it for DHCP.
const guestInterface = "enp0s1"

// UserData is the cloud-config document. It is marshaled to YAML and
// prefixed with the required "#cloud-config" header.
type UserData struct {
	Hostname        string   `yaml:"hostname"`
	FQDN            string   `yaml:"fqdn"`
	Timezone        string   `yaml:"timezone"`
	SSHPasswordAuth bool     `yaml:"ssh_pwauth"`
	DisableRoot     bool     `yaml:"disable_root"`
	Network         Network  `yaml:"network"`
	Users           []User   `yaml:"users"`
	Packages        []string `yaml:"packages"`
	RunCmd          []string `yaml:"runcmd"`
	FinalMessage    string   `yaml:"final_message"`
}

// Network is the version-2 network configuration embedded in user-data.
type Network struct {
	Version   int                 `yaml:"version"`
	Ethernets map[string]Ethernet `yaml:"ethernets"`
}

// Ethernet configures one guest interface.
type Ethernet struct {
	DHCP4 bool `yaml:"dhcp4"`
	DHCP6 bool `yaml:"dhcp6"`
}

// User is one entry of the cloud-config users list.
type User struct {
	Name       string   `yaml:"name"`
	Sudo       string   `yaml:"sudo,omitempty"`
	Groups     []string `yaml:"groups,omitempty,flow"`
	Shell      string   `yaml:"shell,omitempty"`
	LockPasswd bool     `yaml:"lock_passwd"`
	Passwd     string   `yaml:"passwd"`
}

// MetaData is the NoCloud instance metadata document.
type MetaData struct {
	InstanceID    string `yaml:"instance-id"`
	LocalHostname string `yaml:"local-hostname"`
}

// defaultPackages is the fixed first-boot package set: remote login,
// admin tools, and mDNS hostname discovery.
var defaultPackages = []string{
	"openssh-server",
	"sudo",
	"curl",
	"wget",
	"vim",
	"net-tools",
	"htop",
	"avahi-daemon",
	"avahi-utils",
}

// GenerateUserData renders the user-data document. The VM name becomes
// hostname and FQDN (<name>.local); username and root both receive the
// same salted password hash; SSH password login and root login are
// enabled; the single interface runs DHCP.
func GenerateUserData(name, username, passwordHash string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("VM name is required")
	}
	if username == "" {
		return "", fmt.Errorf("username is required")
	}
	if passwordHash == "" {
		return "", fmt.Errorf("password hash is required")
	}

	userData := UserData{
		Hostname:        name,
		FQDN:            name + ".local",
		Timezone:        Timezone,
		SSHPasswordAuth: true,
		DisableRoot:     false,
		Network: Network{
			Version: 2,
			Ethernets: map[string]Ethernet{
				guestInterface: {DHCP4: true, DHCP6: true},
			},
		},
		Users: []User{
			{
				Name:       username,
				Sudo:       "ALL=(ALL) NOPASSWD:ALL",
				Groups:     []string{"sudo", "users"},
				Shell:      "/bin/bash",
				LockPasswd: false,
				Passwd:     passwordHash,
			},
			{
				Name:       "root",
				LockPasswd: false,
				Passwd:     passwordHash,
			},
		},
		Packages: defaultPackages,
		RunCmd: []string{
			"systemctl enable ssh",
			"systemctl start ssh",
			"systemctl enable avahi-daemon",
			"systemctl start avahi-daemon",
			`echo "VM is ready!" > /tmp/vm-ready`,
		},
		FinalMessage: fmt.Sprintf("VM %s is ready! SSH available on port 22.", name),
	}

	yamlBytes, err := yaml.Marshal(&userData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user-data to YAML: %w", err)
	}

	return "#cloud-config\n" + string(yamlBytes), nil
}

// GenerateMetaData renders the meta-data document. The instance id is
// <name>-<unixtime>, unique per creation so cloud-init treats every
// provisioning run as a first boot.
func GenerateMetaData(name string, now time.Time) (string, error) {
	if name == "" {
		return "", fmt.Errorf("VM name is required")
	}

	metaData := MetaData{
		InstanceID:    fmt.Sprintf("%s-%d", name, now.Unix()),
		LocalHostname: name,
	}

	yamlBytes, err := yaml.Marshal(&metaData)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meta-data to YAML: %w", err)
	}

	return string(yamlBytes), nil
}
