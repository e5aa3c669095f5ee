// Package vm orchestrates the provisioning pipeline: identity
// completion, disk provisioning, guest configuration, state
// persistence, and hypervisor launch.
package vm
