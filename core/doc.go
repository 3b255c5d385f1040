// Package core defines the shared identifier types of the biscuit index:
// the internal 32-bit slot number and the host-supplied tuple identifier.
package core
