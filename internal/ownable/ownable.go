// Package ownable is the capability every ownable entity exposes so that
// ownership checks are a single generic function instead of per-type probing.
package ownable

// Resource is anything owned by a single profile.
type Resource interface {
	OwnerID() string
}

// OwnedBy reports whether r belongs to the given profile.
func OwnedBy(r Resource, profileID string) bool {
	if r == nil || profileID == "" {
		return false
	}
	return r.OwnerID() == profileID
}
