// Package auth tracks the authenticated-session lifecycle: it owns the single
// subscription to the identity provider's auth-state signal and republishes
// transitions as typed session events.
package auth

// ProviderTag identifies how a principal authenticated.
type ProviderTag string

const (
	ProviderPassword ProviderTag = "password"
	ProviderGoogle   ProviderTag = "google.com"
	ProviderGithub   ProviderTag = "github.com"
)

// Identity describes an authenticated principal. UID is the provider-assigned
// stable identifier and is the only field other components rely on; it names
// the per-user storage namespace.
type Identity struct {
	UID          string
	DisplayLabel string
	Provider     ProviderTag
}

// Principal is the raw payload the identity provider delivers on each
// auth-state callback. Optional fields may be empty; nil means signed out.
type Principal struct {
	UID         string
	Email       string
	DisplayName string
	Provider    string
}

// identityFromPrincipal builds an Identity, falling back to the email (and
// then the UID) for the display label, and to password auth for the provider
// tag, when the provider omits the optional fields.
func identityFromPrincipal(p *Principal) Identity {
	label := p.DisplayName
	if label == "" {
		label = p.Email
	}
	if label == "" {
		label = p.UID
	}
	tag := ProviderTag(p.Provider)
	if tag == "" {
		tag = ProviderPassword
	}
	return Identity{UID: p.UID, DisplayLabel: label, Provider: tag}
}
