package auth

import "context"

// Provider is the surface passvault consumes from the identity provider.
//
// Contract:
//   - Subscribe registers the auth-state callbacks. onChange receives the
//     current principal (nil when signed out) and fires again on every
//     subsequent transition, on the caller's goroutine. onErr receives
//     subscription failures; a subscription error is terminal for that
//     attempt and is never followed by a synthesized sign-out.
//   - SignInWithPassword / SignInWithIdP initiate authentication and report
//     the outcome; on success the provider fires onChange before returning.
//   - SignOut ends the session locally and fires onChange with nil.
type Provider interface {
	Subscribe(onChange func(*Principal), onErr func(error)) error
	SignInWithPassword(ctx context.Context, email, password string) error
	SignInWithIdP(ctx context.Context, providerID, credential string) error
	SignOut(ctx context.Context) error
}
