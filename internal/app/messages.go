// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// portal client.
//
// The Title* and Msg* constants are the user-visible texts of the
// notifications raised by the session controller and the terminal front end.
// Keeping them in one place ensures consistent wording throughout the client.
package app

const (
	// TitleProfileError is shown when the profile lookup itself fails.
	TitleProfileError = "Error"
	// MsgProfileError explains a failed profile lookup; the session is kept.
	MsgProfileError = "Failed to load your profile. Please try again."

	// TitleProfileNotFound is shown when no profile row exists for the user.
	TitleProfileNotFound = "Profile not found"
	// MsgProfileNotFound explains the forced sign-out of a user without a
	// profile.
	MsgProfileNotFound = "Your account profile could not be found. Please contact your barangay administrator."

	// TitleBarangayPending is shown when an admin or staff member belongs to
	// a barangay that has not been approved yet.
	TitleBarangayPending = "Barangay pending approval"
	// MsgBarangayPending explains the forced sign-out of an officer of an
	// unapproved barangay.
	MsgBarangayPending = "Your barangay registration is still awaiting approval. You will be able to sign in once it is approved."

	// TitleAccountPending is shown when the account status is pending.
	TitleAccountPending = "Account pending approval"
	// MsgAccountPending explains the forced sign-out of a pending account.
	MsgAccountPending = "Your account is awaiting approval from your barangay administrator."

	// TitleSignedOut is shown after a sign-out the backend confirmed.
	TitleSignedOut = "Signed out"
	// MsgSignedOut confirms a completed sign-out.
	MsgSignedOut = "You have been signed out successfully."

	// TitleSignedOutLocally is shown when the remote invalidation failed.
	TitleSignedOutLocally = "Signed out locally"
	// MsgSignedOutLocally explains that only the local session was cleared.
	MsgSignedOutLocally = "You were signed out on this device, but the server could not be reached."

	// TitleSettingsError is shown when a preference could not be saved.
	TitleSettingsError = "Settings not saved"

	// TitleSignInFailed is shown by the login form when sign-in fails.
	TitleSignInFailed = "Sign-in failed"
	// MsgInvalidCredentials is shown for rejected e-mail/password pairs.
	MsgInvalidCredentials = "Invalid email or password."
	// MsgAuthUnavailable is shown when the auth backend cannot be reached.
	MsgAuthUnavailable = "The authentication service is unavailable. Please try again later."

	// TitlePasswordReset is shown after a recovery e-mail was requested.
	TitlePasswordReset = "Check your email"
	// MsgPasswordReset confirms the recovery e-mail.
	MsgPasswordReset = "If an account exists for this address, a password reset link has been sent."
	// MsgEmailRequired is shown when forgot-password is used without an
	// e-mail address.
	MsgEmailRequired = "Enter your email address first."
)
