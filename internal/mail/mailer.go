// Package mail is the outbound notification boundary. The gateway only ever
// sends two kinds of mail: the verification email after registration and the
// password reset email. Delivery failures are the caller's decision to
// surface or swallow.
package mail

import "context"

// Mailer dispatches identity-lifecycle emails.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, link, name string) error
	SendPasswordResetEmail(ctx context.Context, to, link, name string) error
}

const verificationSubject = "Verify your email address"

const verificationBody = `<p>Hi %s,</p>
<p>Thanks for registering. Please confirm your email address by following the
link below:</p>
<p><a href="%s">Verify email</a></p>
<p>If you did not create this account, you can ignore this message.</p>`

const passwordResetSubject = "Reset your password"

const passwordResetBody = `<p>Hi %s,</p>
<p>We received a request to reset your password. Follow the link below to
choose a new one:</p>
<p><a href="%s">Reset password</a></p>
<p>If you did not request this, you can ignore this message; the link expires
on its own.</p>`
