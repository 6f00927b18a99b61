package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"identity_wallet/internal/domain"
	"identity_wallet/internal/mail"

	"github.com/sirupsen/logrus"
)

const verificationSubject = "Please Verify your email"

// Verifier issues and redeems email verification links. Links are keyed by
// username, which keeps existing emailed links redeemable.
type Verifier struct {
	store   PrincipalStore
	mailer  mail.Sender
	baseURL string
}

// NewVerifier creates a verifier building links under baseURL
func NewVerifier(store PrincipalStore, mailer mail.Sender, baseURL string) *Verifier {
	return &Verifier{store: store, mailer: mailer, baseURL: strings.TrimRight(baseURL, "/")}
}

// Link returns the redemption URL for username
func (v *Verifier) Link(username string) string {
	return v.baseURL + "/verify-email/" + url.PathEscape(username)
}

// Issue builds the link and mails it. Delivery failures are logged only.
func (v *Verifier) Issue(ctx context.Context, email, username string) string {
	link := v.Link(username)
	body := fmt.Sprintf(`<p>Thanks for signing up, %s!</p>
<p>You would be <strong>unable to login</strong> if this process is incomplete.</p>
<p><a href="%s">Verify Email Now</a></p>`, username, link)
	if err := v.mailer.Send(ctx, email, verificationSubject, body); err != nil {
		logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Error("Failed to send verification email")
	}
	return link
}

// Resend reissues the link while the email is unverified. Unknown and
// already verified emails succeed silently.
func (v *Verifier) Resend(ctx context.Context, email string) error {
	p, err := v.store.FindByIdentity(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if p.EmailVerified {
		return nil
	}
	v.Issue(ctx, p.Email, p.Username)
	return nil
}

// Redeem marks the principal's email verified. Redeeming twice is a no-op.
func (v *Verifier) Redeem(ctx context.Context, username string) (*domain.Principal, error) {
	p, err := v.store.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	if p.EmailVerified {
		return p, nil
	}
	verified := true
	p, err = v.store.Update(ctx, p.ID, domain.PrincipalUpdate{EmailVerified: &verified})
	if err != nil {
		return nil, err
	}
	logrus.WithField("principal_id", p.ID).Info("Email verified")
	return p, nil
}
