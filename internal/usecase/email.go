package usecase

import (
	"context"
	"fmt"
)

type Email struct {
	To          []string
	From        string
	CC          []string
	BCC         []string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

type EmailAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}

// SendCertificateEmail delivers the registration certificate to the
// protocol owner. Called from the background worker, not the request
// path.
func (u Usecase) SendCertificateEmail(ctx context.Context, shortID string) error {
	p, err := u.repo.GetProtocolByShortID(ctx, shortID)
	if err != nil {
		return err
	}

	owner := p.Owner()
	if owner == nil || owner.Email == "" {
		// Nothing to deliver; not an error.
		return nil
	}

	cert, err := u.repo.GetCertificateByProtocolID(ctx, p.ID)
	if err != nil {
		return err
	}

	return u.mailer.SendEmail(ctx, Email{
		To:      []string{owner.Email},
		From:    "no-reply@carbonroom.io",
		Subject: fmt.Sprintf("IP Registration Certificate - %s", p.Name),
		Body:    cert.HTML,
		Attachments: []EmailAttachment{{
			Name:        p.CertificateID + ".txt",
			ContentType: "text/plain",
			Content:     []byte(cert.DocumentText),
		}},
	})
}
