package usecase

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/carbonroom/carbonroom/internal/registry"
)

//go:embed templates/*
var templates embed.FS

var (
	certificateTmpl = template.Must(template.ParseFS(templates, "templates/certificate.html"))
	documentTmpl    = texttemplate.Must(texttemplate.ParseFS(templates, "templates/document.txt.tmpl"))
)

// Certificate is a rendered registration certificate. The HTML and the
// plain-text legal document are generated once at registration and
// stored verbatim.
type Certificate struct {
	ID              uuid.UUID
	ProtocolID      uuid.UUID
	CertificateID   string
	HTML            string
	DocumentText    string
	CertificateHash string
	CreatedAt       time.Time
}

type certificateData struct {
	Name            string
	Type            string
	Version         string
	Description     string
	CertificateID   string
	CreatorName     string
	CreatorCompany  string
	CoCreators      string
	IsRemix         bool
	OriginalCreator string
	OriginalAsset   string
	OriginalHash    string
	RegisteredAt    string
	IssuedAt        string
	Watermark       string
	BlockchainHash  string
	CertificateHash string
	VerifyURL       string
	QRCodeDataURI   template.URL
}

func (u Usecase) buildCertificate(p Protocol, timestamp string) (Certificate, error) {
	certHash := registry.CertificateHash(p.Name, ownerName(p), timestamp, p.BlockchainHash)

	data := certificateData{
		Name:            p.Name,
		Type:            strings.ToUpper(string(p.Type)),
		Version:         p.Version,
		Description:     p.Description,
		CertificateID:   p.CertificateID,
		CreatorName:     ownerName(p),
		CreatorCompany:  ownerCompany(p),
		CoCreators:      strings.Join(p.CoCreatorNames(), ", "),
		IsRemix:         p.IsRemix,
		OriginalCreator: p.OriginalCreator,
		OriginalAsset:   p.OriginalAsset,
		OriginalHash:    p.OriginalHash,
		RegisteredAt:    formatCertTimestamp(timestamp),
		IssuedAt:        time.Now().UTC().Format("January 02, 2006"),
		Watermark:       p.Watermark,
		BlockchainHash:  p.BlockchainHash,
		CertificateHash: certHash,
		VerifyURL:       u.verifyBaseURL + "/" + p.BlockchainHash[:16],
	}

	// QR code resolves to the public verification page; rendered inline
	// so the certificate stays a single self-contained document.
	if png, err := qrcode.Encode(data.VerifyURL, qrcode.Low, 128); err == nil {
		data.QRCodeDataURI = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	var html bytes.Buffer
	if err := certificateTmpl.Execute(&html, data); err != nil {
		return Certificate{}, fmt.Errorf("rendering certificate html: %w", err)
	}

	var doc bytes.Buffer
	if err := documentTmpl.Execute(&doc, data); err != nil {
		return Certificate{}, fmt.Errorf("rendering legal document: %w", err)
	}

	return Certificate{
		CertificateID:   p.CertificateID,
		HTML:            html.String(),
		DocumentText:    doc.String(),
		CertificateHash: certHash,
	}, nil
}

func ownerName(p Protocol) string {
	if o := p.Owner(); o != nil {
		return o.Name
	}
	return ""
}

func ownerCompany(p Protocol) string {
	if o := p.Owner(); o != nil {
		return o.Company
	}
	return ""
}

// formatCertTimestamp turns an RFC 3339 timestamp into the long-form
// date printed on certificates; unparseable input passes through.
func formatCertTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format("January 02, 2006 at 15:04:05 UTC")
}

func (u Usecase) GetCertificate(ctx context.Context, shortID string) (Certificate, error) {
	p, err := u.repo.GetProtocolByShortID(ctx, shortID)
	if err != nil {
		return Certificate{}, err
	}
	return u.repo.GetCertificateByProtocolID(ctx, p.ID)
}
