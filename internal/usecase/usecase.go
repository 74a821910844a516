package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/carbonroom/carbonroom/internal/registry"
)

// Registration failure modes the transport layer maps to responses.
// Collisions abort persistence; re-registration with a fresh timestamp
// and short id resolves them naturally.
var (
	ErrProtocolNotFound    = errors.New("protocol not found")
	ErrCreatorNotFound     = errors.New("creator not found")
	ErrCertificateNotFound = errors.New("certificate not found")
	ErrHashCollision       = errors.New("blockchain hash already registered")
	ErrWatermarkCollision  = errors.New("watermark already registered")
)

// Repository is the storage collaborator. It must enforce the
// uniqueness of blockchain hashes and watermarks at commit time and
// reflect a consistent snapshot within a single call.
type Repository interface {
	Health() map[string]string
	Close() error

	CreateProtocol(context.Context, Protocol) (Protocol, error)
	GetProtocolByShortID(context.Context, string) (Protocol, error)
	GetProtocolByHash(context.Context, string) (Protocol, error)
	GetProtocolByWatermark(context.Context, string) (Protocol, error)
	ListProtocols(context.Context, ListProtocolsOption) ([]Protocol, int, error)
	SearchProtocols(context.Context, string) ([]Protocol, error)

	CreateInvocation(context.Context, Invocation) (Invocation, error)

	GetOrCreateCreator(context.Context, Creator) (Creator, error)
	GetCreatorByID(context.Context, uuid.UUID) (Creator, error)
	ListCreators(context.Context, ListCreatorsOption) ([]Creator, int, error)

	GetCertificateByProtocolID(context.Context, uuid.UUID) (Certificate, error)

	RecordWatermarkDetection(context.Context, string) error

	CountProtocols(context.Context) (int, error)
	CountInvocations(context.Context) (int, error)
	CountCertificates(context.Context) (int, error)
	CountWatermarkDetections(context.Context) (int, error)
}

// FileStorageProvider stores registered asset bytes in the vault.
type FileStorageProvider interface {
	StoreVaultFile(ctx context.Context, name string, content []byte, contentType string) error
	GetVaultDownloadURL(ctx context.Context, name string) (string, error)
}

// MailProvider delivers certificate emails.
type MailProvider interface {
	SendEmail(context.Context, Email) error
}

// TaskEnqueuer hands follow-up work to the background worker.
type TaskEnqueuer interface {
	EnqueueGitHubBackup(ctx context.Context, protocolShortID string) error
	EnqueueCertificateEmail(ctx context.Context, protocolShortID string) error
}

func New(
	repo Repository,
	fileStorageProvider FileStorageProvider,
	mailer MailProvider,
	tasks TaskEnqueuer,
	wm registry.Watermarker,
	verifyBaseURL string,
) Usecase {
	return Usecase{
		repo:                repo,
		fileStorageProvider: fileStorageProvider,
		mailer:              mailer,
		tasks:               tasks,
		wm:                  wm,
		assembler:           registry.NewAssembler(wm),
		verifyBaseURL:       verifyBaseURL,
	}
}

type Usecase struct {
	repo                Repository
	fileStorageProvider FileStorageProvider
	mailer              MailProvider
	tasks               TaskEnqueuer
	wm                  registry.Watermarker
	assembler           registry.Assembler
	verifyBaseURL       string
}

func (u Usecase) Health() map[string]string {
	return u.repo.Health()
}

func (u Usecase) Close() error {
	return u.repo.Close()
}
