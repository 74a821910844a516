package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carbonroom/carbonroom/internal/registry"
)

// fakeRepo is an in-memory Repository for tests.
type fakeRepo struct {
	protocols    map[string]Protocol // keyed by short id
	creators     map[string]Creator  // keyed by name
	certificates map[uuid.UUID]Certificate
	invocations  []Invocation
	detections   map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		protocols:    map[string]Protocol{},
		creators:     map[string]Creator{},
		certificates: map[uuid.UUID]Certificate{},
		detections:   map[string]int{},
	}
}

func (r *fakeRepo) Health() map[string]string { return map[string]string{"status": "up"} }
func (r *fakeRepo) Close() error              { return nil }

func (r *fakeRepo) CreateProtocol(_ context.Context, p Protocol) (Protocol, error) {
	p.ID = uuid.New()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	if p.Certificate != nil {
		cert := *p.Certificate
		cert.ID = uuid.New()
		cert.ProtocolID = p.ID
		r.certificates[p.ID] = cert
		p.Certificate = &cert
	}
	r.protocols[p.ShortID] = p
	return p, nil
}

func (r *fakeRepo) GetProtocolByShortID(_ context.Context, id string) (Protocol, error) {
	p, ok := r.protocols[id]
	if !ok {
		return Protocol{}, ErrProtocolNotFound
	}
	return p, nil
}

func (r *fakeRepo) GetProtocolByHash(_ context.Context, hash string) (Protocol, error) {
	for _, p := range r.protocols {
		if p.BlockchainHash == hash {
			return p, nil
		}
	}
	return Protocol{}, ErrProtocolNotFound
}

func (r *fakeRepo) GetProtocolByWatermark(_ context.Context, wm string) (Protocol, error) {
	for _, p := range r.protocols {
		if p.Watermark == wm {
			return p, nil
		}
	}
	return Protocol{}, ErrProtocolNotFound
}

func (r *fakeRepo) ListProtocols(_ context.Context, opt ListProtocolsOption) ([]Protocol, int, error) {
	var list []Protocol
	for _, p := range r.protocols {
		if opt.Type != "" && p.Type != opt.Type {
			continue
		}
		list = append(list, p)
	}
	return list, len(list), nil
}

func (r *fakeRepo) SearchProtocols(_ context.Context, keyword string) ([]Protocol, error) {
	keyword = strings.ToLower(keyword)
	var list []Protocol
	for _, p := range r.protocols {
		if strings.Contains(strings.ToLower(p.Name), keyword) {
			list = append(list, p)
			continue
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), keyword) {
				list = append(list, p)
				break
			}
		}
	}
	return list, nil
}

func (r *fakeRepo) CreateInvocation(_ context.Context, inv Invocation) (Invocation, error) {
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now().UTC()
	r.invocations = append(r.invocations, inv)
	for id, p := range r.protocols {
		if p.ID == inv.ProtocolID {
			p.InvocationCount++
			r.protocols[id] = p
		}
	}
	return inv, nil
}

func (r *fakeRepo) GetOrCreateCreator(_ context.Context, c Creator) (Creator, error) {
	if existing, ok := r.creators[c.Name]; ok {
		return existing, nil
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now().UTC()
	r.creators[c.Name] = c
	return c, nil
}

func (r *fakeRepo) GetCreatorByID(_ context.Context, id uuid.UUID) (Creator, error) {
	for _, c := range r.creators {
		if c.ID == id {
			return c, nil
		}
	}
	return Creator{}, ErrCreatorNotFound
}

func (r *fakeRepo) ListCreators(_ context.Context, _ ListCreatorsOption) ([]Creator, int, error) {
	var list []Creator
	for _, c := range r.creators {
		list = append(list, c)
	}
	return list, len(list), nil
}

func (r *fakeRepo) GetCertificateByProtocolID(_ context.Context, id uuid.UUID) (Certificate, error) {
	cert, ok := r.certificates[id]
	if !ok {
		return Certificate{}, ErrCertificateNotFound
	}
	return cert, nil
}

func (r *fakeRepo) RecordWatermarkDetection(_ context.Context, token string) error {
	r.detections[token]++
	return nil
}

func (r *fakeRepo) CountProtocols(context.Context) (int, error)    { return len(r.protocols), nil }
func (r *fakeRepo) CountInvocations(context.Context) (int, error)  { return len(r.invocations), nil }
func (r *fakeRepo) CountCertificates(context.Context) (int, error) { return len(r.certificates), nil }
func (r *fakeRepo) CountWatermarkDetections(context.Context) (int, error) {
	var n int
	for _, c := range r.detections {
		n += c
	}
	return n, nil
}

type fakeFileStorage struct {
	stored map[string][]byte
}

func (f *fakeFileStorage) StoreVaultFile(_ context.Context, name string, content []byte, _ string) error {
	if f.stored == nil {
		f.stored = map[string][]byte{}
	}
	f.stored[name] = content
	return nil
}

func (f *fakeFileStorage) GetVaultDownloadURL(_ context.Context, name string) (string, error) {
	return "https://vault.test/" + name, nil
}

type fakeMailer struct {
	sent []Email
}

func (f *fakeMailer) SendEmail(_ context.Context, e Email) error {
	f.sent = append(f.sent, e)
	return nil
}

type fakeTasks struct {
	backups []string
	emails  []string
}

func (f *fakeTasks) EnqueueGitHubBackup(_ context.Context, id string) error {
	f.backups = append(f.backups, id)
	return nil
}

func (f *fakeTasks) EnqueueCertificateEmail(_ context.Context, id string) error {
	f.emails = append(f.emails, id)
	return nil
}

func newTestUsecase() (Usecase, *fakeRepo, *fakeFileStorage, *fakeTasks) {
	repo := newFakeRepo()
	fs := &fakeFileStorage{}
	tasks := &fakeTasks{}
	u := New(repo, fs, &fakeMailer{}, tasks, registry.NewWatermarker("C6"), "https://carbonroom.io/verify")
	return u, repo, fs, tasks
}
