package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carbonroom/carbonroom/internal/usecase"
)

// stubService implements Service with canned responses per test.
type stubService struct {
	protocol    usecase.Protocol
	protocols   []usecase.Protocol
	chain       usecase.AttributionChain
	certificate usecase.Certificate
	verify      usecase.VerifyResult
	creators    []usecase.Creator
	stats       usecase.Stats
	err         error

	registered *usecase.RegisterProtocolInput
	invoked    *usecase.InvokeProtocolInput
}

func (s *stubService) Health() map[string]string { return map[string]string{"status": "up"} }
func (s *stubService) Close() error              { return nil }

func (s *stubService) RegisterProtocol(_ context.Context, in usecase.RegisterProtocolInput) (usecase.Protocol, error) {
	s.registered = &in
	return s.protocol, s.err
}

func (s *stubService) ListProtocols(context.Context, usecase.ListProtocolsOption) ([]usecase.Protocol, int, error) {
	return s.protocols, len(s.protocols), s.err
}

func (s *stubService) GetProtocolByShortID(context.Context, string) (usecase.Protocol, error) {
	return s.protocol, s.err
}

func (s *stubService) InvokeProtocol(_ context.Context, in usecase.InvokeProtocolInput) (usecase.Protocol, error) {
	s.invoked = &in
	return s.protocol, s.err
}

func (s *stubService) GetVaultDownloadURL(context.Context, string) (string, error) {
	return "https://vault.test/obj", s.err
}

func (s *stubService) GetAttributionChain(context.Context, string) (usecase.AttributionChain, error) {
	return s.chain, s.err
}

func (s *stubService) GetCertificate(context.Context, string) (usecase.Certificate, error) {
	return s.certificate, s.err
}

func (s *stubService) VerifyWatermark(context.Context, string) (usecase.VerifyResult, error) {
	return s.verify, s.err
}

func (s *stubService) StampContent(_ context.Context, _, content, fileExt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "# stamped " + fileExt + "\n" + content, nil
}

func (s *stubService) ListCreators(context.Context, usecase.ListCreatorsOption) ([]usecase.Creator, int, error) {
	return s.creators, len(s.creators), s.err
}

func (s *stubService) GetCreatorByID(context.Context, uuid.UUID) (usecase.Creator, error) {
	if len(s.creators) == 0 {
		return usecase.Creator{}, usecase.ErrCreatorNotFound
	}
	return s.creators[0], s.err
}

func (s *stubService) GetStats(context.Context) (usecase.Stats, error) {
	return s.stats, s.err
}

func newTestServer(svc Service) *Server {
	return &Server{server: svc, validator: validator.New()}
}

func sampleProtocol() usecase.Protocol {
	return usecase.Protocol{
		ID:             uuid.New(),
		ShortID:        "a1b2c3d4",
		Name:           "Payment Flow",
		Type:           usecase.ProtocolTypeCode,
		Version:        "1.0",
		FileHash:       strings.Repeat("a", 64),
		BlockchainHash: strings.Repeat("b", 64),
		Watermark:      "C6-A1B2C3D4-DEADBEEF",
		CertificateID:  "C6-" + strings.Repeat("B", 16),
		CreatedAt:      time.Now().UTC(),
		Creators: []usecase.ProtocolCreator{{
			Role:    usecase.CreatorRoleOwner,
			Creator: usecase.Creator{ID: uuid.New(), Name: "Ada"},
		}},
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(&stubService{})
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"up"`) {
		t.Errorf("body = %s, want status up", rec.Body.String())
	}
}

func TestRegisterProtocolHandler(t *testing.T) {
	svc := &stubService{protocol: sampleProtocol()}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Payment Flow")
	_ = mw.WriteField("type", "code")
	_ = mw.WriteField("creator_name", "Ada")
	_ = mw.WriteField("tags", "payments, checkout")
	fw, _ := mw.CreateFormFile("file", "flow.py")
	_, _ = fw.Write([]byte("def checkout(): pass\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 201 {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if svc.registered == nil {
		t.Fatal("service never received the registration")
	}
	if svc.registered.Filename != "flow.py" {
		t.Errorf("filename = %q, want flow.py", svc.registered.Filename)
	}
	if string(svc.registered.Content) != "def checkout(): pass\n" {
		t.Errorf("content = %q, want the uploaded bytes", svc.registered.Content)
	}
	if len(svc.registered.Tags) != 2 || svc.registered.Tags[1] != "checkout" {
		t.Errorf("tags = %v, want [payments checkout]", svc.registered.Tags)
	}
}

func TestRegisterProtocolHandlerMissingFile(t *testing.T) {
	s := newTestServer(&stubService{})
	h := s.RegisterRoutes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "No File")
	_ = mw.WriteField("creator_name", "Ada")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400 for missing file", rec.Code)
	}
}

func TestRegisterProtocolHandlerValidation(t *testing.T) {
	s := newTestServer(&stubService{})
	h := s.RegisterRoutes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Bad Type")
	_ = mw.WriteField("creator_name", "Ada")
	_ = mw.WriteField("type", "sculpture")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 422 {
		t.Errorf("status = %d, want 422 for invalid type", rec.Code)
	}
}

func TestRegisterProtocolHandlerCollision(t *testing.T) {
	svc := &stubService{err: usecase.ErrHashCollision}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Dup")
	_ = mw.WriteField("creator_name", "Ada")
	fw, _ := mw.CreateFormFile("file", "dup.txt")
	_, _ = fw.Write([]byte("dup"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 409 {
		t.Errorf("status = %d, want 409 for hash collision", rec.Code)
	}
}

func TestGetProtocolByIDHandler(t *testing.T) {
	svc := &stubService{protocol: sampleProtocol()}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols/a1b2c3d4", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		Data Protocol `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if res.Data.ID != "a1b2c3d4" || res.Data.Watermark != "C6-A1B2C3D4-DEADBEEF" {
		t.Errorf("data = %+v, want the sample protocol", res.Data)
	}
}

func TestGetProtocolByIDHandlerNotFound(t *testing.T) {
	svc := &stubService{err: usecase.ErrProtocolNotFound}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols/ffffffff", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetProtocolByIDHandlerBadID(t *testing.T) {
	s := newTestServer(&stubService{})
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols/not-an-id!", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 422 {
		t.Errorf("status = %d, want 422 for malformed id", rec.Code)
	}
}

func TestListProtocolsHandler(t *testing.T) {
	svc := &stubService{protocols: []usecase.Protocol{sampleProtocol()}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols?limit=10", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		Data []Protocol `json:"data"`
		Meta *Meta      `json:"meta"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(res.Data) != 1 || res.Meta == nil || res.Meta.Total != 1 {
		t.Errorf("response = %+v, want one protocol with meta", res)
	}
}

func TestInvokeProtocolHandler(t *testing.T) {
	svc := &stubService{protocol: sampleProtocol()}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	body := `{"keyword":"payment"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols/invoke", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "curl/8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if svc.invoked == nil || svc.invoked.Keyword != "payment" {
		t.Errorf("invoked = %+v, want keyword payment", svc.invoked)
	}
	if svc.invoked.UserAgent != "curl/8" {
		t.Errorf("user agent = %q, want curl/8", svc.invoked.UserAgent)
	}
}

func TestVerifyWatermarkHandler(t *testing.T) {
	svc := &stubService{verify: usecase.VerifyResult{
		Found:      true,
		Registered: true,
		Watermark:  "C6-A1B2C3D4-DEADBEEF",
		Protocol:   "Payment Flow",
		Creator:    "Ada",
	}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	body := `{"content":"header C6-A1B2C3D4-DEADBEEF footer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		Data VerifyResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !res.Data.Found || !res.Data.Registered || res.Data.Creator != "Ada" {
		t.Errorf("data = %+v, want registered hit by Ada", res.Data)
	}
}

func TestVerifyWatermarkHandlerEmptyContent(t *testing.T) {
	s := newTestServer(&stubService{})
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/verify", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 422 {
		t.Errorf("status = %d, want 422 for empty content", rec.Code)
	}
}

func TestStampContentHandler(t *testing.T) {
	s := newTestServer(&stubService{})
	h := s.RegisterRoutes()

	body := `{"content":"x=1","filename":"snippet.py"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/protocols/a1b2c3d4/stamp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "stamped .py") {
		t.Errorf("body = %s, want stamped content", rec.Body.String())
	}
}

func TestGetAttributionChainHandler(t *testing.T) {
	svc := &stubService{chain: usecase.AttributionChain{
		IsRemix: true,
		Chain: []usecase.AttributionEntry{
			{ID: "root0000", Name: "Original"},
			{ID: "a1b2c3d4", Name: "Remix", IsRemix: true},
		},
	}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols/a1b2c3d4/attribution", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		Data AttributionChain `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if res.Data.Depth != 2 || res.Data.Chain[0].Name != "Original" {
		t.Errorf("data = %+v, want root-first chain of 2", res.Data)
	}
}

func TestGetCertificateHandler(t *testing.T) {
	svc := &stubService{certificate: usecase.Certificate{
		CertificateID: "C6-ABCDEF0123456789",
		HTML:          "<html><body>Certificate</body></html>",
		DocumentText:  "CERTIFICATE OF REGISTRATION",
	}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols/a1b2c3d4/certificate", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type = %q, want text/html", ct)
	}
	if !strings.Contains(rec.Body.String(), "Certificate") {
		t.Errorf("body = %q, want the certificate html", rec.Body.String())
	}
}

func TestGetDocumentHandler(t *testing.T) {
	svc := &stubService{certificate: usecase.Certificate{
		CertificateID: "C6-ABCDEF0123456789",
		DocumentText:  "CERTIFICATE OF REGISTRATION",
	}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protocols/a1b2c3d4/document", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "C6-ABCDEF0123456789.txt") {
		t.Errorf("content disposition = %q, want attachment filename", cd)
	}
}

func TestGetStatsHandler(t *testing.T) {
	svc := &stubService{stats: usecase.Stats{TotalProtocols: 3, CertificatesIssued: 3}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res struct {
		Data StatsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if res.Data.TotalProtocols != 3 {
		t.Errorf("data = %+v, want 3 protocols", res.Data)
	}
}

func TestListCreatorsHandler(t *testing.T) {
	svc := &stubService{creators: []usecase.Creator{{ID: uuid.New(), Name: "Ada"}}}
	s := newTestServer(svc)
	h := s.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/creators?limit=5", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ada") {
		t.Errorf("body = %s, want creator Ada", rec.Body.String())
	}
}
