package usecase

import (
	"context"
	"testing"
)

func TestGetStats(t *testing.T) {
	u, _, _, _ := newTestUsecase()
	ctx := context.Background()

	if _, err := u.RegisterProtocol(ctx, RegisterProtocolInput{
		Name:        "Asset One",
		Type:        ProtocolTypeCode,
		Filename:    "a.go",
		Content:     []byte("package a"),
		CreatorName: "Ada",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	p, err := u.RegisterProtocol(ctx, RegisterProtocolInput{
		Name:        "Asset Two",
		Type:        ProtocolTypeCode,
		Filename:    "b.go",
		Content:     []byte("package b"),
		CreatorName: "Ada",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := u.InvokeProtocol(ctx, InvokeProtocolInput{Keyword: "asset two"}); err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if _, err := u.VerifyWatermark(ctx, "found "+p.Watermark); err != nil {
		t.Fatalf("verify: %v", err)
	}

	stats, err := u.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := Stats{
		TotalProtocols:      2,
		TotalInvocations:    1,
		CertificatesIssued:  2,
		WatermarkDetections: 1,
	}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}
