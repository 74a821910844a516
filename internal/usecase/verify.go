package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// VerifyResult is the public verification outcome. When a token is
// found but no registration matches, the token is still reported so
// the caller can see an unregistered (or foreign) watermark.
type VerifyResult struct {
	Found      bool
	Registered bool
	Watermark  string
	Protocol   string
	Creator    string
	CreatedAt  *time.Time
}

// VerifyWatermark scans free text for watermark tokens and resolves the
// first one that maps to a registered protocol. Detection hits are
// counted for the watermark statistics.
func (u Usecase) VerifyWatermark(ctx context.Context, content string) (VerifyResult, error) {
	tokens := u.wm.ExtractAll(content)
	if len(tokens) == 0 {
		return VerifyResult{}, nil
	}

	for _, token := range tokens {
		p, err := u.repo.GetProtocolByWatermark(ctx, token)
		if errors.Is(err, ErrProtocolNotFound) {
			continue
		}
		if err != nil {
			return VerifyResult{}, err
		}

		if err := u.repo.RecordWatermarkDetection(ctx, token); err != nil {
			slog.ErrorContext(ctx, "failed to record watermark detection",
				slog.String("watermark", token),
				slog.String("err", err.Error()))
		}

		createdAt := p.CreatedAt
		res := VerifyResult{
			Found:      true,
			Registered: true,
			Watermark:  token,
			Protocol:   p.Name,
			CreatedAt:  &createdAt,
		}
		if owner := p.Owner(); owner != nil {
			res.Creator = owner.Name
		}
		return res, nil
	}

	return VerifyResult{Found: true, Watermark: tokens[0]}, nil
}

// DetectWatermark checks a specific token against pasted content.
func (u Usecase) DetectWatermark(content, token string) bool {
	return u.wm.Detect(content, token)
}

// StampContent returns the content with the protocol's watermark
// injected as a comment header appropriate for the file kind.
func (u Usecase) StampContent(ctx context.Context, shortID, content, fileExt string) (string, error) {
	p, err := u.repo.GetProtocolByShortID(ctx, shortID)
	if err != nil {
		return "", err
	}
	return u.wm.Inject(content, p.Watermark, fileExt), nil
}
