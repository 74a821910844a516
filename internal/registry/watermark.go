package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Watermarker generates and detects Carbon Room watermark tokens of the
// form PREFIX-ASSETID-CREATORHASH8. Tokens are detectable tags, not
// cryptographic authentication.
type Watermarker struct {
	prefix  string
	pattern *regexp.Regexp
}

func NewWatermarker(prefix string) Watermarker {
	if prefix == "" {
		prefix = "C6"
	}
	prefix = strings.ToUpper(prefix)
	return Watermarker{
		prefix:  prefix,
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `-[A-Z0-9]{8}-[A-Z0-9]{8}`),
	}
}

func (w Watermarker) Prefix() string {
	return w.prefix
}

// Generate derives the watermark token for an asset. The same
// (assetID, creator, timestamp) triple always yields the same token.
func (w Watermarker) Generate(assetID, creator, timestamp string) string {
	sum := sha256.Sum256([]byte(creator + ":" + timestamp))
	creatorHash := hex.EncodeToString(sum[:])[:8]
	return strings.ToUpper(w.prefix + "-" + assetID + "-" + creatorHash)
}

// Detect reports whether content contains the token, case-insensitively.
// Empty content or an empty token never match.
func (w Watermarker) Detect(content, token string) bool {
	if content == "" || token == "" {
		return false
	}
	return strings.Contains(strings.ToUpper(content), strings.ToUpper(token))
}

// ExtractAll scans arbitrary text for watermark tokens and returns every
// distinct match uppercased, in order of first appearance.
func (w Watermarker) ExtractAll(content string) []string {
	var (
		tokens []string
		seen   = map[string]struct{}{}
	)
	for _, m := range w.pattern.FindAllString(content, -1) {
		token := strings.ToUpper(m)
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		tokens = append(tokens, token)
	}
	return tokens
}

// commentStyles maps file extensions to the watermark comment header
// injected at the top of registered files.
var commentStyles = map[string]func(token string) string{
	".py":   func(t string) string { return "# Carbon[6] Watermark: " + t + "\n# This file is registered in the Carbon Room IP Registry\n\n" },
	".js":   lineComment("//"),
	".ts":   lineComment("//"),
	".go":   lineComment("//"),
	".rs":   lineComment("//"),
	".java": lineComment("//"),
	".cpp":  lineComment("//"),
	".c":    lineComment("//"),
	".sol": func(t string) string {
		return "// SPDX-License-Identifier: MIT\n// Carbon[6] Watermark: " + t + "\n// This file is registered in the Carbon Room IP Registry\n\n"
	},
	".html": blockComment("<!--", "-->"),
	".md":   blockComment("<!--", "-->"),
	".css":  blockComment("/*", "*/"),
}

func lineComment(marker string) func(string) string {
	return func(t string) string {
		return marker + " Carbon[6] Watermark: " + t + "\n" +
			marker + " This file is registered in the Carbon Room IP Registry\n\n"
	}
}

func blockComment(open, close string) func(string) string {
	return func(t string) string {
		return open + " Carbon[6] Watermark: " + t + " " + close + "\n" +
			open + " This file is registered in the Carbon Room IP Registry " + close + "\n\n"
	}
}

// Inject prepends a file-kind-appropriate comment header carrying the
// token. Unknown kinds fall back to a '#' comment. The underlying file
// syntax is never parsed or validated.
func (w Watermarker) Inject(content, token, fileExt string) string {
	style, ok := commentStyles[strings.ToLower(fileExt)]
	if !ok {
		return "# Carbon[6] Watermark: " + token + "\n\n" + content
	}
	return style(token) + content
}
