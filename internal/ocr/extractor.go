// Package ocr extracts (name, amount) pairs from a photographed gift ledger.
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/maeumjangbu/ledger/internal/models"
)

// ErrExtraction wraps failures talking to the vision model.
var ErrExtraction = errors.New("extraction failed")

// Extractor turns an image into raw records.
type Extractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]models.RawRecord, error)
}

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

const ledgerPrompt = `이 이미지는 경조사비 명부(축의금, 조의금 등)입니다.
이미지에서 이름과 금액을 추출하여 JSON 배열로 반환해주세요.

규칙:
- 금액은 숫자만 (원, 만원 등 단위 제거, 예: "10만원" -> 100000)
- 이름은 한글 그대로 유지
- 읽기 어렵거나 불확실한 항목은 제외
- 금액이 없는 항목은 제외

응답 형식 (JSON만 반환, 다른 텍스트 없이):
[
  { "name": "홍길동", "amount": 100000 },
  { "name": "김철수", "amount": 50000 }
]`

// GeminiExtractor calls the Gemini generateContent REST API.
type GeminiExtractor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiExtractor creates an extractor. Empty model and baseURL fall back
// to DefaultModel and DefaultBaseURL.
func NewGeminiExtractor(apiKey, model, baseURL string) *GeminiExtractor {
	if model == "" {
		model = DefaultModel
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GeminiExtractor{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Extract sends the image with the ledger prompt and parses the reply.
// A reply without a usable JSON array yields an empty slice and no error.
func (g *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) ([]models.RawRecord, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrExtraction)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Parts: []part{
				{Text: ledgerPrompt},
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
			},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrExtraction, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExtraction, err)
	}

	var text strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}

	records := ParseRecords(text.String())
	slog.Info("Ledger image extracted",
		"model", g.model,
		"records", len(records),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return records, nil
}

// ParseRecords pulls the first JSON array out of a model reply, which may be
// wrapped in prose or a markdown code fence, and keeps the valid entries.
// Anything unparseable yields an empty slice.
func ParseRecords(text string) []models.RawRecord {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return []models.RawRecord{}
	}

	var raw []struct {
		Name     any `json:"name"`
		Amount   any `json:"amount"`
		Relation any `json:"relation"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		slog.Debug("Unparseable extraction reply", "error", err)
		return []models.RawRecord{}
	}

	records := make([]models.RawRecord, 0, len(raw))
	for _, r := range raw {
		name, ok := r.Name.(string)
		if !ok {
			continue
		}
		amount, ok := r.Amount.(float64)
		if !ok || amount != float64(int64(amount)) {
			continue
		}
		relation, _ := r.Relation.(string)
		record := models.RawRecord{Name: name, Amount: int64(amount), Relation: relation}
		if record.Valid() {
			records = append(records, record)
		}
	}
	return records
}
