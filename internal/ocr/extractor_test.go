package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseRecords(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  int
		first string
	}{
		{
			name:  "plain array",
			text:  `[{"name":"홍길동","amount":100000},{"name":"김철수","amount":50000}]`,
			want:  2,
			first: "홍길동",
		},
		{
			name:  "markdown fence",
			text:  "```json\n[{\"name\":\"이영희\",\"amount\":30000}]\n```",
			want:  1,
			first: "이영희",
		},
		{
			name:  "drops invalid entries",
			text:  `[{"name":"","amount":1000},{"name":"  ","amount":1000},{"name":"박","amount":0},{"name":"최","amount":-1},{"name":"정","amount":"만원"},{"name":7,"amount":1000},{"name":"한","amount":1.5},{"name":"윤","amount":20000}]`,
			want:  1,
			first: "윤",
		},
		{
			name:  "non-string relation",
			text:  `[{"name":"홍길동","amount":100000,"relation":3},{"name":"김철수","amount":50000,"relation":"친구"}]`,
			want:  2,
			first: "홍길동",
		},
		{
			name: "no array",
			text: "이미지를 읽을 수 없습니다.",
			want: 0,
		},
		{
			name: "broken json",
			text: `[{"name":"홍길동","amount":}]`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRecords(tt.text)
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != tt.want {
				t.Fatalf("expected %d records, got %d (%+v)", tt.want, len(got), got)
			}
			if tt.want > 0 && got[0].Name != tt.first {
				t.Errorf("first name: expected %s, got %s", tt.first, got[0].Name)
			}
		})
	}
}

func TestParseRecordsRelation(t *testing.T) {
	got := ParseRecords(`[{"name":"홍길동","amount":100000,"relation":3},{"name":"김철수","amount":50000,"relation":"친구"}]`)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d (%+v)", len(got), got)
	}
	if got[0].Relation != "" {
		t.Errorf("non-string relation: expected empty, got %q", got[0].Relation)
	}
	if got[1].Relation != "친구" {
		t.Errorf("relation: expected 친구, got %q", got[1].Relation)
	}
}

func TestGeminiExtractor_Extract(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` +
			"```json\\n[{\\\"name\\\":\\\"홍길동\\\",\\\"amount\\\":100000}]\\n```" +
			`"}]}}]}`))
	}))
	defer server.Close()

	extractor := NewGeminiExtractor("test-key", "", server.URL)
	records, err := extractor.Extract(context.Background(), []byte("fake-image"), "image/png")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if gotPath != "/models/"+DefaultModel+":generateContent" {
		t.Errorf("path: got %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header: got %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request shape: %+v", gotReq)
	}
	if inline := gotReq.Contents[0].Parts[1].InlineData; inline == nil || inline.MimeType != "image/png" {
		t.Errorf("inline data: got %+v", inline)
	}

	if len(records) != 1 || records[0].Name != "홍길동" || records[0].Amount != 100000 {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestGeminiExtractor_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	t.Run("upstream error", func(t *testing.T) {
		_, err := NewGeminiExtractor("key", "", server.URL).Extract(context.Background(), []byte("x"), "")
		if !errors.Is(err, ErrExtraction) {
			t.Fatalf("expected ErrExtraction, got %v", err)
		}
		if !strings.Contains(err.Error(), "429") {
			t.Errorf("expected status in error, got %v", err)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := NewGeminiExtractor("", "", server.URL).Extract(context.Background(), []byte("x"), "")
		if !errors.Is(err, ErrExtraction) {
			t.Fatalf("expected ErrExtraction, got %v", err)
		}
	})
}
