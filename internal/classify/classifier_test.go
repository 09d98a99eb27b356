package classify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/thirdtwenty/320mag/internal/model"
)

// mockLLM はCompletionClientのテスト用モック。
type mockLLM struct {
	response string
	err      error
	prompts  []string
}

func (m *mockLLM) Complete(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestClassify_UsesLLMResult(t *testing.T) {
	var buf bytes.Buffer
	llm := &mockLLM{response: "food"}
	c := NewClassifier(llm, newTestLogger(&buf))

	got := c.Classify(context.Background(), "住宅系フィードで見つけた製菓記事", "焼き菓子のレシピを紹介", model.CategoryHousing)
	if got != model.CategoryFood {
		t.Errorf("Classify = %q, want %q", got, model.CategoryFood)
	}
}

func TestClassify_TrimsAndLowercasesResponse(t *testing.T) {
	var buf bytes.Buffer
	llm := &mockLLM{response: "  Travel\n"}
	c := NewClassifier(llm, newTestLogger(&buf))

	got := c.Classify(context.Background(), "週末の小旅行", "", model.CategoryFashion)
	if got != model.CategoryTravel {
		t.Errorf("Classify = %q, want %q", got, model.CategoryTravel)
	}
}

func TestClassify_LLMErrorFallsBack(t *testing.T) {
	var buf bytes.Buffer
	llm := &mockLLM{err: errors.New("api unavailable")}
	c := NewClassifier(llm, newTestLogger(&buf))

	got := c.Classify(context.Background(), "タイトル", "本文", model.CategoryBeauty)
	if got != model.CategoryBeauty {
		t.Errorf("Classify = %q, want フォールバックの %q", got, model.CategoryBeauty)
	}
}

func TestClassify_InvalidSlugFallsBack(t *testing.T) {
	var buf bytes.Buffer
	llm := &mockLLM{response: "これはレシピ記事なのでfoodに分類します"}
	c := NewClassifier(llm, newTestLogger(&buf))

	got := c.Classify(context.Background(), "タイトル", "本文", model.CategoryTravel)
	if got != model.CategoryTravel {
		t.Errorf("Classify = %q, want フォールバックの %q（完全一致以外は受理しない）", got, model.CategoryTravel)
	}
}

// ステージ1で候補が見つかってもLLM分類は常に実行されること。
func TestClassify_AlwaysCallsLLM(t *testing.T) {
	var buf bytes.Buffer
	llm := &mockLLM{response: "food"}
	c := NewClassifier(llm, newTestLogger(&buf))

	c.Classify(context.Background(), "発酵食材のレシピ", "", model.CategoryFood)
	if len(llm.prompts) != 1 {
		t.Fatalf("LLM呼び出し回数 = %d, want 1", len(llm.prompts))
	}

	// キーワード候補がヒントとしてプロンプトに含まれること
	if !strings.Contains(llm.prompts[0], "キーワード照合による候補: food") {
		t.Error("プロンプトにキーワード候補のヒントが含まれるべき")
	}
}

func TestBuildClassifyPrompt_TruncatesLongBody(t *testing.T) {
	body := strings.Repeat("あ", classifyBodyMaxChars+500)

	prompt := buildClassifyPrompt("タイトル", body, "")
	if strings.Count(prompt, "あ") != classifyBodyMaxChars {
		t.Errorf("本文は%d文字に切り詰められるべき（実際 %d 文字）",
			classifyBodyMaxChars, strings.Count(prompt, "あ"))
	}
}
