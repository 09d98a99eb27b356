package rewrite

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

func testEditor() *model.Editor {
	return &model.Editor{
		ID:           "editor-1",
		Name:         "桐生 真琴",
		CategorySlug: model.CategoryFashion,
		Profile:      "上質を知る大人の視点で、トレンドを取捨選択して伝える",
	}
}

func TestRewrite_Success(t *testing.T) {
	var buf bytes.Buffer
	llm := &mockLLM{response: `---TITLE---
大人のトレンド解釈術
---EXCERPT---
流行をそのまま追わず、自分の定番に引き寄せる方法。
---CONTENT---
今季のコレクションから注目すべき要素を選びました。`}

	e := NewEngine(llm, newTestLogger(&buf))

	got, err := e.Rewrite(context.Background(), Input{
		Content:       "元記事のテキスト",
		Category:      model.CategoryFashion,
		OriginalTitle: "Runway Report",
		Editor:        testEditor(),
	})
	if err != nil {
		t.Fatalf("Rewrite() がエラーを返した: %v", err)
	}

	if got.Title != "大人のトレンド解釈術" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.EditorID != "editor-1" || got.EditorName != "桐生 真琴" {
		t.Errorf("編集者情報が引き継がれていない: %+v", got)
	}
}

func TestRewrite_NilEditorReturnsRewriteError(t *testing.T) {
	var buf bytes.Buffer
	e := NewEngine(&mockLLM{}, newTestLogger(&buf))

	_, err := e.Rewrite(context.Background(), Input{Content: "本文", Category: model.CategoryFood})
	var rewriteErr *model.RewriteError
	if !errors.As(err, &rewriteErr) {
		t.Fatalf("RewriteErrorを返すべき: %v", err)
	}
}

func TestRewrite_EmptyContentReturnsRewriteError(t *testing.T) {
	var buf bytes.Buffer
	e := NewEngine(&mockLLM{}, newTestLogger(&buf))

	_, err := e.Rewrite(context.Background(), Input{Content: "   ", Editor: testEditor()})
	var rewriteErr *model.RewriteError
	if !errors.As(err, &rewriteErr) {
		t.Fatalf("RewriteErrorを返すべき: %v", err)
	}
}

func TestRewrite_LLMErrorWrappedInRewriteError(t *testing.T) {
	var buf bytes.Buffer
	apiErr := errors.New("rate limited")
	e := NewEngine(&mockLLM{err: apiErr}, newTestLogger(&buf))

	_, err := e.Rewrite(context.Background(), Input{Content: "本文", Editor: testEditor()})
	var rewriteErr *model.RewriteError
	if !errors.As(err, &rewriteErr) {
		t.Fatalf("RewriteErrorを返すべき: %v", err)
	}
	if !errors.Is(err, apiErr) {
		t.Error("元のAPIエラーがUnwrapで辿れるべき")
	}
}

func TestRewrite_UnparseableResponseFails(t *testing.T) {
	var buf bytes.Buffer
	e := NewEngine(&mockLLM{response: ""}, newTestLogger(&buf))

	_, err := e.Rewrite(context.Background(), Input{Content: "本文", Editor: testEditor()})
	if err == nil {
		t.Fatal("タイトル・本文を解析できない応答はエラーにすべき")
	}
}

// 画像を引き継ぐ場合、主題固定の制約がプロンプトに含まれること。
func TestBuildRewritePrompt_SubjectLock(t *testing.T) {
	input := Input{
		Content:       "元記事",
		OriginalTitle: "Jenny Packham's new collection",
		HasImage:      true,
		Editor:        testEditor(),
	}

	prompt := buildRewritePrompt(input, "Jenny Packham")
	if !strings.Contains(prompt, "主題は「Jenny Packham」") {
		t.Error("主題固定の制約が含まれるべき")
	}

	// 画像なしの場合は主題固定しない
	input.HasImage = false
	prompt = buildRewritePrompt(input, "Jenny Packham")
	if strings.Contains(prompt, "主題は「Jenny Packham」") {
		t.Error("画像なしでは主題固定の制約は不要")
	}
}

func TestBuildRewritePrompt_IncludesEditorPersona(t *testing.T) {
	input := Input{Content: "元記事", OriginalTitle: "Title", Editor: testEditor()}

	prompt := buildRewritePrompt(input, "")
	if !strings.Contains(prompt, "桐生 真琴") {
		t.Error("編集者名がプロンプトに含まれるべき")
	}
	if !strings.Contains(prompt, "上質を知る大人の視点") {
		t.Error("編集者プロフィールがプロンプトに含まれるべき")
	}
}
