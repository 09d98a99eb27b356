// Package rewrite はLLMによる記事リライトを提供する。
// カテゴリに紐づく編集者ペルソナの文体で、元記事を320MAGの
// 対象読者（40〜60代）向けのオリジナル記事へ書き直す。
package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thirdtwenty/320mag/internal/llm"
	"github.com/thirdtwenty/320mag/internal/model"
)

// 本文・抜粋の目標文字数。プロンプト指示による努力目標であり、
// 出力のハードバリデーションは行わない。
const (
	bodyTargetMin    = 1500
	bodyTargetMax    = 2000
	excerptTargetMin = 100
	excerptTargetMax = 150
)

// Input はリライトの入力を表す。
type Input struct {
	Content       string // 元記事のテキスト（HTML除去済み）
	Category      string
	OriginalTitle string
	OriginalURL   string
	HasImage      bool   // 元記事の画像を引き継ぐ場合にtrue
	KeySubject    string // 空の場合はOriginalTitleから抽出を試みる
	Editor        *model.Editor
}

// Engine はLLMリライトエンジン。
// 失敗時はRewriteErrorを返し、内部ではリトライしない。
// アイテム単位の失敗としてバッチを継続するかは呼び出し元が決める。
type Engine struct {
	llm    llm.CompletionClient
	logger *slog.Logger
}

// NewEngine はEngineの新しいインスタンスを生成する。
func NewEngine(client llm.CompletionClient, logger *slog.Logger) *Engine {
	return &Engine{
		llm:    client,
		logger: logger,
	}
}

// Rewrite は元記事をリライトし、構造化された記事を返す。
func (e *Engine) Rewrite(ctx context.Context, input Input) (*model.RewrittenArticle, error) {
	if input.Editor == nil {
		return nil, &model.RewriteError{Reason: fmt.Sprintf("カテゴリ %s に編集者が設定されていません", input.Category)}
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, &model.RewriteError{Reason: "リライト対象のコンテンツが空です"}
	}

	subject := input.KeySubject
	if subject == "" {
		subject = ExtractKeySubject(input.OriginalTitle)
	}

	prompt := buildRewritePrompt(input, subject)

	response, err := e.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, &model.RewriteError{Reason: "LLM呼び出しエラー", Err: err}
	}

	parsed := parseResponse(response)
	if parsed.Title == "" || parsed.Body == "" {
		return nil, &model.RewriteError{Reason: "LLM応答からタイトルまたは本文を解析できませんでした"}
	}

	e.logger.Info("リライトが完了しました",
		slog.String("category", input.Category),
		slog.String("editor", input.Editor.Name),
		slog.String("key_subject", subject),
		slog.Int("body_chars", len([]rune(parsed.Body))),
	)

	return &model.RewrittenArticle{
		Title:            parsed.Title,
		Excerpt:          parsed.Excerpt,
		Body:             parsed.Body,
		EditorID:         input.Editor.ID,
		EditorName:       input.Editor.Name,
		AdditionalImages: parsed.Images,
	}, nil
}

// buildRewritePrompt はペルソナ・制約・出力形式を1つのプロンプトへ合成する。
func buildRewritePrompt(input Input, subject string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "あなたは40〜60代向けウェブマガジン「320MAG」の編集者「%s」です。\n", input.Editor.Name)
	fmt.Fprintf(&sb, "文体・視点: %s\n\n", input.Editor.Profile)

	sb.WriteString("以下の元記事をもとに、320MAGのオリジナル記事を執筆してください。\n\n")

	sb.WriteString("制約:\n")
	sb.WriteString("- 翻訳や元記事の構成の言い換えは禁止。内容を消化し、独自の構成・語り口で書き直すこと。\n")
	sb.WriteString("- 元記事の文をそのまま流用しないこと。\n")
	sb.WriteString("- 読者は40〜60代。若年層向けの言い回しや年齢を見下す表現を避けること。\n")
	fmt.Fprintf(&sb, "- 本文は%d〜%d文字、抜粋は%d〜%d文字を目安とすること。\n",
		bodyTargetMin, bodyTargetMax, excerptTargetMin, excerptTargetMax)

	// 主題固定制約: 元記事の写真を使う場合、リライトで別の人物・ブランドの
	// 記事にすり替わると写真と本文が食い違うため、主題を明示的に固定する。
	if input.HasImage && subject != "" {
		fmt.Fprintf(&sb, "- この記事の主題は「%s」です。主題を別の人物・ブランド・作品に変更してはいけません。\n", subject)
	}

	sb.WriteString("\n出力形式（マーカーを必ず含めること）:\n")
	fmt.Fprintf(&sb, "%s\n（記事タイトル）\n%s\n（抜粋）\n%s\n（本文）\n", markerTitle, markerExcerpt, markerContent)

	fmt.Fprintf(&sb, "\n元記事タイトル: %s\n", input.OriginalTitle)
	if input.OriginalURL != "" {
		fmt.Fprintf(&sb, "元記事URL: %s\n", input.OriginalURL)
	}
	fmt.Fprintf(&sb, "\n元記事:\n%s\n", input.Content)

	return sb.String()
}
