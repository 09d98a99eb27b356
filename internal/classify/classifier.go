package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thirdtwenty/320mag/internal/llm"
	"github.com/thirdtwenty/320mag/internal/model"
)

// classifyBodyMaxChars はLLMに渡す本文の最大文字数（rune単位）。
const classifyBodyMaxChars = 1200

// Classifier はキーワード照合とLLMを組み合わせた2段階分類器。
//
// 単純なキーワード一致は高速だが系統的に誤分類する
// （住宅系フィードで見つけた製菓記事は住まいではなく食）ため、
// ステージ2のLLMが全文の意味からこうした衝突を解決する。
// ステージ1の結果はヒントとしてのみLLMへ渡し、内容分析を優先させる。
type Classifier struct {
	llm    llm.CompletionClient
	logger *slog.Logger
}

// NewClassifier はClassifierの新しいインスタンスを生成する。
func NewClassifier(client llm.CompletionClient, logger *slog.Logger) *Classifier {
	return &Classifier{
		llm:    client,
		logger: logger,
	}
}

// Classify はタイトル・本文からカテゴリスラッグを決定する。
// 失敗しない: LLMエラーや不正な出力の場合はfallbackCategoryを返す。
// ステージ1の結果にかかわらずステージ2（LLM）は常に実行される。
func (c *Classifier) Classify(ctx context.Context, title, body, fallbackCategory string) string {
	candidate := KeywordCandidate(title, body)

	result, err := c.classifyWithLLM(ctx, title, body, candidate)
	if err != nil {
		c.logger.Warn("LLM分類に失敗したためフォールバックカテゴリを使用します",
			slog.String("title", title),
			slog.String("keyword_candidate", candidate),
			slog.String("fallback", fallbackCategory),
			slog.String("error", err.Error()),
		)
		return fallbackCategory
	}

	if !model.IsValidCategory(result) {
		c.logger.Warn("LLMが未定義のカテゴリを返したためフォールバックカテゴリを使用します",
			slog.String("title", title),
			slog.String("llm_result", result),
			slog.String("fallback", fallbackCategory),
		)
		return fallbackCategory
	}

	return result
}

// classifyWithLLM はステージ2のLLM分類を実行する。
// 出力は定義済みスラッグ集合との完全一致のみ受理する。
func (c *Classifier) classifyWithLLM(ctx context.Context, title, body, candidate string) (string, error) {
	prompt := buildClassifyPrompt(title, body, candidate)

	response, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.ToLower(strings.TrimSpace(response)), nil
}

// buildClassifyPrompt は分類用プロンプトを構築する。
// キーワード候補はヒントとして渡すが、内容分析が優先されることを明示する。
func buildClassifyPrompt(title, body, candidate string) string {
	var sb strings.Builder

	sb.WriteString("あなたは40〜60代向けマガジン「320MAG」の記事分類を担当します。\n")
	sb.WriteString("以下の記事を次のカテゴリのいずれか1つに分類してください:\n\n")
	for _, def := range model.Categories {
		fmt.Fprintf(&sb, "- %s（%s）\n", def.Slug, def.Name)
	}

	if candidate != "" {
		fmt.Fprintf(&sb, "\nキーワード照合による候補: %s\n", candidate)
		sb.WriteString("ただしこれは参考情報であり、記事内容の分析を必ず優先してください。\n")
	}

	sb.WriteString("\n回答はカテゴリのスラッグ（英小文字）のみを1語で出力してください。説明は不要です。\n\n")
	fmt.Fprintf(&sb, "タイトル: %s\n\n本文:\n%s\n", title, truncateRunes(body, classifyBodyMaxChars))

	return sb.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
