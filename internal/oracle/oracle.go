package oracle

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/sirupsen/logrus"
	"strings"
)

const (
	TypeRevenue   = "revenue"
	TypeChurn     = "churn"
	TypeInventory = "inventory"
	TypeGeneral   = "general"
	TypeError     = "error"
)

// OfflineMessage is returned when the provider call fails.
const OfflineMessage = "Neural link interrupted. The Oracle is currently offline or experiencing high latency."

type Result struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

type ReportBuilder interface {
	Build(ctx context.Context) (string, error)
}

// Oracle answers free-form audit questions against a live data report.
type Oracle struct {
	LLM     Completer // nil when the provider key is missing
	KeyName string
	Report  ReportBuilder
	Log     *logrus.Logger
}

// New picks the provider named in cfg. A missing key is not an error:
// Audit reports it to the caller instead.
func New(ctx context.Context, cfg config.Oracle, report ReportBuilder, log *logrus.Logger) (*Oracle, error) {
	o := &Oracle{Report: report, Log: log}
	switch cfg.Provider {
	case "gemini":
		o.KeyName = "GEMINI_API_KEY"
		if cfg.GeminiKey != "" {
			g, err := NewGeminiClient(ctx, cfg.GeminiKey, cfg.GeminiModel)
			if err != nil {
				return nil, err
			}
			o.LLM = g
		}
	case "openai", "":
		o.KeyName = "OPENAI_API_KEY"
		if cfg.OpenAIKey != "" {
			o.LLM = NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
		}
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Provider)
	}
	return o, nil
}

func (o *Oracle) logger() *logrus.Logger {
	if o.Log != nil {
		return o.Log
	}
	return config.GetLogger()
}

func (o *Oracle) Audit(ctx context.Context, query string) Result {
	if o.LLM == nil {
		return Result{Content: fmt.Sprintf("AI Oracle Error: %s is not configured.", o.KeyName), Type: TypeError}
	}

	report, err := o.Report.Build(ctx)
	if err != nil {
		// the model still runs, on the fatal marker
		config.LogError(o.logger(), "oracle", "Audit", "build report", nil, err)
	}

	content, err := o.LLM.Complete(ctx, SystemPrompt(report), query)
	if err != nil {
		config.LogError(o.logger(), "oracle", "Audit", "complete", query, err)
		return Result{Content: OfflineMessage, Type: TypeError}
	}
	if content == "" {
		content = "Audit failed to materialize."
	}
	return Result{Content: content, Type: Classify(content)}
}

// Classify tags an answer by the first topic keyword it mentions, in
// priority order revenue, churn, inventory.
func Classify(content string) string {
	lc := strings.ToLower(content)
	switch {
	case strings.Contains(lc, "revenue"):
		return TypeRevenue
	case strings.Contains(lc, "churn"):
		return TypeChurn
	case strings.Contains(lc, "inventory"):
		return TypeInventory
	}
	return TypeGeneral
}

func SystemPrompt(report string) string {
	return `You are NEXIS AI Oracle, an elite autonomous Auditor integrated into a live ERP.

MANDATORY OPERATIONAL DIRECTIVE:
You must analyze the SPECIFIC data in the [CONFIDENTIAL ENTERPRISE DATA REPORT] provided below.
Base your entire response on these numbers. If the user asks for churn, look at the CHURN & RETENTION section.
If they ask for forecasting, look at FISCAL and INVENTORY.

` + report + `
CRITICAL FORMATTING:
1. Use DOUBLE NEWLINES between paragraphs.
2. Use **Bold Headers** for sections.
3. If the user asks for a FORECAST or STOCK report, provide a Markdown table.
4. If the user asks for CHURN, provide a prioritized risk list with specific emails/names from the report.
5. Finish with a "So What?" strategic impact section.

TONE:
Professional, sharp, and highly technical. Do not give general advice. Be specific to the data provided.`
}
