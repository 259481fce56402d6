package application

import (
	"math"
	"strings"

	"github.com/bnema/llm-council/internal/domain"
)

// Price is USD per 1K tokens.
type Price struct {
	Input  float64
	Output float64
}

var defaultPrices = map[string]Price{
	"openai:gpt-4o":                       {Input: 2.50, Output: 10.00},
	"openai:gpt-4o-mini":                  {Input: 0.15, Output: 0.60},
	"openai:gpt-4-turbo":                  {Input: 10.00, Output: 30.00},
	"openai:gpt-3.5-turbo":                {Input: 0.50, Output: 1.50},
	"anthropic:claude-sonnet-4-20250514":  {Input: 3.00, Output: 15.00},
	"anthropic:claude-opus-4-20250514":    {Input: 15.00, Output: 75.00},
	"anthropic:claude-haiku-3-5-20241022": {Input: 0.80, Output: 4.00},
	"google:gemini-1.5-pro":               {Input: 1.25, Output: 5.00},
	"google:gemini-1.5-flash":             {Input: 0.075, Output: 0.30},
	"google:gemini-2.0-flash-exp":         {Input: 0, Output: 0},
	"grok:grok-beta":                      {Input: 5.00, Output: 15.00},
}

type CostAccountant struct {
	prices map[string]Price
}

// NewCostAccountant layers overrides over the built-in table.
func NewCostAccountant(overrides map[string]Price) *CostAccountant {
	prices := make(map[string]Price, len(defaultPrices)+len(overrides))
	for key, price := range defaultPrices {
		prices[key] = price
	}
	for key, price := range overrides {
		prices[strings.ToLower(strings.TrimSpace(key))] = price
	}

	return &CostAccountant{prices: prices}
}

// Estimate returns zero for pairs missing from the table.
func (a *CostAccountant) Estimate(provider domain.Provider, model string, inputTokens, outputTokens int64) float64 {
	if a == nil {
		return 0
	}

	price, ok := a.prices[priceKey(provider, model)]
	if !ok {
		return 0
	}

	cost := float64(inputTokens)/1000*price.Input + float64(outputTokens)/1000*price.Output
	return math.Round(cost*1e6) / 1e6
}

func priceKey(provider domain.Provider, model string) string {
	return strings.ToLower(string(provider) + ":" + strings.TrimSpace(model))
}
