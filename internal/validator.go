package internal

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Rejection messages returned to the browser
const (
	MsgNoCode        = "No code provided"
	MsgNoModel       = "No AI model selected"
	MsgNoTemperature = "No temperature selected"
	MsgNoTopP        = "No top_p selected"
)

// ValidationError is a client-caused rejection of an analysis request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateAnalysisRequest checks the payload field by field and stops at the
// first problem.
func ValidateAnalysisRequest(p AnalyzeCodePayload) (AnalysisRequest, error) {
	code, ok := nonEmptyString(p.Code)
	if !ok {
		return AnalysisRequest{}, &ValidationError{Field: "code", Message: MsgNoCode}
	}

	model, ok := nonEmptyString(p.AIModel)
	if !ok {
		return AnalysisRequest{}, &ValidationError{Field: "aiModel", Message: MsgNoModel}
	}

	temp, ok := parseNumber(p.Temp)
	if !ok {
		return AnalysisRequest{}, &ValidationError{Field: "temp", Message: MsgNoTemperature}
	}

	topP, ok := parseNumber(p.TopP)
	if !ok {
		return AnalysisRequest{}, &ValidationError{Field: "top_p", Message: MsgNoTopP}
	}

	return AnalysisRequest{
		Code:        code,
		Model:       model,
		Temperature: temp,
		TopP:        topP,
	}, nil
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// parseNumber accepts JSON numbers and strings holding a single number
func parseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
