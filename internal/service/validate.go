package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"formstudio/internal/model"
)

// answered reports whether a value counts as a real answer. Empty string,
// nil and empty array are all missing; false and zero are answers.
func answered(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	default:
		return true
	}
}

// ValidateResponses checks a response map against a question list. Every
// required question must be answered, and answered values must satisfy the
// question's validation bag. Returns nil when the form may be submitted.
func ValidateResponses(questions []model.Question, responses map[string]any) error {
	var problems []string
	missing := 0

	for _, q := range questions {
		v, ok := responses[q.ID]
		if !ok || !answered(v) {
			if q.Required {
				missing++
				problems = append(problems, fmt.Sprintf("%q is required", labelOrID(q)))
			}
			continue
		}
		if p := checkValue(q, v); p != "" {
			problems = append(problems, p)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems, MissingCount: missing}
}

func labelOrID(q model.Question) string {
	if q.Label != "" {
		return q.Label
	}
	return q.ID
}

// checkValue validates one answered value against its question's rules.
func checkValue(q model.Question, v any) string {
	rules := q.Validation

	switch q.Type {
	case model.QuestionNumber:
		n, ok := asNumber(v)
		if !ok {
			return fmt.Sprintf("%q must be a number", labelOrID(q))
		}
		if rules != nil {
			if rules.Min != nil && n < *rules.Min {
				return fmt.Sprintf("%q must be at least %v", labelOrID(q), *rules.Min)
			}
			if rules.Max != nil && n > *rules.Max {
				return fmt.Sprintf("%q must be at most %v", labelOrID(q), *rules.Max)
			}
		}
	case model.QuestionEmail:
		s, _ := v.(string)
		if !strings.Contains(s, "@") {
			return fmt.Sprintf("%q must be an email address", labelOrID(q))
		}
	case model.QuestionFile, model.QuestionImage:
		return checkFile(q, v)
	}

	if rules != nil && rules.Pattern != "" {
		if s, ok := v.(string); ok {
			re, err := regexp.Compile(rules.Pattern)
			if err == nil && !re.MatchString(s) {
				return fmt.Sprintf("%q does not match the expected format", labelOrID(q))
			}
		}
	}
	return ""
}

// checkFile validates file metadata (name, size) against the allow-list and
// the size cap from the validation bag.
func checkFile(q model.Question, v any) string {
	meta, ok := v.(map[string]any)
	if !ok {
		return fmt.Sprintf("%q must be a file upload", labelOrID(q))
	}
	name, _ := meta["name"].(string)
	size, _ := asNumber(meta["size"])

	rules := q.Validation
	if rules == nil {
		return ""
	}
	if len(rules.FileTypes) > 0 {
		allowed := false
		lower := strings.ToLower(name)
		for _, ext := range rules.FileTypes {
			if strings.HasSuffix(lower, strings.ToLower(ext)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Sprintf("%q only accepts %s files", labelOrID(q), strings.Join(rules.FileTypes, ", "))
		}
	}
	if rules.MaxSize > 0 && int64(size) > rules.MaxSize {
		return fmt.Sprintf("%q exceeds the %d byte limit", labelOrID(q), rules.MaxSize)
	}
	return ""
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
