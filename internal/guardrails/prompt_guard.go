package guardrails

import (
	"regexp"
	"strings"
)

// InjectionScanResult contains the result of a prompt injection scan.
type InjectionScanResult struct {
	// Blocked is true if the message should NOT be sent to the LLM.
	Blocked bool
	// Score is a rough heuristic risk score (0.0 = safe, 1.0 = definitely injection).
	Score float64
	// Reasons lists the detection signals that fired.
	Reasons []string
	// Sanitized is the cleaned message (if not blocked).
	Sanitized string
}

type injectionPattern struct {
	re     *regexp.Regexp
	reason string
	weight float64
}

// Messages scoring at or above this are blocked outright.
const injectionBlockThreshold = 0.7

var injectionPatterns = []injectionPattern{
	// Attempts to override the assistant's instructions.
	{regexp.MustCompile(`(?i)(ignore|disregard|forget)\s+(all\s+)?(previous|prior|above|earlier|your)\s+(instructions?|rules?|prompts?|guidelines?|directives?)`), "injection:override_instructions", 0.9},
	{regexp.MustCompile(`(?i)you\s+are\s+now\s+(a|an|my)\s+`), "injection:role_reassignment", 0.7},
	{regexp.MustCompile(`(?i)new\s+role\s*:|new\s+instructions?\s*:|system\s*prompt\s*:|<<\s*sys(tem)?\s*>>`), "injection:new_role", 0.9},
	{regexp.MustCompile(`(?i)(pretend|imagine|suppose|assume)\s+(that\s+)?(you\s+)?(are|have|were|don'?t\s+have)\s+(no\s+)?(rules?|restrictions?|limits?|boundaries|guidelines?|filters?|safety)`), "injection:pretend_no_rules", 0.9},
	{regexp.MustCompile(`(?i)bypass\s+(your\s+)?(safety|filters?|restrictions?|guidelines?|rules?|guardrails?)`), "injection:bypass", 0.8},
	{regexp.MustCompile(`(?i)jailbreak|DAN\s*mode|developer\s*mode|unrestricted\s*mode`), "injection:jailbreak_keyword", 0.9},

	// Attempts to extract the system prompt or internal configuration.
	{regexp.MustCompile(`(?i)(reveal|show|display|print|output|repeat|tell\s+me)\s+(your\s+)?(system\s+prompt|instructions?|initial\s+prompt|hidden\s+prompt|system\s+message)`), "exfiltration:system_prompt", 0.8},
	{regexp.MustCompile(`(?i)(what|list|show|give|tell)\s+(me\s+)?(the\s+)?(all\s+)?(api|secret|key|token|password|credential|env|config)\b`), "exfiltration:credentials", 0.8},
	{regexp.MustCompile(`(?i)repeat\s+(everything|all|the\s+text)\s+(above|before|from\s+the\s+start|from\s+the\s+beginning)`), "exfiltration:repeat_above", 0.7},

	// Fake conversation boundaries and chat-template tokens.
	{regexp.MustCompile(`(?i)\[/?INST\]|\[/?SYS\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>|<\|user\|>|<\|assistant\|>`), "context:special_tokens", 0.9},
	{regexp.MustCompile(`(?i)###\s*(system|instruction|human|assistant|user)\s*:`), "context:role_markers", 0.7},
	{regexp.MustCompile(`(?i)the\s+real\s+(instructions?|task|prompt|conversation)\s+(is|starts?|begins?)`), "context:real_instructions", 0.8},
}

// BlockedQueryReply is the canned response for messages the injection guard
// refuses to forward to the model.
const BlockedQueryReply = "I'm here to share general medication information. " +
	"How can I help you learn about a medication today?"

// ScanForInjection analyzes inbound user text for prompt injection attempts.
// The score is the max individual pattern weight, boosted by 0.1 per
// additional firing signal and capped at 1.0.
func ScanForInjection(message string) InjectionScanResult {
	if strings.TrimSpace(message) == "" {
		return InjectionScanResult{Sanitized: message}
	}

	var reasons []string
	maxWeight := 0.0
	for _, p := range injectionPatterns {
		if p.re.MatchString(message) {
			reasons = append(reasons, p.reason)
			if p.weight > maxWeight {
				maxWeight = p.weight
			}
		}
	}

	score := maxWeight
	if len(reasons) > 1 {
		score = maxWeight + float64(len(reasons)-1)*0.1
		if score > 1.0 {
			score = 1.0
		}
	}

	return InjectionScanResult{
		Blocked:   score >= injectionBlockThreshold,
		Score:     score,
		Reasons:   reasons,
		Sanitized: SanitizeForModel(message),
	}
}

var (
	specialTokenRe = regexp.MustCompile(`(?i)\[/?INST\]|\[/?SYS\]|<\|im_start\|>|<\|im_end\|>|<\|system\|>|<\|user\|>|<\|assistant\|>`)
	roleMarkerRe   = regexp.MustCompile(`(?i)###\s*(system|instruction|human|assistant|user)\s*:`)
)

// SanitizeForModel strips chat-template tokens and fake role markers from a
// message while preserving the legitimate content around them.
func SanitizeForModel(message string) string {
	cleaned := specialTokenRe.ReplaceAllString(message, "")
	cleaned = roleMarkerRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}
