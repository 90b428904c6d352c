package llm

import (
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// GeminiText returns the text of a Gemini response, or an error when the
// prompt was blocked or no content came back.
func GeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("nil response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reason := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reason = resp.PromptFeedback.BlockReasonMessage
		}
		return "", fmt.Errorf("blocked by safety filter: %s", reason)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		if len(resp.Candidates) > 0 &&
			resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified &&
			resp.Candidates[0].FinishReason != genai.FinishReasonStop {
			return "", fmt.Errorf("no content, finish reason: %v", resp.Candidates[0].FinishReason)
		}
		return "", errors.New("empty content")
	}

	return resp.Text(), nil
}
