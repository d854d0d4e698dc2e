package photo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lg/calorix-api/internal/nutrition"
)

const systemPrompt = `You are a nutrition assistant. Identify every food visible in the photo and estimate it for the portion shown.
Return a JSON object {"foods": [...]} where each item has:
- "name" (string)
- "calories" (number, kcal)
- "protein", "carbs", "fat" (number, grams)
- "servingSize" (string, e.g. "100g", "1 cup", "2 slices")
- "category" (one of: fruits, legumes, greens, grains, meats, dairy, processed, drinks, other)
- "micronutrients" (object with any of: fiber (g), sodium, potassium, calcium, iron, vitC (mg))

Base estimates on reliable nutrition tables. If the photo contains no food at all, return {"foods": []}.
Return only valid JSON, no explanation.`

// OpenAI estimates foods with a vision-capable chat completions model.
// It talks to the API over raw net/http.
type OpenAI struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format"`
}

// Analyze sends the image as a data URL and parses the model's JSON answer.
func (o *OpenAI) Analyze(ctx context.Context, image []byte) (Result, error) {
	if o.apiKey == "" {
		return Result{}, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrMisconfigured)
	}
	if len(image) == 0 {
		return NoFood(), nil
	}

	dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
	reqBody := chatRequest{
		Model: o.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Identify the foods in this photo."},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		Temperature:    0,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	content, err := o.complete(ctx, reqBody)
	if err != nil {
		return Result{}, err
	}
	return parseFoods(content)
}

func (o *OpenAI) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrMisconfigured, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: openai returned status %d", ErrMisconfigured, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: openai returned status %d: %s", ErrUnavailable, resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrUnavailable, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrUnavailable)
	}
	return result.Choices[0].Message.Content, nil
}

// parseFoods reads the model's JSON. Items without a name are dropped and an
// empty list is NO_FOOD_FOUND.
func parseFoods(content string) (Result, error) {
	var parsed struct {
		Foods []FoodEstimate `json:"foods"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Result{}, fmt.Errorf("%w: parse foods: %v", ErrUnavailable, err)
	}

	foods := []FoodEstimate{}
	for _, f := range parsed.Foods {
		if strings.TrimSpace(f.Name) == "" {
			continue
		}
		f.Calories = nutrition.Sanitize(f.Calories)
		f.ProteinG = nutrition.Sanitize(f.ProteinG)
		f.CarbsG = nutrition.Sanitize(f.CarbsG)
		f.FatG = nutrition.Sanitize(f.FatG)
		f.Category = nutrition.NormalizeCategory(f.Category)
		foods = append(foods, f)
	}
	if len(foods) == 0 {
		return NoFood(), nil
	}
	return Result{Status: StatusSuccess, Foods: foods}, nil
}
