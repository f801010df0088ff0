// services/vision_service.go
package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"nutriscan/config"
	"nutriscan/logger"
	"nutriscan/models"
	"nutriscan/utils"
)

// visionPrompt pins the response contract: the model must answer with this
// JSON shape and nothing else.
const visionPrompt = `Analyze this food image.
Return JSON ONLY:
{
  "main_food": "string",
  "top": [{"label":"food","score":0.95}],
  "nutrition_per100g": {"protein":10,"calcium":5,"fat":9,"carbohydrates":20,"vitamins":2},
  "calories_per100g": 250,
  "hygiene": {"score":75,"reasons":["clean surface","fresh ingredients"]}
}`

const defaultHygieneScore = 60

// VisionService classifies food images through the Gemini generateContent
// endpoint and normalizes the reply into a FoodAnalysis.
type VisionService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewVisionService builds the adapter from config. A missing API key is not
// fatal here; Analyze reports it on use.
func NewVisionService(cfg *config.Config) *VisionService {
	timeout := time.Duration(cfg.Gemini.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &VisionService{
		apiKey:  cfg.Gemini.APIKey,
		model:   cfg.Gemini.Model,
		baseURL: strings.TrimRight(cfg.Gemini.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// rawAnalysis is the model's JSON before normalization. Field types are
// loose on purpose: replies routinely carry numbers as strings and vice
// versa, and those get coerced rather than rejected.
type rawAnalysis struct {
	MainFood         any             `json:"main_food"`
	Top              []rawPrediction `json:"top"`
	NutritionPer100g map[string]any  `json:"nutrition_per100g"`
	CaloriesPer100g  any             `json:"calories_per100g"`
	Hygiene          rawHygiene      `json:"hygiene"`
}

type rawPrediction struct {
	Label any `json:"label"`
	Score any `json:"score"`
}

type rawHygiene struct {
	Score   any `json:"score"`
	Reasons any `json:"reasons"`
}

// Analyze classifies one image. It fails when the adapter has no API key,
// the bytes do not decode as an image (jpeg/png/webp), the API call fails,
// or the reply carries no JSON object at all. Everything below that level
// is normalized with defaults.
func (s *VisionService) Analyze(ctx context.Context, imageBytes []byte) (models.FoodAnalysis, error) {
	if s.apiKey == "" {
		return models.FoodAnalysis{}, errors.New("gemini is not configured: missing API key")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(imageBytes)); err != nil {
		return models.FoodAnalysis{}, fmt.Errorf("invalid image: %w", err)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: visionPrompt},
				{InlineData: &geminiInlineData{
					MimeType: http.DetectContentType(imageBytes),
					Data:     base64.StdEncoding.EncodeToString(imageBytes),
				}},
			},
		}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return models.FoodAnalysis{}, fmt.Errorf("encode gemini request: %w", err)
	}

	u := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return models.FoodAnalysis{}, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.FoodAnalysis{}, fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FoodAnalysis{}, fmt.Errorf("read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.FoodAnalysis{}, fmt.Errorf("gemini API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return models.FoodAnalysis{}, fmt.Errorf("parse gemini envelope: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return models.FoodAnalysis{}, errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	raw, err := parseAnalysisText(strings.TrimSpace(sb.String()))
	if err != nil {
		return models.FoodAnalysis{}, err
	}
	return normalizeAnalysis(raw), nil
}

// parseAnalysisText decodes the model's reply. Replies are sometimes wrapped
// in prose or code fences, so a failed direct parse falls back to the
// substring between the first "{" and the last "}".
func parseAnalysisText(text string) (rawAnalysis, error) {
	raw, err := decodeRaw([]byte(text))
	if err == nil {
		return raw, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end < start {
		return rawAnalysis{}, errors.New("no JSON object in gemini reply")
	}
	raw, err = decodeRaw([]byte(text[start : end+1]))
	if err != nil {
		return rawAnalysis{}, fmt.Errorf("parse gemini reply: %w", err)
	}
	logger.Debug("recovered analysis JSON from wrapped gemini reply")
	return raw, nil
}

// decodeRaw tolerates wrong field types (they stay zero and get defaulted
// later) but rejects malformed JSON.
func decodeRaw(data []byte) (rawAnalysis, error) {
	var raw rawAnalysis
	err := json.Unmarshal(data, &raw)
	if err == nil {
		return raw, nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		logger.Warn("gemini reply field has unexpected type, defaulting", "field", typeErr.Field)
		return raw, nil
	}
	return rawAnalysis{}, err
}

func normalizeAnalysis(raw rawAnalysis) models.FoodAnalysis {
	mainFood, hasMainFood := raw.MainFood.(string)

	preds := make([]models.Prediction, 0, len(raw.Top))
	for _, t := range raw.Top {
		label, _ := t.Label.(string)
		score := utils.SafeFloat(t.Score)
		if score <= 1 {
			score *= 100
		}
		preds = append(preds, models.Prediction{Label: strings.ToLower(label), Score: utils.Round1(score)})
	}
	if len(preds) == 0 {
		label := "food"
		if hasMainFood {
			label = mainFood
		}
		logger.Warn("gemini reply had no predictions, synthesizing one", "label", label)
		preds = []models.Prediction{{Label: label, Score: 85}}
	}

	main := "unknown"
	if hasMainFood {
		main = mainFood
	}

	nutrition := make(map[string]float64, len(raw.NutritionPer100g))
	for k, v := range raw.NutritionPer100g {
		nutrition[k] = utils.SafeFloat(v)
	}

	score := defaultHygieneScore
	if raw.Hygiene.Score != nil {
		if f, ok := utils.AsFloat(raw.Hygiene.Score); ok {
			score = int(f)
		} else {
			logger.Warn("gemini hygiene score unusable, defaulting", "score", raw.Hygiene.Score)
		}
	}

	return models.FoodAnalysis{
		MainFood:         main,
		Top:              preds,
		NutritionPer100g: nutrition,
		CaloriesPer100g:  utils.SafeFloat(raw.CaloriesPer100g),
		HygieneScore:     score,
		HygieneReasons:   stringList(raw.Hygiene.Reasons),
	}
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
