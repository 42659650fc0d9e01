package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"careerpath-agent/internal/models"
)

// Sentinel errors identifying which AI call failed. Wrapped causes stay
// inspectable via errors.Is / errors.As.
var (
	ErrExtraction       = errors.New("resume extraction failed")
	ErrAdviceGeneration = errors.New("career advice generation failed")
)

// Gateway wraps the Gemini API behind two typed operations: resume
// extraction and career advice generation. Responses are constrained to
// JSON schemas and normalized before they leave this package.
type Gateway struct {
	client *genai.Client
	model  string
}

// New creates a gateway backed by the Gemini API. The API key is the
// caller-supplied service credential; a missing key fails here rather
// than on the first call.
func New(ctx context.Context, apiKey, model string) (*Gateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gateway{
		client: client,
		model:  model,
	}, nil
}

// extractInstruction steers the multimodal extraction call. The target
// role and country are prompt context only; extraction accuracy does not
// depend on them.
const extractInstruction = "Extract the resume data. Be precise. For languages, estimate proficiency if not stated. Look for links to LinkedIn or Portfolios."

// ExtractProfile sends the raw resume bytes to the model and returns the
// structured profile. The response is schema-constrained JSON; missing
// optional fields are replaced with empty-profile defaults.
func (g *Gateway) ExtractProfile(ctx context.Context, resumeBase64, mimeType, targetJobTitle, targetCountry string) (models.UserProfile, error) {
	resumeBytes, err := base64.StdEncoding.DecodeString(resumeBase64)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: invalid base64 resume content: %v", ErrExtraction, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: resumeBytes}},
			{Text: extractInstruction},
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   resumeSchema,
	})
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	text := resp.Text()
	if text == "" {
		return models.UserProfile{}, fmt.Errorf("%w: no response from AI", ErrExtraction)
	}

	profile, err := parseProfile(text)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return profile, nil
}

// GenerateAdvice asks the model to score and critique the profile,
// analyze skill gaps, and search for live job listings with the Google
// Search tool. Grounding citations from the response envelope are merged
// into the returned advice.
func (g *Gateway) GenerateAdvice(ctx context.Context, profile models.UserProfile, targetJobTitle, targetCountry string) (models.CareerAdvice, error) {
	prompt, err := buildAdvicePrompt(profile, targetJobTitle, targetCountry)
	if err != nil {
		return models.CareerAdvice{}, fmt.Errorf("%w: %v", ErrAdviceGeneration, err)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.2)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   adviceSchema,
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	})
	if err != nil {
		return models.CareerAdvice{}, fmt.Errorf("%w: %v", ErrAdviceGeneration, err)
	}

	text := resp.Text()
	if text == "" {
		return models.CareerAdvice{}, fmt.Errorf("%w: no response from AI", ErrAdviceGeneration)
	}

	advice, err := parseAdvice(text)
	if err != nil {
		return models.CareerAdvice{}, fmt.Errorf("%w: %v", ErrAdviceGeneration, err)
	}

	advice.GroundingURLs = groundingSources(resp)

	return advice, nil
}

// buildAdvicePrompt serializes the profile and assembles the fixed
// instruction block for the advice call.
func buildAdvicePrompt(profile models.UserProfile, targetJobTitle, targetCountry string) (string, error) {
	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to serialize profile: %v", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Analyze this user profile: %s.\n", profileJSON))
	sb.WriteString(fmt.Sprintf("Target Role: %s\n", targetJobTitle))
	sb.WriteString(fmt.Sprintf("Target Country: %s\n\n", targetCountry))
	sb.WriteString("1. Score the resume out of 10 based on ATS friendliness and content quality for the target role.\n")
	sb.WriteString("2. Provide a critique of the resume.\n")
	sb.WriteString("3. Analyze skill gaps.\n")
	sb.WriteString("4. Suggest improvements.\n")
	sb.WriteString(fmt.Sprintf("5. Search for current job listings for '%s' in '%s'.\n\n", targetJobTitle, targetCountry))
	sb.WriteString("Return JSON matching schema.\n")

	return sb.String(), nil
}

// parseProfile decodes the extraction response and applies the defaulting
// pass so no field is ever absent.
func parseProfile(text string) (models.UserProfile, error) {
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(stripFences(text)), &profile); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to parse profile JSON: %v", err)
	}
	return profile.Normalize(), nil
}

// parseAdvice decodes the advice response, clamps the score into the
// documented 0-10 range, and defaults absent lists.
func parseAdvice(text string) (models.CareerAdvice, error) {
	var advice models.CareerAdvice
	if err := json.Unmarshal([]byte(stripFences(text)), &advice); err != nil {
		return models.CareerAdvice{}, fmt.Errorf("failed to parse advice JSON: %v", err)
	}
	advice.ResumeScore = clampScore(advice.ResumeScore)
	return advice.Normalize(), nil
}

// clampScore bounds a resume score to [0, 10]. The schema describes the
// range but does not enforce it.
func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// groundingSources collects web citations from the response envelope.
// They arrive out-of-band, not in the JSON body. A citation with a
// missing title becomes "Source"; a missing URI becomes "#".
func groundingSources(resp *genai.GenerateContentResponse) []models.GroundingSource {
	sources := []models.GroundingSource{}
	if resp == nil || len(resp.Candidates) == 0 {
		return sources
	}

	metadata := resp.Candidates[0].GroundingMetadata
	if metadata == nil {
		return sources
	}

	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		title := chunk.Web.Title
		if title == "" {
			title = "Source"
		}
		uri := chunk.Web.URI
		if uri == "" {
			uri = "#"
		}
		sources = append(sources, models.GroundingSource{Title: title, URI: uri})
	}

	return sources
}

// stripFences removes markdown code fences in case the model wraps its
// JSON despite the response MIME type constraint.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// IsCredentialError reports whether an AI call failure looks like a
// rejected or missing service credential, so the surface layer can
// suggest checking the API key.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "api key") ||
		strings.Contains(errStr, "api_key") ||
		strings.Contains(errStr, "unauthenticated") ||
		strings.Contains(errStr, "permission") ||
		strings.Contains(errStr, "401") ||
		strings.Contains(errStr, "403")
}
