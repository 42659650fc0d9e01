package gateway

import (
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"careerpath-agent/internal/models"
)

func testProfile() models.UserProfile {
	p := models.EmptyProfile()
	p.FullName = "Jane Doe"
	p.Email = "jane@example.com"
	p.Skills = []string{"Roadmapping"}
	p.Experience = []models.WorkExperience{{Company: "Acme", Role: "PM", Duration: "3 years", Description: "Shipped things."}}
	return p
}

func TestParseProfile_MissingOptionalFields(t *testing.T) {
	// Only the schema-required fields are present; everything else must be
	// defaulted, never left absent.
	text := `{"fullName": "Jane Doe", "experience": [{"company": "Acme", "role": "PM", "duration": "2020-2023", "description": "Led roadmap."}]}`

	profile, err := parseProfile(text)
	if err != nil {
		t.Fatalf("parseProfile() error = %v", err)
	}

	if profile.FullName != "Jane Doe" {
		t.Errorf("Expected fullName Jane Doe, got %s", profile.FullName)
	}
	if len(profile.Experience) != 1 || profile.Experience[0].Company != "Acme" {
		t.Errorf("Experience not parsed: %+v", profile.Experience)
	}
	if profile.Education == nil || len(profile.Education) != 0 {
		t.Errorf("Missing education must become an empty list, got %v", profile.Education)
	}
	if profile.Skills == nil || profile.Certifications == nil || profile.Languages == nil || profile.Projects == nil {
		t.Errorf("All missing lists must become empty lists")
	}
	if profile.Links.LinkedIn != "" {
		t.Errorf("Missing links must default to empty strings, got %+v", profile.Links)
	}
}

func TestParseProfile_FullPayload(t *testing.T) {
	text := `{
		"fullName": "Jane Doe",
		"email": "jane@example.com",
		"phone": "+1 555 0100",
		"summary": "Product leader.",
		"skills": ["Roadmapping", "SQL"],
		"experience": [{"company": "Acme", "role": "PM", "duration": "3 years", "description": "Shipped things."}],
		"education": [{"institution": "MIT", "degree": "BSc", "year": "2015"}],
		"certifications": ["CSPO"],
		"languages": [{"language": "Spanish", "proficiency": "Advanced"}],
		"projects": [{"name": "X", "description": "Y", "link": "https://x.example"}],
		"links": {"linkedin": "https://linkedin.com/in/jane", "portfolio": "", "github": "", "other": ""}
	}`

	profile, err := parseProfile(text)
	if err != nil {
		t.Fatalf("parseProfile() error = %v", err)
	}

	if profile.Languages[0].Proficiency != "Advanced" {
		t.Errorf("Expected proficiency Advanced, got %s", profile.Languages[0].Proficiency)
	}
	if profile.Links.LinkedIn != "https://linkedin.com/in/jane" {
		t.Errorf("Links not parsed: %+v", profile.Links)
	}
	if profile.Projects[0].Link != "https://x.example" {
		t.Errorf("Project link not parsed: %+v", profile.Projects[0])
	}
}

func TestParseProfile_InvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Plain prose", "I could not read the resume."},
		{"Truncated object", `{"fullName": "Jane`},
		{"Array instead of object", `["fullName"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProfile(tt.text); err == nil {
				t.Errorf("parseProfile(%q) expected error, got nil", tt.text)
			}
		})
	}
}

func TestParseAdvice_DefaultsAndClamping(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedScore float64
	}{
		{
			name:          "Score above range is clamped",
			text:          `{"resumeScore": 42}`,
			expectedScore: 10,
		},
		{
			name:          "Negative score is clamped",
			text:          `{"resumeScore": -3}`,
			expectedScore: 0,
		},
		{
			name:          "Score in range passes through",
			text:          `{"resumeScore": 7.5}`,
			expectedScore: 7.5,
		},
		{
			name:          "Absent score defaults to zero",
			text:          `{"resumeCritique": "fine"}`,
			expectedScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			advice, err := parseAdvice(tt.text)
			if err != nil {
				t.Fatalf("parseAdvice() error = %v", err)
			}
			if advice.ResumeScore != tt.expectedScore {
				t.Errorf("ResumeScore = %f, want %f", advice.ResumeScore, tt.expectedScore)
			}
			if advice.Jobs == nil {
				t.Errorf("Missing jobs must become an empty list")
			}
			if advice.GroundingURLs == nil {
				t.Errorf("Missing groundingUrls must become an empty list")
			}
		})
	}
}

func TestParseAdvice_Jobs(t *testing.T) {
	text := `{
		"resumeScore": 8,
		"resumeCritique": "Good.",
		"executiveSummary": "Strong PM profile.",
		"skillGapAnalysis": "Needs analytics depth.",
		"improvementSuggestion": "Quantify impact.",
		"recommendedRoleTitle": "Senior PM",
		"jobs": [
			{"title": "PM", "company": "Acme", "location": "NYC", "platform": "LinkedIn", "url": "https://example.com/1", "matchScore": 88},
			{"title": "Product Lead", "company": "Globex", "location": "Remote", "platform": "Indeed", "url": "https://example.com/2"}
		]
	}`

	advice, err := parseAdvice(text)
	if err != nil {
		t.Fatalf("parseAdvice() error = %v", err)
	}

	if len(advice.Jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(advice.Jobs))
	}
	if advice.Jobs[0].MatchScore != 88 {
		t.Errorf("Expected match score 88, got %f", advice.Jobs[0].MatchScore)
	}
	if advice.Jobs[1].MatchScore != 0 {
		t.Errorf("Absent match score must default to zero, got %f", advice.Jobs[1].MatchScore)
	}
}

func TestGroundingSources(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		expected []struct{ title, uri string }
	}{
		{
			name:     "Nil response",
			resp:     nil,
			expected: nil,
		},
		{
			name:     "No candidates",
			resp:     &genai.GenerateContentResponse{},
			expected: nil,
		},
		{
			name: "No grounding metadata",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{}},
			},
			expected: nil,
		},
		{
			name: "Complete citations",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					GroundingMetadata: &genai.GroundingMetadata{
						GroundingChunks: []*genai.GroundingChunk{
							{Web: &genai.GroundingChunkWeb{Title: "LinkedIn Jobs", URI: "https://linkedin.com/jobs/1"}},
							{Web: &genai.GroundingChunkWeb{Title: "Indeed", URI: "https://indeed.com/2"}},
						},
					},
				}},
			},
			expected: []struct{ title, uri string }{
				{"LinkedIn Jobs", "https://linkedin.com/jobs/1"},
				{"Indeed", "https://indeed.com/2"},
			},
		},
		{
			name: "Missing title becomes Source, missing uri becomes #",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					GroundingMetadata: &genai.GroundingMetadata{
						GroundingChunks: []*genai.GroundingChunk{
							{Web: &genai.GroundingChunkWeb{URI: "https://example.com"}},
							{Web: &genai.GroundingChunkWeb{Title: "Jobs Board"}},
						},
					},
				}},
			},
			expected: []struct{ title, uri string }{
				{"Source", "https://example.com"},
				{"Jobs Board", "#"},
			},
		},
		{
			name: "Non-web chunks are skipped",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					GroundingMetadata: &genai.GroundingMetadata{
						GroundingChunks: []*genai.GroundingChunk{
							{},
							{Web: &genai.GroundingChunkWeb{Title: "Kept", URI: "https://kept.example"}},
						},
					},
				}},
			},
			expected: []struct{ title, uri string }{
				{"Kept", "https://kept.example"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := groundingSources(tt.resp)
			if sources == nil {
				t.Fatalf("groundingSources() must never return nil")
			}
			if len(sources) != len(tt.expected) {
				t.Fatalf("Expected %d sources, got %d: %+v", len(tt.expected), len(sources), sources)
			}
			for i, want := range tt.expected {
				if sources[i].Title != want.title || sources[i].URI != want.uri {
					t.Errorf("Source %d = {%s %s}, want {%s %s}", i, sources[i].Title, sources[i].URI, want.title, want.uri)
				}
			}
		})
	}
}

func TestBuildAdvicePrompt(t *testing.T) {
	profile := testProfile()

	prompt, err := buildAdvicePrompt(profile, "Product Manager", "United States")
	if err != nil {
		t.Fatalf("buildAdvicePrompt() error = %v", err)
	}

	for _, want := range []string{
		`"fullName":"Jane Doe"`,
		"Target Role: Product Manager",
		"Target Country: United States",
		"Score the resume out of 10",
		"Search for current job listings for 'Product Manager' in 'United States'",
		"Return JSON matching schema",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Bare JSON", `{"a":1}`, `{"a":1}`},
		{"Fenced json block", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"Plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"Surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.input); got != tt.expected {
				t.Errorf("stripFences(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsCredentialError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Nil error", nil, false},
		{"Invalid API key", errors.New("400: API key not valid. Please pass a valid API key."), true},
		{"API_KEY_INVALID reason", errors.New("googleapi: Error 400: API_KEY_INVALID"), true},
		{"Unauthenticated", errors.New("rpc error: code = Unauthenticated desc = request not authenticated"), true},
		{"Permission denied", errors.New("permission denied on resource"), true},
		{"HTTP 403", errors.New("server responded with status 403"), true},
		{"Timeout", errors.New("context deadline exceeded"), false},
		{"Parse failure", errors.New("failed to parse advice JSON"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCredentialError(tt.err); got != tt.expected {
				t.Errorf("IsCredentialError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestSchemas(t *testing.T) {
	// The structured-output contract depends on exact field names and the
	// two required extraction fields.
	if len(resumeSchema.Required) != 2 || resumeSchema.Required[0] != "fullName" || resumeSchema.Required[1] != "experience" {
		t.Errorf("Resume schema required fields = %v, want [fullName experience]", resumeSchema.Required)
	}

	languages, ok := resumeSchema.Properties["languages"]
	if !ok {
		t.Fatalf("Resume schema missing languages property")
	}
	enum := languages.Items.Properties["proficiency"].Enum
	if len(enum) != 4 {
		t.Fatalf("Proficiency enum = %v, want 4 values", enum)
	}
	for i, want := range []string{"Basic", "Intermediate", "Advanced", "Native"} {
		if enum[i] != want {
			t.Errorf("Proficiency enum[%d] = %s, want %s", i, enum[i], want)
		}
	}

	if len(adviceSchema.Required) != 0 {
		t.Errorf("Advice schema must not require any field, got %v", adviceSchema.Required)
	}
	for _, field := range []string{"resumeScore", "resumeCritique", "executiveSummary", "skillGapAnalysis", "improvementSuggestion", "recommendedRoleTitle", "jobs"} {
		if _, ok := adviceSchema.Properties[field]; !ok {
			t.Errorf("Advice schema missing property %s", field)
		}
	}
}
