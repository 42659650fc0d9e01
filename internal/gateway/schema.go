package gateway

import (
	"google.golang.org/genai"

	"careerpath-agent/internal/models"
)

// resumeSchema constrains the extraction response to the UserProfile
// shape. fullName and experience are the only required fields; the
// gateway fills defaults for everything the model omits.
var resumeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"fullName": {Type: genai.TypeString},
		"email":    {Type: genai.TypeString},
		"phone":    {Type: genai.TypeString},
		"summary":  {Type: genai.TypeString},
		"skills": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"experience": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"company":     {Type: genai.TypeString},
					"role":        {Type: genai.TypeString},
					"duration":    {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
			},
		},
		"education": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"institution": {Type: genai.TypeString},
					"degree":      {Type: genai.TypeString},
					"year":        {Type: genai.TypeString},
				},
			},
		},
		"certifications": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"languages": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"language": {Type: genai.TypeString},
					"proficiency": {
						Type: genai.TypeString,
						Enum: []string{
							models.ProficiencyBasic,
							models.ProficiencyIntermediate,
							models.ProficiencyAdvanced,
							models.ProficiencyNative,
						},
					},
				},
			},
		},
		"projects": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":        {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
					"link":        {Type: genai.TypeString},
				},
			},
		},
		"links": {
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"linkedin":  {Type: genai.TypeString},
				"portfolio": {Type: genai.TypeString},
				"github":    {Type: genai.TypeString},
				"other":     {Type: genai.TypeString},
			},
		},
	},
	Required: []string{"fullName", "experience"},
}

// adviceSchema constrains the advice response. No field is required;
// absent fields are defaulted by the gateway.
var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"resumeScore": {
			Type:        genai.TypeNumber,
			Description: "Score out of 10 based on quality and relevance to target role.",
		},
		"resumeCritique": {
			Type:        genai.TypeString,
			Description: "Detailed critique of the resume structure and content.",
		},
		"executiveSummary":      {Type: genai.TypeString},
		"skillGapAnalysis":      {Type: genai.TypeString},
		"improvementSuggestion": {Type: genai.TypeString},
		"recommendedRoleTitle":  {Type: genai.TypeString},
		"jobs": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"title":      {Type: genai.TypeString},
					"company":    {Type: genai.TypeString},
					"location":   {Type: genai.TypeString},
					"platform":   {Type: genai.TypeString},
					"url":        {Type: genai.TypeString},
					"matchScore": {Type: genai.TypeNumber},
				},
			},
		},
	},
}
