package generation

import (
	"fmt"
	"regexp"
	"strings"
)

// PromptBuilder renders generation requests into the fixed prompt templates
// the model is instructed to answer with a specific JSON shape.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder { return &PromptBuilder{} }

// DefaultTimeline maps an experience level to a default plan length in weeks.
func DefaultTimeline(experienceLevel string) int {
	switch strings.ToLower(strings.TrimSpace(experienceLevel)) {
	case "beginner":
		return 16
	case "advanced":
		return 8
	case "":
		return 8
	default:
		return 12
	}
}

func (b *PromptBuilder) Roadmap(role, experienceLevel string, currentSkills []string, timelineWeeks int, focusArea string) string {
	skills := "None specified"
	if len(currentSkills) > 0 {
		skills = strings.Join(currentSkills, ", ")
	}
	if timelineWeeks <= 0 {
		timelineWeeks = DefaultTimeline(experienceLevel)
	}
	if strings.TrimSpace(focusArea) == "" {
		focusArea = "General"
	}

	return fmt.Sprintf(`Generate a detailed learning roadmap for a %s %s.

role: %s
experienceLevel: %s

IMPORTANT: Your response must be a valid JSON object without any markdown formatting, extra text, or code blocks.
Do not include any explanations or notes outside the JSON structure.

Required JSON structure:

{
  "role": "%s",
  "experienceLevel": "%s",
  "estimatedWeeks": %d,
  "phases": [
    {
      "phaseName": "Phase title",
      "weekNumber": 1,
      "objective": "What this phase accomplishes",
      "topics": [
        {
          "topicName": "Topic title",
          "description": "Topic description",
          "estimatedHours": 10,
          "difficulty": "Beginner|Intermediate|Advanced",
          "subtopics": [
            {
              "name": "Subtopic title",
              "description": "Subtopic description",
              "resources": [
                {
                  "title": "Resource title",
                  "url": "https://example.com/resource",
                  "type": "ARTICLE|VIDEO|COURSE|DOCUMENTATION|PRACTICE"
                }
              ]
            }
          ]
        }
      ],
      "deliverables": ["Deliverable 1", "Deliverable 2"]
    }
  ]
}

Guidelines:
1. Use double quotes for all strings
2. Do not use trailing commas
3. Escape any special characters in strings with backslashes
4. Ensure all opening brackets have matching closing brackets
5. Only include the JSON object in your response, no other text

Additional context:
- Current skills: %s
- Timeline: %d weeks
- Focus area: %s
- Make the roadmap practical with hands-on exercises
- Include real-world projects where applicable
- Suggest resources for each topic
- Include estimated time commitments

Now generate the roadmap for a %s %s:
`,
		experienceLevel, role,
		role, experienceLevel,
		role, experienceLevel, timelineWeeks,
		skills, timelineWeeks, focusArea,
		experienceLevel, role,
	)
}

func (b *PromptBuilder) RoleQuestions(role, experienceLevel, topics string, count int) string {
	if strings.TrimSpace(topics) == "" {
		topics = "general"
	}
	return fmt.Sprintf(`Generate exactly %d unique interview questions for a %s position at the %s level.
Focus on these topics: %s

role: %s
experienceLevel: %s

IMPORTANT: You MUST return exactly %d questions. Do not return fewer or more questions than requested.

Return the response as a JSON object with a 'questions' array containing objects with these fields:
- question: The interview question (required)
- answer: A detailed answer (at least 2-3 sentences)
- category: The category of the question (e.g., 'Java', 'Spring', 'System Design')
- difficulty: The difficulty level ('Easy', 'Medium', 'Hard')

Example response format:
{
  "role": "%s",
  "experienceLevel": "%s",
  "questions": [
    {
      "question": "The interview question",
      "answer": "A detailed answer",
      "category": "Core",
      "difficulty": "Easy"
    }
  ]
}
`,
		count, role, experienceLevel, topics,
		role, experienceLevel,
		count,
		role, experienceLevel,
	)
}

func (b *PromptBuilder) SkillQuestions(skill, role, experienceLevel string, count int) string {
	return fmt.Sprintf(`Generate exactly %d unique interview questions for a %s position at the %s level specifically focusing on %s.

role: %s
experienceLevel: %s
skillName: %s

IMPORTANT: You MUST return EXACTLY %d questions in the 'questions' array.
Do not return fewer or more questions than requested.

For each question, include a detailed answer that would be expected from a candidate at the %s level. The questions should be technical and specific to %s.

Format your response as a JSON object with a 'questions' array:
{
    "questions": [
        {
            "question": "The interview question",
            "answer": "A detailed answer",
            "category": "The category (e.g., 'Core', 'Advanced', 'Best Practices')",
            "difficulty": "The difficulty level ('Easy', 'Medium', 'Hard')"
        }
    ]
}

Make sure to:
1. Generate exactly %d questions
2. Return a valid JSON object with a 'questions' array
3. Each question should be unique and relevant to %s
4. Include detailed answers with code examples where appropriate
`,
		count, role, experienceLevel, skill,
		role, experienceLevel, skill,
		count,
		experienceLevel, skill,
		count, skill,
	)
}

func (b *PromptBuilder) SkillResources(skillName, role, experienceLevel string, includeLearningPaths, includeProjects, includeCertifications, includeCommunities bool) string {
	include := func(v bool) string {
		if v {
			return "Include"
		}
		return "Exclude"
	}
	return fmt.Sprintf(`Generate a comprehensive list of learning resources for the skill: %s
Target role: %s
Experience level: %s

skillName: %s
role: %s
experienceLevel: %s

Please provide resources in the following categories:
- Learning Paths: %s
- Projects: %s
- Certifications: %s
- Communities: %s

For each resource, include:
- Title
- URL
- Brief description
- Type (FREE/PAID/COMMUNITY)
- Level (BEGINNER/INTERMEDIATE/ADVANCED)
- Estimated hours to complete (if applicable)
- Rating (1-5, if available)

Format the response as a JSON object with "learningPaths", "projects", "certifications" and "communities" arrays of resource items.
`,
		skillName, role, experienceLevel,
		skillName, role, experienceLevel,
		include(includeLearningPaths), include(includeProjects),
		include(includeCertifications), include(includeCommunities),
	)
}

// ExtractPromptField pulls a "key: value" line back out of a prompt. Used to
// backfill identity fields when the model returns a bare array with no
// surrounding object.
func ExtractPromptField(prompt, key string) string {
	if prompt == "" || key == "" {
		return ""
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(key) + `\s*:\s*([^\n\r]+)`)
	if err != nil {
		return ""
	}
	m := re.FindStringSubmatch(prompt)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
