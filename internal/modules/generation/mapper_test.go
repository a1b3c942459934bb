package generation

import (
	"testing"

	"github.com/pathprep/pathprep-backend/internal/logger"
)

func testMapper(t *testing.T) *Mapper {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return NewMapper(log)
}

func TestMapRoadmap_WeekNumberEncodings(t *testing.T) {
	m := testMapper(t)
	cases := []string{
		`{"phases":[{"phaseName":"Intro","weekNumber":3}]}`,
		`{"phases":[{"phaseName":"Intro","weekNumber":"3"}]}`,
		`{"phases":[{"phaseName":"Intro","weekNumber":"Week 3"}]}`,
		`{"phases":[{"phaseName":"Intro","weekNumber":"3-5"}]}`,
	}
	for _, in := range cases {
		roadmap := m.MapRoadmap(in, "")
		if len(roadmap.Phases) != 1 {
			t.Fatalf("input %q: got %d phases", in, len(roadmap.Phases))
		}
		if got := roadmap.Phases[0].WeekNumber; got != 3 {
			t.Fatalf("input %q: weekNumber = %d, want 3", in, got)
		}
	}
}

func TestMapRoadmap_WeekInferredFromPhaseName(t *testing.T) {
	m := testMapper(t)
	roadmap := m.MapRoadmap(`{"phases":[{"phaseName":"Week 4: Advanced Topics"}]}`, "")
	if roadmap.Phases[0].WeekNumber != 4 {
		t.Fatalf("weekNumber = %d, want 4", roadmap.Phases[0].WeekNumber)
	}
}

func TestMapRoadmap_WeekDefaultsToOne(t *testing.T) {
	m := testMapper(t)
	roadmap := m.MapRoadmap(`{"phases":[{"phaseName":"Getting Started"}]}`, "")
	if roadmap.Phases[0].WeekNumber != 1 {
		t.Fatalf("weekNumber = %d, want 1", roadmap.Phases[0].WeekNumber)
	}
}

func TestMapRoadmap_PhaseAliasesAndSorting(t *testing.T) {
	m := testMapper(t)
	in := `{"learningPhases":[
		{"title":"Later","weekNumber":5},
		{"name":"Earlier","weekNumber":2}
	]}`
	roadmap := m.MapRoadmap(in, "")
	if len(roadmap.Phases) != 2 {
		t.Fatalf("got %d phases", len(roadmap.Phases))
	}
	if roadmap.Phases[0].PhaseName != "Earlier" || roadmap.Phases[1].PhaseName != "Later" {
		t.Fatalf("phases not sorted by week: %+v", roadmap.Phases)
	}
	if roadmap.EstimatedWeeks != 5 {
		t.Fatalf("estimatedWeeks = %d, want 5", roadmap.EstimatedWeeks)
	}
}

func TestMapRoadmap_ArrayTopLevelBackfillsFromPrompt(t *testing.T) {
	m := testMapper(t)
	prompt := "Generate a roadmap.\nrole: Java Developer\nexperienceLevel: beginner\n"
	roadmap := m.MapRoadmap(`[{"phaseName":"Intro","weekNumber":"1-2"}]`, prompt)
	if len(roadmap.Phases) != 1 {
		t.Fatalf("got %d phases", len(roadmap.Phases))
	}
	if roadmap.Phases[0].WeekNumber != 1 {
		t.Fatalf("weekNumber = %d, want 1", roadmap.Phases[0].WeekNumber)
	}
	if roadmap.Role != "Java Developer" {
		t.Fatalf("role = %q", roadmap.Role)
	}
	if roadmap.ExperienceLevel != "beginner" {
		t.Fatalf("experienceLevel = %q", roadmap.ExperienceLevel)
	}
}

func TestMapRoadmap_RawFencedArray(t *testing.T) {
	m := testMapper(t)
	raw := "```json\n[{\"phaseName\":\"Intro\",\"weekNumber\":\"1-2\"}]\n```"
	roadmap := m.MapRoadmap(Normalize(raw), "role: Go Developer\nexperienceLevel: beginner")
	if len(roadmap.Phases) != 1 {
		t.Fatalf("got %d phases", len(roadmap.Phases))
	}
	if roadmap.Phases[0].WeekNumber != 1 {
		t.Fatalf("weekNumber = %d, want 1", roadmap.Phases[0].WeekNumber)
	}
}

func TestMapRoadmap_SinglePhaseLikeObject(t *testing.T) {
	m := testMapper(t)
	roadmap := m.MapRoadmap(`{"phaseName":"Solo","weekNumber":2}`, "")
	if len(roadmap.Phases) != 1 || roadmap.Phases[0].PhaseName != "Solo" {
		t.Fatalf("phases = %+v", roadmap.Phases)
	}
}

func TestMapRoadmap_SkipsUnparseableElements(t *testing.T) {
	m := testMapper(t)
	in := `{"phases":[{"phaseName":"Good","weekNumber":1},"not an object",42]}`
	roadmap := m.MapRoadmap(in, "")
	if len(roadmap.Phases) != 1 {
		t.Fatalf("got %d phases, want 1", len(roadmap.Phases))
	}
}

func TestMapRoadmap_TopicCoercion(t *testing.T) {
	m := testMapper(t)
	in := `{"phases":[{"phaseName":"Intro","weekNumber":1,"topics":[
		{"title":"Goroutines","hours":"2-5","level":"medium"},
		{"concept":"Channels"}
	]}]}`
	roadmap := m.MapRoadmap(in, "")
	topics := roadmap.Phases[0].Topics
	if len(topics) != 2 {
		t.Fatalf("got %d topics", len(topics))
	}
	if topics[0].TopicName != "Goroutines" {
		t.Fatalf("topicName = %q", topics[0].TopicName)
	}
	if topics[0].EstimatedHours != 4 {
		t.Fatalf("estimatedHours = %d, want ceil((2+5)/2) = 4", topics[0].EstimatedHours)
	}
	if topics[0].Difficulty != "Intermediate" {
		t.Fatalf("difficulty = %q", topics[0].Difficulty)
	}
	if topics[1].EstimatedHours != 2 {
		t.Fatalf("default hours = %d, want 2", topics[1].EstimatedHours)
	}
	if topics[1].Difficulty != "Beginner" {
		t.Fatalf("default difficulty = %q", topics[1].Difficulty)
	}
}

func TestMapRoadmap_SubtopicNameFromDescription(t *testing.T) {
	m := testMapper(t)
	longDesc := "This description is intentionally longer than fifty characters to force truncation"
	in := `{"phases":[{"phaseName":"Intro","weekNumber":1,"topics":[
		{"topicName":"T","subtopics":[{"description":"` + longDesc + `"}]}
	]}]}`
	roadmap := m.MapRoadmap(in, "")
	sub := roadmap.Phases[0].Topics[0].Subtopics[0]
	if len(sub.Name) != 53 {
		t.Fatalf("name = %q (len %d), want 50 chars plus ellipsis", sub.Name, len(sub.Name))
	}
	if sub.Name[:50] != longDesc[:50] {
		t.Fatalf("name prefix mismatch: %q", sub.Name)
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	cases := map[string]string{
		"easy":         "Beginner",
		"EASY":         "Beginner",
		"Beginner":     "Beginner",
		"medium":       "Intermediate",
		"intermediate": "Intermediate",
		"hard":         "Advanced",
		"advanced":     "Advanced",
		"expert":       "Expert",
		"":             "Beginner",
	}
	for in, want := range cases {
		if got := NormalizeDifficulty(in); got != want {
			t.Fatalf("NormalizeDifficulty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapQuestionSet_WrapperShapes(t *testing.T) {
	m := testMapper(t)
	cases := []string{
		`{"questions":[{"question":"What is Go?","answer":"A language."}]}`,
		`{"data":[{"question":"What is Go?","answer":"A language."}]}`,
		`[{"question":"What is Go?","answer":"A language."}]`,
		`{"question":"What is Go?","answer":"A language."}`,
	}
	for _, in := range cases {
		set := m.MapQuestionSet(in, "")
		if len(set.Questions) != 1 {
			t.Fatalf("input %q: got %d questions", in, len(set.Questions))
		}
		q := set.Questions[0]
		if q.Question != "What is Go?" {
			t.Fatalf("question = %q", q.Question)
		}
		if q.Category != "General" || q.Difficulty != "Medium" {
			t.Fatalf("defaults not applied: %+v", q)
		}
	}
}

func TestMapQuestionSet_DropsEmptyQuestions(t *testing.T) {
	m := testMapper(t)
	in := `{"questions":[
		{"question":"Valid?","answer":"Yes."},
		{"question":"  ","answer":"Dropped."},
		{"answer":"No question at all."}
	]}`
	set := m.MapQuestionSet(in, "")
	if len(set.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(set.Questions))
	}
}

func TestMapSkillResource_ObjectAndArrayShapes(t *testing.T) {
	m := testMapper(t)

	obj := `{"skillName":"Kubernetes","role":"DevOps Engineer","experienceLevel":"intermediate",
		"learningPaths":[{"title":"K8s Basics","url":"https://example.com/k8s"}],
		"projects":[{"title":"Deploy a cluster","url":"https://example.com/deploy"}]}`
	resource := m.MapSkillResource(obj, "")
	if resource.SkillName != "Kubernetes" {
		t.Fatalf("skillName = %q", resource.SkillName)
	}
	if len(resource.LearningPaths) != 1 || len(resource.Projects) != 1 {
		t.Fatalf("lists = %d/%d", len(resource.LearningPaths), len(resource.Projects))
	}

	prompt := "skillName: Docker\nrole: Backend Engineer\nexperienceLevel: beginner"
	arr := `[{"title":"Docker 101","url":"https://example.com/docker"}]`
	resource = m.MapSkillResource(arr, prompt)
	if resource.SkillName != "Docker" || resource.Role != "Backend Engineer" {
		t.Fatalf("prompt backfill failed: %+v", resource)
	}
	if len(resource.LearningPaths) != 1 {
		t.Fatalf("array response not treated as learningPaths: %+v", resource.LearningPaths)
	}
}

func TestExtractPromptField(t *testing.T) {
	prompt := "Generate things.\nrole: Java Developer\nexperienceLevel: Beginner\n"
	if got := ExtractPromptField(prompt, "role"); got != "Java Developer" {
		t.Fatalf("role = %q", got)
	}
	if got := ExtractPromptField(prompt, "experienceLevel"); got != "Beginner" {
		t.Fatalf("experienceLevel = %q", got)
	}
	if got := ExtractPromptField(prompt, "missing"); got != "" {
		t.Fatalf("missing = %q", got)
	}
}
