package services

import (
	"context"
	"testing"

	"github.com/pathprep/pathprep-backend/internal/logger"
	"github.com/pathprep/pathprep-backend/internal/modules/generation"
	"github.com/pathprep/pathprep-backend/internal/types"
)

const questionCompletion = `{
	"questions": [
		{"question": "What is a goroutine?", "answer": "A lightweight thread.", "category": "Concurrency", "difficulty": "Easy"},
		{"question": "", "answer": "dropped"},
		{"question": "What is a channel?", "answer": "A typed conduit.", "category": "Concurrency", "difficulty": "Medium"}
	]
}`

func newQuestionFixture(t *testing.T, repo *fakeQuestionRepo, model *fakeModel) *questionService {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	svc := NewQuestionService(nil, log, repo, &fakeGenLogRepo{}, model, generation.NewMapper(log))
	return svc.(*questionService)
}

func TestGenerateQuestions_PersistsOnlyValidItems(t *testing.T) {
	repo := &fakeQuestionRepo{}
	model := &fakeModel{response: questionCompletion}
	svc := newQuestionFixture(t, repo, model)

	set, err := svc.GenerateQuestions(context.Background(), nil,
		QuestionRequest{Role: "Go Developer", ExperienceLevel: "beginner", Count: 2})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(set.Questions) != 2 {
		t.Fatalf("got %d questions, want 2 (empty one dropped)", len(set.Questions))
	}
	for _, q := range set.Questions {
		if q.Question == "" {
			t.Fatal("empty question survived into the set")
		}
	}
	if len(repo.rows) != 2 {
		t.Fatalf("persisted %d rows, want 2", len(repo.rows))
	}
}

func TestGenerateQuestions_ServesStoredWhenEnough(t *testing.T) {
	repo := &fakeQuestionRepo{}
	for i := 0; i < 5; i++ {
		repo.rows = append(repo.rows, &types.InterviewQuestion{
			ID:         string(rune('a' + i)),
			Role:       "Go Developer",
			Experience: "beginner",
			Question:   "Stored question",
		})
	}
	model := &fakeModel{response: questionCompletion}
	svc := newQuestionFixture(t, repo, model)

	set, err := svc.GenerateQuestions(context.Background(), nil,
		QuestionRequest{Role: "Go Developer", ExperienceLevel: "beginner", Count: 3})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if model.calls != 0 {
		t.Fatalf("model called %d times, want 0", model.calls)
	}
	if len(set.Questions) != 3 {
		t.Fatalf("got %d questions, want sample of 3", len(set.Questions))
	}
}

func TestGenerateQuestions_CountClamped(t *testing.T) {
	if got := ClampCount(0); got != 1 {
		t.Fatalf("ClampCount(0) = %d", got)
	}
	if got := ClampCount(500); got != 100 {
		t.Fatalf("ClampCount(500) = %d", got)
	}
	if got := ClampCount(7); got != 7 {
		t.Fatalf("ClampCount(7) = %d", got)
	}
}

func TestGenerateQuestions_FallbackWhenModelDownAndNothingStored(t *testing.T) {
	repo := &fakeQuestionRepo{}
	model := &fakeModel{err: errModelDown}
	svc := newQuestionFixture(t, repo, model)

	set, err := svc.GenerateQuestions(context.Background(), nil,
		QuestionRequest{Role: "Go Developer", ExperienceLevel: "beginner", Count: 5})
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if !set.Fallback {
		t.Fatal("expected fallback-flagged set")
	}
	if len(set.Questions) != 0 {
		t.Fatalf("fallback set has %d questions", len(set.Questions))
	}
}

func TestGenerateSkillQuestions_TagsAndSkillColumn(t *testing.T) {
	repo := &fakeQuestionRepo{}
	model := &fakeModel{response: questionCompletion}
	svc := newQuestionFixture(t, repo, model)

	set, err := svc.GenerateSkillQuestions(context.Background(), nil,
		SkillQuestionRequest{Skill: "Kubernetes", Role: "DevOps Engineer", ExperienceLevel: "intermediate", Count: 2})
	if err != nil {
		t.Fatalf("GenerateSkillQuestions: %v", err)
	}
	if len(set.Questions) != 2 {
		t.Fatalf("got %d questions", len(set.Questions))
	}
	for _, row := range repo.rows {
		if row.Skill != "Kubernetes" {
			t.Fatalf("row skill = %q", row.Skill)
		}
		if len(row.Tags) != 2 || row.Tags[0] != "Kubernetes" {
			t.Fatalf("row tags = %v", row.Tags)
		}
	}
}

func TestGenerateSkillQuestions_PerCallCap(t *testing.T) {
	repo := &fakeQuestionRepo{}
	model := &fakeModel{response: questionCompletion}
	svc := newQuestionFixture(t, repo, model)

	// Count above the per-call cap still succeeds; the prompt asks for at
	// most the cap.
	_, err := svc.GenerateSkillQuestions(context.Background(), nil,
		SkillQuestionRequest{Skill: "Go", Role: "Backend Engineer", ExperienceLevel: "advanced", Count: 50})
	if err != nil {
		t.Fatalf("GenerateSkillQuestions: %v", err)
	}
	if model.calls != 1 {
		t.Fatalf("model called %d times, want 1", model.calls)
	}
}
