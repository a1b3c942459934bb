package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pathprep/pathprep-backend/internal/repos"
	"github.com/pathprep/pathprep-backend/internal/types"
)

// fakeModel returns canned completions and counts calls.
type fakeModel struct {
	response string
	err      error
	calls    int
}

func (f *fakeModel) Generate(ctx context.Context, prompt, model string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeModel) Model() string { return "test-model" }

type fakeRoadmapRepo struct {
	byKey     map[string]*types.Roadmap
	byID      map[string]*types.Roadmap
	lookupErr error
	saveErr   error
	creates   int
	saves     int
}

func newFakeRoadmapRepo() *fakeRoadmapRepo {
	return &fakeRoadmapRepo{
		byKey: make(map[string]*types.Roadmap),
		byID:  make(map[string]*types.Roadmap),
	}
}

func (f *fakeRoadmapRepo) Create(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.creates++
	f.byKey[roadmap.CompositeKey] = roadmap
	f.byID[roadmap.ID] = roadmap
	return roadmap, nil
}

func (f *fakeRoadmapRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Roadmap, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, repos.ErrNotFound
}

func (f *fakeRoadmapRepo) GetByCompositeKey(ctx context.Context, tx *gorm.DB, key string) (*types.Roadmap, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if r, ok := f.byKey[key]; ok {
		return r, nil
	}
	return nil, repos.ErrNotFound
}

func (f *fakeRoadmapRepo) Save(ctx context.Context, tx *gorm.DB, roadmap *types.Roadmap) (*types.Roadmap, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.saves++
	f.byKey[roadmap.CompositeKey] = roadmap
	f.byID[roadmap.ID] = roadmap
	return roadmap, nil
}

func (f *fakeRoadmapRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	r, ok := f.byID[id]
	if !ok {
		return repos.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byKey, r.CompositeKey)
	return nil
}

type fakeGenLogRepo struct {
	entries []*types.GenerationLog
}

func (f *fakeGenLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.GenerationLog) (*types.GenerationLog, error) {
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeGenLogRepo) ListRecent(ctx context.Context, tx *gorm.DB, kind string, limit int) ([]types.GenerationLog, error) {
	var out []types.GenerationLog
	for _, e := range f.entries {
		if kind == "" || e.Kind == kind {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeSkillResourceRepo struct {
	byID    map[string]*types.SkillResource
	creates int
	saves   int
}

func newFakeSkillResourceRepo() *fakeSkillResourceRepo {
	return &fakeSkillResourceRepo{byID: make(map[string]*types.SkillResource)}
}

func (f *fakeSkillResourceRepo) tripleKey(skill, role, level string) string {
	return strings.ToLower(skill + "|" + role + "|" + level)
}

func (f *fakeSkillResourceRepo) Create(ctx context.Context, tx *gorm.DB, resource *types.SkillResource) (*types.SkillResource, error) {
	f.creates++
	f.byID[resource.ID] = resource
	return resource, nil
}

func (f *fakeSkillResourceRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.SkillResource, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, repos.ErrNotFound
}

func (f *fakeSkillResourceRepo) GetByTriple(ctx context.Context, tx *gorm.DB, skillName, role, experienceLevel string) (*types.SkillResource, error) {
	key := f.tripleKey(skillName, role, experienceLevel)
	for _, r := range f.byID {
		if f.tripleKey(r.SkillName, r.Role, r.ExperienceLevel) == key {
			return r, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (f *fakeSkillResourceRepo) Save(ctx context.Context, tx *gorm.DB, resource *types.SkillResource) (*types.SkillResource, error) {
	f.saves++
	f.byID[resource.ID] = resource
	return resource, nil
}

func (f *fakeSkillResourceRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repos.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeQuestionRepo struct {
	rows      []*types.InterviewQuestion
	createErr error
}

func (f *fakeQuestionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, questions []*types.InterviewQuestion) ([]*types.InterviewQuestion, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.rows = append(f.rows, questions...)
	return questions, nil
}

func (f *fakeQuestionRepo) GetByRoleAndExperience(ctx context.Context, tx *gorm.DB, role, experience string) ([]*types.InterviewQuestion, error) {
	var out []*types.InterviewQuestion
	for _, q := range f.rows {
		if q.Role == role && q.Experience == experience {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) GetByRoleExperienceAndSkill(ctx context.Context, tx *gorm.DB, role, experience, skill string) ([]*types.InterviewQuestion, error) {
	var out []*types.InterviewQuestion
	for _, q := range f.rows {
		if q.Role == role && q.Experience == experience && q.Skill == skill {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	for i, q := range f.rows {
		if q.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repos.ErrNotFound
}

var errModelDown = errors.New("model provider unavailable")
