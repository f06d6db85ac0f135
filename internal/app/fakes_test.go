package app

import (
	"context"
	"encoding/json"
	"sync"

	"recruitflow/internal/common"
	"recruitflow/internal/domain/application"
	"recruitflow/internal/domain/recruiter"
	"recruitflow/internal/domain/vacancy"
	"recruitflow/internal/notify"
)

type fakeAppRepo struct {
	mu          sync.Mutex
	apps        map[common.UUID]*application.Application
	transitions []application.Transition
	draftWrites int
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{apps: make(map[common.UUID]*application.Application)}
}

func cloneApplication(app *application.Application) *application.Application {
	raw, _ := json.Marshal(app)
	var out application.Application
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (r *fakeAppRepo) Create(_ context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app.ID = common.NewUUID()
	if app.Draft == nil {
		app.Draft = &application.Draft{}
	}
	r.apps[app.ID] = cloneApplication(&app)
	return cloneApplication(&app), nil
}

func (r *fakeAppRepo) GetByID(_ context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	return cloneApplication(app), nil
}

func (r *fakeAppRepo) UpdateDraft(_ context.Context, id common.UUID, draft *application.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.CandidateData != nil {
		return common.NewError(common.CodeConflict, "application is already finalized", nil)
	}
	if app.Status != application.StatusNew {
		return common.NewError(common.CodeConflict, "application has already been decided", nil)
	}
	clone := cloneApplication(app)
	clone.Draft = nil
	raw, _ := json.Marshal(draft)
	var copied application.Draft
	_ = json.Unmarshal(raw, &copied)
	clone.Draft = &copied
	r.apps[id] = clone
	r.draftWrites++
	return nil
}

func (r *fakeAppRepo) CommitCandidateData(_ context.Context, id common.UUID, data application.CandidateData, externalRef string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.CandidateData != nil {
		return nil, common.NewError(common.CodeConflict, "application is already finalized", nil)
	}
	if app.Status != application.StatusNew {
		return nil, common.NewError(common.CodeConflict, "application has already been decided", nil)
	}
	app.CandidateData = &data
	app.ExternalRef = externalRef
	app.Draft = nil
	return cloneApplication(app), nil
}

func (r *fakeAppRepo) UpdateStatus(_ context.Context, id common.UUID, from, to application.Status, recruiterID *int64, reason string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	if app.Status != from {
		return nil, common.NewError(common.CodeInvalidTransition, "application status already moved", nil)
	}
	app.Status = to
	app.AssignedRecruiter = recruiterID
	r.transitions = append(r.transitions, application.Transition{
		ID:            int64(len(r.transitions) + 1),
		ApplicationID: id,
		FromStatus:    from,
		ToStatus:      to,
		RecruiterID:   recruiterID,
		Reason:        reason,
	})
	return cloneApplication(app), nil
}

func (r *fakeAppRepo) ListTransitions(_ context.Context, id common.UUID) ([]application.Transition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.Transition
	for _, tr := range r.transitions {
		if tr.ApplicationID == id {
			items = append(items, tr)
		}
	}
	return items, nil
}

type fakeCatalog struct {
	vacancies map[string]vacancy.Vacancy
}

func newFakeCatalog(items ...vacancy.Vacancy) *fakeCatalog {
	c := &fakeCatalog{vacancies: make(map[string]vacancy.Vacancy)}
	for _, v := range items {
		c.vacancies[v.ID] = v
	}
	return c
}

func (c *fakeCatalog) GetByID(_ context.Context, id string) (*vacancy.Vacancy, error) {
	v, ok := c.vacancies[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
	}
	return &v, nil
}

type fakeRecruiterRepo struct {
	mu       sync.Mutex
	mappings map[string]recruiter.Mapping
}

func newFakeRecruiterRepo() *fakeRecruiterRepo {
	return &fakeRecruiterRepo{mappings: make(map[string]recruiter.Mapping)}
}

func (r *fakeRecruiterRepo) FindActiveByDirection(_ context.Context, direction string) (*recruiter.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mappings[direction]
	if !ok || !m.IsActive {
		return nil, common.NewError(common.CodeNotFound, "recruiter mapping not found", nil)
	}
	return &m, nil
}

func (r *fakeRecruiterRepo) Upsert(_ context.Context, mapping recruiter.Mapping) (*recruiter.Mapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[mapping.Direction] = mapping
	return &mapping, nil
}

type fakeSync struct {
	mu          sync.Mutex
	submitRef   string
	submitErr   error
	pushErr     error
	submitCalls int
	submitKeys  []string
	pushCalls   int
	pushRefs    []string
}

func (s *fakeSync) SubmitNew(_ context.Context, _ string, _ application.CandidateData, idempotencyKey string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitCalls++
	s.submitKeys = append(s.submitKeys, idempotencyKey)
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.submitRef, nil
}

func (s *fakeSync) PushStatus(_ context.Context, externalRef string, _ application.Status, _ int64, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushCalls++
	s.pushRefs = append(s.pushRefs, externalRef)
	return s.pushErr
}

type fakeNotifier struct {
	mu        sync.Mutex
	submitted []notify.ApplicationSubmitted
	changed   []notify.StatusChanged
}

func (n *fakeNotifier) ApplicationSubmitted(_ context.Context, event notify.ApplicationSubmitted) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, event)
}

func (n *fakeNotifier) StatusChanged(_ context.Context, event notify.StatusChanged) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changed = append(n.changed, event)
}
