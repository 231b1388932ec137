package services_test

import (
	"context"
	"sync"
	"testing"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestFixture struct {
	store    *memory.Store
	svc      *services.ProjectRequestService
	client   *models.User
	devA     *models.User
	devB     *models.User
	pendingR *models.ProjectRequest
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	st := memory.New()
	svc := services.NewProjectRequestService(st)
	svc.SetClock(steppingClock())

	f := &requestFixture{
		store:  st,
		svc:    svc,
		client: seedUser(t, st, "client", models.RoleClient),
		devA:   seedUser(t, st, "dev-a", models.RoleAdmin),
		devB:   seedUser(t, st, "dev-b", models.RoleAdmin),
	}
	req, err := svc.Submit(context.Background(), models.SubmitProjectRequest{
		ClientID:           f.client.ID.String(),
		ProjectTitle:       "Inventory app",
		ProjectDescription: "Track stock across two shops",
	})
	require.NoError(t, err)
	f.pendingR = req
	return f
}

func (f *requestFixture) approveInput(price float64) models.ApproveProjectRequest {
	return models.ApproveProjectRequest{
		Developers: []string{f.devA.ID.String(), f.devB.ID.String()},
		Price:      &price,
	}
}

func TestSubmit_SnapshotsClientAndIssuesToken(t *testing.T) {
	f := newRequestFixture(t)
	req := f.pendingR

	assert.Equal(t, models.RequestPending, req.RequestStatus)
	assert.Equal(t, f.client.Name, req.ClientName)
	assert.Equal(t, f.client.Email, req.ClientEmail)
	assert.Equal(t, f.client.Phone, req.ClientPhone)
	assert.Nil(t, req.Price)
	assert.Empty(t, req.Developers)
	assert.Nil(t, req.RegisteredID)

	token, err := uuid.Parse(req.ProjectStatusURL)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), token.Version())

	found, err := f.svc.GetByStatusToken(context.Background(), req.ProjectStatusURL)
	require.NoError(t, err)
	assert.Equal(t, req.ID, found.ID)
}

func TestSubmit_UnknownClient(t *testing.T) {
	st := memory.New()
	svc := services.NewProjectRequestService(st)

	_, err := svc.Submit(context.Background(), models.SubmitProjectRequest{
		ClientID:           uuid.NewString(),
		ProjectTitle:       "Shop",
		ProjectDescription: "A shop",
	})

	requireKind(t, err, services.KindNotFound, "User not found")
	all, err := st.ListProjectRequests(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmit_Validation(t *testing.T) {
	f := newRequestFixture(t)

	tests := []struct {
		name string
		in   models.SubmitProjectRequest
		want string
	}{
		{"malformed client", models.SubmitProjectRequest{ClientID: "u1", ProjectTitle: "a", ProjectDescription: "b"}, "Invalid clientId"},
		{"missing title", models.SubmitProjectRequest{ClientID: f.client.ID.String(), ProjectDescription: "b"}, "required"},
		{"blank description", models.SubmitProjectRequest{ClientID: f.client.ID.String(), ProjectTitle: "a", ProjectDescription: "  "}, "required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Submit(context.Background(), tt.in)
			requireKind(t, err, services.KindValidation, tt.want)
		})
	}
}

func TestListByClient_NewestFirst(t *testing.T) {
	f := newRequestFixture(t)
	second, err := f.svc.Submit(context.Background(), models.SubmitProjectRequest{
		ClientID:           f.client.ID.String(),
		ProjectTitle:       "Second",
		ProjectDescription: "Another one",
	})
	require.NoError(t, err)

	list, err := f.svc.ListByClient(context.Background(), f.client.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, f.pendingR.ID, list[1].ID)

	other, err := f.svc.ListByClient(context.Background(), f.devA.ID.String())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestApprove_CreatesExactlyOneProject(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	approved, project, err := f.svc.Approve(ctx, f.pendingR.ID.String(), f.approveInput(1500))
	require.NoError(t, err)

	assert.Equal(t, models.RequestApproved, approved.RequestStatus)
	require.NotNil(t, approved.Price)
	assert.Equal(t, 1500.0, *approved.Price)
	assert.Equal(t, []uuid.UUID{f.devA.ID, f.devB.ID}, approved.Developers)
	require.NotNil(t, approved.RegisteredID)
	assert.Equal(t, project.ID, *approved.RegisteredID)

	assert.Equal(t, 1500.0, project.Price)
	assert.Equal(t, []uuid.UUID{f.devA.ID, f.devB.ID}, project.Developers)
	assert.Equal(t, models.ProjectPending, project.ProjectStatus)
	assert.Equal(t, f.client.Name, project.ClientName)
	assert.Equal(t, f.pendingR.ProjectTitle, project.ProjectTitle)
	assert.False(t, project.PaymentStatus)

	projects, err := f.store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)

	assignments, err := f.store.ListAssignments(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 2)
	for _, a := range assignments {
		assert.Equal(t, models.AssignmentActive, a.Status)
	}
}

func TestApprove_Twice(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.Approve(ctx, f.pendingR.ID.String(), f.approveInput(1500))
	require.NoError(t, err)

	_, _, err = f.svc.Approve(ctx, f.pendingR.ID.String(), f.approveInput(900))
	requireKind(t, err, services.KindConflict, "already been approved")
	assert.Equal(t, 400, err.(*services.Error).StatusCode())

	projects, err := f.store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.Equal(t, 1500.0, projects[0].Price)
}

func TestApprove_ConcurrentCallsCreateOneProject(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.svc.Approve(ctx, f.pendingR.ID.String(), f.approveInput(100))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, services.KindConflict, "already been")
	}
	assert.Equal(t, 1, succeeded)

	projects, err := f.store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestApprove_MissingRequest(t *testing.T) {
	f := newRequestFixture(t)

	_, _, err := f.svc.Approve(context.Background(), uuid.NewString(), f.approveInput(10))

	requireKind(t, err, services.KindNotFound, "Project request not found")
	projects, err := f.store.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestApprove_Validation(t *testing.T) {
	f := newRequestFixture(t)

	tests := []struct {
		name string
		in   models.ApproveProjectRequest
		want string
	}{
		{"missing price", models.ApproveProjectRequest{Developers: []string{f.devA.ID.String()}}, "Price"},
		{"negative price", models.ApproveProjectRequest{Developers: []string{f.devA.ID.String()}, Price: ptr(-1.0)}, "Price"},
		{"no developers", models.ApproveProjectRequest{Price: ptr(10.0)}, "developer"},
		{"malformed developer", models.ApproveProjectRequest{Developers: []string{"dev"}, Price: ptr(10.0)}, "Invalid developer id"},
		{"unknown developer", models.ApproveProjectRequest{Developers: []string{uuid.NewString()}, Price: ptr(10.0)}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Approve(context.Background(), f.pendingR.ID.String(), tt.in)
			requireKind(t, err, services.KindValidation, tt.want)
		})
	}

	req, err := f.store.GetProjectRequest(context.Background(), f.pendingR.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.RequestStatus)
}

func TestReject(t *testing.T) {
	f := newRequestFixture(t)
	ctx := context.Background()

	rejected, err := f.svc.Reject(ctx, f.pendingR.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RequestRejected, rejected.RequestStatus)
	assert.Nil(t, rejected.Price)

	_, _, err = f.svc.Approve(ctx, f.pendingR.ID.String(), f.approveInput(10))
	requireKind(t, err, services.KindConflict, "already been rejected")

	_, err = f.svc.Reject(ctx, f.pendingR.ID.String())
	requireKind(t, err, services.KindConflict, "already been processed")

	_, err = f.svc.Reject(ctx, uuid.NewString())
	requireKind(t, err, services.KindNotFound, "not found")
}
