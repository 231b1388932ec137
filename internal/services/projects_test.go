package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	fail map[string]bool
	seen []string
}

func (u *fakeUploader) UploadSnapshot(ctx context.Context, projectID uuid.UUID, filename, contentType string, data []byte) (string, error) {
	if u.fail[filename] {
		return "", errors.New("bucket unavailable")
	}
	u.seen = append(u.seen, filename)
	return fmt.Sprintf("https://cdn.example.com/projects/%s/%s", projectID, filename), nil
}

type projectFixture struct {
	store    *memory.Store
	svc      *services.ProjectService
	uploader *fakeUploader
	project  *models.Project
	devA     *models.User
	devB     *models.User
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	f := newRequestFixture(t)
	_, project, err := f.svc.Approve(context.Background(), f.pendingR.ID.String(), models.ApproveProjectRequest{
		Developers: []string{f.devA.ID.String()},
		Price:      ptr(800.0),
	})
	require.NoError(t, err)

	uploader := &fakeUploader{fail: map[string]bool{}}
	svc := services.NewProjectService(f.store, uploader)
	svc.SetClock(steppingClock())
	return &projectFixture{store: f.store, svc: svc, uploader: uploader, project: project, devA: f.devA, devB: f.devB}
}

func TestListSummaries(t *testing.T) {
	f := newProjectFixture(t)

	summaries, err := f.svc.ListSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, f.project.ID, s.ProjectID)
	assert.Equal(t, models.ProjectPending, s.Status)
	assert.Equal(t, 800.0, s.Price)
	assert.False(t, s.PaymentStatus)
	assert.Equal(t, "client", s.ClientName)
}

func TestGetProject(t *testing.T) {
	f := newProjectFixture(t)

	got, err := f.svc.Get(context.Background(), f.project.ID.String())
	require.NoError(t, err)
	assert.Equal(t, f.project.ProjectTitle, got.ProjectTitle)

	_, err = f.svc.Get(context.Background(), uuid.NewString())
	requireKind(t, err, services.KindNotFound, "Project not found")

	_, err = f.svc.Get(context.Background(), "p1")
	requireKind(t, err, services.KindValidation, "Invalid project id")
}

func TestUpdateProject(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, f.project.ID.String(), models.UpdateProjectRequest{
		ProjectStatus:        ptr("In Progress"),
		ProjectSource:        ptr("https://github.com/acme/inventory"),
		PaymentStatus:        ptr(true),
		PaymentTransactionID: ptr("pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectInProgress, updated.ProjectStatus)
	assert.Equal(t, "https://github.com/acme/inventory", updated.ProjectSource)
	assert.True(t, updated.PaymentStatus)
	assert.Equal(t, "pay_1", updated.PaymentTransactionID)

	unpaid, err := f.store.CountUnpaidProjects(ctx)
	require.NoError(t, err)
	assert.Zero(t, unpaid)

	tests := []struct {
		name string
		in   models.UpdateProjectRequest
		want string
	}{
		{"unknown status", models.UpdateProjectRequest{ProjectStatus: ptr("Shipped")}, "Invalid projectStatus"},
		{"bad source", models.UpdateProjectRequest{ProjectSource: ptr("repo")}, "projectSource must be a valid URL"},
		{"empty", models.UpdateProjectRequest{}, "No fields to update"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Update(ctx, f.project.ID.String(), tt.in)
			requireKind(t, err, services.KindValidation, tt.want)
		})
	}
}

func TestReassignDevelopers(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	project, err := f.svc.ReassignDevelopers(ctx, f.project.ID.String(), models.AssignDevelopersRequest{
		Developers: []string{f.devB.ID.String(), f.devB.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.devB.ID}, project.Developers)

	resp, err := f.svc.ListAssignments(ctx, f.project.ID.String())
	require.NoError(t, err)
	assert.Equal(t, f.project.ID, resp.ProjectID)
	require.Len(t, resp.Assignments, 1)
	assert.Equal(t, f.devB.ID, resp.Assignments[0].DeveloperID)

	assigned, err := f.svc.ListAssigned(ctx, f.devA.ID.String())
	require.NoError(t, err)
	assert.Empty(t, assigned)

	assigned, err = f.svc.ListAssigned(ctx, f.devB.ID.String())
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	_, err = f.svc.ReassignDevelopers(ctx, f.project.ID.String(), models.AssignDevelopersRequest{})
	requireKind(t, err, services.KindValidation, "At least one developer")

	_, err = f.svc.ReassignDevelopers(ctx, f.project.ID.String(), models.AssignDevelopersRequest{Developers: []string{uuid.NewString()}})
	requireKind(t, err, services.KindValidation, "not found")

	_, err = f.svc.ReassignDevelopers(ctx, uuid.NewString(), models.AssignDevelopersRequest{Developers: []string{f.devA.ID.String()}})
	requireKind(t, err, services.KindNotFound, "Project not found")
}

func TestAddSnapshots(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()
	f.uploader.fail["broken.png"] = true

	project, failures, err := f.svc.AddSnapshots(ctx, f.project.ID.String(), []services.SnapshotFile{
		{Filename: "home.png", ContentType: "image/png", Data: []byte("png")},
		{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("txt")},
		{Filename: "broken.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	require.Len(t, project.Snapshots, 1)
	assert.Contains(t, project.Snapshots[0], "home.png")
	assert.Len(t, failures, 2)
	assert.Equal(t, []string{"home.png"}, f.uploader.seen)

	project, _, err = f.svc.AddSnapshots(ctx, f.project.ID.String(), []services.SnapshotFile{
		{Filename: "about.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
	})
	require.NoError(t, err)
	assert.Len(t, project.Snapshots, 2)

	_, _, err = f.svc.AddSnapshots(ctx, f.project.ID.String(), []services.SnapshotFile{
		{Filename: "broken.png", ContentType: "image/png", Data: []byte("png")},
	})
	requireKind(t, err, services.KindValidation, "No snapshots were uploaded")

	_, _, err = f.svc.AddSnapshots(ctx, f.project.ID.String(), nil)
	requireKind(t, err, services.KindValidation, "At least one image")
}

func TestAddSnapshots_StorageNotConfigured(t *testing.T) {
	f := newProjectFixture(t)
	svc := services.NewProjectService(f.store, nil)

	_, _, err := svc.AddSnapshots(context.Background(), f.project.ID.String(), []services.SnapshotFile{
		{Filename: "home.png", ContentType: "image/png", Data: []byte("png")},
	})

	requireKind(t, err, services.KindUnavailable, "not configured")
}
