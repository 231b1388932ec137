package memory_test

import (
	"context"
	"testing"
	"time"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/store"
	"agency-desk-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newClient(t *testing.T, st *memory.Store, email string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.New(), Name: "Client", Email: email, Role: models.RoleClient, CreatedAt: epoch}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func TestCreateUser_Duplicates(t *testing.T) {
	st := memory.New()
	newClient(t, st, "a@example.com")

	err := st.CreateUser(context.Background(), &models.User{ID: uuid.New(), Email: "A@Example.com"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = st.GetUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProjectRequests_OrderingAndGuards(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	client := newClient(t, st, "c@example.com")

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		r := &models.ProjectRequest{
			ID:            uuid.New(),
			ClientID:      client.ID,
			RequestStatus: models.RequestPending,
			CreatedAt:     epoch.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, st.CreateProjectRequest(ctx, r))
		ids = append(ids, r.ID)
	}

	list, err := st.ListProjectRequestsByClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)

	err = st.CreateProjectRequest(ctx, &models.ProjectRequest{ID: uuid.New(), ClientID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrNotFound)

	project := &models.Project{ID: uuid.New(), ClientID: client.ID, CreatedAt: epoch}
	params := store.ApproveParams{RequestID: ids[0], Price: 10, Project: project, ApprovedAt: epoch}
	approved, err := st.ApproveProjectRequest(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, project.ID, *approved.RegisteredID)

	_, err = st.ApproveProjectRequest(ctx, params)
	assert.ErrorIs(t, err, store.ErrStateChanged)
	_, err = st.RejectProjectRequest(ctx, ids[0], epoch)
	assert.ErrorIs(t, err, store.ErrStateChanged)

	count, err := st.CountProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	client := newClient(t, st, "c@example.com")
	project := &models.Project{ID: uuid.New(), ClientID: client.ID, Snapshots: []string{"a.png"}}
	r := &models.ProjectRequest{ID: uuid.New(), ClientID: client.ID, RequestStatus: models.RequestPending}
	require.NoError(t, st.CreateProjectRequest(ctx, r))
	_, err := st.ApproveProjectRequest(ctx, store.ApproveParams{RequestID: r.ID, Project: project})
	require.NoError(t, err)

	got, err := st.GetProject(ctx, project.ID)
	require.NoError(t, err)
	got.Snapshots[0] = "mutated"

	again, err := st.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.png", again.Snapshots[0])
}

func TestAssistGuards(t *testing.T) {
	st := memory.New()
	ctx := context.Background()
	client := newClient(t, st, "c@example.com")
	a := &models.AssistRequest{
		ID:            uuid.New(),
		UserID:        client.ID,
		RequestStatus: models.AssistRequestPending,
		AssistStatus:  models.AssistPending,
		PaymentStatus: models.PaymentPending,
	}
	require.NoError(t, st.CreateAssistRequest(ctx, a))

	_, err := st.RecordAssistPayment(ctx, a.ID, models.PaymentRazorpay, "tx1", epoch)
	assert.ErrorIs(t, err, store.ErrStateChanged)

	approved := models.AssistRequestApproved
	_, err = st.UpdateAssistRequest(ctx, a.ID, store.AssistUpdate{RequestStatus: &approved}, epoch)
	require.NoError(t, err)

	paid, err := st.RecordAssistPayment(ctx, a.ID, models.PaymentRazorpay, "tx1", epoch)
	require.NoError(t, err)
	assert.Equal(t, "tx1", *paid.TransactionID)
	_, err = st.RecordAssistPayment(ctx, a.ID, models.PaymentRazorpay, "tx2", epoch)
	assert.ErrorIs(t, err, store.ErrStateChanged)

	rating := 4
	_, err = st.SetAssistFeedback(ctx, a.ID, nil, &rating, epoch)
	assert.ErrorIs(t, err, store.ErrStateChanged)

	completed := models.AssistCompleted
	_, err = st.UpdateAssistRequest(ctx, a.ID, store.AssistUpdate{AssistStatus: &completed}, epoch)
	require.NoError(t, err)

	rated, err := st.SetAssistFeedback(ctx, a.ID, nil, &rating, epoch)
	require.NoError(t, err)
	assert.Equal(t, 4, *rated.Rating)
	assert.Nil(t, rated.Feedback)

	_, err = st.SetAssistFeedback(ctx, a.ID, nil, &rating, epoch)
	assert.ErrorIs(t, err, store.ErrStateChanged)

	all, err := st.ListAssistRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Client", all[0].ClientName)
}
