package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"agency-desk-backend/internal/store/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assistFixture struct {
	store *memory.Store
	svc   *services.AssistService
	owner *models.User
}

func newAssistFixture(t *testing.T) *assistFixture {
	t.Helper()
	st := memory.New()
	svc := services.NewAssistService(st)
	svc.SetClock(steppingClock())
	return &assistFixture{store: st, svc: svc, owner: seedUser(t, st, "owner", models.RoleClient)}
}

func (f *assistFixture) create(t *testing.T) *models.AssistRequest {
	t.Helper()
	req, err := f.svc.Create(context.Background(), models.CreateAssistRequest{
		ProjectName: "Shop",
		ProjectType: "Web",
	}, f.owner.ID)
	require.NoError(t, err)
	return req
}

func (f *assistFixture) update(t *testing.T, id uuid.UUID, in models.UpdateAssistRequest) *models.AssistRequest {
	t.Helper()
	req, err := f.svc.Update(context.Background(), id.String(), in)
	require.NoError(t, err)
	return req
}

func TestAssistWorkflow_EndToEnd(t *testing.T) {
	f := newAssistFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, models.CreateAssistRequest{
		UserID:      f.owner.ID.String(),
		ProjectName: "Shop",
		ProjectType: "Web",
	}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, models.AssistPending, created.AssistStatus)
	assert.Equal(t, models.PaymentPending, created.PaymentStatus)
	assert.Equal(t, models.AssistRequestPending, created.RequestStatus)
	assert.Nil(t, created.Amount)
	assert.Equal(t, []string{}, created.ProjectTechnologies)

	updated := f.update(t, created.ID, models.UpdateAssistRequest{
		RequestStatus: ptr("Approved"),
		Amount:        ptr(500.0),
	})
	require.NotNil(t, updated.Amount)
	assert.Equal(t, 500.0, *updated.Amount)

	paid, err := f.svc.Pay(ctx, created.ID.String(), f.owner.ID, models.PayAssistRequest{PaymentType: "Google Pay", TransactionID: "tx123"})
	require.NoError(t, err)
	require.NotNil(t, paid.TransactionID)
	assert.Equal(t, "tx123", *paid.TransactionID)
	require.NotNil(t, paid.PaymentType)
	assert.Equal(t, models.PaymentGooglePay, *paid.PaymentType)
	assert.Equal(t, models.PaymentPending, paid.PaymentStatus)

	_, err = f.svc.Pay(ctx, created.ID.String(), f.owner.ID, models.PayAssistRequest{PaymentType: "Razorpay", TransactionID: "tx456"})
	requireKind(t, err, services.KindValidation, "Payment already completed")

	current, err := f.store.GetAssistRequest(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "tx123", *current.TransactionID)

	confirmed := f.update(t, created.ID, models.UpdateAssistRequest{
		PaymentStatus: ptr("Paid"),
		AssistStatus:  ptr("Completed"),
	})
	assert.Equal(t, models.PaymentPaid, confirmed.PaymentStatus)

	rated, err := f.svc.SubmitFeedback(ctx, created.ID.String(), f.owner.ID, models.FeedbackRequest{
		Feedback: ptr("Great work"),
		Rating:   ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, "Great work", *rated.Feedback)
	assert.Equal(t, 5, *rated.Rating)
}

func TestCreate_Validation(t *testing.T) {
	f := newAssistFixture(t)

	tests := []struct {
		name string
		in   models.CreateAssistRequest
		want string
	}{
		{"missing name", models.CreateAssistRequest{ProjectType: "Web"}, "projectName and projectType are required"},
		{"missing type", models.CreateAssistRequest{ProjectName: "Shop"}, "projectName and projectType are required"},
		{"unknown type", models.CreateAssistRequest{ProjectName: "Shop", ProjectType: "Embedded"}, "projectType must be one of"},
		{"malformed user", models.CreateAssistRequest{UserID: "u1", ProjectName: "Shop", ProjectType: "Web"}, "Invalid userId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tt.in, f.owner.ID)
			requireKind(t, err, services.KindValidation, tt.want)
		})
	}
}

func TestCreate_TechnologiesCoercion(t *testing.T) {
	f := newAssistFixture(t)

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"array", `["Go", "React"]`, []string{"Go", "React"}},
		{"non-string entries dropped", `["Go", 3, null, ""]`, []string{"Go"}},
		{"string", `"Go"`, []string{}},
		{"object", `{"lang": "Go"}`, []string{}},
		{"absent", ``, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := f.svc.Create(context.Background(), models.CreateAssistRequest{
				ProjectName:         "Shop",
				ProjectType:         "Mobile",
				ProjectTechnologies: json.RawMessage(tt.raw),
			}, f.owner.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.ProjectTechnologies)
		})
	}
}

func TestUpdate_RejectsInvalidFieldsWithoutMutation(t *testing.T) {
	f := newAssistFixture(t)
	req := f.create(t)

	tests := []struct {
		name string
		in   models.UpdateAssistRequest
		want string
	}{
		{"request status", models.UpdateAssistRequest{RequestStatus: ptr("Done")}, "Invalid requestStatus"},
		{"assist status", models.UpdateAssistRequest{AssistStatus: ptr("Stalled")}, "Invalid assistStatus"},
		{"negative amount", models.UpdateAssistRequest{Amount: ptr(-5.0)}, "Amount must be a non-negative number"},
		{"qr code", models.UpdateAssistRequest{PaymentQRCode: ptr("not a url")}, "paymentQrCode must be a valid URL"},
		{"short phone", models.UpdateAssistRequest{DeveloperPhone: ptr("12345")}, "developerPhone must be exactly 10 digits"},
		{"signed phone", models.UpdateAssistRequest{DeveloperPhone: ptr("+123456789")}, "developerPhone must be exactly 10 digits"},
		{"blank developer", models.UpdateAssistRequest{DeveloperName: ptr(" ")}, "developerName"},
		{"payment status", models.UpdateAssistRequest{PaymentStatus: ptr("Refunded")}, "Invalid paymentStatus"},
		{"valid first, invalid later", models.UpdateAssistRequest{Amount: ptr(10.0), DeveloperPhone: ptr("abc")}, "developerPhone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Update(context.Background(), req.ID.String(), tt.in)
			requireKind(t, err, services.KindValidation, tt.want)
		})
	}

	current, err := f.store.GetAssistRequest(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Nil(t, current.Amount)
	assert.Nil(t, current.DeveloperPhone)
	assert.Equal(t, models.AssistRequestPending, current.RequestStatus)
}

func TestUpdate_FreeTransitions(t *testing.T) {
	f := newAssistFixture(t)
	req := f.create(t)

	declined := f.update(t, req.ID, models.UpdateAssistRequest{RequestStatus: ptr("Declined")})
	assert.Equal(t, models.AssistRequestDeclined, declined.RequestStatus)

	reopened := f.update(t, req.ID, models.UpdateAssistRequest{
		RequestStatus:  ptr("Reviewing"),
		DeveloperName:  ptr("Asha"),
		DeveloperPhone: ptr("9876543210"),
		PaymentQRCode:  ptr("https://pay.example.com/qr/1"),
	})
	assert.Equal(t, models.AssistRequestReviewing, reopened.RequestStatus)
	assert.Equal(t, "Asha", *reopened.DeveloperName)
	assert.Equal(t, "9876543210", *reopened.DeveloperPhone)
}

func TestUpdate_NotFound(t *testing.T) {
	f := newAssistFixture(t)

	_, err := f.svc.Update(context.Background(), uuid.NewString(), models.UpdateAssistRequest{Amount: ptr(1.0)})

	requireKind(t, err, services.KindNotFound, "Assist request not found")
}

func TestPay_Preconditions(t *testing.T) {
	f := newAssistFixture(t)
	ctx := context.Background()
	req := f.create(t)

	t.Run("missing request reported before payment type", func(t *testing.T) {
		_, err := f.svc.Pay(ctx, uuid.NewString(), f.owner.ID, models.PayAssistRequest{PaymentType: "Cash", TransactionID: "tx1"})
		requireKind(t, err, services.KindNotFound, "Assist request not found")
	})

	t.Run("not approved", func(t *testing.T) {
		_, err := f.svc.Pay(ctx, req.ID.String(), f.owner.ID, models.PayAssistRequest{PaymentType: "Razorpay", TransactionID: "tx1"})
		requireKind(t, err, services.KindValidation, "Payment can only be made for approved requests")
	})

	t.Run("missing request", func(t *testing.T) {
		_, err := f.svc.Pay(ctx, uuid.NewString(), f.owner.ID, models.PayAssistRequest{PaymentType: "Razorpay", TransactionID: "tx1"})
		requireKind(t, err, services.KindNotFound, "not found")
	})

	f.update(t, req.ID, models.UpdateAssistRequest{RequestStatus: ptr("Approved")})

	t.Run("someone else's request", func(t *testing.T) {
		stranger := seedUser(t, f.store, "payer", models.RoleClient)
		_, err := f.svc.Pay(ctx, req.ID.String(), stranger.ID, models.PayAssistRequest{PaymentType: "Razorpay", TransactionID: "tx1"})
		requireKind(t, err, services.KindForbidden, "your own requests")

		current, err := f.store.GetAssistRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Nil(t, current.TransactionID)
	})

	t.Run("blank transaction id", func(t *testing.T) {
		_, err := f.svc.Pay(ctx, req.ID.String(), f.owner.ID, models.PayAssistRequest{PaymentType: "Razorpay", TransactionID: "  "})
		requireKind(t, err, services.KindValidation, "Transaction ID is required")
	})

	t.Run("invalid type after approval leaves request untouched", func(t *testing.T) {
		_, err := f.svc.Pay(ctx, req.ID.String(), f.owner.ID, models.PayAssistRequest{PaymentType: "Cash", TransactionID: "tx1"})
		requireKind(t, err, services.KindValidation, "Invalid payment type")

		current, err := f.store.GetAssistRequest(ctx, req.ID)
		require.NoError(t, err)
		assert.Nil(t, current.TransactionID)
		assert.Nil(t, current.PaymentType)
	})
}

func TestPay_ConcurrentPaymentsOneWins(t *testing.T) {
	f := newAssistFixture(t)
	ctx := context.Background()
	req := f.create(t)
	f.update(t, req.ID, models.UpdateAssistRequest{RequestStatus: ptr("Approved")})

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Pay(ctx, req.ID.String(), f.owner.ID, models.PayAssistRequest{
				PaymentType:   "Razorpay",
				TransactionID: uuid.NewString(),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireKind(t, err, services.KindValidation, "Payment already completed")
	}
	assert.Equal(t, 1, succeeded)
}

func TestSubmitFeedback_Rules(t *testing.T) {
	f := newAssistFixture(t)
	ctx := context.Background()
	req := f.create(t)
	stranger := seedUser(t, f.store, "stranger", models.RoleClient)

	_, err := f.svc.SubmitFeedback(ctx, req.ID.String(), f.owner.ID, models.FeedbackRequest{Rating: ptr(4)})
	requireKind(t, err, services.KindValidation, "Feedback can only be submitted for completed requests")

	f.update(t, req.ID, models.UpdateAssistRequest{AssistStatus: ptr("Completed")})

	_, err = f.svc.SubmitFeedback(ctx, req.ID.String(), stranger.ID, models.FeedbackRequest{Rating: ptr(4)})
	requireKind(t, err, services.KindForbidden, "your own requests")

	for _, rating := range []int{0, 6, -1} {
		_, err = f.svc.SubmitFeedback(ctx, req.ID.String(), f.owner.ID, models.FeedbackRequest{Rating: ptr(rating)})
		requireKind(t, err, services.KindValidation, "Rating must be an integer between 1 and 5")
	}

	_, err = f.svc.SubmitFeedback(ctx, req.ID.String(), f.owner.ID, models.FeedbackRequest{})
	requireKind(t, err, services.KindValidation, "feedback or rating is required")

	rated, err := f.svc.SubmitFeedback(ctx, req.ID.String(), f.owner.ID, models.FeedbackRequest{Rating: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, *rated.Rating)
	assert.Nil(t, rated.Feedback)

	_, err = f.svc.SubmitFeedback(ctx, req.ID.String(), f.owner.ID, models.FeedbackRequest{Feedback: ptr("again")})
	requireKind(t, err, services.KindValidation, "Feedback already submitted")

	_, err = f.svc.SubmitFeedback(ctx, uuid.NewString(), f.owner.ID, models.FeedbackRequest{Rating: ptr(4)})
	requireKind(t, err, services.KindNotFound, "not found")
}

func TestListAll_AnnotatesClientName(t *testing.T) {
	f := newAssistFixture(t)
	ctx := context.Background()
	owned := f.create(t)

	orphan, err := f.svc.Create(ctx, models.CreateAssistRequest{
		UserID:      uuid.NewString(),
		ProjectName: "Ghost",
		ProjectType: "Desktop",
	}, f.owner.ID)
	require.NoError(t, err)

	all, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, orphan.ID, all[0].ID)
	assert.Equal(t, "Unknown", all[0].ClientName)
	assert.Equal(t, owned.ID, all[1].ID)
	assert.Equal(t, f.owner.Name, all[1].ClientName)

	mine, err := f.svc.ListByUser(ctx, f.owner.ID.String())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, owned.ID, mine[0].ID)
}
