package billingprovider

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "acct_test", "sk_test")
}

func TestCreateCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/customers", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		var req CreateCustomerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req.Email)

		_ = json.NewEncoder(w).Encode(Customer{ID: "cus_1", Email: req.Email, Name: req.Name})
	})

	customer, err := client.CreateCustomer(CreateCustomerRequest{Email: "user@example.com", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", customer.ID)
}

func TestCreateCheckoutSession_Variants(t *testing.T) {
	var gotBody map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout/sessions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(CheckoutSession{ID: "cs_1", URL: "https://pay.example.com/cs_1"})
	})

	t.Run("новая подписка", func(t *testing.T) {
		session, err := client.CreateCheckoutSession(NewSubscriptionRequest{
			CustomerID: "cus_1",
			PriceID:    "price_pro",
			SuccessURL: "https://app/success",
			CancelURL:  "https://app/cancel",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/cs_1", session.URL)
		assert.Equal(t, "subscription", gotBody["mode"])
		assert.Equal(t, "price_pro", gotBody["price_id"])
	})

	t.Run("апгрейд существующей подписки", func(t *testing.T) {
		_, err := client.CreateCheckoutSession(ExistingSubscriptionUpgradeRequest{
			SubscriptionID: "sub_1",
			ItemID:         "si_1",
			PriceID:        "price_pro",
		})
		require.NoError(t, err)
		assert.Equal(t, "upgrade", gotBody["mode"])
		assert.Equal(t, "sub_1", gotBody["subscription_id"])
	})
}

func TestCreateSubscriptionSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscription_schedules", r.URL.Path)

		var req CreateScheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sub_1", req.FromSubscription)

		_ = json.NewEncoder(w).Encode(Schedule{
			ID:             "sched_1",
			SubscriptionID: "sub_1",
			Status:         "active",
			Phases: []SchedulePhase{
				{Items: []PhaseItem{{Price: "price_free", Quantity: 1}}, StartDate: 100, EndDate: 200},
			},
		})
	})

	schedule, err := client.CreateSubscriptionSchedule("sub_1")
	require.NoError(t, err)
	require.Len(t, schedule.Phases, 1)
	assert.Equal(t, "price_free", schedule.Phases[0].Items[0].Price)
}

func TestUpdateSubscriptionSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscription_schedules/sched_1", r.URL.Path)

		var req UpdateScheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Phases, 2)
		assert.EqualValues(t, 1, req.Phases[1].Iterations)

		_ = json.NewEncoder(w).Encode(Schedule{ID: "sched_1", Phases: req.Phases})
	})

	phases := []SchedulePhase{
		{Items: []PhaseItem{{Price: "price_free", Quantity: 1}}, StartDate: 100, EndDate: 200},
		{Items: []PhaseItem{{Price: "price_pro", Quantity: 1}}, Iterations: 1},
	}
	schedule, err := client.UpdateSubscriptionSchedule("sched_1", phases)
	require.NoError(t, err)
	assert.Len(t, schedule.Phases, 2)
}

func TestReleaseSubscriptionSchedule(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscription_schedules/sched_1/release", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Schedule{ID: "sched_1", Status: "released"})
	})

	schedule, err := client.ReleaseSubscriptionSchedule("sched_1")
	require.NoError(t, err)
	assert.Equal(t, "released", schedule.Status)
}

func TestProviderError_Propagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})

	_, err := client.GetSubscription("sub_1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
