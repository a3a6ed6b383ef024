package model

import "testing"

func TestOrderStatusPostable(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderPending, true},
		{OrderProcessing, true},
		{OrderCompleted, false},
		{OrderCancelled, false},
	}
	for _, tc := range cases {
		if got := tc.status.Postable(); got != tc.want {
			t.Fatalf("%s.Postable() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestTraspasoStatusPostable(t *testing.T) {
	cases := []struct {
		status TraspasoStatus
		want   bool
	}{
		{TraspasoPending, true},
		{TraspasoValidated, false},
		{TraspasoRejected, false},
	}
	for _, tc := range cases {
		if got := tc.status.Postable(); got != tc.want {
			t.Fatalf("%s.Postable() = %v, want %v", tc.status, got, tc.want)
		}
	}
}
