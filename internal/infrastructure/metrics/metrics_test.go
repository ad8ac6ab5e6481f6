package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordApplicationReceived(t *testing.T) {
	m := New()

	m.RecordApplicationReceived()
	m.RecordApplicationReceived()

	if got := testutil.ToFloat64(m.ApplicationsReceivedTotal); got != 2 {
		t.Errorf("expected counter at 2, got %v", got)
	}
}

func TestApplicationsReceivedHasNoLabels(t *testing.T) {
	m := New()
	m.RecordApplicationReceived()

	// a single unlabeled series; per-offer labels would grow without bound
	expected := strings.NewReader(`
# HELP hiredesk_applications_received_total Total number of applications submitted
# TYPE hiredesk_applications_received_total counter
hiredesk_applications_received_total 1
`)
	if err := testutil.CollectAndCompare(m.ApplicationsReceivedTotal, expected); err != nil {
		t.Errorf("unexpected metric output: %v", err)
	}
}

func TestRecordNotificationSent(t *testing.T) {
	m := New()

	m.RecordNotificationSent("application_stage_changed", "sent")
	m.RecordNotificationSent("application_stage_changed", "sent")
	m.RecordNotificationSent("application_stage_changed", "failed")

	sent := m.NotificationsSentTotal.WithLabelValues("application_stage_changed", "sent")
	if got := testutil.ToFloat64(sent); got != 2 {
		t.Errorf("expected sent counter at 2, got %v", got)
	}
	failed := m.NotificationsSentTotal.WithLabelValues("application_stage_changed", "failed")
	if got := testutil.ToFloat64(failed); got != 1 {
		t.Errorf("expected failed counter at 1, got %v", got)
	}
}
