package report_test

import (
	"context"
	"errors"
	"testing"

	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	"github.com/PetarSt98/SmartAllies/internal/service/report"
)

func newStoreWithContext(sessionID string) incident.ContextStore {
	store := incident.NewMemoryContextStore()
	store.UpdateContext(&incident.Context{
		SessionID:      sessionID,
		InitialMessage: "broken railing on the stairwell",
		IncidentType:   incident.TypeFacility,
		CollectedFields: map[string]string{
			"where": "stairwell B",
			"when":  "this morning",
		},
		WorkflowState: incident.StateCollectingDetails,
	})
	return store
}

func TestSubmitPopulatesFromContext(t *testing.T) {
	svc := report.NewService(newStoreWithContext("s1"))

	rep, err := svc.Submit(context.Background(), report.SubmitRequest{
		SessionID:   "s1",
		SubmittedBy: "Anonymous Employee",
		Anonymous:   true,
	})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if rep.ReportID == "" {
		t.Fatal("expected a report id")
	}
	if rep.Status != incident.StatusSubmitted {
		t.Fatalf("unexpected status: %s", rep.Status)
	}
	if rep.Description != "broken railing on the stairwell" {
		t.Fatalf("unexpected description: %q", rep.Description)
	}
	if rep.Location != "stairwell B" {
		t.Fatalf("unexpected location: %q", rep.Location)
	}
	if rep.Details["when"] != "this morning" {
		t.Fatalf("collected fields not copied: %v", rep.Details)
	}
	if rep.SubmittedBy != "Anonymous" {
		t.Fatalf("anonymous submission must mask the submitter, got %q", rep.SubmittedBy)
	}
}

func TestSubmitKeepsNamedSubmitter(t *testing.T) {
	svc := report.NewService(newStoreWithContext("s1"))

	rep, err := svc.Submit(context.Background(), report.SubmitRequest{
		SessionID:   "s1",
		SubmittedBy: "Emergency Response System",
		Anonymous:   false,
	})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if rep.SubmittedBy != "Emergency Response System" {
		t.Fatalf("unexpected submitter: %q", rep.SubmittedBy)
	}
}

func TestSubmitMintsFreshIDs(t *testing.T) {
	svc := report.NewService(newStoreWithContext("s1"))

	req := report.SubmitRequest{SessionID: "s1", Anonymous: true}
	first, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("first Submit err: %v", err)
	}
	second, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("second Submit err: %v", err)
	}
	if first.ReportID == second.ReportID {
		t.Fatalf("repeated submission reused id %s", first.ReportID)
	}
	if got := len(svc.List()); got != 2 {
		t.Fatalf("expected 2 reports, got %d", got)
	}
}

func TestSubmitWithoutContext(t *testing.T) {
	svc := report.NewService(incident.NewMemoryContextStore())

	_, err := svc.Submit(context.Background(), report.SubmitRequest{SessionID: "missing"})
	if !errors.Is(err, report.ErrContextNotFound) {
		t.Fatalf("expected ErrContextNotFound, got %v", err)
	}
}

func TestGetAndUpdateStatus(t *testing.T) {
	svc := report.NewService(newStoreWithContext("s1"))

	rep, err := svc.Submit(context.Background(), report.SubmitRequest{SessionID: "s1", Anonymous: true})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	got, ok := svc.Get(rep.ReportID)
	if !ok {
		t.Fatal("expected report lookup to succeed")
	}
	if got.ReportID != rep.ReportID {
		t.Fatalf("lookup returned wrong report: %s", got.ReportID)
	}

	updated, err := svc.UpdateStatus(rep.ReportID, incident.StatusInReview)
	if err != nil {
		t.Fatalf("UpdateStatus err: %v", err)
	}
	if updated.Status != incident.StatusInReview {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
	if !updated.LastUpdated.After(rep.LastUpdated) && !updated.LastUpdated.Equal(rep.LastUpdated) {
		t.Fatal("LastUpdated must not move backwards")
	}

	if _, ok := svc.Get("nope"); ok {
		t.Fatal("expected lookup miss for unknown id")
	}
	if _, err := svc.UpdateStatus("nope", incident.StatusClosed); !errors.Is(err, report.ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
