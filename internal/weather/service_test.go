package weather

import (
	"context"
	"errors"
	"testing"
)

type stubProvider struct {
	batch Batch
	err   error
}

func (p stubProvider) Name() string { return "stub" }

func (p stubProvider) FetchForecasts(context.Context) (Batch, error) {
	return p.batch, p.err
}

type recordingStore struct {
	runs []Run
}

func (s *recordingStore) SaveRun(_ context.Context, run Run) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *recordingStore) Locations(context.Context) ([]string, error) { return nil, nil }

func (s *recordingStore) Forecasts(context.Context, string) ([]ForecastDay, error) {
	return nil, nil
}

func (s *recordingStore) LatestProfile(context.Context) (string, error) { return "", nil }

func (s *recordingStore) Close() error { return nil }

func TestFetchAndStoreSavesRun(t *testing.T) {
	st := &recordingStore{}
	svc := NewService(st, stubProvider{batch: Batch{
		Profile: "cold front",
		Records: []Record{{Location: "北部地區", Date: "2025-12-03", MaxTemp: Temp(20)}},
	}})

	run, err := svc.FetchAndStore(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected a run id")
	}
	if len(st.runs) != 1 || st.runs[0].ID != run.ID {
		t.Fatalf("expected run to be stored once, got %+v", st.runs)
	}
}

func TestFetchAndStoreKeepsPreviousDataOnEmptyBatch(t *testing.T) {
	st := &recordingStore{}
	svc := NewService(st, stubProvider{})

	if _, err := svc.FetchAndStore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.runs) != 0 {
		t.Fatalf("empty batch should not be stored")
	}
}

func TestFetchAndStorePropagatesProviderError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&recordingStore{}, stubProvider{err: boom})

	if _, err := svc.FetchAndStore(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}
