package server

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dgnsrekt/catalog-stream/internal/api/generated"
	"github.com/dgnsrekt/catalog-stream/internal/broadcast"
	"github.com/dgnsrekt/catalog-stream/internal/catalog"
	"github.com/dgnsrekt/catalog-stream/internal/config"
	"github.com/dgnsrekt/catalog-stream/internal/store"
)

func newStrictServer(t *testing.T) *Server {
	t.Helper()
	logger := zap.NewNop()
	st := store.NewMemoryStore()
	b := broadcast.New(broadcast.Options{}, logger)
	t.Cleanup(b.Close)
	t.Cleanup(func() { _ = st.Close() })
	return NewServer(catalog.NewService(st, b, logger), b, &config.Config{}, logger)
}

func TestStrictHandlers_TypedResponses(t *testing.T) {
	s := newStrictServer(t)
	ctx := context.Background()

	created, err := s.CreateRecord(ctx, generated.CreateRecordRequestObject{
		Body: &generated.RecordInput{Name: "Ran", Year: 1985},
	})
	if err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}
	rec, ok := created.(generated.CreateRecord201JSONResponse)
	if !ok {
		t.Fatalf("expected CreateRecord201JSONResponse, got %T", created)
	}
	if rec.Id == "" || rec.Cast == nil {
		t.Errorf("expected id and non-nil cast, got %+v", rec)
	}

	got, err := s.GetRecord(ctx, generated.GetRecordRequestObject{Id: "missing"})
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	notFound, ok := got.(generated.GetRecord404JSONResponse)
	if !ok {
		t.Fatalf("expected GetRecord404JSONResponse, got %T", got)
	}
	if !strings.Contains(notFound.Error, "missing") {
		t.Errorf("expected id in error, got %q", notFound.Error)
	}

	deleted, err := s.DeleteRecord(ctx, generated.DeleteRecordRequestObject{Id: rec.Id})
	if err != nil {
		t.Fatalf("DeleteRecord failed: %v", err)
	}
	if _, ok := deleted.(generated.DeleteRecord204Response); !ok {
		t.Errorf("expected DeleteRecord204Response, got %T", deleted)
	}

	invalid, err := s.UpdateRecord(ctx, generated.UpdateRecordRequestObject{
		Id:   "missing",
		Body: &generated.RecordInput{Name: "Ran", Year: -1},
	})
	if err != nil {
		t.Fatalf("UpdateRecord failed: %v", err)
	}
	badRequest, ok := invalid.(generated.UpdateRecord400JSONResponse)
	if !ok {
		t.Fatalf("expected UpdateRecord400JSONResponse, got %T", invalid)
	}
	if badRequest.Fields == nil || len(*badRequest.Fields) == 0 {
		t.Error("expected field errors in 400 body")
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	env := newTestEnv(t, nil)

	req, _ := http.NewRequest(http.MethodPost, env.ts.URL+"/v1/records", strings.NewReader(`{"name": "Ran",`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error, got %q", ct)
	}
	var body errorResponse
	decode(t, resp, &body)
	if body.Error == "" {
		t.Error("expected error message in body")
	}
}
