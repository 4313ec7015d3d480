package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/receiptsplit/internal/events"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/scanner"
	"github.com/mmynk/receiptsplit/internal/storage/images"
	"github.com/mmynk/receiptsplit/internal/storage/sqlite"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BillEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BillEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// stubScanner returns a fixed result or error.
type stubScanner struct {
	bill  *models.ScannedBill
	err   error
	calls int
}

func (s *stubScanner) Scan(context.Context, scanner.Image) (*models.ScannedBill, error) {
	s.calls++
	return s.bill, s.err
}

type testServer struct {
	bills     *api.BillServiceClient
	splits    *api.SplitServiceClient
	scans     *api.ScanServiceClient
	publisher *recordingPublisher
	scanner   *stubScanner
	images    *images.Store
}

// setupTestServer starts all three services over a temp database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	store, err := sqlite.New(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	imageStore, err := images.New(filepath.Join(dir, "images"), "http://localhost:8080")
	if err != nil {
		t.Fatalf("failed to create image store: %v", err)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	publisher := &recordingPublisher{}
	sc := &stubScanner{}

	mux := http.NewServeMux()
	mux.Handle(api.NewBillServiceHandler(NewBillService(store, publisher, v)))
	mux.Handle(api.NewSplitServiceHandler(NewSplitService(v)))
	mux.Handle(api.NewScanServiceHandler(NewScanService(sc, imageStore, 1<<20, v)))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		bills:     api.NewBillServiceClient(http.DefaultClient, server.URL),
		splits:    api.NewSplitServiceClient(http.DefaultClient, server.URL),
		scans:     api.NewScanServiceClient(http.DefaultClient, server.URL),
		publisher: publisher,
		scanner:   sc,
		images:    imageStore,
	}
}

// dinnerBill has pizza split 50/50, wine for Bob alone and $5 tax.
func dinnerBill() api.Bill {
	return api.Bill{
		ID:           "new-1",
		MerchantName: "Trattoria",
		People: []api.Person{
			{ID: "temp-alice", Name: "Alice", Color: "#3B82F6"},
			{ID: "temp-bob", Name: "Bob", Color: "#10B981"},
		},
		Items: []api.BillItem{
			{ID: "temp-pizza", Name: "Pizza", Price: 20, Assignments: []api.Assignment{
				{PersonID: "temp-alice", SplitPercentage: 50},
				{PersonID: "temp-bob", SplitPercentage: 50},
			}},
			{ID: "temp-wine", Name: "Wine", Price: 30, Assignments: []api.Assignment{
				{PersonID: "temp-bob", SplitPercentage: 100},
			}},
		},
		Tax: models.Float(5),
	}
}

func personSplit(t *testing.T, split api.Split, name string) api.PersonSplit {
	t.Helper()
	for _, p := range split.People {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("no split for %q", name)
	return api.PersonSplit{}
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

// errBoom is returned by stubs that fail on purpose.
var errBoom = errors.New("boom")
