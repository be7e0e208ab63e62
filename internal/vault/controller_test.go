package vault

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padlock-app/padlock/internal/vaultapi"
)

// fakeService is a VaultService stub with an optional gate that holds
// ListRecords until released, for exercising in-flight refreshes.
type fakeService struct {
	mu        sync.Mutex
	records   []vaultapi.Record
	listGate  chan struct{}
	listCalls int
	created   *vaultapi.Record
	createErr error
	deleteErr error
	deletes   []int64
}

func (f *fakeService) Login(ctx context.Context, username, password string) (*vaultapi.LoginResponse, error) {
	return nil, nil
}

func (f *fakeService) Logout(ctx context.Context) error { return nil }

func (f *fakeService) ListRecords(ctx context.Context) ([]vaultapi.Record, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	records := make([]vaultapi.Record, len(f.records))
	copy(records, f.records)
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return records, nil
}

func (f *fakeService) CreateRecord(ctx context.Context, req vaultapi.CreateRecordRequest) (*vaultapi.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.created, nil
}

func (f *fakeService) DeleteRecord(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func rec(id int64, service string) vaultapi.Record {
	return vaultapi.Record{ID: id, ServiceName: service, Username: "me@x.com", Password: "s3cretpass"}
}

func TestRefreshReplacesWholesaleInServerOrder(t *testing.T) {
	svc := &fakeService{records: []vaultapi.Record{rec(3, "c"), rec(1, "a"), rec(2, "b")}}
	c := NewController(svc)
	c.ApplyCreate(rec(99, "local-only"))

	require.NoError(t, c.Refresh(context.Background()))

	view := c.View()
	require.Len(t, view.Records, 3)
	assert.Equal(t, []int64{3, 1, 2}, []int64{view.Records[0].ID, view.Records[1].ID, view.Records[2].ID})
}

func TestApplyCreateAppendsWithoutRefetch(t *testing.T) {
	svc := &fakeService{}
	c := NewController(svc)

	c.ApplyCreate(rec(1, "Gmail"))
	c.ApplyCreate(rec(2, "Netflix"))

	view := c.View()
	require.Len(t, view.Records, 2)
	assert.Equal(t, int64(2), view.Records[1].ID)
	assert.Zero(t, svc.listCalls)
}

func TestApplyCreateNeverDuplicatesIdentifier(t *testing.T) {
	c := NewController(&fakeService{})

	c.ApplyCreate(rec(1, "Gmail"))
	c.ApplyCreate(rec(1, "Gmail (renamed)"))

	view := c.View()
	require.Len(t, view.Records, 1)
	assert.Equal(t, "Gmail (renamed)", view.Records[0].ServiceName)
}

func TestCreateDeleteSequencesKeepExactMembership(t *testing.T) {
	c := NewController(&fakeService{})

	c.ApplyCreate(rec(1, "a"))
	c.ApplyCreate(rec(2, "b"))
	c.ApplyCreate(rec(3, "c"))
	c.ApplyDelete(2)
	c.ApplyCreate(rec(4, "d"))
	c.ApplyDelete(1)

	view := c.View()
	var ids []int64
	for _, r := range view.Records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int64{3, 4}, ids)
}

func TestApplyDeleteRemovesRecordAndRevealTogether(t *testing.T) {
	c := NewController(&fakeService{})
	c.ApplyCreate(rec(42, "Gmail"))
	require.True(t, c.ToggleReveal(42))

	c.ApplyDelete(42)

	view := c.View()
	assert.Empty(t, view.Records)
	assert.NotContains(t, view.Revealed, int64(42))
	assert.NotContains(t, view.Deleting, int64(42))
}

func TestToggleRevealUnknownIsNoOp(t *testing.T) {
	c := NewController(&fakeService{})

	assert.False(t, c.ToggleReveal(7))
	assert.Empty(t, c.View().Revealed)
}

func TestToggleRevealAfterDeleteDoesNotResurrect(t *testing.T) {
	c := NewController(&fakeService{})
	c.ApplyCreate(rec(42, "Gmail"))
	c.ApplyDelete(42)

	assert.False(t, c.ToggleReveal(42))
	assert.Empty(t, c.View().Revealed)
}

func TestToggleRevealFlips(t *testing.T) {
	c := NewController(&fakeService{})
	c.ApplyCreate(rec(1, "Gmail"))

	require.True(t, c.ToggleReveal(1))
	assert.True(t, c.View().Revealed[1])

	require.True(t, c.ToggleReveal(1))
	assert.False(t, c.View().Revealed[1])
}

func TestRefreshPrunesStaleMarkers(t *testing.T) {
	svc := &fakeService{records: []vaultapi.Record{rec(1, "keeps")}}
	c := NewController(svc)
	c.ApplyCreate(rec(1, "keeps"))
	c.ApplyCreate(rec(2, "goes"))
	c.ToggleReveal(1)
	c.ToggleReveal(2)
	c.MarkDeleting(2)

	require.NoError(t, c.Refresh(context.Background()))

	view := c.View()
	assert.True(t, view.Revealed[1])
	assert.False(t, view.Revealed[2])
	assert.False(t, view.Deleting[2])
}

func TestInFlightRefreshAndCompletedDeleteConverge(t *testing.T) {
	// Refresh snapshot already lacks record 42; an unrelated delete of 42
	// lands locally while the refresh is still in flight. Whatever the
	// interleaving, 42 must not come back.
	gate := make(chan struct{})
	svc := &fakeService{
		records:  []vaultapi.Record{rec(1, "survives")},
		listGate: gate,
	}
	c := NewController(svc)
	c.ApplyCreate(rec(1, "survives"))
	c.ApplyCreate(rec(42, "doomed"))
	c.ToggleReveal(42)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	// Local delete completes while the refresh is blocked server-side.
	c.ApplyDelete(42)

	close(gate)
	require.NoError(t, <-done)

	view := c.View()
	for _, r := range view.Records {
		assert.NotEqual(t, int64(42), r.ID, "deleted record resurrected")
	}
	assert.False(t, view.Revealed[42])
}

func TestInvalidateDiscardsRefreshResult(t *testing.T) {
	gate := make(chan struct{})
	svc := &fakeService{
		records:  []vaultapi.Record{rec(9, "stale snapshot")},
		listGate: gate,
	}
	c := NewController(svc)
	c.ApplyCreate(rec(1, "current"))

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	// Wait for the refresh to be in flight before invalidating it.
	assert.Eventually(t, func() bool { return c.View().Loading },
		time.Second, time.Millisecond)

	c.Invalidate() // navigated away; the result is no longer wanted
	close(gate)
	require.NoError(t, <-done)

	view := c.View()
	require.Len(t, view.Records, 1)
	assert.Equal(t, int64(1), view.Records[0].ID)
}

func TestLoadingFlagTracksRefresh(t *testing.T) {
	gate := make(chan struct{})
	svc := &fakeService{listGate: gate}
	c := NewController(svc)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	assert.Eventually(t, func() bool { return c.View().Loading },
		time.Second, time.Millisecond)

	close(gate)
	require.NoError(t, <-done)
	assert.False(t, c.View().Loading)
}

func TestMarkDeletingGuardsDuplicates(t *testing.T) {
	c := NewController(&fakeService{})
	c.ApplyCreate(rec(1, "Gmail"))

	assert.True(t, c.MarkDeleting(1))
	assert.False(t, c.MarkDeleting(1))

	c.ClearDeleting(1)
	assert.True(t, c.MarkDeleting(1))

	assert.False(t, c.MarkDeleting(404))
}
