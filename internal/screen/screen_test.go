package screen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/roster/internal/form"
	"github.com/naveenspark/roster/internal/gate"
	"github.com/naveenspark/roster/pkg/client"
	"github.com/naveenspark/roster/pkg/domain"
)

func TestPhaseNext(t *testing.T) {
	tests := []struct {
		from Phase
		ev   Event
		want Phase
	}{
		{Loading, Loaded, Ready},
		{Loading, LoadFailed, NotFound},
		{Loading, Rejected, Denied},
		{Loading, Mutated, Loading},
		{Ready, Loaded, Ready},
		{Ready, LoadFailed, Ready},
		{Ready, Mutated, Ready},
		{Ready, Rejected, Denied},
		{NotFound, Loaded, NotFound},
		{Denied, Loaded, Denied},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s+%d", tt.from, tt.ev), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.Next(tt.ev))
		})
	}
	assert.True(t, NotFound.Terminal())
	assert.False(t, Ready.Terminal())
}

func TestLifecycleDiscardsStaleGenerations(t *testing.T) {
	var l Lifecycle
	assert.False(t, l.Current(0))

	ctx1, gen1 := l.Mount()
	assert.True(t, l.Current(gen1))

	ctx2, gen2 := l.Mount()
	assert.False(t, l.Current(gen1))
	assert.True(t, l.Current(gen2))
	assert.Error(t, ctx1.Err())
	assert.NoError(t, ctx2.Err())

	l.Unmount()
	assert.False(t, l.Current(gen2))
	assert.False(t, l.Mounted())
	assert.ErrorIs(t, ctx2.Err(), context.Canceled)
}

func TestLoadAllRunsInParallel(t *testing.T) {
	var engineers []domain.Engineer
	var projects []domain.Project

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	wait := func() {
		started <- struct{}{}
		<-release
	}

	done := make(chan error, 1)
	go func() {
		done <- LoadAll(context.Background(),
			Fetch(&engineers, func(context.Context) ([]domain.Engineer, error) {
				wait()
				return []domain.Engineer{{ID: "e1"}}, nil
			}),
			Fetch(&projects, func(context.Context) ([]domain.Project, error) {
				wait()
				return []domain.Project{{ID: "p1"}}, nil
			}),
		)
	}()

	// Both reads must be in flight before either completes.
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("reads were not issued concurrently")
		}
	}
	close(release)
	require.NoError(t, <-done)
	assert.Len(t, engineers, 1)
	assert.Len(t, projects, 1)
}

func TestLoadAllFirstErrorCancelsRest(t *testing.T) {
	boom := errors.New("boom")
	var cancelled atomic.Bool

	err := LoadAll(context.Background(),
		func(context.Context) error { return boom },
		func(ctx context.Context) error {
			<-ctx.Done()
			cancelled.Store(true)
			return ctx.Err()
		},
	)
	assert.ErrorIs(t, err, boom)
	assert.True(t, cancelled.Load())
}

func TestLoadAllNoReads(t *testing.T) {
	assert.NoError(t, LoadAll(context.Background()))
}

func TestUpsertAppendsOnce(t *testing.T) {
	items := []domain.Assignment{{ID: "a1"}, {ID: "a2"}}

	got := Upsert(items, domain.Assignment{ID: "a3", Role: "QA"})
	assert.Equal(t, []string{"a1", "a2", "a3"}, keys(got))
	assert.Len(t, items, 2)

	got = Upsert(got, domain.Assignment{ID: "a3", Role: "Lead"})
	assert.Equal(t, []string{"a1", "a2", "a3"}, keys(got))
	assert.Equal(t, "Lead", got[2].Role)
}

func TestReplaceAndRemove(t *testing.T) {
	items := []domain.Project{{ID: "p1", Name: "A"}, {ID: "p2", Name: "B"}}

	got := Replace(items, domain.Project{ID: "p2", Name: "B2"})
	assert.Equal(t, "B2", got[1].Name)
	assert.Equal(t, "B", items[1].Name)

	assert.Equal(t, items, Replace(items, domain.Project{ID: "zz"}))

	got = Remove(items, "p1")
	assert.Equal(t, []string{"p2"}, keys(got))
	assert.Len(t, items, 2)

	_, ok := Find(items, "p2")
	assert.True(t, ok)
	_, ok = Find(items, "p9")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"not found", &client.HTTPError{StatusCode: http.StatusNotFound}, ClassNotFound},
		{"wrapped not found", fmt.Errorf("client.GetProject: %w", &client.HTTPError{StatusCode: 404}), ClassNotFound},
		{"bad request", &client.HTTPError{StatusCode: http.StatusBadRequest}, ClassValidation},
		{"local validation", form.Errors{{Field: "role", Message: "role is required"}}, ClassValidation},
		{"forbidden", &client.HTTPError{StatusCode: http.StatusForbidden}, ClassDenied},
		{"gate", &gate.DeniedError{Action: "view engineers"}, ClassDenied},
		{"server error", &client.HTTPError{StatusCode: 500}, ClassTransient},
		{"network", errors.New("dial tcp: connection refused"), ClassTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFailedPrefersServerMessage(t *testing.T) {
	n := Failed(&client.HTTPError{StatusCode: 403, Message: "Not your assignment", FromServer: true}, "Failed to delete assignment.")
	assert.Equal(t, Failure, n.Level)
	assert.Equal(t, "Not your assignment", n.Text)
	assert.NotEmpty(t, n.ID)

	n = Failed(&client.HTTPError{StatusCode: 502, Message: "<html>bad gateway</html>"}, "Failed to delete assignment.")
	assert.Equal(t, "Failed to delete assignment.", n.Text)

	n = Failed(&gate.DeniedError{Action: "view assignments"}, "ignored")
	assert.Equal(t, "Access denied. Only managers can view assignments.", n.Text)

	assert.NotEqual(t, Succeeded("a").ID, Succeeded("a").ID)
}

func keys[T Keyed](items []T) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Key()
	}
	return out
}
