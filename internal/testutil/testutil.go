// Package testutil provides shared test helpers for setting up planner
// stores backed by temporary storage.
package testutil

import (
	"fmt"
	"testing"

	"github.com/day-s-ea/Calendar-Todo/internal/planner"
	"github.com/day-s-ea/Calendar-Todo/internal/storage"
)

// SequentialIDs returns a deterministic id generator ("id-1", "id-2", ...).
func SequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// TestProvider creates a temporary file-system storage provider.
func TestProvider(t *testing.T) *storage.FS {
	t.Helper()
	dir := t.TempDir()
	p, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// TestStore creates a loaded planner store on temporary storage with
// deterministic ids.
func TestStore(t *testing.T, opts ...planner.Option) *planner.Store {
	t.Helper()
	opts = append([]planner.Option{planner.WithIDGenerator(SequentialIDs())}, opts...)
	s := planner.NewStore(TestProvider(t), opts...)
	s.Load()
	return s
}
