package notes_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/attuned.audit/internal/api"
	"github.com/wahlandcase/attuned.audit/internal/models"
	"github.com/wahlandcase/attuned.audit/internal/notes"
)

const testSHA = "abc123"

// memoryBackend stores raw content per section; getErr and saveErr force failures
type memoryBackend struct {
	mu      sync.Mutex
	content map[models.Section]string
	getErr  error
	saveErr error
	saves   []api.SaveNoteRequest
	gets    []models.Section
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{content: map[models.Section]string{}}
}

func (b *memoryBackend) GetNote(_ context.Context, commitSHA string, section models.Section) (api.Note, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gets = append(b.gets, section)
	if b.getErr != nil {
		return api.Note{}, b.getErr
	}
	content, ok := b.content[section]
	if !ok {
		return api.Note{}, &models.FetchError{Op: "load notes", StatusCode: 404}
	}
	return api.Note{CommitSHA: commitSHA, Content: content}, nil
}

func (b *memoryBackend) SaveNote(_ context.Context, req api.SaveNoteRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.saves = append(b.saves, req)
	if b.saveErr != nil {
		return b.saveErr
	}
	b.content[models.Section(req.Section)] = req.Content
	return nil
}

// gatedBackend holds GetNote and SaveNote until their gate channel is closed
type gatedBackend struct {
	*memoryBackend
	getGate  chan struct{}
	saveGate chan struct{}
}

func (b *gatedBackend) GetNote(ctx context.Context, commitSHA string, section models.Section) (api.Note, error) {
	if b.getGate != nil {
		<-b.getGate
	}
	return b.memoryBackend.GetNote(ctx, commitSHA, section)
}

func (b *gatedBackend) SaveNote(ctx context.Context, req api.SaveNoteRequest) error {
	if b.saveGate != nil {
		<-b.saveGate
	}
	return b.memoryBackend.SaveNote(ctx, req)
}

func (b *memoryBackend) saveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.saves)
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		kind     notes.Kind
		expected []models.NoteEntry
	}{
		{"empty", "", notes.Empty, nil},
		{"whitespace", "  \n", notes.Empty, nil},
		{"null", "null", notes.Empty, nil},
		{"empty_list", "[]", notes.Structured, []models.NoteEntry{}},
		{"structured", `[{"title":"t","content":"c"},{"content":"d"}]`, notes.Structured, []models.NoteEntry{{Title: "t", Content: "c"}, {Content: "d"}}},
		{"legacy_plain_text", "plain text", notes.Legacy, []models.NoteEntry{{Content: "plain text"}}},
		{"legacy_broken_json", `[{"content":`, notes.Legacy, []models.NoteEntry{{Content: `[{"content":`}}},
		{"legacy_json_string", `"quoted"`, notes.Legacy, []models.NoteEntry{{Content: `"quoted"`}}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			decoded := notes.Decode(testCase.raw)
			require.Equal(t, testCase.kind, decoded.Kind)
			require.Equal(t, testCase.expected, decoded.Entries)
		})
	}
}

func TestEncodeWritesStructuredList(t *testing.T) {
	encoded, err := notes.Encode(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", encoded)

	encoded, err = notes.Encode([]models.NoteEntry{{Content: "only content"}})
	require.NoError(t, err)
	require.Equal(t, `[{"content":"only content"}]`, encoded)
}

func TestNoteRoundTrip(t *testing.T) {
	backend := newMemoryBackend()
	ctx := context.Background()

	writer := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	writer.Load(ctx, models.SectionSummary)
	added, err := writer.Add(ctx, "t", "c")
	require.NoError(t, err)
	require.True(t, added)

	reader := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	require.Equal(t, []models.NoteEntry{{Title: "t", Content: "c"}}, reader.Load(ctx, models.SectionSummary))
	require.Equal(t, notes.Structured, reader.Kind())
	require.Equal(t, notes.LoadFound, reader.LoadStatus())
}

func TestLegacyNoteLoadsAsSingleEntry(t *testing.T) {
	backend := newMemoryBackend()
	backend.content[models.SectionSummary] = "plain text"

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	require.Equal(t, []models.NoteEntry{{Content: "plain text"}}, manager.Load(context.Background(), models.SectionSummary))
	require.Equal(t, notes.Legacy, manager.Kind())
}

func TestLegacyNoteIsRewrittenStructured(t *testing.T) {
	backend := newMemoryBackend()
	backend.content[models.SectionFaults] = "old text"
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionFaults, nil)
	manager.Load(ctx, models.SectionFaults)
	_, err := manager.Add(ctx, "", "new")
	require.NoError(t, err)

	require.Equal(t, `[{"content":"new"},{"content":"old text"}]`, backend.content[models.SectionFaults])
	require.Equal(t, notes.Structured, manager.Kind())
}

func TestLoadNotFoundIsEmpty(t *testing.T) {
	manager := notes.NewManager(newMemoryBackend(), testSHA, models.SectionSummary, nil)

	require.Empty(t, manager.Load(context.Background(), models.SectionTechnologies))
	require.Equal(t, notes.LoadNotFound, manager.LoadStatus())
	require.Equal(t, models.SectionTechnologies, manager.Section())
}

func TestLoadFailureIsEmpty(t *testing.T) {
	backend := newMemoryBackend()
	backend.getErr = &models.FetchError{Op: "load notes", Err: errors.New("connection refused")}

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	require.Empty(t, manager.Load(context.Background(), models.SectionSummary))
	require.Equal(t, notes.LoadUnavailable, manager.LoadStatus())
}

func TestAddBlankIsNoop(t *testing.T) {
	backend := newMemoryBackend()
	backend.content[models.SectionSummary] = `[{"content":"keep"}]`
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	manager.Load(ctx, models.SectionSummary)

	for _, input := range [][2]string{{"", ""}, {"  ", "\t\n"}} {
		added, err := manager.Add(ctx, input[0], input[1])
		require.NoError(t, err)
		require.False(t, added)
	}

	require.Empty(t, backend.saves)
	require.Equal(t, `[{"content":"keep"}]`, backend.content[models.SectionSummary])
	require.Equal(t, []models.NoteEntry{{Content: "keep"}}, manager.Entries())
}

func TestAddPrependsAndSavesWholeSection(t *testing.T) {
	backend := newMemoryBackend()
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionAlternatives, nil)
	manager.Load(ctx, models.SectionAlternatives)
	_, err := manager.Add(ctx, "first", "")
	require.NoError(t, err)
	_, err = manager.Add(ctx, " second ", " body ")
	require.NoError(t, err)

	require.Equal(t, []models.NoteEntry{{Title: "second", Content: "body"}, {Title: "first"}}, manager.Entries())
	require.Len(t, backend.saves, 2)
	last := backend.saves[1]
	require.Equal(t, testSHA, last.CommitSHA)
	require.Equal(t, "alternatives", last.Section)
	require.Equal(t, `[{"title":"second","content":"body"},{"title":"first","content":""}]`, last.Content)
}

func TestDeleteSavesRemainingEntries(t *testing.T) {
	backend := newMemoryBackend()
	backend.content[models.SectionSummary] = `[{"content":"a"},{"content":"b"},{"content":"c"}]`
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	manager.Load(ctx, models.SectionSummary)
	require.NoError(t, manager.Delete(ctx, 1))

	require.Equal(t, []models.NoteEntry{{Content: "a"}, {Content: "c"}}, manager.Entries())
	require.Equal(t, `[{"content":"a"},{"content":"c"}]`, backend.content[models.SectionSummary])
}

func TestDeleteOutOfRange(t *testing.T) {
	backend := newMemoryBackend()
	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	manager.Load(context.Background(), models.SectionSummary)

	require.Error(t, manager.Delete(context.Background(), 0))
	require.Error(t, manager.Delete(context.Background(), -1))
	require.Empty(t, backend.saves)
}

func TestSaveFailureKeepsChange(t *testing.T) {
	backend := newMemoryBackend()
	saveError := &models.FetchError{Op: "save notes", StatusCode: 500}
	backend.saveErr = saveError
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	manager.Load(ctx, models.SectionSummary)
	added, err := manager.Add(ctx, "", "unsaved")
	require.True(t, added)
	require.ErrorIs(t, err, saveError)

	require.Equal(t, []models.NoteEntry{{Content: "unsaved"}}, manager.Entries())
	saveState, lastErr := manager.SaveState()
	require.Equal(t, models.OpFailed, saveState)
	require.ErrorIs(t, lastErr, saveError)
}

func TestSwitchingSectionReloads(t *testing.T) {
	backend := newMemoryBackend()
	backend.content[models.SectionSummary] = `[{"content":"s"}]`
	backend.content[models.SectionFaults] = `[{"content":"f"}]`
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	require.Equal(t, []models.NoteEntry{{Content: "s"}}, manager.Load(ctx, models.SectionSummary))
	require.Equal(t, []models.NoteEntry{{Content: "f"}}, manager.Load(ctx, models.SectionFaults))
	require.Equal(t, []models.NoteEntry{{Content: "s"}}, manager.Load(ctx, models.SectionSummary))

	require.Equal(t, []models.Section{models.SectionSummary, models.SectionFaults, models.SectionSummary}, backend.gets)
}

func TestAddDuringLoadKeepsStoredNotes(t *testing.T) {
	memory := newMemoryBackend()
	memory.content[models.SectionSummary] = `[{"title":"old1","content":"a"},{"title":"old2","content":"b"}]`
	backend := &gatedBackend{memoryBackend: memory, getGate: make(chan struct{})}
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	loaded := make(chan []models.NoteEntry)
	go func() {
		loaded <- manager.Load(ctx, models.SectionSummary)
	}()
	require.Eventually(t, manager.Busy, time.Second, time.Millisecond)

	added, err := manager.Add(ctx, "new", "c")
	require.ErrorIs(t, err, models.ErrInFlight)
	require.False(t, added)
	require.ErrorIs(t, manager.Delete(ctx, 0), models.ErrInFlight)
	require.Zero(t, memory.saveCount())

	close(backend.getGate)
	require.Len(t, <-loaded, 2)
	require.False(t, manager.Busy())

	_, err = manager.Add(ctx, "new", "c")
	require.NoError(t, err)
	require.Equal(t, `[{"title":"new","content":"c"},{"title":"old1","content":"a"},{"title":"old2","content":"b"}]`, memory.content[models.SectionSummary])
}

func TestAddWhileSavingIsRefused(t *testing.T) {
	memory := newMemoryBackend()
	backend := &gatedBackend{memoryBackend: memory, saveGate: make(chan struct{})}
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	manager.Load(ctx, models.SectionSummary)

	saved := make(chan error)
	go func() {
		_, err := manager.Add(ctx, "first", "")
		saved <- err
	}()
	require.Eventually(t, func() bool {
		state, _ := manager.SaveState()
		return state == models.OpPending
	}, time.Second, time.Millisecond)

	_, err := manager.Add(ctx, "second", "")
	require.ErrorIs(t, err, models.ErrInFlight)

	close(backend.saveGate)
	require.NoError(t, <-saved)
	require.Equal(t, []models.NoteEntry{{Title: "first"}}, manager.Entries())
	require.Equal(t, 1, memory.saveCount())
}

func TestStaleFetchLeavesNewerSelection(t *testing.T) {
	backend := newMemoryBackend()
	backend.content[models.SectionSummary] = `[{"content":"s"}]`
	backend.content[models.SectionFaults] = `[{"content":"f"}]`
	ctx := context.Background()

	manager := notes.NewManager(backend, testSHA, models.SectionSummary, nil)
	stale := manager.Select(models.SectionSummary)
	current := manager.Select(models.SectionFaults)

	require.Empty(t, manager.Fetch(ctx, stale))
	require.Equal(t, models.SectionFaults, manager.Section())
	require.True(t, manager.Busy())

	require.Equal(t, []models.NoteEntry{{Content: "f"}}, manager.Fetch(ctx, current))
	require.Equal(t, []models.Section{models.SectionFaults}, backend.gets)
	require.False(t, manager.Busy())
}
