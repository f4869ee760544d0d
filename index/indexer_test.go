package index

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/lexandro/fileindex-mcp/catalog"
	"github.com/lexandro/fileindex-mcp/volume"
)

type fakeLister struct {
	volumes []volume.Volume
	err     error
}

func (f fakeLister) ListVolumes(ctx context.Context) ([]volume.Volume, error) {
	return f.volumes, f.err
}

type recordingObserver struct {
	mu       sync.Mutex
	started  int
	finished int
	lastErr  error
}

func (o *recordingObserver) IndexStarted(volumes []volume.Volume) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *recordingObserver) IndexFinished(result Result, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished++
	o.lastErr = err
}

func newTestIndexer(t *testing.T, lister volume.Lister) *Indexer {
	t.Helper()
	return &Indexer{
		CatalogPath: filepath.Join(t.TempDir(), "file_index.csv"),
		Volumes:     lister,
		Logger:      testLogger(),
	}
}

func catalogNames(t *testing.T, path string) []string {
	t.Helper()
	records, err := catalog.ReadCatalog(path)
	if err != nil {
		t.Fatalf("ReadCatalog failed: %v", err)
	}
	var names []string
	for record, err := range records {
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, record.Name)
	}
	return names
}

func Test_Indexer_Run_VolumesInListOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeTree(t, first, "one.txt")
	writeTree(t, second, "two.txt", "sub/three.txt")

	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{
		{Device: "dev2", Mountpoint: second},
		{Device: "dev1", Mountpoint: first},
	}})

	result, err := ix.Run(context.Background(), volume.NewExclusionSet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Records != 3 {
		t.Errorf("expected 3 records, got %d", result.Records)
	}
	got := catalogNames(t, ix.CatalogPath)
	if !slices.Equal(got, []string{"three.txt", "two.txt", "one.txt"}) {
		t.Errorf("unexpected catalog order: %v", got)
	}
}

func Test_Indexer_Run_AllVolumesExcluded(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{{Device: "dev1", Mountpoint: root}}})

	result, err := ix.Run(context.Background(), volume.NewExclusionSet("dev1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Records != 0 {
		t.Errorf("expected 0 records, got %d", result.Records)
	}
	count, err := catalog.CountRecords(ix.CatalogPath)
	if err != nil {
		t.Fatalf("expected header-only catalog, got %v", err)
	}
	if count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
}

func Test_Indexer_Run_VolumeListFailureKeepsCatalog(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{{Mountpoint: root}}})
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	ix.Volumes = fakeLister{err: volume.ErrVolumeList}
	_, err := ix.Run(context.Background(), nil)
	if !errors.Is(err, volume.ErrVolumeList) {
		t.Fatalf("expected ErrVolumeList, got %v", err)
	}
	if got := catalogNames(t, ix.CatalogPath); !slices.Equal(got, []string{"one.txt"}) {
		t.Errorf("expected previous catalog intact, got %v", got)
	}
}

func Test_Indexer_Run_UnreadableVolumeSkipped(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{
		{Mountpoint: filepath.Join(t.TempDir(), "not-mounted")},
		{Mountpoint: root},
	}})

	result, err := ix.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.FailedVolumes) != 1 || len(result.Volumes) != 1 {
		t.Errorf("expected one failed and one walked volume, got %+v", result)
	}
	if result.Records != 1 {
		t.Errorf("expected 1 record, got %d", result.Records)
	}
}

func Test_Indexer_Run_SkipsOwnCatalog(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one.txt")
	ix := &Indexer{
		CatalogPath: filepath.Join(root, "file_index.csv"),
		Volumes:     fakeLister{volumes: []volume.Volume{{Mountpoint: root}}},
		Logger:      testLogger(),
	}

	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	// Second run sees the committed catalog but never its own temp file.
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	got := catalogNames(t, ix.CatalogPath)
	if !slices.Equal(got, []string{"file_index.csv", "one.txt"}) {
		t.Errorf("unexpected catalog content: %v", got)
	}
}

func Test_Indexer_Run_NestedVolumeWalkedOnce(t *testing.T) {
	root := t.TempDir()
	home := filepath.Join(root, "home")
	writeTree(t, root, "top.txt", "home/a.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{
		{Device: "/dev/sda1", Mountpoint: root},
		{Device: "/dev/sda2", Mountpoint: home},
	}})

	result, err := ix.Run(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Records != 2 {
		t.Errorf("expected 2 records, got %d", result.Records)
	}
	if got := catalogNames(t, ix.CatalogPath); !slices.Equal(got, []string{"top.txt", "a.txt"}) {
		t.Errorf("expected each file once in volume order, got %v", got)
	}

	// An excluded nested volume is not reached through its parent either.
	if _, err := ix.Run(context.Background(), volume.NewExclusionSet(home)); err != nil {
		t.Fatal(err)
	}
	if got := catalogNames(t, ix.CatalogPath); !slices.Equal(got, []string{"top.txt"}) {
		t.Errorf("expected excluded nested volume to be skipped, got %v", got)
	}
}

func Test_Indexer_Run_CancelledKeepsCatalog(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "one.txt", "two.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{{Mountpoint: root}}})
	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ix.Run(ctx, nil)
	if !IsCancelled(err) {
		t.Fatalf("expected cancellation error, got %v", err)
	}
	if got := catalogNames(t, ix.CatalogPath); len(got) != 2 {
		t.Errorf("expected previous catalog intact, got %v", got)
	}
}

func Test_Indexer_Run_NotifiesObserver(t *testing.T) {
	root := t.TempDir()
	observer := &recordingObserver{}
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{{Mountpoint: root}}})
	ix.Observer = observer

	if _, err := ix.Run(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if observer.started != 1 || observer.finished != 1 || observer.lastErr != nil {
		t.Errorf("unexpected observer state: %+v", observer)
	}
}

func Test_Indexer_Start_Wait(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt", "b.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{{Mountpoint: root}}})

	task := ix.Start(context.Background(), nil)
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for index task")
	}

	result, err := task.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Records != 2 || task.Progress() != 2 {
		t.Errorf("expected 2 records, got result=%d progress=%d", result.Records, task.Progress())
	}
	if task.Running() {
		t.Error("expected task to be finished")
	}
	if task.ID() == "" || task.ID() == ix.Start(context.Background(), nil).ID() {
		t.Error("expected each task to carry a distinct ID")
	}
}

func Test_Indexer_Start_Cancel(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.txt")
	ix := newTestIndexer(t, fakeLister{volumes: []volume.Volume{{Mountpoint: root}}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	task := ix.Start(ctx, nil)
	task.Cancel()

	if _, err := task.Wait(); !IsCancelled(err) {
		t.Errorf("expected cancellation error, got %v", err)
	}
}
