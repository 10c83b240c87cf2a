package resume

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// fakeArtifactRepo is an in-memory version store. Store splits the max read
// and the insert into separate critical sections with a yield between them,
// the way two READ COMMITTED transactions interleave, so only the upload
// service's per-student serialization keeps versions conflict-free.
type fakeArtifactRepo struct {
	mu        sync.Mutex
	nextID    int64
	artifacts []Artifact
	payloads  map[int64][]byte

	storeErr   error
	conflictsN int // fail the first N stores with ErrVersionConflict
}

func newFakeArtifactRepo() *fakeArtifactRepo {
	return &fakeArtifactRepo{payloads: map[int64][]byte{}}
}

func (f *fakeArtifactRepo) Store(ctx context.Context, a Artifact, payload []byte) (Artifact, error) {
	f.mu.Lock()
	if f.storeErr != nil {
		f.mu.Unlock()
		return Artifact{}, f.storeErr
	}
	if f.conflictsN > 0 {
		f.conflictsN--
		f.mu.Unlock()
		return Artifact{}, ErrVersionConflict
	}
	max := 0
	for _, st := range f.artifacts {
		if st.StudentID == a.StudentID && st.Version > max {
			max = st.Version
		}
	}
	f.mu.Unlock()

	// Unserialized callers race here and land on the same version number.
	runtime.Gosched()

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.artifacts {
		if st.StudentID == a.StudentID && st.Version == max+1 {
			return Artifact{}, ErrVersionConflict
		}
	}
	f.nextID++
	a.ID = f.nextID
	a.Version = max + 1
	a.UploadedAt = time.Now().UTC()
	f.artifacts = append(f.artifacts, a)
	f.payloads[a.ID] = payload
	return a, nil
}

func (f *fakeArtifactRepo) ListByStudent(ctx context.Context, studentID int64) ([]Artifact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Artifact
	for _, a := range f.artifacts {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (f *fakeArtifactRepo) GetFile(ctx context.Context, id int64) (ArtifactFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.artifacts {
		if a.ID == id {
			return ArtifactFile{FileName: a.FileName, MediaType: a.MediaType, Data: f.payloads[id]}, nil
		}
	}
	return ArtifactFile{}, ErrNotFound
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	snap     ProfileSnapshot
	snapErr  error
	applyErr error

	added   []string
	entries []Discrepancy
	applied int
}

func (f *fakeProfileRepo) Snapshot(ctx context.Context, studentID int64) (ProfileSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapErr != nil {
		return ProfileSnapshot{}, f.snapErr
	}
	return f.snap, nil
}

func (f *fakeProfileRepo) Apply(ctx context.Context, studentID int64, addSkills []string, entries []Discrepancy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied++
	f.added = append(f.added, addSkills...)
	f.entries = entries
	return nil
}

func newService(t *testing.T, artifacts *fakeArtifactRepo, profiles *fakeProfileRepo) UploadUseCase {
	t.Helper()
	return NewUploadService(artifacts, profiles, DefaultVocabulary(), 5*time.Second)
}

func TestUpload_RejectsUnsupportedFormat(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	svc := newService(t, artifacts, &fakeProfileRepo{})

	_, err := svc.Upload(context.Background(), 1, "resume.txt", "text/plain", []byte("x"))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	// Nothing may be stored for an invalid media type.
	assert.Empty(t, artifacts.artifacts)
}

func TestUpload_FullPipeline(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	profiles := &fakeProfileRepo{snap: ProfileSnapshot{StudentID: 1, Email: "a@x.com"}}
	svc := newService(t, artifacts, profiles)

	data := buildDocx(t, "SKILLS:", "Python and SQL", "contact: a@x.com")
	res, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, data)

	require.NoError(t, err)
	assert.Equal(t, 1, res.Version)
	assert.True(t, res.Parsed)
	assert.True(t, res.Reconciled)
	require.NotNil(t, res.Extracted)
	assert.Contains(t, res.Extracted.Skills, "python")
	assert.ElementsMatch(t, []string{"python", "sql"}, profiles.added)

	sum := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(sum[:]), res.ContentHash)
}

func TestUpload_ParseFailureStillStoresArtifact(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	profiles := &fakeProfileRepo{}
	svc := newService(t, artifacts, profiles)

	res, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, []byte("not a zip"))

	require.NoError(t, err)
	assert.Equal(t, 1, res.Version)
	assert.False(t, res.Parsed)
	assert.False(t, res.Reconciled)
	assert.Nil(t, res.Extracted)
	assert.Len(t, artifacts.artifacts, 1)
	assert.Zero(t, profiles.applied)
}

func TestUpload_ReconcileFailureStillReportsParsed(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	profiles := &fakeProfileRepo{applyErr: errors.New("db down")}
	svc := newService(t, artifacts, profiles)

	res, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, buildDocx(t, "SKILLS:", "Python"))

	require.NoError(t, err)
	assert.True(t, res.Parsed)
	assert.False(t, res.Reconciled)
	assert.Len(t, artifacts.artifacts, 1)
}

func TestUpload_VersionConflictRetriedOnce(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	artifacts.conflictsN = 1
	svc := newService(t, artifacts, &fakeProfileRepo{})

	res, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, buildDocx(t, "hi"))

	require.NoError(t, err)
	assert.Equal(t, 1, res.Version)
}

func TestUpload_VersionConflictSurfacedAfterRetry(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	artifacts.conflictsN = 2
	svc := newService(t, artifacts, &fakeProfileRepo{})

	_, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, buildDocx(t, "hi"))

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestUpload_ConcurrentUploadsGetDistinctVersions(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	svc := newService(t, artifacts, &fakeProfileRepo{})
	data := buildDocx(t, "SKILLS:", "Python")

	const n = 20
	results := make([]UploadResult, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			res, err := svc.Upload(context.Background(), 7, "cv.docx", MediaTypeDOCX, data)
			results[i] = res
			return err
		})
	}
	require.NoError(t, g.Wait())

	versions := make([]int, n)
	for i, res := range results {
		versions[i] = res.Version
	}
	sort.Ints(versions)
	for i, v := range versions {
		assert.Equal(t, i+1, v, "versions must be gapless starting at 1")
	}
}

func TestUpload_IndependentStudentsDoNotShareVersions(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	svc := newService(t, artifacts, &fakeProfileRepo{})
	data := buildDocx(t, "hi")

	a, err := svc.Upload(context.Background(), 1, "a.docx", MediaTypeDOCX, data)
	require.NoError(t, err)
	b, err := svc.Upload(context.Background(), 2, "b.docx", MediaTypeDOCX, data)
	require.NoError(t, err)

	assert.Equal(t, 1, a.Version)
	assert.Equal(t, 1, b.Version)
}

func TestListVersions_NewestFirst(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	svc := newService(t, artifacts, &fakeProfileRepo{})
	data := buildDocx(t, "hi")

	for i := 0; i < 3; i++ {
		_, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, data)
		require.NoError(t, err)
	}

	items, err := svc.ListVersions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{items[0].Version, items[1].Version, items[2].Version})
}

func TestDownload_RoundTripsPayload(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	svc := newService(t, artifacts, &fakeProfileRepo{})
	data := buildDocx(t, "payload")

	res, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, data)
	require.NoError(t, err)

	file, err := svc.Download(context.Background(), res.ArtifactID)
	require.NoError(t, err)
	assert.Equal(t, "cv.docx", file.FileName)
	assert.Equal(t, MediaTypeDOCX, file.MediaType)
	assert.Equal(t, data, file.Data)
}

func TestDownload_NotFound(t *testing.T) {
	svc := newService(t, newFakeArtifactRepo(), &fakeProfileRepo{})

	_, err := svc.Download(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpload_SameBytesSameHash(t *testing.T) {
	artifacts := newFakeArtifactRepo()
	svc := newService(t, artifacts, &fakeProfileRepo{})
	data := buildDocx(t, "identical")

	a, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, data)
	require.NoError(t, err)
	b, err := svc.Upload(context.Background(), 1, "cv.docx", MediaTypeDOCX, data)
	require.NoError(t, err)

	// Same content hashes identically but still occupies a new version.
	assert.Equal(t, a.ContentHash, b.ContentHash)
	assert.Equal(t, 1, a.Version)
	assert.Equal(t, 2, b.Version)

	list, err := svc.ListVersions(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 2, list[0].Version)
	assert.Equal(t, 1, list[1].Version)
}
