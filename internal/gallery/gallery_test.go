package gallery

import (
	"context"
	"image"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/facevec"
)

// faceImage returns a seeded base pattern with a small amount of per-sample
// noise, so samples of one seed are close to each other and far from others.
func faceImage(seed, sample int64) *image.Gray {
	base := rand.New(rand.NewSource(seed))
	noise := rand.New(rand.NewSource(seed*1000 + sample))
	img := image.NewGray(image.Rect(0, 0, 112, 92))
	for i := range img.Pix {
		v := base.Intn(200) + 28 + noise.Intn(9) - 4
		img.Pix[i] = uint8(v)
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeBMP(t *testing.T, path string, img image.Image) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, bmp.Encode(f, img))
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func testBuilder() *Builder {
	opts := DefaultOptions()
	opts.Workers = 4
	return NewBuilder(opts)
}

func TestBuild_LabelsAndSkippedDirectories(t *testing.T) {
	root := t.TempDir()
	for i := range int64(3) {
		writePNG(t, filepath.Join(root, "bob", "b"+string(rune('0'+i))+".png"), faceImage(2, i))
		writePNG(t, filepath.Join(root, "alice", "a"+string(rune('0'+i))+".png"), faceImage(1, i))
	}
	writePNG(t, filepath.Join(root, "temp_criminal", "x.png"), faceImage(9, 0))
	writePNG(t, filepath.Join(root, "TEMP_CRIMINAL", "x.png"), faceImage(9, 1))
	writePNG(t, filepath.Join(root, ".cache", "x.png"), faceImage(9, 2))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "carol"), 0o755))
	writeFile(t, filepath.Join(root, "readme.txt"), []byte("not an identity"))

	g, err := testBuilder().Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{0: "alice", 1: "bob", 2: "carol"}, g.Names)
	assert.Equal(t, 6, g.Len())
	assert.Len(t, g.Centroids, 2)
	assert.Len(t, g.Thresholds, 2)

	// carol has a label but no vectors
	_, ok := g.Centroid(2)
	assert.False(t, ok)

	// entries come out in directory then file order
	assert.Equal(t, 0, g.Entries[0].Label)
	assert.Equal(t, filepath.Join(root, "alice", "a0.png"), g.Entries[0].Source)
	assert.Equal(t, 1, g.Entries[5].Label)
}

func TestBuild_SkipsUnreadableFiles(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "alice", "good.png"), faceImage(1, 0))
	writeBMP(t, filepath.Join(root, "alice", "good.BMP"), faceImage(1, 1))
	writeFile(t, filepath.Join(root, "alice", "broken.jpg"), []byte("garbage"))
	writeFile(t, filepath.Join(root, "alice", "notes.txt"), []byte("ignored"))
	writePNG(t, filepath.Join(root, "alice", "nested", "deep.png"), faceImage(1, 2))

	g, err := testBuilder().Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len())
	for _, e := range g.Entries {
		assert.Len(t, e.Vector, 112*92)
		assert.InDelta(t, 1.0, facevec.Norm(e.Vector), 1e-9)
	}
}

func TestBuild_MissingRootIsEmpty(t *testing.T) {
	g, err := testBuilder().Build(context.Background(), filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)

	assert.True(t, g.IsEmpty())
	assert.Empty(t, g.Names)
	assert.NotNil(t, g.Centroids)
}

func TestBuild_AdaptiveThresholds(t *testing.T) {
	root := t.TempDir()
	for i := range int64(5) {
		writePNG(t, filepath.Join(root, "alice", "a"+string(rune('0'+i))+".png"), faceImage(1, i))
	}
	writePNG(t, filepath.Join(root, "solo", "s.png"), faceImage(3, 0))

	g, err := testBuilder().Build(context.Background(), root)
	require.NoError(t, err)

	alice, ok := g.Threshold(0)
	require.True(t, ok)
	assert.GreaterOrEqual(t, alice, 0.5)
	assert.Less(t, alice, 1.0)

	// a single sample has zero spread
	solo, ok := g.Threshold(1)
	require.True(t, ok)
	assert.InDelta(t, 1.0, solo, 1e-9)
	assert.Equal(t, facevec.Similarity(g.Entries[5].Vector, g.Centroids[1]), solo)
}

func TestBuild_ThresholdFloor(t *testing.T) {
	root := t.TempDir()
	// two unrelated patterns under one name spread the similarities
	writePNG(t, filepath.Join(root, "mixed", "a.png"), faceImage(1, 0))
	writePNG(t, filepath.Join(root, "mixed", "b.png"), faceImage(2, 0))
	writePNG(t, filepath.Join(root, "mixed", "c.png"), faceImage(3, 0))

	opts := DefaultOptions()
	opts.ThresholdFloor = 0.99
	g, err := NewBuilder(opts).Build(context.Background(), root)
	require.NoError(t, err)

	assert.InDelta(t, 0.99, g.Thresholds[0], 1e-12)
}

func TestBuild_Progress(t *testing.T) {
	root := t.TempDir()
	for i := range int64(4) {
		writePNG(t, filepath.Join(root, "alice", "a"+string(rune('0'+i))+".png"), faceImage(1, i))
	}

	var calls, lastTotal int
	opts := DefaultOptions()
	opts.Progress = func(done, total int) {
		calls++
		lastTotal = total
	}
	_, err := NewBuilder(opts).Build(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, lastTotal)
}

func TestBuild_Cancelled(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "alice", "a.png"), faceImage(1, 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testBuilder().Build(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.png", true},
		{"a.JPG", true},
		{"a.jpeg", true},
		{"a.bmp", true},
		{"a.gif", false},
		{"a", false},
		{"png", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsImageFile(tt.name), tt.name)
	}
}

func TestSummarize(t *testing.T) {
	g := New(facevec.Size{Width: 2, Height: 1})
	g.Names = map[int]string{0: "alice", 1: "bob"}
	g.Entries = []Entry{{Vector: facevec.FaceVector{1, 0}, Label: 0}, {Vector: facevec.FaceVector{1, 0}, Label: 0}}
	g.Centroids[0] = facevec.FaceVector{1, 0}
	g.Thresholds[0] = 0.9

	assert.Equal(t, []IdentitySummary{
		{Label: 0, Name: "alice", Images: 2, Threshold: 0.9},
		{Label: 1, Name: "bob", Images: 0},
	}, Summarize(g))
}
