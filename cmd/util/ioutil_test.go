package util

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, img, nil))
}

func TestSelected(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.jpg", true},
		{"newa.jpg", false},
		{"new.jpg", false},
		{"renew.jpg", true},
		{"a.JPG", false},
		{"a.png", false},
		{"a.jpg.bak", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Selected(tt.name, ".jpg", "new"))
		})
	}
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.jpg", "new_b.jpg", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.jpg"), 0o755))

	names, err := ListImages(dir, ".jpg", "new")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, names)

	_, err = ListImages(filepath.Join(dir, "missing"), ".jpg", "new")
	assert.Error(t, err)
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"), 48, 20)

	img, err := ReadImage(dir, "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, Image{Name: "a.jpg", Path: filepath.Join(dir, "a.jpg"), Width: 48, Height: 20}, img)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.jpg"), []byte("not a jpeg"), 0o644))
	_, err = ReadImage(dir, "bad.jpg")
	assert.Error(t, err)
}

func TestLoadImages(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "a.jpg"), 40, 10)
	writeJPEG(t, filepath.Join(dir, "new_a.jpg"), 40, 10)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.jpg"), []byte("junk"), 0o644))

	diag := NewDiagnostics()
	images, err := LoadImages(dir, ".jpg", "new", nil, diag)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "a.jpg", images[0].Name)
	assert.Equal(t, 1, diag.Count())
}

func TestStageImages(t *testing.T) {
	src := t.TempDir()
	writeJPEG(t, filepath.Join(src, "a.jpg"), 16, 16)
	writeJPEG(t, filepath.Join(src, "b.jpg"), 16, 16)
	dst := filepath.Join(t.TempDir(), "_tmp", "run")
	require.NoError(t, os.MkdirAll(dst, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "stale"), nil, 0o644))

	require.NoError(t, StageImages(src, dst, []string{"a.jpg"}))
	assert.FileExists(t, filepath.Join(dst, "a.jpg"))
	assert.NoFileExists(t, filepath.Join(dst, "b.jpg"))
	assert.NoFileExists(t, filepath.Join(dst, "stale"))
}

func TestStageImages_ScratchInsideSource(t *testing.T) {
	src := t.TempDir()
	writeJPEG(t, filepath.Join(src, "a.jpg"), 16, 16)
	dst := filepath.Join(src, "_tmp", "run")

	names, err := ListImages(src, ".jpg", "new")
	require.NoError(t, err)
	require.NoError(t, StageImages(src, dst, names))

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.jpg", entries[0].Name())
}

func TestStageImages_Missing(t *testing.T) {
	err := StageImages(t.TempDir(), filepath.Join(t.TempDir(), "run"), []string{"gone.jpg"})
	assert.ErrorContains(t, err, "gone.jpg")
}

func TestListImages_Symlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks")
	}
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "real.jpg")
	writeJPEG(t, target, 8, 8)
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "linked.jpg")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere.jpg"), filepath.Join(dir, "dangling.jpg")))
	require.NoError(t, os.Symlink(t.TempDir(), filepath.Join(dir, "folder.jpg")))

	names, err := ListImages(dir, ".jpg", "new")
	require.NoError(t, err)
	assert.Equal(t, []string{"linked.jpg"}, names)

	img, err := ReadImage(dir, "linked.jpg")
	require.NoError(t, err)
	assert.Equal(t, 8, img.Width)
}

func TestCleanOrCreateTempFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	require.NoError(t, CleanOrCreateTempFolder(dir))
	assert.DirExists(t, dir)
}
