package util

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/plus3it/gorecurcopy"
)

// Image is a benchmark input and its dimensions.
type Image struct {
	Name   string
	Path   string
	Width  int
	Height int
}

// CleanOrCreateTempFolder leaves an empty directory at path.
func CleanOrCreateTempFolder(path string) error {
	// file exist check is taken from: https://stackoverflow.com/questions/12518876/how-to-check-if-a-file-exists-in-go
	if _, err := os.Stat(path); err == nil {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing temp folder: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking temp folder: %w", err)
	}
	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return fmt.Errorf("creating temp folder: %w", err)
	}
	return nil
}

// StageImages copies the named files of src into a fresh scratch
// directory dst. Only the listed files are copied, so dst may sit inside
// src.
func StageImages(src, dst string, names []string) error {
	if err := CleanOrCreateTempFolder(dst); err != nil {
		return err
	}
	for _, name := range names {
		if err := gorecurcopy.Copy(filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
			return fmt.Errorf("copying %s to %s: %w", name, dst, err)
		}
	}
	return nil
}

// ListImages returns the names of the regular files in dir that end with
// ext and do not start with excludePrefix, in lexical order. Symlinks are
// followed.
func ListImages(dir, ext, excludePrefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading image directory: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !Selected(entry.Name(), ext, excludePrefix) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Selected reports whether a file name is a benchmark input.
func Selected(name, ext, excludePrefix string) bool {
	if excludePrefix != "" && strings.HasPrefix(name, excludePrefix) {
		return false
	}
	return strings.HasSuffix(name, ext)
}

// ReadImage reads the dimensions of dir/name from its header.
func ReadImage(dir, name string) (Image, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return Image{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Image{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	return Image{Name: name, Path: path, Width: cfg.Width, Height: cfg.Height}, nil
}
