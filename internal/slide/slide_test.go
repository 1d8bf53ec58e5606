package slide

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewOpener_SkipsUnavailable(t *testing.T) {
	o := NewOpener(nil, NewOpenSlide(), &Raster{})

	names := o.Backends()
	if NewOpenSlide().Available() {
		if len(names) != 2 {
			t.Fatalf("Backends: got %v, want 2 entries", names)
		}
		return
	}
	if len(names) != 1 || names[0] != "raster" {
		t.Errorf("Backends: got %v, want [raster]", names)
	}
}

func TestOpener_CanOpen(t *testing.T) {
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "ok.png", gradientImage(4, 4))
	junk := filepath.Join(dir, "junk.tif")
	if err := os.WriteFile(junk, []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	o := NewOpener(nil, &Raster{})
	if !o.CanOpen(imgPath) {
		t.Error("CanOpen should accept a PNG")
	}
	if o.CanOpen(junk) {
		t.Error("CanOpen should reject garbage")
	}
	if o.CanOpen(filepath.Join(dir, "missing.png")) {
		t.Error("CanOpen should reject a missing file")
	}
}

func TestOpener_Open(t *testing.T) {
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "ok.png", gradientImage(4, 4))

	o := NewOpener(nil, &Raster{MinLevelSize: 2})
	s, err := o.Open(imgPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if s.LevelCount() != 2 {
		t.Errorf("LevelCount: got %d, want 2", s.LevelCount())
	}
}

func TestOpener_OpenErrors(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.svs")
	if err := os.WriteFile(junk, []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	o := NewOpener(nil, &Raster{})
	for _, path := range []string{junk, filepath.Join(dir, "missing.svs")} {
		_, err := o.Open(path)
		if !errors.Is(err, ErrOpen) {
			t.Errorf("Open(%s): got %v, want ErrOpen", filepath.Base(path), err)
		}
	}
}

func TestOpener_NoBackends(t *testing.T) {
	dir := t.TempDir()
	imgPath := writePNG(t, dir, "ok.png", gradientImage(4, 4))

	o := NewOpener(nil)
	if o.CanOpen(imgPath) {
		t.Error("CanOpen should be false without backends")
	}
	if _, err := o.Open(imgPath); !errors.Is(err, ErrOpen) {
		t.Errorf("Open: got %v, want ErrOpen", err)
	}
}

func TestNewBackend(t *testing.T) {
	for _, name := range []string{"openslide", "raster"} {
		b, err := NewBackend(name, BackendOptions{MinLevelSize: 64})
		if err != nil {
			t.Fatalf("NewBackend(%s) failed: %v", name, err)
		}
		if b.Name() != name {
			t.Errorf("Name: got %s, want %s", b.Name(), name)
		}
	}

	b, _ := NewBackend("raster", BackendOptions{MinLevelSize: 64})
	if r := b.(*Raster); r.MinLevelSize != 64 {
		t.Errorf("MinLevelSize: got %d, want 64", r.MinLevelSize)
	}

	if _, err := NewBackend("bioformats", BackendOptions{}); err == nil {
		t.Error("NewBackend should fail for unknown backend")
	}
}

func TestOpenSlideStub(t *testing.T) {
	b := NewOpenSlide()
	if b.Available() {
		t.Skip("built with libopenslide")
	}
	if b.CanOpen("/any/file.svs") {
		t.Error("stub CanOpen should be false")
	}
	if _, err := b.Open("/any/file.svs"); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("stub Open: got %v, want ErrBackendUnavailable", err)
	}
}
