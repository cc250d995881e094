package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perr "piiquante/internal/platform/errors"
	"piiquante/internal/platform/logger"
)

func openTemp(t *testing.T) *FS {
	t.Helper()
	f, err := Open(Config{Dir: t.TempDir()}, logger.Logger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return f
}

func TestSaveAcceptsAllowListedTypes(t *testing.T) {
	f := openTemp(t)
	ctx := context.Background()

	cases := []struct {
		ct  string
		ext string
	}{
		{"image/jpeg", ".jpg"},
		{"image/jpg", ".jpg"},
		{"image/png", ".png"},
		{"IMAGE/PNG", ".png"},
		{"image/jpeg; charset=binary", ".jpg"},
	}
	for _, tc := range cases {
		loc, err := f.Save(ctx, []byte("data"), tc.ct)
		if err != nil {
			t.Fatalf("Save(%q): %v", tc.ct, err)
		}
		if !strings.HasSuffix(loc, tc.ext) {
			t.Fatalf("Save(%q) locator %q, want suffix %q", tc.ct, loc, tc.ext)
		}
		if loc != filepath.Base(loc) {
			t.Fatalf("locator %q leaks path separators", loc)
		}
		if _, err := os.Stat(filepath.Join(f.Dir, loc)); err != nil {
			t.Fatalf("asset missing on disk: %v", err)
		}
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	f := openTemp(t)

	for _, ct := range []string{"image/gif", "text/plain", "", "application/octet-stream"} {
		_, err := f.Save(context.Background(), []byte("data"), ct)
		if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("Save(%q) err = %v, want invalid argument", ct, err)
		}
	}
}

func TestSaveRejectsEmptyPayload(t *testing.T) {
	f := openTemp(t)
	if _, err := f.Save(context.Background(), nil, "image/png"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("Save(empty) err = %v, want invalid argument", err)
	}
}

func TestRemove(t *testing.T) {
	f := openTemp(t)
	ctx := context.Background()

	loc, err := f.Save(ctx, []byte("data"), "image/png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := f.Remove(ctx, loc); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.Dir, loc)); !os.IsNotExist(err) {
		t.Fatalf("asset still on disk after Remove")
	}

	if err := f.Remove(ctx, loc); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("second Remove err = %v, want not found", err)
	}
}

func TestRemoveRejectsEscapingLocator(t *testing.T) {
	f := openTemp(t)
	for _, loc := range []string{"", "../../etc/passwd", "a/b.png"} {
		if err := f.Remove(context.Background(), loc); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("Remove(%q) err = %v, want invalid argument", loc, err)
		}
	}
}
