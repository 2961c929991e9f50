package hdf5_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rtxi/analysis-tools/pkg/adapters/hdf5"
	"github.com/rtxi/analysis-tools/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noVisit(t *testing.T) func(string, domain.ObjectKind) error {
	return func(path string, _ domain.ObjectKind) error {
		t.Fatalf("unexpected visit of %s", path)
		return nil
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/", "."},
		{"", "."},
		{"//", "."},
		{"/Trial1/", "/Trial1"},
		{"/Trial1/Synchronous Data/", "/Trial1/Synchronous Data"},
		{"/Trial1/Synchronous Data/Ch0", "/Trial1/Synchronous Data/Ch0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, hdf5.NormalizePath(tt.in), tt.in)
	}
}

func TestVisit_MissingFile(t *testing.T) {
	tr := hdf5.New()
	err := tr.Visit(context.Background(), filepath.Join(t.TempDir(), "missing.h5"), noVisit(t))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestVisit_NotHDF5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.h5")
	require.NoError(t, os.WriteFile(path, []byte("just some text, definitely not hdf5"), 0o600))

	err := hdf5.New().Visit(context.Background(), path, noVisit(t))
	assert.ErrorIs(t, err, domain.ErrNotHDF5)
}

func TestVisit_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.h5")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	err := hdf5.New().Visit(context.Background(), path, noVisit(t))
	assert.ErrorIs(t, err, domain.ErrNotHDF5)
}

func TestVisit_Directory(t *testing.T) {
	err := hdf5.New().Visit(context.Background(), t.TempDir(), noVisit(t))
	assert.ErrorIs(t, err, domain.ErrNotHDF5)
}

func TestVisit_TruncatedSuperblock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.h5")
	sig := []byte{0x89, 'H', 'D', 'F', '\r', '\n', 0x1a, '\n'}
	require.NoError(t, os.WriteFile(path, append(sig, 0xff, 0xff), 0o600))

	err := hdf5.New().Visit(context.Background(), path, noVisit(t))
	assert.ErrorIs(t, err, domain.ErrCorruptFile)
	assert.True(t, domain.IsOpenFailure(err))
}

func TestVisit_PermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	path := filepath.Join(t.TempDir(), "locked.h5")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	dir := filepath.Dir(path)
	require.NoError(t, os.Chmod(dir, 0o000))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	err := hdf5.New().Visit(context.Background(), path, noVisit(t))
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestReadChannel_MissingFile(t *testing.T) {
	_, err := hdf5.New().ReadChannel(context.Background(), filepath.Join(t.TempDir(), "x.h5"), "/a")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestReadChannel_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := hdf5.New().ReadChannel(ctx, "whatever.h5", "/a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAttributes_MissingFile(t *testing.T) {
	_, err := hdf5.New().Attributes(context.Background(), filepath.Join(t.TempDir(), "x.h5"), "/a")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
