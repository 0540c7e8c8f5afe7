package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mkelsey/devportal/internal/testutil"
)

type FileStoreSuite struct {
	suite.Suite
	path  string
	store *FileStore
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}

func (s *FileStoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "token")
	s.store = NewFileStore(s.path, testutil.NopLogger())
}

func (s *FileStoreSuite) TestSaveThenLoadRoundTrips() {
	s.store.Save("tok-abc")

	token, ok := s.store.Load()
	s.True(ok)
	s.Equal("tok-abc", token)
}

func (s *FileStoreSuite) TestLoadWhenAbsent() {
	token, ok := s.store.Load()
	s.False(ok)
	s.Empty(token)
}

func (s *FileStoreSuite) TestSaveOverwrites() {
	s.store.Save("first")
	s.store.Save("second")

	token, ok := s.store.Load()
	s.True(ok)
	s.Equal("second", token)
}

func (s *FileStoreSuite) TestClearThenLoadIsAbsent() {
	s.store.Save("tok-abc")
	s.store.Clear()

	_, ok := s.store.Load()
	s.False(ok)
}

func (s *FileStoreSuite) TestClearOnEmptyStoreIsIdempotent() {
	s.store.Clear()
	s.store.Clear()

	_, ok := s.store.Load()
	s.False(ok)
}

func (s *FileStoreSuite) TestEmptyFileIsAbsent() {
	s.Require().NoError(os.WriteFile(s.path, []byte("\n"), 0600))

	_, ok := s.store.Load()
	s.False(ok)
}

func (s *FileStoreSuite) TestCreatesParentDirectory() {
	nested := filepath.Join(s.T().TempDir(), "a", "b", "token")
	store := NewFileStore(nested, testutil.NopLogger())

	store.Save("tok")

	token, ok := store.Load()
	s.True(ok)
	s.Equal("tok", token)
}

func (s *FileStoreSuite) TestUnavailableStorageDegradesToNoOp() {
	// A path whose parent is a regular file can never be created;
	// every operation must still return without panicking.
	blocker := filepath.Join(s.T().TempDir(), "blocker")
	s.Require().NoError(os.WriteFile(blocker, []byte("x"), 0600))

	store := NewFileStore(filepath.Join(blocker, "token"), testutil.NopLogger())
	store.Save("tok")
	_, ok := store.Load()
	s.False(ok)
	store.Clear()
}

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func (s *MemoryStoreSuite) TestRoundTrip() {
	s.store.Save("tok")
	token, ok := s.store.Load()
	s.True(ok)
	s.Equal("tok", token)
}

func (s *MemoryStoreSuite) TestClearIsIdempotent() {
	s.store.Save("tok")
	s.store.Clear()
	s.store.Clear()

	_, ok := s.store.Load()
	s.False(ok)
}
