package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cricketstats-go/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	path    string
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "nested", "session.json")
	s.storage = New(s.path)
	s.ctx = context.Background()
}

func (s *StorageSuite) TestMissingFileReadsEmpty() {
	_, ok, err := s.storage.GetItem(s.ctx, "access_token")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StorageSuite) TestSetCreatesFileWithPrivatePermissions() {
	err := s.storage.SetItems(s.ctx, map[string]string{"access_token": "tok"})
	s.Require().NoError(err)

	info, err := os.Stat(s.path)
	s.Require().NoError(err)
	s.Equal(os.FileMode(0600), info.Mode().Perm())
}

func (s *StorageSuite) TestItemsSurviveNewInstance() {
	_ = s.storage.SetItems(s.ctx, map[string]string{
		"access_token": "tok",
		"username":     "alice",
	})

	reopened := New(s.path)
	value, ok, err := reopened.GetItem(s.ctx, "username")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("alice", value)
}

func (s *StorageSuite) TestSetMergesWithExisting() {
	_ = s.storage.SetItems(s.ctx, map[string]string{"a": "1"})
	_ = s.storage.SetItems(s.ctx, map[string]string{"b": "2"})

	a, _, _ := s.storage.GetItem(s.ctx, "a")
	b, _, _ := s.storage.GetItem(s.ctx, "b")
	s.Equal("1", a)
	s.Equal("2", b)
}

func (s *StorageSuite) TestRemoveLastItemDeletesFile() {
	_ = s.storage.SetItems(s.ctx, map[string]string{"a": "1"})

	err := s.storage.RemoveItems(s.ctx, "a")
	s.Require().NoError(err)

	_, err = os.Stat(s.path)
	s.True(os.IsNotExist(err))
}

func (s *StorageSuite) TestRemoveOnMissingFile() {
	s.NoError(s.storage.RemoveItems(s.ctx, "a"))
}

func (s *StorageSuite) TestRemoveKeepsOtherItems() {
	_ = s.storage.SetItems(s.ctx, map[string]string{"a": "1", "b": "2"})
	_ = s.storage.RemoveItems(s.ctx, "a")

	_, ok, _ := s.storage.GetItem(s.ctx, "a")
	s.False(ok)
	_, ok, _ = s.storage.GetItem(s.ctx, "b")
	s.True(ok)
}

func (s *StorageSuite) writeCorrupt() {
	s.Require().NoError(os.MkdirAll(filepath.Dir(s.path), 0700))
	s.Require().NoError(os.WriteFile(s.path, []byte("{not json"), 0600))
}

func (s *StorageSuite) TestCorruptFileIsReported() {
	s.writeCorrupt()

	_, _, err := s.storage.GetItem(s.ctx, "a")
	s.ErrorIs(err, storage.ErrCorrupt)
	s.ErrorContains(err, "corrupt session file")
}

func (s *StorageSuite) TestSetOverwritesCorruptFile() {
	s.writeCorrupt()

	s.Require().NoError(s.storage.SetItems(s.ctx, map[string]string{"access_token": "tok"}))

	value, ok, err := s.storage.GetItem(s.ctx, "access_token")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("tok", value)
}

func (s *StorageSuite) TestRemoveDeletesCorruptFile() {
	s.writeCorrupt()

	s.Require().NoError(s.storage.RemoveItems(s.ctx, "access_token"))

	_, err := os.Stat(s.path)
	s.True(os.IsNotExist(err))
	_, ok, err := s.storage.GetItem(s.ctx, "access_token")
	s.Require().NoError(err)
	s.False(ok)
}
