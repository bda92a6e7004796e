package credential

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// FileStoreTestSuite exercises the TOML-backed store against a temp directory
type FileStoreTestSuite struct {
	suite.Suite
	path  string
	store *FileStore
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreTestSuite))
}

func (suite *FileStoreTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "zenx", "credentials.toml")
	suite.store = NewFileStore(suite.path)
}

func (suite *FileStoreTestSuite) TestMissingFileIsEmpty() {
	v, err := suite.store.Get()
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), v)
	assert.False(suite.T(), Present(suite.store))
}

func (suite *FileStoreTestSuite) TestSetGetClear() {
	require.NoError(suite.T(), suite.store.Set("  sk-or-v1-abc  "))

	v, err := suite.store.Get()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "sk-or-v1-abc", v)
	assert.True(suite.T(), Present(suite.store))

	require.NoError(suite.T(), suite.store.Clear())
	v, err = suite.store.Get()
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), v)
	assert.False(suite.T(), Present(suite.store))
}

func (suite *FileStoreTestSuite) TestSetRejectsBlank() {
	err := suite.store.Set("   ")
	assert.ErrorIs(suite.T(), err, ErrEmptyCredential)

	_, statErr := os.Stat(suite.path)
	assert.True(suite.T(), os.IsNotExist(statErr))
}

func (suite *FileStoreTestSuite) TestFileMode() {
	if runtime.GOOS == "windows" {
		suite.T().Skip("file modes are not enforced on windows")
	}
	require.NoError(suite.T(), suite.store.Set("k1"))

	info, err := os.Stat(suite.path)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), os.FileMode(0o600), info.Mode().Perm())
}

func (suite *FileStoreTestSuite) TestClearPreservesOtherSlots() {
	require.NoError(suite.T(), os.MkdirAll(filepath.Dir(suite.path), 0o700))
	content := "other = \"keep me\"\n" + SlotName + " = \"k1\"\n"
	require.NoError(suite.T(), os.WriteFile(suite.path, []byte(content), 0o600))

	require.NoError(suite.T(), suite.store.Clear())

	var slots map[string]string
	_, err := toml.DecodeFile(suite.path, &slots)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]string{"other": "keep me"}, slots)
}

func (suite *FileStoreTestSuite) TestClearWithoutFile() {
	assert.NoError(suite.T(), suite.store.Clear())
}

func (suite *FileStoreTestSuite) TestCorruptFile() {
	require.NoError(suite.T(), os.MkdirAll(filepath.Dir(suite.path), 0o700))
	require.NoError(suite.T(), os.WriteFile(suite.path, []byte("not = [valid"), 0o600))

	_, err := suite.store.Get()
	assert.Error(suite.T(), err)
	assert.False(suite.T(), Present(suite.store))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("")
	assert.False(t, Present(s))

	require.NoError(t, s.Set("k1"))
	assert.True(t, Present(s))

	assert.ErrorIs(t, s.Set(" "), ErrEmptyCredential)
	v, _ := s.Get()
	assert.Equal(t, "k1", v)

	require.NoError(t, s.Clear())
	assert.False(t, Present(s))
}

func TestMask(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "[not set]"},
		{input: "short", want: "********"},
		{input: "12345678", want: "********"},
		{input: "sk-or-v1-abcdef123456", want: "sk-o...3456"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.input))
		})
	}
}
