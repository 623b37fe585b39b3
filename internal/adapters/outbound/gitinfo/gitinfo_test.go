package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkraft/layerlint/internal/adapters/outbound/gitinfo"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	runGit(t, dir, "init")

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))
}

func TestGitInfo_CommitHash_ReturnsHash(t *testing.T) {
	dir := initRepo(t)

	gi := gitinfo.New()
	hash, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	_, err := gi.CommitHash(dir)
	assert.Error(t, err)
}

func TestGitInfo_ChangedFiles(t *testing.T) {
	dir := initRepo(t)

	write(t, dir, "src/domain/User.ts", "export class User { name = 'changed' }")
	write(t, dir, "src/domain/Order.ts", "export class Order {}")

	changed, err := gitinfo.New().ChangedFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/domain/Order.ts", "src/domain/User.ts"}, changed)
}

func TestGitInfo_ChangedFiles_RelativeToSubdir(t *testing.T) {
	dir := initRepo(t)

	write(t, dir, "src/domain/User.ts", "export class User { id = 1 }")
	write(t, dir, "README.md", "changed")

	changed, err := gitinfo.New().ChangedFiles(filepath.Join(dir, "src"))
	require.NoError(t, err)
	assert.Equal(t, []string{"domain/User.ts"}, changed)
}

func TestGitInfo_ChangedFiles_Clean(t *testing.T) {
	dir := initRepo(t)

	changed, err := gitinfo.New().ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@test.com")
	runGit(t, dir, "config", "user.name", "Test")

	write(t, dir, "src/domain/User.ts", "export class User {}")
	write(t, dir, "README.md", "hello")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "init")
	return dir
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, string(out))
}
