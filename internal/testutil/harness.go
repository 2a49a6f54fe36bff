// Package testutil provides test helpers for git repository testing.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// GitTestRepo is a temporary clone with a bare "origin" remote next to it.
type GitTestRepo struct {
	t      *testing.T
	Dir    string
	Remote string
}

// NewGitTestRepo creates a bare remote and a clone of it whose master branch
// has one commit pushed with upstream tracking.
func NewGitTestRepo(t *testing.T) *GitTestRepo {
	t.Helper()

	root := t.TempDir()
	repo := &GitTestRepo{
		t:      t,
		Dir:    filepath.Join(root, "work"),
		Remote: filepath.Join(root, "origin.git"),
	}

	run(t, root, "init", "--bare", "--initial-branch=master", repo.Remote)
	run(t, root, "clone", repo.Remote, repo.Dir)

	repo.Git("config", "user.email", "test@test.com")
	repo.Git("config", "user.name", "Test User")
	repo.Git("config", "commit.gpgsign", "false")
	repo.Git("symbolic-ref", "HEAD", "refs/heads/master")

	repo.Commit("README", "hello\n", "initial commit")
	repo.Git("push", "-u", "origin", "master")

	return repo
}

func run(t *testing.T, dir string, args ...string) string {
	t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed:\n%s", args, out)

	return string(out)
}

// Git runs a git command in the test repo.
func (r *GitTestRepo) Git(args ...string) string {
	r.t.Helper()

	return run(r.t, r.Dir, args...)
}

// GitMayFail runs a git command that may fail, returning the error.
func (r *GitTestRepo) GitMayFail(args ...string) (string, error) {
	r.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()

	return string(out), err
}

// WriteFile creates or overwrites a file in the repo.
func (r *GitTestRepo) WriteFile(path, content string) {
	r.t.Helper()

	fullPath := filepath.Join(r.Dir, path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(r.t, os.WriteFile(fullPath, []byte(content), 0644))
}

// Commit writes a file and commits it.
func (r *GitTestRepo) Commit(path, content, message string) {
	r.t.Helper()

	r.WriteFile(path, content)
	r.Git("add", path)
	r.Git("commit", "-m", message)
}

// Branch creates and checks out a new branch pushed with upstream tracking.
func (r *GitTestRepo) Branch(name string) {
	r.t.Helper()

	r.Git("checkout", "-b", name)
	r.Git("push", "-u", "origin", name)
}

// Rev returns the commit a revision resolves to.
func (r *GitTestRepo) Rev(rev string) string {
	r.t.Helper()

	return strings.TrimSpace(r.Git("rev-parse", rev))
}

// RemoteRev returns the commit a branch points at in the bare remote.
func (r *GitTestRepo) RemoteRev(branch string) string {
	r.t.Helper()

	return strings.TrimSpace(run(r.t, r.Remote, "rev-parse", "refs/heads/"+branch))
}

// CurrentBranch returns the checked out branch, or "HEAD" when detached.
func (r *GitTestRepo) CurrentBranch() string {
	r.t.Helper()

	return strings.TrimSpace(r.Git("rev-parse", "--abbrev-ref", "HEAD"))
}

// PushFromOtherClone advances a remote branch behind the back of this clone.
func (r *GitTestRepo) PushFromOtherClone(branch, path, content string) {
	r.t.Helper()

	other := filepath.Join(r.t.TempDir(), "other")
	run(r.t, filepath.Dir(other), "clone", "--branch", branch, r.Remote, other)
	run(r.t, other, "config", "user.email", "other@test.com")
	run(r.t, other, "config", "user.name", "Other User")
	run(r.t, other, "config", "commit.gpgsign", "false")
	require.NoError(r.t, os.WriteFile(filepath.Join(other, path), []byte(content), 0644))
	run(r.t, other, "add", path)
	run(r.t, other, "commit", "-m", "change from another clone")
	run(r.t, other, "push", "origin", branch)
}

// NonInteractiveRebase makes git rebase -i accept the generated todo list.
func NonInteractiveRebase(t *testing.T) {
	t.Helper()

	t.Setenv("GIT_SEQUENCE_EDITOR", "true")
	t.Setenv("GIT_EDITOR", "true")
}
