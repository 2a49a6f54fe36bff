package smash

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obentoo/smash/internal/common/git"
	"github.com/obentoo/smash/internal/common/prompt"
	"github.com/obentoo/smash/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type confirmFunc func(question string) (bool, error)

func (f confirmFunc) Confirm(question string) (bool, error) { return f(question) }

func quietRunner(dir string) *git.GitRunner {
	runner := git.NewGitRunner(dir)
	runner.Stdin = strings.NewReader("")
	runner.Stdout = io.Discard
	runner.Stderr = io.Discard
	return runner
}

func answer(s string) prompt.Confirmer {
	return &prompt.LineConfirmer{In: strings.NewReader(s), Out: io.Discard}
}

// newFeatureRepo leaves the clone on a pushed feature branch with two commits,
// while master has moved on upstream
func newFeatureRepo(t *testing.T) *testutil.GitTestRepo {
	t.Helper()
	testutil.NonInteractiveRebase(t)

	repo := testutil.NewGitTestRepo(t)
	repo.Branch("feature")
	repo.Commit("a.txt", "a\n", "feature: a")
	repo.Commit("b.txt", "b\n", "feature: b")
	repo.Git("push")

	repo.PushFromOtherClone("master", "upstream.txt", "upstream\n")
	return repo
}

func TestEndToEndConfirmedMerge(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)
	upstream := repo.RemoteRev("master")

	result, err := New(quietRunner(repo.Dir), answer("y\n")).Run(nil)
	require.NoError(t, err)

	assert.Equal(t, "feature", result.Source)
	assert.Equal(t, "master", result.Target)
	assert.True(t, result.Merged)
	assert.Equal(t, StateDone, result.State)

	// feature was rebased onto the updated master
	assert.Equal(t, upstream, repo.Rev("feature~2"))
	// both branches are pushed and master was fast-forwarded to feature
	assert.Equal(t, repo.Rev("feature"), repo.RemoteRev("feature"))
	assert.Equal(t, repo.Rev("feature"), repo.Rev("master"))
	assert.Equal(t, repo.Rev("master"), repo.RemoteRev("master"))
	assert.Equal(t, "master", repo.CurrentBranch())
}

func TestEndToEndDeclinedMerge(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)
	upstream := repo.RemoteRev("master")

	result, err := New(quietRunner(repo.Dir), answer("n\n")).Run(nil)
	require.NoError(t, err)

	assert.False(t, result.Merged)
	assert.Equal(t, "feature", repo.CurrentBranch())
	assert.Equal(t, repo.Rev("feature"), repo.RemoteRev("feature"))
	assert.Equal(t, upstream, repo.Rev("master"))
	assert.Equal(t, upstream, repo.RemoteRev("master"))
}

func TestEndToEndDetachedHead(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)
	repo.Git("checkout", "--detach")
	head := repo.Rev("HEAD")

	_, err := New(quietRunner(repo.Dir), answer("y\n")).Run(nil)
	require.Error(t, err)
	assert.True(t, IsStep(err, StepDetachedHead))
	assert.ErrorIs(t, err, git.ErrDetachedHead)
	assert.Equal(t, "HEAD", repo.CurrentBranch())
	assert.Equal(t, head, repo.Rev("HEAD"))
}

func TestEndToEndPullFailureStaysOnTarget(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)
	repo.Git("branch", "no-upstream", "master")

	_, err := New(quietRunner(repo.Dir), answer("y\n")).Run([]string{"no-upstream"})
	require.Error(t, err)
	assert.True(t, IsStep(err, StepPullTarget))
	assert.Equal(t, "no-upstream", repo.CurrentBranch())
}

func TestEndToEndMissingTarget(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)

	_, err := New(quietRunner(repo.Dir), answer("y\n")).Run([]string{"does-not-exist"})
	require.Error(t, err)
	assert.True(t, IsStep(err, StepCheckoutTarget))
	assert.Equal(t, "feature", repo.CurrentBranch())
}

func TestEndToEndTargetNamingAPathKeepsLocalEdits(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)
	repo.Commit("docs/guide.txt", "v1\n", "feature: guide")
	repo.WriteFile("docs/guide.txt", "local edit\n")
	feature := repo.Rev("feature")

	_, err := New(quietRunner(repo.Dir), answer("y\n")).Run([]string{"docs"})
	require.Error(t, err)
	assert.True(t, IsStep(err, StepCheckoutTarget), "got %v", err)

	content, readErr := os.ReadFile(filepath.Join(repo.Dir, "docs", "guide.txt"))
	require.NoError(t, readErr)
	assert.Equal(t, "local edit\n", string(content))
	assert.Equal(t, "feature", repo.CurrentBranch())
	assert.Equal(t, feature, repo.Rev("feature"))
}

func TestEndToEndRebaseConflictSkipsForcePush(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)
	repo.PushFromOtherClone("master", "a.txt", "conflicting\n")
	pushed := repo.RemoteRev("feature")

	_, err := New(quietRunner(repo.Dir), answer("y\n")).Run(nil)
	require.Error(t, err)
	assert.True(t, IsStep(err, StepRebase))
	assert.Equal(t, pushed, repo.RemoteRev("feature"), "feature must not be force-pushed")

	// the half-finished rebase is left for the user
	_, abortErr := repo.GitMayFail("rebase", "--abort")
	assert.NoError(t, abortErr)
}

func TestEndToEndDivergedTargetIsNotPushed(t *testing.T) {
	silence(t)
	repo := newFeatureRepo(t)

	// master gains a local commit while the user is being asked
	diverge := confirmFunc(func(string) (bool, error) {
		repo.Git("checkout", "master")
		repo.Commit("late.txt", "late\n", "late commit on master")
		return true, nil
	})

	_, err := New(quietRunner(repo.Dir), diverge).Run(nil)
	require.Error(t, err)
	assert.True(t, IsStep(err, StepMerge))
	assert.NotEqual(t, repo.Rev("master"), repo.RemoteRev("master"), "master must not be pushed")
	assert.Equal(t, "master", repo.CurrentBranch())
}
