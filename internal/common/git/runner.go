package git

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var (
	ErrGitNotFound   = errors.New("git executable not found in PATH")
	ErrNotRepository = errors.New("not a git repository")
	ErrDetachedHead  = errors.New("HEAD is not a symbolic reference to a branch")
	ErrGitCommand    = errors.New("git command failed")
)

// GitRunner executes git commands in a specific working directory
type GitRunner struct {
	workDir string

	// Stdio the git subprocesses are attached to
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	root string
	repo *gogit.Repository
}

// NewGitRunner creates a new GitRunner for the specified working directory.
// An empty workDir means the process working directory.
func NewGitRunner(workDir string) *GitRunner {
	return &GitRunner{
		workDir: workDir,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// WorkDir returns the working directory of the GitRunner
func (g *GitRunner) WorkDir() string {
	return g.workDir
}

func (g *GitRunner) command(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	if g.workDir != "" {
		cmd.Dir = g.workDir
	}
	return cmd
}

// runCommand executes a git command quietly and returns stdout
func (g *GitRunner) runCommand(args ...string) (string, error) {
	cmd := g.command(args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	return stdoutBuf.String(), wrapCommandError(err, stderrBuf.String())
}

// runStreaming executes a git command with its output shown to the user.
// Stderr is also captured so failures carry git's own explanation.
func (g *GitRunner) runStreaming(args ...string) error {
	cmd := g.command(args...)

	var stderrBuf bytes.Buffer
	cmd.Stdout = g.Stdout
	cmd.Stderr = io.MultiWriter(g.Stderr, &stderrBuf)

	return wrapCommandError(cmd.Run(), stderrBuf.String())
}

// runInteractive hands the terminal to git until it exits
func (g *GitRunner) runInteractive(args ...string) error {
	cmd := g.command(args...)
	cmd.Stdin = g.Stdin
	cmd.Stdout = g.Stdout
	cmd.Stderr = g.Stderr

	return wrapCommandError(cmd.Run(), "")
}

func wrapCommandError(err error, stderr string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return errors.Join(ErrGitNotFound, err)
	}
	// Wrap the error with stderr for context
	if msg := strings.TrimSpace(stderr); msg != "" {
		return errors.Join(ErrGitCommand, err, errors.New(msg))
	}
	return errors.Join(ErrGitCommand, err)
}

// Version returns the output of git --version
func (g *GitRunner) Version() (string, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return "", errors.Join(ErrGitNotFound, err)
	}

	stdout, err := g.runCommand("--version")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout), nil
}

// open asks git for the working tree and git directory enclosing workDir,
// then opens the git directory with go-git to inspect refs.
// GIT_DIR and GIT_WORK_TREE apply as they do for every other git call.
func (g *GitRunner) open() (*gogit.Repository, error) {
	if g.repo != nil {
		return g.repo, nil
	}

	stdout, err := g.runCommand("rev-parse", "--show-toplevel", "--absolute-git-dir")
	if err != nil {
		if errors.Is(err, ErrGitNotFound) {
			return nil, err
		}
		return nil, errors.Join(ErrNotRepository, err)
	}

	// Bare repositories have no top level; older git prints nothing for it
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 || lines[0] == "" {
		return nil, ErrNotRepository
	}

	repo, err := gogit.PlainOpenWithOptions(lines[1], &gogit.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.Join(ErrNotRepository, err)
	}

	g.root = lines[0]
	g.repo = repo
	return repo, nil
}

// RepoRoot returns the root of the working tree containing workDir.
// Bare repositories have no working tree and are rejected.
func (g *GitRunner) RepoRoot() (string, error) {
	if _, err := g.open(); err != nil {
		return "", err
	}
	return g.root, nil
}

// CurrentBranch reads HEAD without resolving it.
// A branch without commits yet still counts as a branch.
func (g *GitRunner) CurrentBranch() (string, error) {
	repo, err := g.open()
	if err != nil {
		return "", err
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", err
	}

	return BranchFromHead(head)
}

// BranchFromHead extracts the branch name from an unresolved HEAD reference
func BranchFromHead(head *plumbing.Reference) (string, error) {
	if head.Type() != plumbing.SymbolicReference || !head.Target().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Target().Short(), nil
}

// Checkout switches to the given branch.
// The trailing "--" keeps git from treating a missing branch as a path.
func (g *GitRunner) Checkout(branch string) error {
	return g.runStreaming("checkout", branch, "--")
}

// PullFastForward fast-forwards the current branch to its upstream
func (g *GitRunner) PullFastForward() error {
	return g.runStreaming("pull", "--ff-only")
}

// RebaseInteractive runs git rebase -i onto the given branch
func (g *GitRunner) RebaseInteractive(onto string) error {
	return g.runInteractive("rebase", "-i", onto)
}

// PushForce force-pushes the current branch to its upstream
func (g *GitRunner) PushForce() error {
	return g.runStreaming("push", "--force")
}

// MergeFastForward merges branch into the current branch, refusing merge commits
func (g *GitRunner) MergeFastForward(branch string) error {
	return g.runStreaming("merge", "--ff-only", branch)
}

// Push pushes the current branch to its upstream
func (g *GitRunner) Push() error {
	return g.runStreaming("push")
}

// Ensure GitRunner implements GitExecutor interface
var _ GitExecutor = (*GitRunner)(nil)
