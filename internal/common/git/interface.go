package git

// GitExecutor defines the interface for git operations.
// This interface allows for mocking git operations in tests.
type GitExecutor interface {
	// Version probes the git client and returns its version line
	Version() (string, error)

	// RepoRoot returns the top-level directory of the enclosing repository
	RepoRoot() (string, error)

	// CurrentBranch returns the short name of the branch HEAD points at
	CurrentBranch() (string, error)

	// Checkout switches the working tree to a branch
	Checkout(branch string) error

	// PullFastForward updates the current branch from its upstream, fast-forward only
	PullFastForward() error

	// RebaseInteractive runs an interactive rebase of the current branch onto another branch.
	// The editing session is attached to the terminal.
	RebaseInteractive(onto string) error

	// PushForce pushes the current branch, overwriting remote history
	PushForce() error

	// MergeFastForward merges a branch into the current branch, fast-forward only
	MergeFastForward(branch string) error

	// Push pushes the current branch to its upstream
	Push() error

	// WorkDir returns the working directory git commands run in
	WorkDir() string
}
