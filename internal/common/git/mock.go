package git

// MockGitRunner implements GitExecutor for testing.
// Each method can be configured with a custom function to control behavior.
// Unconfigured methods succeed; Calls records every invocation in order.
type MockGitRunner struct {
	VersionFunc           func() (string, error)
	RepoRootFunc          func() (string, error)
	CurrentBranchFunc     func() (string, error)
	CheckoutFunc          func(branch string) error
	PullFastForwardFunc   func() error
	RebaseInteractiveFunc func(onto string) error
	PushForceFunc         func() error
	MergeFastForwardFunc  func(branch string) error
	PushFunc              func() error
	Calls                 []string
	workDir               string
}

// NewMockGitRunner creates a new MockGitRunner with the specified working directory
func NewMockGitRunner(workDir string) *MockGitRunner {
	return &MockGitRunner{
		workDir: workDir,
	}
}

func (m *MockGitRunner) record(call string) {
	m.Calls = append(m.Calls, call)
}

// Version returns "git version mock" unless configured
func (m *MockGitRunner) Version() (string, error) {
	m.record("version")
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "git version mock", nil
}

// RepoRoot returns the working directory unless configured
func (m *MockGitRunner) RepoRoot() (string, error) {
	m.record("repo-root")
	if m.RepoRootFunc != nil {
		return m.RepoRootFunc()
	}
	return m.workDir, nil
}

// CurrentBranch returns "feature" unless configured
func (m *MockGitRunner) CurrentBranch() (string, error) {
	m.record("current-branch")
	if m.CurrentBranchFunc != nil {
		return m.CurrentBranchFunc()
	}
	return "feature", nil
}

// Checkout switches to the given branch
func (m *MockGitRunner) Checkout(branch string) error {
	m.record("checkout " + branch)
	if m.CheckoutFunc != nil {
		return m.CheckoutFunc(branch)
	}
	return nil
}

// PullFastForward fast-forwards the current branch
func (m *MockGitRunner) PullFastForward() error {
	m.record("pull --ff-only")
	if m.PullFastForwardFunc != nil {
		return m.PullFastForwardFunc()
	}
	return nil
}

// RebaseInteractive rebases onto the given branch
func (m *MockGitRunner) RebaseInteractive(onto string) error {
	m.record("rebase -i " + onto)
	if m.RebaseInteractiveFunc != nil {
		return m.RebaseInteractiveFunc(onto)
	}
	return nil
}

// PushForce force-pushes the current branch
func (m *MockGitRunner) PushForce() error {
	m.record("push --force")
	if m.PushForceFunc != nil {
		return m.PushForceFunc()
	}
	return nil
}

// MergeFastForward merges the given branch, fast-forward only
func (m *MockGitRunner) MergeFastForward(branch string) error {
	m.record("merge --ff-only " + branch)
	if m.MergeFastForwardFunc != nil {
		return m.MergeFastForwardFunc(branch)
	}
	return nil
}

// Push pushes the current branch
func (m *MockGitRunner) Push() error {
	m.record("push")
	if m.PushFunc != nil {
		return m.PushFunc()
	}
	return nil
}

// WorkDir returns the working directory of the git repository
func (m *MockGitRunner) WorkDir() string {
	return m.workDir
}

// Ensure MockGitRunner implements GitExecutor interface
var _ GitExecutor = (*MockGitRunner)(nil)
