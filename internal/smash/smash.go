// Package smash rebases the current branch onto a target branch, force-pushes
// it, and optionally fast-forwards the target to it.
//
// Every step delegates to git and stops at the first failure. Nothing that
// already happened is undone: the repository is left exactly where the failing
// command left it.
package smash

import (
	"errors"
	"fmt"

	"github.com/obentoo/smash/internal/common/config"
	"github.com/obentoo/smash/internal/common/git"
	"github.com/obentoo/smash/internal/common/logger"
	"github.com/obentoo/smash/internal/common/output"
	"github.com/obentoo/smash/internal/common/prompt"
)

// Result describes a successful run
type Result struct {
	Source string // branch that was rebased
	Target string // branch it was rebased onto
	State  State
	Merged bool // true if Target was fast-forwarded and pushed
}

// DefaultBranchFunc picks the target branch when none is given.
// It receives the repository root.
type DefaultBranchFunc func(root string) (string, error)

// Smasher runs the workflow against a git executor
type Smasher struct {
	git           git.GitExecutor
	confirmer     prompt.Confirmer
	defaultBranch DefaultBranchFunc
	state         State
}

// Option configures a Smasher
type Option func(*Smasher)

// WithDefaultBranch sets how the default target branch is found
func WithDefaultBranch(fn DefaultBranchFunc) Option {
	return func(s *Smasher) {
		s.defaultBranch = fn
	}
}

// New creates a Smasher. Without options the default target is "master".
func New(executor git.GitExecutor, confirmer prompt.Confirmer, opts ...Option) *Smasher {
	s := &Smasher{
		git:       executor,
		confirmer: confirmer,
		defaultBranch: func(string) (string, error) {
			return config.DefaultBranch, nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns where the last run stopped
func (s *Smasher) State() State {
	return s.state
}

func (s *Smasher) transition(next State) {
	logger.Debug("state: %s -> %s", s.state, next)
	s.state = next
}

// step runs one git call and moves to next on success
func (s *Smasher) step(step Step, r *Result, next State, call func() error) error {
	if err := call(); err != nil {
		logger.Debug("%s failed: %v", step, err)
		s.transition(StateError)
		return &StepError{Step: step, Source: r.Source, Target: r.Target, Err: err}
	}
	if next != s.state {
		s.transition(next)
	}
	return nil
}

// CheckPreconditions verifies git is installed, the working directory is in a
// repository, and HEAD is on a branch. It returns the branch and repository root.
func CheckPreconditions(executor git.GitExecutor) (source, root string, err error) {
	ver, err := executor.Version()
	if err != nil {
		return "", "", &StepError{Step: StepGitMissing, Err: err}
	}
	logger.Debug("using %s", ver)

	root, err = executor.RepoRoot()
	if err != nil {
		return "", "", &StepError{Step: StepNotRepository, Err: err}
	}

	source, err = executor.CurrentBranch()
	if err != nil {
		return "", "", &StepError{Step: StepDetachedHead, Err: err}
	}

	return source, root, nil
}

// ResolveTarget returns the first argument, or fallback when there is none
func ResolveTarget(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}

// Run executes the workflow. A declined merge is a success.
func (s *Smasher) Run(args []string) (*Result, error) {
	s.state = StateStart

	source, root, err := CheckPreconditions(s.git)
	if err != nil {
		s.transition(StateError)
		return nil, err
	}
	s.transition(StatePreconditionsChecked)

	r := &Result{Source: source}

	// Repository config is only consulted when no branch was given
	var fallback string
	if len(args) == 0 {
		if fallback, err = s.defaultBranch(root); err != nil {
			s.transition(StateError)
			return nil, &StepError{Step: StepResolveTarget, Source: source, Err: err}
		}
	}
	r.Target = ResolveTarget(args, fallback)
	if err := config.ValidateBranchName(r.Target); err != nil {
		s.transition(StateError)
		return nil, &StepError{Step: StepCheckoutTarget, Source: source, Target: r.Target, Err: err}
	}
	logger.Debug("source %s, target %s, repository %s", r.Source, r.Target, root)

	output.PrintInfo("Updating %s", output.FormatBranch(r.Target))
	if err := s.step(StepCheckoutTarget, r, s.state, func() error { return s.git.Checkout(r.Target) }); err != nil {
		return nil, err
	}
	if err := s.step(StepPullTarget, r, StateTargetSynced, s.git.PullFastForward); err != nil {
		return nil, err
	}
	if err := s.step(StepCheckoutSource, r, StateBackOnSource, func() error { return s.git.Checkout(r.Source) }); err != nil {
		return nil, err
	}

	output.PrintInfo("Rebasing %s onto %s", output.FormatBranch(r.Source), output.FormatBranch(r.Target))
	if err := s.step(StepRebase, r, StateRebased, func() error { return s.git.RebaseInteractive(r.Target) }); err != nil {
		return nil, err
	}

	output.PrintInfo("Force-pushing %s", output.FormatBranch(r.Source))
	if err := s.step(StepForcePush, r, StateForcePushed, s.git.PushForce); err != nil {
		return nil, err
	}

	var confirmed bool
	question := fmt.Sprintf("Merge %s into %s and push %s?", r.Source, r.Target, r.Target)
	if err := s.step(StepConfirm, r, s.state, func() (err error) {
		confirmed, err = s.confirmer.Confirm(question)
		return err
	}); err != nil {
		return nil, err
	}

	if !confirmed {
		s.transition(StateDeclined)
		output.PrintInfo("Not merging into %s", output.FormatBranch(r.Target))
		s.transition(StateDone)
		r.State = s.state
		return r, nil
	}
	s.transition(StateConfirmed)

	if err := s.step(StepMergeCheckout, r, s.state, func() error { return s.git.Checkout(r.Target) }); err != nil {
		return nil, err
	}
	if err := s.step(StepMerge, r, StateMerged, func() error { return s.git.MergeFastForward(r.Source) }); err != nil {
		return nil, err
	}
	if err := s.step(StepMergePush, r, StatePushed, s.git.Push); err != nil {
		return nil, err
	}

	s.transition(StateDone)
	output.PrintSuccess("%s now points at %s and is pushed", r.Target, r.Source)
	r.State = s.state
	r.Merged = true
	return r, nil
}

// IsStep reports whether err is a StepError for the given step
func IsStep(err error, step Step) bool {
	var se *StepError
	return errors.As(err, &se) && se.Step == step
}
