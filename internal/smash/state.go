package smash

import "fmt"

// State is a point in the workflow. Runs only move forward.
type State int

const (
	StateStart State = iota
	StatePreconditionsChecked
	StateTargetSynced
	StateBackOnSource
	StateRebased
	StateForcePushed
	StateConfirmed
	StateDeclined
	StateMerged
	StatePushed
	StateDone
	StateError
)

var stateNames = map[State]string{
	StateStart:                "Start",
	StatePreconditionsChecked: "PreconditionsChecked",
	StateTargetSynced:         "TargetSynced",
	StateBackOnSource:         "BackOnSource",
	StateRebased:              "Rebased",
	StateForcePushed:          "ForcePushed",
	StateConfirmed:            "Confirmed",
	StateDeclined:             "Declined",
	StateMerged:               "Merged",
	StatePushed:               "Pushed",
	StateDone:                 "Done",
	StateError:                "Error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Step identifies where a run failed
type Step int

const (
	StepGitMissing Step = iota
	StepNotRepository
	StepDetachedHead
	StepResolveTarget
	StepCheckoutTarget
	StepPullTarget
	StepCheckoutSource
	StepRebase
	StepForcePush
	StepConfirm
	StepMergeCheckout
	StepMerge
	StepMergePush
)

var stepNames = map[Step]string{
	StepGitMissing:     "git-missing",
	StepNotRepository:  "not-repository",
	StepDetachedHead:   "detached-head",
	StepResolveTarget:  "resolve-target",
	StepCheckoutTarget: "checkout-target",
	StepPullTarget:     "pull-target",
	StepCheckoutSource: "checkout-source",
	StepRebase:         "rebase",
	StepForcePush:      "force-push",
	StepConfirm:        "confirm",
	StepMergeCheckout:  "merge-checkout",
	StepMerge:          "merge",
	StepMergePush:      "merge-push",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// StepError reports which step of a run failed.
// Err holds the underlying git or I/O error.
type StepError struct {
	Step   Step
	Source string
	Target string
	Err    error
}

func (e *StepError) Error() string {
	switch e.Step {
	case StepGitMissing:
		return "git is not installed or not on PATH"
	case StepNotRepository:
		return "not inside a git repository"
	case StepDetachedHead:
		return "HEAD is detached; check out a branch first"
	case StepResolveTarget:
		return "could not determine the default branch"
	case StepCheckoutTarget:
		return fmt.Sprintf("failed to check out %s", e.Target)
	case StepPullTarget:
		return fmt.Sprintf("failed to update %s from its upstream remote", e.Target)
	case StepCheckoutSource:
		return fmt.Sprintf("failed to check out %s", e.Source)
	case StepRebase:
		return fmt.Sprintf("rebase of %s onto %s failed or was aborted", e.Source, e.Target)
	case StepForcePush:
		return fmt.Sprintf("failed to force-push %s; does it have an upstream tracking branch?", e.Source)
	case StepConfirm:
		return "failed to read merge confirmation"
	case StepMergeCheckout:
		return fmt.Sprintf("failed to check out %s for merge", e.Target)
	case StepMerge:
		return fmt.Sprintf("fast-forward merge of %s into %s failed; has %s diverged?", e.Source, e.Target, e.Target)
	case StepMergePush:
		return fmt.Sprintf("failed to push %s", e.Target)
	}
	return fmt.Sprintf("step %s failed", e.Step)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Hint suggests how to recover by hand, or returns "" when there is nothing useful to say
func (e *StepError) Hint() string {
	switch e.Step {
	case StepPullTarget:
		return fmt.Sprintf("check that %s tracks a remote branch and has no local-only commits", e.Target)
	case StepRebase:
		return "finish with 'git rebase --continue' or give up with 'git rebase --abort'"
	case StepForcePush:
		return fmt.Sprintf("set one with 'git push -u <remote> %s'", e.Source)
	case StepMerge:
		return fmt.Sprintf("you are on %s; run smash again from %s to rebase onto the new commits", e.Target, e.Source)
	}
	return ""
}
