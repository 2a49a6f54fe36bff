package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// **Property: Branch names are highlighted**
func TestFormatBranchHighlightsName(t *testing.T) {
	ForceColor()
	defer NoColor()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatBranch wraps the name in bold blue", prop.ForAll(
		func(name string) bool {
			formatted := FormatBranch(name)
			return strings.Contains(formatted, name) && strings.Contains(formatted, "\x1b[34;1m")
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}

// **Property: No-color flag disables ANSI codes**
func TestNoColorFlagDisablesANSICodes(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("colored Sprintf contains no ANSI codes when NoColor is set", prop.ForAll(
		func(text string) bool {
			NoColor()
			defer ForceColor()

			colors := []*color.Color{Success, Info, Branch}
			for _, c := range colors {
				result := c.Sprintf("%s", text)
				if strings.Contains(result, "\x1b[") {
					return false
				}
			}
			return true
		},
		gen.AnyString(),
	))

	properties.Property("FormatBranch contains no ANSI codes when NoColor is set", prop.ForAll(
		func(name string) bool {
			NoColor()
			defer ForceColor()

			return FormatBranch(name) == name
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestPrintHelpersWriteToConfiguredWriter(t *testing.T) {
	NoColor()

	var out bytes.Buffer
	old := Writer
	Writer = &out
	defer func() { Writer = old }()

	PrintInfo("Rebasing %s onto %s", "feature", "master")
	PrintSuccess("Pushed %s", "master")

	expected := "→ Rebasing feature onto master\n✓ Pushed master\n"
	if out.String() != expected {
		t.Errorf("expected stdout %q, got %q", expected, out.String())
	}
}

func TestQuietDropsStatusLines(t *testing.T) {
	old := Writer
	defer func() { Writer = old }()

	var out bytes.Buffer
	Writer = &out
	Quiet()

	PrintInfo("Rebasing %s onto %s", "feature", "master")
	PrintSuccess("Pushed %s", "master")

	if out.Len() != 0 {
		t.Errorf("expected no output in quiet mode, got %q", out.String())
	}
}
