package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/anchore/condamatch/condamatch"
	"github.com/anchore/condamatch/condamatch/matchspec"
	"github.com/anchore/condamatch/internal"
	"github.com/anchore/condamatch/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   fmt.Sprintf("%s [flags] SPEC CANDIDATE...", internal.ApplicationName),
	Short: "evaluate a conda match spec against candidate packages",
	Long: fmt.Sprintf(`Evaluate a conda-style match spec against one or more candidate packages:
    %[1]s "numpy >=1.7,<2" numpy=1.9=py27_0            relational version constraints
    %[1]s "numpy 1.7*" numpy=1.7.1=x numpy=1.8.0=x     trailing wildcard (prefix match)
    %[1]s "numpy 1.7 py27_0" numpy=1.7=py27_0          exact name/version/build triple

Candidates are given as name=version=build triples. Exits 0 if any candidate
matched, 1 if none did, and 2 on a malformed spec or candidate.`, internal.ApplicationName),
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runDefaultCmd(cmd, args))
	},
}

func init() {
	rootCmd.Flags().Bool(
		"normalize", false,
		"canonicalize a bare exact version expression with a trailing wildcard (e.g. \"numpy 1.7\" -> \"numpy 1.7*\")",
	)
	if err := bindConfigOptions(rootCmd.Flags()); err != nil {
		panic(err)
	}
}

func runDefaultCmd(_ *cobra.Command, args []string) int {
	rawSpec := args[0]
	if !strings.ContainsAny(rawSpec, " \t") {
		// bare constraints like "numpy>=1.2" need the operator split from the
		// name; specs already containing whitespace are taken as tokenized
		rawSpec = condamatch.NormalizeSpec(rawSpec)
	}

	spec, err := matchspec.ParseWithOptions(rawSpec, matchspec.Options{Normalize: appConfig.Normalize})
	if err != nil {
		log.Errorf("could not compile spec: %+v", err)
		return 2
	}
	log.Infof("compiled spec %q (strictness=%d)", spec, spec.Strictness())

	candidates, err := parseCandidates(args[1:])
	if err != nil {
		log.Errorf("could not parse candidates: %+v", err)
		return 2
	}

	var errs error
	anyMatched := false
	rows := make([][]string, 0, len(candidates))
	for _, candidate := range candidates {
		matched, err := spec.Match(candidate)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("unable to match %s=%s=%s: %w", candidate.Name, candidate.Version, candidate.Build, err))
			continue
		}

		anyMatched = anyMatched || matched
		outcome := color.Red.Sprint("no")
		if matched {
			outcome = color.Green.Sprint("yes")
		}
		rows = append(rows, []string{candidate.Name, candidate.Version, candidate.Build, outcome})
	}

	if errs != nil {
		log.Errorf("match failed: %+v", errs)
		return 2
	}

	presentResults(rows)

	if !anyMatched {
		return 1
	}
	return 0
}

func parseCandidates(args []string) ([]matchspec.Candidate, error) {
	candidates := make([]matchspec.Candidate, 0, len(args))
	for _, arg := range args {
		fields := strings.Split(arg, "=")
		if len(fields) != 3 {
			return nil, fmt.Errorf("bad candidate %q: expected name=version=build", arg)
		}
		candidates = append(candidates, matchspec.Candidate{
			Name:    fields[0],
			Version: fields[1],
			Build:   fields[2],
		})
	}
	return candidates, nil
}

func presentResults(rows [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Version", "Build", "Matched"})

	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(rows)
	table.Render()
}
