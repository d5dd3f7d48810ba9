package cli

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/cli/formatter"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// allocFlag collects repeated --alloc key=pct values.
type allocFlag struct {
	values map[string]float64
}

var _ pflag.Value = (*allocFlag)(nil)

func (f *allocFlag) String() string {
	if len(f.values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(f.values[k], 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Set accepts "key=pct", or several pairs separated by commas. Each percent
// must lie in [0, 100]; nothing is clamped.
func (f *allocFlag) Set(s string) error {
	if f.values == nil {
		f.values = make(map[string]float64)
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return fmt.Errorf("%q: want key=percent", pair)
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		if err != nil {
			return fmt.Errorf("%q: percent is not a number", pair)
		}
		if math.IsNaN(pct) || pct < allocation.MinValue || pct > allocation.MaxValue {
			return fmt.Errorf("%q: percent must be between 0 and 100", pair)
		}
		if _, dup := f.values[k]; dup {
			return fmt.Errorf("%q given twice", k)
		}
		f.values[k] = pct
	}
	return nil
}

func (f *allocFlag) Type() string { return "key=pct" }

func newSubmitCmd(app *App) *cobra.Command {
	var name, team, role string
	var normalize bool
	alloc := &allocFlag{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a response without the interactive form",
		Long: `Submit a response from flags. Categories left out are stored as 0%.
Each value must be between 0 and 100. The values must total 100% unless
--normalize is given, which rescales them to 100% keeping their proportions.

Examples:
  submit --name Ada --team Membership --alloc code_development=60 --alloc meetings=40
  submit --name Bo --team "Content Quality" --role qa --alloc qa_bugbash=3,qa_meetings=1 --normalize`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r := domain.NormalizeRole(role)
			values := alloc.values

			if normalize {
				adjusted, err := app.Allocation.AutoAdjust(ctx, contract.AutoAdjustRequest{Role: r, Values: values})
				if err != nil {
					return err
				}
				values = adjusted.Values
			}

			resp, err := app.Survey.Submit(ctx, contract.SubmitRequest{
				Name:       name,
				Team:       team,
				Role:       r,
				Allocation: values,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.StyleGreen.Render(resp.Message))
			stored, err := app.Survey.Get(ctx, resp.Response.Name)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatResponseDetail(stored, app.Catalog.Resolve(stored.Role)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "respondent name (required)")
	cmd.Flags().StringVar(&team, "team", "", "respondent team (required)")
	cmd.Flags().StringVar(&role, "role", "", "server, frontend or qa (default server)")
	cmd.Flags().Var(alloc, "alloc", "category percentage as key=pct, repeatable")
	cmd.Flags().BoolVar(&normalize, "normalize", false, "rescale the values to total 100%")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("team")

	return cmd
}
