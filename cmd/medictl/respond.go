package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"medi-response-service/internal/app"
	"medi-response-service/internal/service/response"
	"medi-response-service/internal/service/textproc"
)

func newRespondCmd(appFn func() *app.Application) *cobra.Command {
	var (
		maxLength int
		trace     bool
		raw       bool
	)
	cmd := &cobra.Command{
		Use:   "respond <prompt>",
		Short: "Generate and filter one relative reply",
		Long: "Runs the full pipeline on a prompt. With --raw the argument is treated as\n" +
			"already generated text and only post-processing runs.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := appFn().NewResponseService(cmd.Context())
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")

			var tr *response.Trace
			if raw {
				tr, err = svc.Process(cmd.Context(), input)
			} else {
				tr, err = svc.RespondTrace(cmd.Context(), input, maxLength)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if trace {
				printTrace(out, tr)
				return nil
			}
			fmt.Fprintln(out, tr.Response)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "tokens to generate (0 uses the configured default)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every stage with word diffs")
	cmd.Flags().BoolVar(&raw, "raw", false, "treat the argument as generated text")
	return cmd
}

func printTrace(w io.Writer, tr *response.Trace) {
	stages := []struct {
		name string
		text string
	}{
		{"raw", tr.Raw},
		{"resplit", tr.Resplit},
		{"normalized", tr.Normalized},
		{"corrected", tr.Corrected},
	}
	fmt.Fprintf(w, "%-11s %s\n", stages[0].name+":", stages[0].text)
	for i := 1; i < len(stages); i++ {
		d := textproc.DiffWords(stages[i-1].text, stages[i].text)
		if !textproc.Changed(d) {
			fmt.Fprintf(w, "%-11s (unchanged)\n", stages[i].name+":")
			continue
		}
		fmt.Fprintf(w, "%-11s %s\n", stages[i].name+":", textproc.RenderDiff(d))
	}
	for _, c := range tr.Corrections {
		fmt.Fprintf(w, "  spelling  %s -> %s\n", c.Original, c.Corrected)
	}

	kept := make(map[int]bool)
	if tr.Filter != nil {
		start := tr.Filter.Skipped
		for i := range tr.Filter.Kept {
			kept[start+i] = true
		}
	}
	fmt.Fprintln(w, "sentences:")
	for i, s := range tr.Sentences {
		mark := " "
		if kept[i] {
			mark = "+"
		}
		fmt.Fprintf(w, "  %s %s\n", mark, s)
	}
	if tr.Filter != nil {
		fmt.Fprintf(w, "filter:     stopped in %s, skipped %d, unexamined %d\n",
			tr.Filter.StoppedIn, tr.Filter.Skipped, tr.Filter.Unexamined)
	}
	fmt.Fprintf(w, "response:   %s\n", tr.Response)
}
