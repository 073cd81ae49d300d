package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"medi-response-service/internal/dataset"
)

func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Prepare training files for the generator and the role classifier",
	}
	cmd.AddCommand(newDatasetDialoguesCmd(), newDatasetRolesCmd())
	return cmd
}

func newDatasetDialoguesCmd() *cobra.Command {
	var (
		outDir string
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "dialogues <mediresponse.csv>",
		Short: "Write doctor <|endoftext|> relative lines with a train/test split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			lines, err := dataset.Dialogues(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			train, test := dataset.Split(lines, dataset.DialogueTestFraction, seed)

			outputs := map[string][]string{
				"preprocessed_conversation.txt": lines,
				"train_dataset.txt":             train,
				"test_dataset.txt":              test,
			}
			for name, data := range outputs {
				if err := writeFile(filepath.Join(outDir, name), func(f *os.File) error {
					return dataset.WriteLines(f, data)
				}); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d dialogues: %d train, %d test\n", len(lines), len(train), len(test))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().Uint64Var(&seed, "seed", dataset.DialogueSeed, "shuffle seed")
	return cmd
}

func newDatasetRolesCmd() *cobra.Command {
	var (
		outDir string
		seed   uint64
	)
	cmd := &cobra.Command{
		Use:   "roles <emotion.csv>...",
		Short: "Write labelled doctor/relative sentences as JSONL with a train/test split",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var all []dataset.RoleExample
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				examples, err := dataset.RoleExamples(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				all = append(all, examples...)
			}
			train, test := dataset.Split(all, dataset.RoleTestFraction, seed)

			for name, data := range map[string][]dataset.RoleExample{
				"roles_train.jsonl": train,
				"roles_test.jsonl":  test,
			} {
				if err := writeFile(filepath.Join(outDir, name), func(f *os.File) error {
					return dataset.WriteJSONL(f, data)
				}); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sentences: %d train, %d test\n", len(all), len(train), len(test))
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().Uint64Var(&seed, "seed", dataset.RoleSeed, "shuffle seed")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
