package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/doublesearch/internal/vocab"
)

// VocabValidation holds vocabulary validation results.
type VocabValidation struct {
	Valid  bool                    `json:"valid"`
	Errors []vocab.ValidationError `json:"errors,omitempty"`
}

// NewVocabCommand creates the vocab command group.
func NewVocabCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect and validate vocabulary documents",
	}
	cmd.AddCommand(newVocabValidateCommand(rootOpts))
	cmd.AddCommand(newVocabDumpCommand(rootOpts))
	return cmd
}

func newVocabValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <vocab.cue>",
		Short: "Validate a vocabulary document",
		Long: `Validate a CUE vocabulary document: synonyms, entity fields, product
categories and their priority, the stoplist, age patterns, boolean fields,
tag fields and graph names. All errors are reported, not just the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVocabValidate(opts, args[0], cmd)
		},
	}
}

func runVocabValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	_, errs := vocab.LoadFile(path)
	if len(errs) == 0 {
		if formatter.Format == "json" {
			return formatter.Success(VocabValidation{Valid: true})
		}
		fmt.Fprintln(formatter.Writer, "✓ Vocabulary valid")
		return nil
	}

	var verrs []vocab.ValidationError
	for _, err := range errs {
		var verr vocab.ValidationError
		if !errors.As(err, &verr) {
			// Read or syntax error: the document never got to validation.
			return formatter.Fail(ExitCommandError, ErrCodeVocabulary, "failed to load vocabulary", err)
		}
		verrs = append(verrs, verr)
	}

	if formatter.Format == "json" {
		if err := formatter.encode(CLIResponse{
			Status: "error",
			Data:   VocabValidation{Valid: false, Errors: verrs},
			Error:  &CLIError{Code: verrs[0].Code, Message: verrs[0].Message},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		fmt.Fprintln(formatter.Writer)
		for _, verr := range verrs {
			if verr.Line > 0 {
				fmt.Fprintf(formatter.Writer, "line %d\n", verr.Line)
			}
			fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", verr.Code, verr.Field, verr.Message)
		}
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(verrs)))
}

func newVocabDumpCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the effective vocabulary",
		Long: `Print the vocabulary in effect (built-in, or --vocab merged over the
built-in defaults) as YAML, or JSON with --format json.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := opts.formatter(cmd)
			v, err := loadVocabulary(opts.Vocab)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeVocabulary, "failed to load vocabulary", err)
			}
			if formatter.Format == "json" {
				return formatter.Success(v.Spec())
			}
			enc := yaml.NewEncoder(formatter.Writer)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(v.Spec())
		},
	}
}
