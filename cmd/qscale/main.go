// Package main provides qscale, the catalog maintenance CLI: listing,
// auditing, validating and scoring questionnaire definitions from the
// command line.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/psyq-catalog-server/internal/audit"
	"github.com/psyq-catalog-server/internal/domain"
	"github.com/psyq-catalog-server/internal/loader"
	"github.com/psyq-catalog-server/internal/registry"
)

var definitionsDir string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "qscale",
		Short:         "Clinical questionnaire catalog tool",
		Long:          "qscale inspects, validates and scores the clinical questionnaire catalog.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&definitionsDir, "definitions", "d", "./definitions", "directory holding questionnaire definitions")

	root.AddCommand(newListCmd())
	root.AddCommand(newAuditCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newScoreCmd())
	return root
}

// loadRegistry loads the definitions directory into a fresh registry with
// logging silenced, so command output stays clean.
func loadRegistry() (*registry.Registry, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)

	reg := registry.New(logger)
	if _, err := reg.LoadDirectory(definitionsDir); err != nil {
		return nil, fmt.Errorf("load definitions from %s: %w", definitionsDir, err)
	}
	return reg, nil
}

func newListCmd() *cobra.Command {
	var pathology string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the questionnaires in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			codes := reg.ListAll()
			if pathology != "" {
				p, err := domain.ParsePathologyDomain(pathology)
				if err != nil {
					return err
				}
				codes = reg.ListByPathology(p)
			}

			for _, code := range codes {
				md, err := reg.Metadata(code)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-50s %s\n", md.Code, md.Name, md.Pathology)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d questionnaire(s)\n", len(codes))
			return nil
		},
	}

	cmd.Flags().StringVarP(&pathology, "pathology", "p", "", "filter by pathology domain (e.g. bipolar, depression)")
	return cmd
}

func newAuditCmd() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Render the clinical audit table for the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry()
			if err != nil {
				return err
			}

			rows := audit.BuildRows(reg, nil)
			if markdown {
				fmt.Fprint(cmd.OutOrStdout(), audit.RenderMarkdown(rows))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), audit.RenderTable(rows))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "emit a markdown table instead of the terminal view")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate questionnaire definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failures := 0
			for _, path := range args {
				def, err := loader.LoadFile(path)
				if err != nil {
					failures++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL  %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK    %s (%s, %d questions)\n", path, def.Code, len(def.Questions))
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failures, len(args))
			}
			return nil
		},
	}
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <code> <responses.json>",
		Short: "Score a set of responses against a questionnaire",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, path := strings.ToUpper(args[0]), args[1]

			reg, err := loadRegistry()
			if err != nil {
				return err
			}
			q, err := reg.Create(code)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read responses: %w", err)
			}
			var resp domain.Response
			if err := json.Unmarshal(data, &resp); err != nil {
				return fmt.Errorf("parse responses: %w", err)
			}

			result := q.Score(resp)
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !result.Valid {
				return fmt.Errorf("responses failed validation")
			}
			return nil
		},
	}
}
