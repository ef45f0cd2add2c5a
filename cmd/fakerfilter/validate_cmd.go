package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fakerfilter/internal/config"
	"fakerfilter/internal/filter"
)

func newValidateCmd(a *app) *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a pipeline config without reading any data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := validatePipeline(cmd, a, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid: %s\n", cfgPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "pipeline.yaml", "pipeline config (JSON or YAML)")
	return cmd
}

// validatePipeline prints lint findings and runs the filter transaction
// against the declared schema.
func validatePipeline(cmd *cobra.Command, a *app, p config.Pipeline) error {
	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		return fmt.Errorf("configuration is invalid")
	}
	s, err := config.BuildSchema(p.Parser.Columns)
	if err != nil {
		return err
	}
	_, err = filter.New(p.Filter, filter.WithLogger(a.log)).Transaction(s)
	return err
}
