package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fakerfilter/internal/faker"
)

func newExpressionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expressions [EXPRESSION...]",
		Short: "List supported faker names, or check expressions",
		Long: "Without arguments, lists the Category.method names usable inside #{...}.\n" +
			"With arguments, checks each expression and reports problems.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range faker.Expressions() {
					fmt.Fprintln(out, name)
				}
				return nil
			}
			bad := 0
			for _, expr := range args {
				if err := faker.ValidateExpression(expr); err != nil {
					fmt.Fprintf(out, "%s\t%v\n", expr, err)
					bad++
					continue
				}
				fmt.Fprintf(out, "%s\tok\n", expr)
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d expressions are invalid", bad, len(args))
			}
			return nil
		},
	}
}
