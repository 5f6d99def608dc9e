// Command charlie is the command-line front-end for the Kelly allocation
// engine.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jingmouren/gitlab-in-silico-public-charlie/internal/modules/kelly"
	"github.com/jingmouren/gitlab-in-silico-public-charlie/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{Use: "charlie", Short: "Kelly allocation engine CLI"}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug/info/warn/error)")

	root.AddCommand(allocateCmd(&logLevel))
	root.AddCommand(analyzeCmd(&logLevel))

	return root
}

func allocateCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "allocate <path-to-yaml>",
		Short: "Compute an optimal capital allocation from a YAML input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Config{Level: *logLevel, Pretty: true})

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			var input kelly.AllocationInput
			if err := yaml.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			resp := kelly.Allocate(context.Background(), input, kelly.Options{Log: log})
			return printAllocationResult(resp)
		},
	}
}

func analyzeCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <path-to-yaml>",
		Short: "Analyze a fixed portfolio's outcome distribution from a YAML input file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.Config{Level: *logLevel, Pretty: true})

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			var portfolio kelly.Portfolio
			if err := yaml.Unmarshal(data, &portfolio); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			resp := kelly.Analyze(context.Background(), portfolio, log)
			if resp.Error != nil {
				fmt.Fprintf(os.Stderr, "error [%s]: %s\n", resp.Error.Code, resp.Error.Message)
				os.Exit(1)
			}

			out, err := yaml.Marshal(resp.Result)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func printAllocationResult(resp *kelly.AllocationResponse) error {
	for _, p := range resp.ValidationProblems {
		fmt.Fprintf(os.Stderr, "%s [%s]: %s\n", p.Severity, p.Code, p.Message)
	}

	if resp.Error != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %s\n", resp.Error.Code, resp.Error.Message)
		os.Exit(1)
	}

	out, err := yaml.Marshal(resp.Result)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
