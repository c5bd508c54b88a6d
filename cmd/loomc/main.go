// Command loomc is the command-line entry point for the closure-conversion, lambda-lifting, and
// native-SSA emission pipeline in package compiler, package lift, package cc, and package
// codegen/llvm. Its only subcommand is version; it does not import or run any of those packages.
// Parsing a source language into the hir.Root the pipeline consumes is out of scope here.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "loomc",
		Short: "closure-conversion, lambda-lifting, and native-SSA lowering pipeline",
		Long: "loomc lowers a closure-bearing HIR tree to flat, top-level LIR and on to a\n" +
			"native SSA module. It does not parse source text: callers construct the\n" +
			"hir.Root it consumes programmatically (see package hir) or via an embedding\n" +
			"front end, then drive package compiler's Unit directly.",
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the loomc version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
