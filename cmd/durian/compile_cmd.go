package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/durian"
)

func newCompileCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile source code to FASM assembly",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileHandler(cmd, v, args)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "write assembly to this file instead of stdout")
	return cmd
}

func compileHandler(cmd *cobra.Command, v *viper.Viper, args []string) error {
	source, filename, err := getSource(cmd, args)
	if err != nil {
		return err
	}
	opts, err := getDurianOptions(cmd, v, filename)
	if err != nil {
		return err
	}
	prog, err := durian.Compile(source, opts...)
	if err != nil {
		return err
	}
	printWarnings(cmd.ErrOrStderr(), prog.Warnings(), useColor(v))

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		_, err := prog.WriteTo(cmd.OutOrStdout())
		return err
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if _, err := prog.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", output, err)
	}
	return f.Close()
}
