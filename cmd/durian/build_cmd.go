package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/durian"
)

func newBuildCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile, assemble and link a native executable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(v, cmd.Flags(), "assembler", "linker", "keep-asm")
			return buildHandler(cmd, v, args)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "executable path (default: source name without extension, or a.out)")
	cmd.Flags().String("assembler", "", "assembler executable (default fasm)")
	cmd.Flags().String("linker", "", "linker executable (default cc)")
	cmd.Flags().Bool("keep-asm", false, "keep the work directory with the generated assembly")
	return cmd
}

func buildHandler(cmd *cobra.Command, v *viper.Viper, args []string) error {
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
		output = defaultExecutable(args)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := durian.Build(ctx, prog, output, opts...)
	if err != nil {
		return err
	}
	if v.GetBool("keep-asm") {
		fmt.Fprintf(cmd.ErrOrStderr(), "work dir: %s\n", res.WorkDir)
	}
	return nil
}

func defaultExecutable(args []string) string {
	if len(args) == 0 {
		return "a.out"
	}
	base := filepath.Base(args[0])
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == base {
		return "a.out"
	}
	return name
}
