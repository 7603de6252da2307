package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/durian"
)

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// addSourceFlags registers the flags that select where source code is read
// from, in addition to a path argument.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("code", "c", "", "source code to compile")
	cmd.Flags().Bool("stdin", false, "read source code from stdin")
}

// getSource returns the source code and its filename. There are three
// possibilities:
// 1. --code <code>
// 2. --stdin (read code from stdin)
// 3. path as args[0]
func getSource(cmd *cobra.Command, args []string) (string, string, error) {
	var codeFlagSet bool
	if f := cmd.Flags().Lookup("code"); f != nil && f.Changed {
		codeFlagSet = true
	}
	var stdinFlagSet bool
	if f := cmd.Flags().Lookup("stdin"); f != nil && f.Changed {
		stdinFlagSet = true
	}
	pathSupplied := len(args) > 0
	if pathSupplied && (codeFlagSet || stdinFlagSet) {
		return "", "", errors.New("multiple input sources specified")
	} else if codeFlagSet && stdinFlagSet {
		return "", "", errors.New("multiple input sources specified")
	}
	switch {
	case stdinFlagSet:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeFlagSet:
		code, _ := cmd.Flags().GetString("code")
		return code, "", nil
	}
	return "", "", errors.New("no input provided (pass a file, --code or --stdin)")
}

func getDurianOptions(cmd *cobra.Command, v *viper.Viper, filename string) ([]durian.Option, error) {
	logger, err := newLogger(cmd, v)
	if err != nil {
		return nil, err
	}
	opts := []durian.Option{
		durian.WithFilename(filename),
		durian.WithLogger(logger),
		durian.WithWarningsAsErrors(v.GetBool("werror")),
	}
	if asm := v.GetString("assembler"); asm != "" {
		opts = append(opts, durian.WithAssembler(asm))
	}
	if ld := v.GetString("linker"); ld != "" {
		opts = append(opts, durian.WithLinker(ld))
	}
	if v.GetBool("keep-asm") {
		opts = append(opts, durian.WithKeepWorkDir(true))
	}
	return opts, nil
}
