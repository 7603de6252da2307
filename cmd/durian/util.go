package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/durian/errors"
)

var red = color.New(color.FgRed).SprintFunc()

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor reports whether diagnostics written to stderr should be colored.
func useColor(v *viper.Viper) bool {
	if v.GetBool("no-color") || color.NoColor {
		return false
	}
	return isTerminal(os.Stderr)
}

// formatError renders err for the terminal. Compile errors and warnings get
// the full source-annotated diagnostic; anything else is printed in red.
func formatError(err error, colored bool) string {
	f := errors.NewFormatter(colored)

	var merr *multierror.Error
	if stderrors.As(err, &merr) {
		var entries []*errors.FormattedError
		for _, e := range merr.Errors {
			if fe, ok := e.(errors.FormattableError); ok {
				entries = append(entries, fe.ToFormatted())
			}
		}
		if len(entries) == len(merr.Errors) {
			return strings.TrimRight(f.FormatMultiple(entries), "\n")
		}
	}

	var fe errors.FormattableError
	if stderrors.As(err, &fe) {
		return strings.TrimRight(f.Format(fe.ToFormatted()), "\n")
	}
	if colored {
		return red(err.Error())
	}
	return err.Error()
}

func printWarnings(w io.Writer, warnings []*errors.Warning, colored bool) {
	f := errors.NewFormatter(colored)
	for _, warning := range warnings {
		fmt.Fprintln(w, strings.TrimRight(f.Format(warning.ToFormatted()), "\n"))
	}
}

var outputFormatsCompletion = []string{"json", "text"}

func getOutputJSON(v *viper.Viper, value any) ([]byte, error) {
	if v.GetBool("no-color") || color.NoColor {
		return json.MarshalIndent(value, "", "  ")
	}
	return prettyjson.Marshal(value)
}

func checkOutputFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text", "json":
		return nil
	}
	return fmt.Errorf("unknown output format: %s", format)
}
