package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/durian"
	"github.com/deepnoodle-ai/durian/token"
)

type tokenJSON struct {
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Index   int    `json:"index"`
	Value   *int64 `json:"value,omitempty"`
	Handle  *int   `json:"handle,omitempty"`
}

func newTokensCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(v, cmd.Flags(), "output")
			return tokensHandler(cmd, v, args)
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func tokensHandler(cmd *cobra.Command, v *viper.Viper, args []string) error {
	format := strings.ToLower(v.GetString("output"))
	if err := checkOutputFormat(format); err != nil {
		return err
	}
	source, filename, err := getSource(cmd, args)
	if err != nil {
		return err
	}
	seq, _, err := durian.Tokenize(source, durian.WithFilename(filename))
	if err != nil {
		return err
	}
	toks := seq.Tokens()
	out := cmd.OutOrStdout()

	if format == "json" {
		data, err := getOutputJSON(v, tokensToJSON(toks))
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, tok := range toks {
		literal := tok.Literal
		if tok.Kind == token.EOL {
			literal = `\n`
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", tok.Pos, tok.Pos.Index, tok.Kind, literal)
	}
	return tw.Flush()
}

func tokensToJSON(toks []token.Token) []tokenJSON {
	result := make([]tokenJSON, len(toks))
	for i, tok := range toks {
		entry := tokenJSON{
			Kind:    tok.Kind.String(),
			Literal: tok.Literal,
			Line:    tok.Pos.Line,
			Column:  tok.Pos.Column,
			Index:   tok.Pos.Index,
		}
		switch tok.Kind {
		case token.INT:
			value := tok.Int
			entry.Value = &value
		case token.IDENT:
			handle := int(tok.Handle)
			entry.Handle = &handle
		}
		result[i] = entry
	}
	return result
}
