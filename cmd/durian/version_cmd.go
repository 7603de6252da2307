package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type versionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

func newVersionCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindFlags(v, cmd.Flags(), "output")
			return versionHandler(cmd, v)
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, json)")
	cmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp))
	return cmd
}

func versionHandler(cmd *cobra.Command, v *viper.Viper) error {
	format := strings.ToLower(v.GetString("output"))
	if err := checkOutputFormat(format); err != nil {
		return err
	}
	info := versionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
	}
	if format == "json" {
		data, err := getOutputJSON(v, info)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "durian %s (commit %s, built %s, %s)\n",
		info.Version, info.Commit, info.Date, info.Go)
	return nil
}
