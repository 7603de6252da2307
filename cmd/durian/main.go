package main

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	v := viper.New()
	cmd := newRootCmd(v)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err, useColor(v)))
		os.Exit(1)
	}
}
