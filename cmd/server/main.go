package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"profilr/internal/platform/config"
)

var v *viper.Viper

var rootCmd = &cobra.Command{
	Use:   "profilr",
	Short: "Profilr reviews backend",
	Long: `profilr serves the reviews API either as a long-lived HTTP server
or as an AWS Lambda function behind an HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(serveCmd, lambdaCmd)
}

func initConfig() {
	v = config.New()
	cobra.CheckErr(v.BindPFlag("PROFILR_ADDR", serveCmd.Flags().Lookup("addr")))
	cobra.CheckErr(v.BindPFlag("METRICS_ADDR", serveCmd.Flags().Lookup("metrics-addr")))
}

// main defaults to serve when invoked without a subcommand, and to lambda
// when the Lambda runtime is detected.
func main() {
	if len(os.Args) == 1 {
		if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
			rootCmd.SetArgs([]string{"lambda"})
		} else {
			rootCmd.SetArgs([]string{"serve"})
		}
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
