package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/spf13/cobra"
)

// The app, and with it the store connection, lives for the whole execution
// environment, so warm invocations reuse the connection opened by the first.
var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serve the API as an AWS Lambda HTTP API (payload v2) handler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log := loadConfig()
		a := buildApp(cmd.Context(), cfg, log)
		log.InfoContext(cmd.Context(), "starting lambda handler")
		lambda.Start(httpadapter.NewV2(a.router).ProxyWithContext)
		return nil
	},
}
