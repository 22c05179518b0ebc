package root

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upkeephq/upkeep/pkg/client"
)

const apiURLEnv = "UPKEEP_API_URL"

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command for the upkeep admin CLI. Subcommands
// (requests, directory, metrics) are attached here.
var rootCmd = &cobra.Command{
	Use:           "upkeepctl",
	Short:         "Upkeep admin CLI",
	Long:          "Command-line access to the upkeep maintenance API (requests, directories, metrics).",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (defaults to $"+apiURLEnv+")")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit raw JSON instead of text")
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}

// Client builds the API client from the --api-url flag or environment.
func Client() (*client.Client, error) {
	url := apiURL
	if url == "" {
		url = os.Getenv(apiURLEnv)
	}
	if url == "" {
		return nil, fmt.Errorf("no API URL: set --api-url or %s", apiURLEnv)
	}
	return client.New(url), nil
}

// Print writes v as indented JSON when --json is set and returns true.
// Callers fall through to their own text rendering otherwise.
func Print(v any) bool {
	if !jsonOutput {
		return false
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
	return true
}
