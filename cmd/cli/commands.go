package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(categoryTopCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the game categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/categories")
	},
}

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the top players across all categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard/top")
	},
}

var categoryTopCmd = &cobra.Command{
	Use:   "category-top [code]",
	Short: "Show the leaderboard for a single category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard/category/" + args[0])
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
