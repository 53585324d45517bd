package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"godelterm/lib/scrapers/godel/des"
	"godelterm/lib/serviceutil"

	"github.com/spf13/cobra"
)

var desAssetClass *string

func init() {
	desAssetClass = desCmd.Flags().String("asset-class", "Equity", "Asset class suffix for the DES command.")
	rootCmd.AddCommand(desCmd)
}

var desCmd = &cobra.Command{
	Use:   "des <ticker>",
	Short: "Scrapes the security description window for a ticker.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		session := newSession(cmd.Context(), cfg)
		defer session.Close()

		security, err := des.NewClient(session).Describe(cmd.Context(), args[0], *desAssetClass)
		if err != nil {
			serviceutil.Fatal("failed to scrape description", err)
		}

		encoded, err := json.MarshalIndent(security, "", "  ")
		if err != nil {
			serviceutil.Fatal("failed to encode result", err)
		}
		fmt.Println(string(encoded))
		dumpResult(cfg, strings.ToLower(args[0])+"_des", security)
	},
}
