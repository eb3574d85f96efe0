// Command dashctl runs operator tasks against the dashboard database.
package main

import (
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		config.GetLogger().WithError(err).Error("dashctl failed")
		os.Exit(1)
	}
}
