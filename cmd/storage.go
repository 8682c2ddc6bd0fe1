package cmd

import (
	"context"
	"fmt"
	"log"

	"tuneshelf/config"
	"tuneshelf/storage"

	"github.com/spf13/cobra"
)

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check the configured storage medium",
	Long:  `Open the storage medium named by STORAGE_DRIVER and round-trip a probe key.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("Storage driver: %s\n", cfg.StorageDriver)

		st, err := storage.Open(cfg)
		if err != nil {
			log.Fatalf("Failed to open storage: %v", err)
		}
		defer st.Close()

		ctx := context.Background()
		const probeKey = "_probe"

		if err := st.Set(ctx, probeKey, "ok"); err != nil {
			log.Fatalf("Failed to write probe key: %v", err)
		}
		value, ok, err := st.Get(ctx, probeKey)
		if err != nil {
			log.Fatalf("Failed to read probe key: %v", err)
		}
		if !ok || value != "ok" {
			log.Fatalf("Unexpected probe value: %q (present: %v)", value, ok)
		}
		if err := st.Remove(ctx, probeKey); err != nil {
			log.Fatalf("Failed to remove probe key: %v", err)
		}

		fmt.Println("Storage check passed.")
	},
}

func init() {
	rootCmd.AddCommand(storageCmd)
}
