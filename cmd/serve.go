package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AliSafari-IT/setup-data/internal/fixture"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generated artifacts as a read-only mock API",
	Long: `Starts a fixture server over the output directory. Every artifact becomes
a collection at /api/<entity>, with single records at /api/<entity>/<index>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		server, err := fixture.NewServer(cfg.OutputDir, servePort)
		if err != nil {
			return err
		}
		return server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 4000, "Port to serve on")
}
