package commands

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	password string
)

func Execute() error {
	root := &cobra.Command{
		Use:           "couriermesh",
		Short:         "CourierMesh key management and conformance tooling",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return err
				}
			} else {
				// A missing default .env is fine.
				_ = godotenv.Load()
			}
			if password == "" {
				password = os.Getenv("COURIERMESH_PASSWORD")
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (default .env if present)")
	root.PersistentFlags().StringVarP(&password, "password", "p", "", "account password (or COURIERMESH_PASSWORD)")

	root.AddCommand(keygenCmd(), hostkeyCmd(), vectorsCmd())
	return root.Execute()
}
