package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couriermesh/core-go/fedauth"
	"github.com/couriermesh/core-go/internal/crypto"
)

func hostkeyCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "hostkey",
		Short: "Generate a federation host signing key",
		Long: "Generates an ML-DSA-65 host key pair, writes the private key to " +
			"a file, and prints the JSON document to publish at " + fedauth.KeyPath + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			keypair, err := crypto.GenerateSigKeypair()
			if err != nil {
				return err
			}
			defer crypto.Wipe(keypair.PrivateKey)

			if err := os.WriteFile(out, []byte(crypto.ToBase64URL(keypair.PrivateKey)), 0o600); err != nil {
				return err
			}

			doc, err := json.MarshalIndent(map[string]string{
				"publicKey": crypto.ToBase64URL(keypair.PublicKey),
				"algorithm": fedauth.AlgorithmMLDSA65,
			}, "", "  ")
			if err != nil {
				return err
			}

			fmt.Printf("Private key written to %s\n", out)
			fmt.Printf("Publish at %s:\n%s\n", fedauth.KeyPath, doc)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "hostkey.b64", "private key file to write")
	return cmd
}
