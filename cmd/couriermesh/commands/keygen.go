package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couriermesh/core-go/identity"
	"github.com/couriermesh/core-go/internal/crypto"
	"github.com/couriermesh/core-go/keyring"
)

// accountFile is the on-disk layout keygen writes: public material in the
// clear, private keys sealed under the password-derived master key.
type accountFile struct {
	Params             keyring.Params  `json:"kdf"`
	IdentityPublicKey  string          `json:"identityPublicKey"`
	IdentityKeyID      string          `json:"identityKeyId"`
	TransportPublicKey string          `json:"transportPublicKey"`
	TransportKeyID     string          `json:"transportKeyId"`
	SealedIdentityKey  json.RawMessage `json:"sealedIdentityKey"`
	SealedTransportKey json.RawMessage `json:"sealedTransportKey"`
}

func keygenCmd() *cobra.Command {
	var (
		out    string
		phrase string
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate account keys and print the recovery phrase",
		Long: "Generates the keyring seed, derives the identity (ML-DSA-65) and " +
			"transport (ML-KEM-768) key pairs from it, and writes them to the " +
			"account file with private keys sealed under the password. " +
			"With --phrase the seed is restored from an existing recovery " +
			"phrase instead, reproducing the same key pairs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("password required (-p or COURIERMESH_PASSWORD)")
			}

			var (
				seed []byte
				err  error
			)
			restored := phrase != ""
			if restored {
				seed, err = keyring.SeedFromPhrase(phrase)
			} else {
				seed, err = keyring.NewSeed()
			}
			if err != nil {
				return err
			}
			defer crypto.Wipe(seed)

			identitySeed, transportSeed, err := keyring.DeriveKeySeeds(seed)
			if err != nil {
				return err
			}
			defer crypto.Wipe(identitySeed)
			defer crypto.Wipe(transportSeed)

			identityPair, err := identity.IdentityKeyPairFromSeed(identitySeed)
			if err != nil {
				return err
			}
			defer crypto.Wipe(identityPair.PrivateKey)
			transportPair, err := identity.TransportKeyPairFromSeed(transportSeed)
			if err != nil {
				return err
			}
			defer crypto.Wipe(transportPair.PrivateKey)

			params, err := keyring.NewParams()
			if err != nil {
				return err
			}
			kr, err := keyring.Open(password, params)
			if err != nil {
				return err
			}
			defer kr.Close()

			sealedIdentity, err := kr.SealKey(identityPair.PrivateKey)
			if err != nil {
				return err
			}
			sealedTransport, err := kr.SealKey(transportPair.PrivateKey)
			if err != nil {
				return err
			}

			account := accountFile{
				Params:             params,
				IdentityPublicKey:  crypto.ToBase64URL(identityPair.PublicKey),
				IdentityKeyID:      identity.KeyID(identityPair.PublicKey),
				TransportPublicKey: crypto.ToBase64URL(transportPair.PublicKey),
				TransportKeyID:     identity.KeyID(transportPair.PublicKey),
				SealedIdentityKey:  sealedIdentity,
				SealedTransportKey: sealedTransport,
			}
			data, err := json.MarshalIndent(account, "", "  ")
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return err
			}

			fmt.Printf("Account keys written to %s\n", out)
			fmt.Printf("Suite: %s\n", crypto.Ciphersuite)
			fmt.Printf("Identity key ID:  %s\n", account.IdentityKeyID)
			fmt.Printf("Transport key ID: %s\n", account.TransportKeyID)
			if !restored {
				recovery, err := keyring.RecoveryPhrase(seed)
				if err != nil {
					return err
				}
				fmt.Printf("\nRecovery phrase (write it down, shown once):\n%s\n", recovery)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "account.json", "account file to write")
	cmd.Flags().StringVar(&phrase, "phrase", "", "restore from an existing recovery phrase")
	return cmd
}
