package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couriermesh/core-go/internal/crypto"
	"github.com/couriermesh/core-go/transit"
)

func vectorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vectors <file>",
		Short: "Generate conformance envelopes from a vector file",
		Long: "Reads a YAML conformance vector file and prints the envelope " +
			"each vector produces, base64url encoded. Two independent protocol " +
			"implementations run over the same file must print identical output.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			set, err := transit.LoadVectors(f)
			if err != nil {
				return err
			}

			for _, v := range set.Vectors {
				envelope, _, err := v.Generate()
				if err != nil {
					return err
				}
				fmt.Printf("%s\t%s\n", v.Name, crypto.ToBase64URL(envelope))
			}
			return nil
		},
	}
	return cmd
}
