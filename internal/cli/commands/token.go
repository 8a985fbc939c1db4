package commands

import (
	"github.com/spf13/cobra"

	"github.com/jeebeez/another-signal/internal/identity"
)

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode and decode account tokens used in prospects links",
		Long: `Account tokens identify an account in /accounts/<token> links. A token is the
URL-safe base64 of the account name; it is not a secret.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "encode <name>",
			Short: "Print the token of an account name",
			Args:  cobra.ExactArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				NewCommandContextWithoutGateway(cmd).Renderer.Println(identity.Encode(args[0]))
			},
		},
		&cobra.Command{
			Use:   "decode <token>",
			Short: "Print the account name of a token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, err := identity.Decode(args[0])
				if err != nil {
					return err
				}
				NewCommandContextWithoutGateway(cmd).Renderer.Println(name)
				return nil
			},
		},
	)
	return cmd
}
