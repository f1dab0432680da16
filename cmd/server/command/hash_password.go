package command

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/campus-inventory/internal/config"
	"github.com/iliyamo/campus-inventory/internal/utils"
)

var hashCost int

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for the users.password column",
	Long: `Print a bcrypt hash suitable for the users.password column.
The password is taken from the argument or, when omitted, from the
first line of standard input.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plain string
		if len(args) == 1 {
			plain = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no password given")
			}
			plain = strings.TrimRight(line, "\r\n")
		}
		if !cmd.Flags().Changed("cost") {
			if err := config.LoadEnvFile(envFile); err != nil {
				return fmt.Errorf("loading env file %q: %w", envFile, err)
			}
			hashCost = config.BcryptCostFromEnv()
		}
		if plain == "" {
			return errors.New("password must not be empty")
		}
		if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
			return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
		}
		hash, err := utils.HashPassword(plain, hashCost)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
		return err
	},
}

func init() {
	hashPasswordCmd.Flags().IntVar(&hashCost, "cost", bcrypt.DefaultCost, "bcrypt cost (default BCRYPT_COST or 10)")
	rootCmd.AddCommand(hashPasswordCmd)
}
