// Command teller runs the single-process account ledger with its
// interactive console. Configuration comes from the environment (or a local
// .env file); the administrator credential digest must be injected there.
package main

import (
	cryptorand "crypto/rand"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/ruralpay/teller/internal/audit"
	"github.com/ruralpay/teller/internal/config"
	"github.com/ruralpay/teller/internal/credential"
	"github.com/ruralpay/teller/internal/ledger"
	"github.com/ruralpay/teller/internal/shell"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "teller",
	Short: "In-memory account ledger with an interactive teller console",
	Long: `Teller keeps named accounts with authenticated deposits, withdrawals,
atomic transfers, freeze/unfreeze, and an append-only audit trail per
account. State lives in memory for the lifetime of the process.`,
	SilenceUsage: true,
	RunE:         run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the teller version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("teller %s\n", version)
	},
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	gate := credential.NewGate([]byte(cfg.CredentialSalt), cfg.Argon2)

	adminDigest := cfg.AdminSecretDigest
	if adminDigest == "" && cfg.AdminSecret != "" {
		adminDigest = gate.Hash(cfg.AdminSecret)
	}
	if adminDigest == "" {
		return errors.New("administrator credential not configured: set ADMIN_SECRET_DIGEST or ADMIN_SECRET")
	}
	admin := credential.NewAdminGate(cfg.AdminName, adminDigest, gate)

	renameKey := []byte(cfg.RenameSecretKey)
	if len(renameKey) == 0 {
		// Without a configured key, tokens are only honored by this process.
		renameKey = make([]byte, 32)
		if _, err := cryptorand.Read(renameKey); err != nil {
			return fmt.Errorf("generating rename token key: %w", err)
		}
		log.Println("RENAME_SECRET_KEY not set, using a process-local key")
	}
	tokens := credential.NewRenameTokens(renameKey, cfg.RenameTokenTTL)

	store := ledger.NewAccountStore(audit.NewLogger())
	svc := ledger.NewService(store, gate, admin, tokens, cfg.LockTimeout)

	return shell.New(svc, tokens).Run(cmd.Context())
}

func main() {
	rootCmd.AddCommand(versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("teller: %v", err)
	}
}
