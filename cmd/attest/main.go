package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"attest-go/internal/app"
	"attest-go/internal/config"
	"attest-go/internal/encryption"
	"attest-go/internal/ledger"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readConfig loads the config file from the default location.
func readConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// withApp reads the config, creates an AttestApp and runs fn with it.
// command identifies the CLI command being run in the log.
func withApp(ctx context.Context, command string, fn func(context.Context, *app.AttestApp) error) error {
	cfg, _, err := readConfig()
	if err != nil {
		return err
	}

	a, err := app.NewAttestApp(ctx, cfg, command)
	if err != nil {
		return fmt.Errorf("initializing app: %w", err)
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		a.Fail(err)
		return err
	}
	return nil
}

// readPassphrase prompts on stderr and reads a line without echo when stdin
// is a terminal.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func mask(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	return "(set)"
}

var rootCmd = &cobra.Command{
	Use:          "attest",
	Short:        "Social account attestation service",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		seal, _ := cmd.Flags().GetBool("seal")
		ledgerType, _ := cmd.Flags().GetString("ledger")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		if _, err := os.Stat(defaults["config_path"]); err == nil {
			return fmt.Errorf("config file already exists at %s", defaults["config_path"])
		}

		cfg := config.NewConfig(defaults["base_dir"])
		cfg.Ledger.Type = ledgerType
		cfg.Ledger.Seal = seal

		if cfg.Ledger.PrivateKey, err = ledger.GeneratePrivateKey(); err != nil {
			return fmt.Errorf("generating ledger key: %w", err)
		}
		if cfg.Server.JWTSecret, err = randomSecret(); err != nil {
			return err
		}

		if seal {
			passphrase, err := readPassphrase("Passphrase for the sealing key: ")
			if err != nil {
				return err
			}
			confirm, err := readPassphrase("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if passphrase != confirm {
				return fmt.Errorf("passphrases do not match")
			}

			enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
			if err != nil {
				return fmt.Errorf("creating encryptor: %w", err)
			}
			if err := enc.Setup(passphrase); err != nil {
				return fmt.Errorf("setting up encryption: %w", err)
			}
		}

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		signer, err := ledger.NewSigner(cfg.Ledger.PrivateKey)
		if err != nil {
			return err
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir:      %s\n", defaults["base_dir"])
		fmt.Printf("Ledger:        %s\n", cfg.Ledger.Type)
		fmt.Printf("Ledger Signer: %s\n", signer.PublicKey())
		if seal {
			fmt.Printf("Sealing Key:   %s\n", cfg.Encryption.PublicKeyPath)
		}
		fmt.Println("Run `attest db migrate` before starting the server.")
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := readConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		fmt.Printf("Base Dir:       %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:        %s\n", cfg.LogDir)
		fmt.Printf("Listen Addr:    %s\n", cfg.Server.Addr)
		fmt.Printf("JWT Secret:     %s\n", mask(cfg.Server.JWTSecret))
		fmt.Printf("Database:       %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Ledger:         %s (btl %d blocks, %ds blocks, sealed %v)\n",
			cfg.Ledger.Type, cfg.Ledger.BTL, cfg.Ledger.BlockTimeSeconds, cfg.Ledger.Seal)
		fmt.Printf("Ledger Key:     %s\n", mask(cfg.Ledger.PrivateKey))
		fmt.Printf("Reddit Client:  %s secret %s\n", cfg.Reddit.ClientID, mask(cfg.Reddit.ClientSecret))
		fmt.Printf("GitHub Client:  %s secret %s\n", cfg.GitHub.ClientID, mask(cfg.GitHub.ClientSecret))
		fmt.Printf("zkTLS Prover:   %s secret %s\n", cfg.ZkTLS.ProverURL, mask(cfg.ZkTLS.ClientSecret))
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the attestation database",
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		status, err := db.MigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Database at version %d\n", status.Version)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}
		db, err := app.OpenDatabase(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		status, err := db.MigrationStatus()
		if err != nil {
			return err
		}
		state := "up to date"
		switch {
		case status.Dirty:
			state = "dirty"
		case status.Version < status.Latest:
			state = "pending migrations"
		case status.Version > status.Latest:
			state = "newer than this binary"
		}
		fmt.Printf("Path:    %s\n", db.Path())
		fmt.Printf("Version: %d (latest %d)\n", status.Version, status.Latest)
		fmt.Printf("State:   %s\n", state)
		return nil
	},
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Snapshot the database to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := readConfig()
		if err != nil {
			return err
		}
		if err := app.BackupDatabase(cfg, args[0]); err != nil {
			return err
		}
		fmt.Printf("Database backed up to %s\n", args[0])
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().Bool("seal", false, "Encrypt ledger payloads with a new age key pair")
	configInitCmd.Flags().String("ledger", "filesystem", "Ledger backend: memory, filesystem or s3")
	configCmd.AddCommand(configListCmd)

	// db subcommands
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbStatusCmd)
	dbCmd.AddCommand(dbBackupCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(attestationsCmd)
	rootCmd.AddCommand(ledgerCmd)
}
