package main

import (
	"errors"
	"fmt"
	"os"

	"cfgseal/internal/config"
	"cfgseal/internal/credential"
	kerrors "cfgseal/internal/errors"
	logger "cfgseal/internal/logging"
	"cfgseal/internal/ui"
	"cfgseal/internal/workflows"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

// errReported marks failures whose message was already shown to the operator.
var errReported = errors.New("reported")

var (
	configPath string
	inputPath  string
	outputPath string
	verbose    bool
	debug      bool
	Logger     logger.Logger

	// credentials supplies the password; tests swap it for a fixed one.
	credentials credential.Source = credential.Terminal{}
)

var rootCmd = &cobra.Command{
	Use:   "cfgseal",
	Short: "Encrypt the application's embedded configuration with a password",
	Long: `cfgseal reads the constant declarations of the application's config.js,
collects them into one JSON document and encrypts it with AES-256-GCM under a
key derived from a password (PBKDF2-HMAC-SHA256, 390000 iterations).

The result is written as a JSON container with base64 salt, iv, tag and
ciphertext fields that the browser runtime decrypts at startup.

PASSWORD:
    Entered interactively, or taken from the ` + credential.PasswordEnvVar + ` environment variable.`,
	Args:          cobra.NoArgs,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{Verbose: verbose, Debug: debug}
		Logger.Debugf("Initializing with verbose=%t, debug=%t", verbose, debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return seal(cmd)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML file overriding paths and fields")
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "source file (default "+config.DefaultInputPath+")")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "container file (default "+config.DefaultOutputPath+")")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
}

func main() {
	os.Exit(execute())
}

// execute runs the root command and returns the process exit status.
func execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			Logger.Errorf("%v", err)
		}
		return 1
	}
	return 0
}

func seal(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "--- Outil de Chiffrement de la Configuration ---")

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintln(out, failureMessage(err, cfg))
		return errReported
	}

	var stopSpinner func()
	onStage := func(s workflows.Stage) {
		switch s {
		case workflows.StageExtracted:
			fmt.Fprintln(out, ui.Success.Sprint("✅") + " Données extraites de " + ui.Path.Sprint(cfg.InputPath) + " avec succès.")
		case workflows.StageDeriving:
			_, stopSpinner = startSpinner(out, "Dérivation de la clé...", verbose || debug)
		case workflows.StageKeyDerived:
			if stopSpinner != nil {
				stopSpinner()
				stopSpinner = nil
			}
			fmt.Fprintln(out, "🔑 Clé de chiffrement dérivée.")
		case workflows.StageEncrypted:
			fmt.Fprintln(out, "🔒 Données chiffrées avec AES-256-GCM.")
		}
	}

	result, err := workflows.Seal(cmd.Context(), workflows.SealOptions{
		Config:      cfg,
		Credentials: credentials,
		Logger:      Logger,
		OnStage:     onStage,
	})
	if stopSpinner != nil {
		stopSpinner()
	}
	if err != nil {
		Logger.Debugf("seal failed: %v", err)
		fmt.Fprintln(out, failureMessage(err, cfg))
		return errReported
	}

	fmt.Fprintln(out, "🎉 Fichier de configuration chiffré sauvegardé dans : " + ui.Path.Sprint(result.OutputPath))
	return nil
}

func resolveConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if inputPath != "" {
		cfg.InputPath = inputPath
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	return cfg, cfg.Validate()
}

// failureMessage renders err as the French console line shown to the operator.
func failureMessage(err error, cfg config.Config) string {
	prefix := ui.Error.Sprint("ERREUR:")
	switch {
	case errors.Is(err, kerrors.ErrEmptyPassphrase):
		return "Opération annulée."
	case errors.Is(err, kerrors.ErrSourceNotFound):
		return prefix + " Le fichier source " + ui.Path.Sprint(cfg.InputPath) + " n'a pas été trouvé."
	case errors.Is(err, kerrors.ErrPrimaryMissing):
		return prefix + " Impossible d'extraire les données de " + ui.Path.Sprint(cfg.InputPath)
	case errors.Is(err, kerrors.ErrInvalidConfig), errors.Is(err, kerrors.ErrInvalidParams):
		return prefix + " Configuration invalide: " + err.Error()
	default:
		return prefix + " " + err.Error()
	}
}
