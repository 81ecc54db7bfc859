package workflows

import (
	"context"
	"fmt"

	"cfgseal/internal/config"
	"cfgseal/internal/credential"
	"cfgseal/internal/envelope"
	kerrors "cfgseal/internal/errors"
	"cfgseal/internal/extract"
	logger "cfgseal/internal/logging"
	"cfgseal/internal/ui"
)

// Stage identifies a pipeline step reported through SealOptions.OnStage.
type Stage int

const (
	StageExtracted Stage = iota
	StageDeriving
	StageKeyDerived
	StageEncrypted
	StageWritten
)

// PasswordPrompt is shown by interactive credential sources.
const PasswordPrompt = "Entrez le mot de passe pour le chiffrement: "

// SealOptions configures the seal workflow.
type SealOptions struct {
	Config      config.Config
	Credentials credential.Source
	Logger      logger.Logger

	// OnStage, if set, is called after each step (StageDeriving before key
	// derivation starts).
	OnStage func(Stage)
}

// SealResult contains the outcome of a successful run.
type SealResult struct {
	InputPath  string
	OutputPath string

	// Outcomes keeps the per-field extraction result, including the
	// distinction between missing and malformed declarations.
	Outcomes []extract.Outcome

	// PlaintextSize equals the ciphertext length under GCM.
	PlaintextSize int
}

// Seal extracts the configured declarations, asks for a password and
// writes the encrypted container.
//
// Returns ErrSourceNotFound if the input cannot be read.
// Returns ErrPrimaryMissing if the first field cannot be extracted.
// Returns ErrEmptyPassphrase if the credential source yields no password.
func Seal(ctx context.Context, opts SealOptions) (*SealResult, error) {
	cfg := opts.Config
	log := opts.Logger
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Credentials == nil {
		return nil, fmt.Errorf("%w: no credential source", kerrors.ErrInvalidConfig)
	}
	notify := func(s Stage) {
		if opts.OnStage != nil {
			opts.OnStage(s)
		}
	}

	log.Debugf("Reading declarations from %s", cfg.InputPath)
	values, outcomes, err := extract.LoadFile(cfg.InputPath, cfg.Fields)
	reportOutcomes(log, outcomes)
	if err != nil {
		return nil, err
	}
	notify(StageExtracted)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	password, err := opts.Credentials.Password(PasswordPrompt)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	defer credential.Zero(password)

	log.Debugf("Deriving key with %d PBKDF2 iterations", cfg.Crypto.Iterations)
	env, err := envelope.SealJSON(values, password, cfg.Crypto, envelope.Hooks{
		BeforeDerive: func() { notify(StageDeriving) },
		AfterDerive:  func() { notify(StageKeyDerived) },
	})
	if err != nil {
		return nil, err
	}
	notify(StageEncrypted)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := envelope.WriteContainer(cfg.OutputPath, env.Container()); err != nil {
		return nil, err
	}
	log.Infof("Wrote %s", cfg.OutputPath)
	notify(StageWritten)

	return &SealResult{
		InputPath:     cfg.InputPath,
		OutputPath:    cfg.OutputPath,
		Outcomes:      outcomes,
		PlaintextSize: len(env.Ciphertext),
	}, nil
}

func reportOutcomes(log logger.Logger, outcomes []extract.Outcome) {
	for _, o := range outcomes {
		switch o.Result.Kind {
		case extract.Found:
			log.Infof("%s: extracted from %s", o.Field.Name, o.Field.Declared)
		case extract.ParseError:
			log.Warnf("%s Erreur de parsing pour '%s': %s", ui.Warning.Sprint("AVERTISSEMENT:"), o.Field.Declared, o.Result.Detail)
		case extract.NotFound:
			log.Debugf("%s: no declaration for %s", o.Field.Name, o.Field.Declared)
		}
	}
}
