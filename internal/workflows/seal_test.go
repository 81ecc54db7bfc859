package workflows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cfgseal/internal/config"
	"cfgseal/internal/credential"
	"cfgseal/internal/envelope"
	kerrors "cfgseal/internal/errors"
	"cfgseal/internal/extract"
	logger "cfgseal/internal/logging"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	cfg    config.Config
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	log    logger.Logger
}

func newTestEnv(t *testing.T, source string) *testEnv {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	cfg := config.Default()
	cfg.InputPath = filepath.Join(dir, "config.js")
	cfg.OutputPath = filepath.Join(dir, "config.encrypted.json")
	cfg.Crypto.Iterations = 1000

	if source != "" {
		require.NoError(t, os.WriteFile(cfg.InputPath, []byte(source), 0644))
	}

	env := &testEnv{cfg: cfg, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	env.log = logger.Logger{Out: env.stdout, Err: env.stderr}
	return env
}

func (e *testEnv) seal(t *testing.T, password string) (*SealResult, error) {
	t.Helper()
	return Seal(context.Background(), SealOptions{
		Config:      e.cfg,
		Credentials: credential.Static(password),
		Logger:      e.log,
	})
}

func assertNoOutput(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist), "expected no output file at %s", path)
}

func TestSealPrimaryOnlyScenario(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = {"a": 1};`)

	result, err := env.seal(t, "test123")
	require.NoError(t, err)
	assert.Equal(t, env.cfg.OutputPath, result.OutputPath)
	require.Len(t, result.Outcomes, 6)

	c, err := envelope.ReadContainer(env.cfg.OutputPath)
	require.NoError(t, err)
	assert.NotEmpty(t, c.Salt)
	assert.NotEmpty(t, c.IV)
	assert.NotEmpty(t, c.Tag)
	assert.NotEmpty(t, c.Ciphertext)

	plaintext, err := envelope.Open(c, []byte("test123"), env.cfg.Crypto)
	require.NoError(t, err)
	assert.Equal(t, result.PlaintextSize, len(plaintext))
	assert.JSONEq(t, `{
		"MODELES_COPIEURS": {"a": 1},
		"MEMOS_EXPERTS": null,
		"CONTRATS_TYPES": null,
		"QUESTIONNAIRES": null,
		"NOMS_SIMULES": null,
		"ANALYSE_TEMPLATES": null
	}`, string(plaintext))

	_, err = envelope.Open(c, []byte("wrong"), env.cfg.Crypto)
	assert.ErrorIs(t, err, kerrors.ErrDecryptFailed)
}

func TestSealEmptyPasswordWritesNothing(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = {"a": 1};`)

	_, err := env.seal(t, "")
	assert.ErrorIs(t, err, kerrors.ErrEmptyPassphrase)
	assertNoOutput(t, env.cfg.OutputPath)
}

func TestSealMissingSourceWritesNothing(t *testing.T) {
	env := newTestEnv(t, "")

	_, err := env.seal(t, "test123")
	assert.ErrorIs(t, err, kerrors.ErrSourceNotFound)
	assertNoOutput(t, env.cfg.OutputPath)
}

func TestSealMissingPrimaryWritesNothing(t *testing.T) {
	env := newTestEnv(t, `export const MEMOS_EXPERTS = {"m": true};`)

	_, err := env.seal(t, "test123")
	assert.ErrorIs(t, err, kerrors.ErrPrimaryMissing)
	assertNoOutput(t, env.cfg.OutputPath)
}

func TestSealMalformedFieldIsWarnedAndSkipped(t *testing.T) {
	env := newTestEnv(t, `
export const MODELES_COPIEURS_DEFAUT = {"a": 1};
export const MEMOS_EXPERTS = {oops};
export const NOMS_SIMULES = ["Dupont"];
`)

	result, err := env.seal(t, "test123")
	require.NoError(t, err)

	assert.Contains(t, env.stderr.String(), "AVERTISSEMENT: Erreur de parsing pour 'MEMOS_EXPERTS'")
	assert.Equal(t, extract.ParseError, result.Outcomes[1].Result.Kind)
	assert.Equal(t, extract.NotFound, result.Outcomes[2].Result.Kind)

	c, err := envelope.ReadContainer(env.cfg.OutputPath)
	require.NoError(t, err)
	plaintext, err := envelope.Open(c, []byte("test123"), env.cfg.Crypto)
	require.NoError(t, err)

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(plaintext, &got))
	assert.Equal(t, "null", string(got["MEMOS_EXPERTS"]))
	assert.Equal(t, `["Dupont"]`, string(got["NOMS_SIMULES"]))
}

func TestSealTwiceProducesDistinctContainers(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = [1, 2, 3];`)

	_, err := env.seal(t, "pw")
	require.NoError(t, err)
	first, err := envelope.ReadContainer(env.cfg.OutputPath)
	require.NoError(t, err)

	_, err = env.seal(t, "pw")
	require.NoError(t, err)
	second, err := envelope.ReadContainer(env.cfg.OutputPath)
	require.NoError(t, err)

	assert.NotEqual(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.IV, second.IV)
	for _, c := range []*envelope.Container{first, second} {
		plaintext, err := envelope.Open(c, []byte("pw"), env.cfg.Crypto)
		require.NoError(t, err)
		assert.Contains(t, string(plaintext), `"MODELES_COPIEURS":[1,2,3]`)
	}
}

func TestSealReportsStagesInOrder(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = {"a": 1};`)

	var stages []Stage
	_, err := Seal(context.Background(), SealOptions{
		Config:      env.cfg,
		Credentials: credential.Static("pw"),
		Logger:      env.log,
		OnStage:     func(s Stage) { stages = append(stages, s) },
	})
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageExtracted, StageDeriving, StageKeyDerived, StageEncrypted, StageWritten}, stages)
}

func TestSealHonoursCancelledContext(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = {"a": 1};`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Seal(ctx, SealOptions{Config: env.cfg, Credentials: credential.Static("pw"), Logger: env.log})
	assert.ErrorIs(t, err, context.Canceled)
	assertNoOutput(t, env.cfg.OutputPath)
}

type failingSource struct{}

func (failingSource) Password(string) ([]byte, error) {
	return nil, errors.New("terminal unavailable")
}

func TestSealPropagatesCredentialErrors(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = {"a": 1};`)

	_, err := Seal(context.Background(), SealOptions{Config: env.cfg, Credentials: failingSource{}, Logger: env.log})
	assert.ErrorContains(t, err, "terminal unavailable")
	assertNoOutput(t, env.cfg.OutputPath)
}

func TestSealRequiresCredentialSource(t *testing.T) {
	env := newTestEnv(t, `export const MODELES_COPIEURS_DEFAUT = {"a": 1};`)

	_, err := Seal(context.Background(), SealOptions{Config: env.cfg, Logger: env.log})
	assert.ErrorIs(t, err, kerrors.ErrInvalidConfig)
}
