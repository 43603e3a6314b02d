package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	opts, err := Load([]string{"--input-file", "circuit.qasm"})
	require.NoError(t, err)
	require.Equal(t, "circuit.qasm", opts.InputFile)
	require.Equal(t, 1, opts.Shots)
	require.Equal(t, 26, opts.MaxQubits)
	require.Nil(t, opts.Seed)
}

func TestLoadParsesSeedAndShots(t *testing.T) {
	opts, err := Load([]string{"--input-file", "c.qasm", "--shots", "100", "--seed", "42"})
	require.NoError(t, err)
	require.Equal(t, 100, opts.Shots)
	require.NotNil(t, opts.Seed)
	require.Equal(t, uint64(42), *opts.Seed)
}

func TestLoadOverlaysFromTOMLWithoutOverridingFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "qsim.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
output_file = "from_file.json"
shots = 50
`), 0o644))

	opts, err := Load([]string{"--input-file", "c.qasm", "--config", cfgPath})
	require.NoError(t, err)
	require.Equal(t, "from_file.json", opts.OutputFile)
	require.Equal(t, 50, opts.Shots)

	opts2, err := Load([]string{"--input-file", "c.qasm", "--config", cfgPath, "--shots", "7"})
	require.NoError(t, err)
	require.Equal(t, 7, opts2.Shots)
}

func TestLoadFailsOnUnknownFlag(t *testing.T) {
	_, err := Load([]string{"--not-a-real-flag"})
	require.Error(t, err)
}
