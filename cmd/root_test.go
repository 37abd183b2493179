//go:build !integration

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/verdantworks/plantation-cli/internal/config"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// testConfig installs a default config for tests that exercise command
// helpers without going through PersistentPreRunE.
func testConfig(t *testing.T) {
	t.Helper()
	cfg = &config.Config{
		Planner: config.PlannerConfig{
			Count:           100,
			RadiusDeg:       0.01,
			FootprintDeg:    0.01,
			MinPixelSpacing: 15,
		},
		Store:  config.StoreConfig{Driver: "sqlite", Path: t.TempDir() + "/plans.db"},
		Server: config.ServerConfig{Port: 8080, RatePerSec: 5},
	}
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"plan", "raster", "runs", "batch", "serve"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "plantation-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestPlanCommand_RequiredFlags(t *testing.T) {
	latFlag := planCmd.Flags().Lookup("lat")
	require.NotNil(t, latFlag, "plan command should have --lat flag")

	lonFlag := planCmd.Flags().Lookup("lon")
	require.NotNil(t, lonFlag, "plan command should have --lon flag")
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("concurrency")
	require.NotNil(t, flag, "batch command should have --concurrency flag")
	assert.Equal(t, "4", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
