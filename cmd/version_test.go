package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runVersion(t *testing.T, version string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	root.Version = version
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestVersionCmd_PrintsRootVersion(t *testing.T) {
	assert.Equal(t, "bactool version 1.2.3-test\n", runVersion(t, "1.2.3-test", "version"))
}

func TestVersionCmd_EmptyVersion(t *testing.T) {
	assert.Equal(t, "bactool version \n", runVersion(t, "", "version"))
}

func TestVersionCmd_Help(t *testing.T) {
	assert.Contains(t, runVersion(t, "1.0.0", "version", "--help"), "This is bactool's.")
}

func TestVersionCmd_UsesPackageRoot(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	SetVersion("9.9.9")
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "bactool version 9.9.9\n", buf.String())
}
