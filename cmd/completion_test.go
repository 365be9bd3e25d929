package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	var useCases = []struct {
		shell  string
		expect string
	}{
		{"bash", "commands+=(\"resolve\")"},
		{"zsh", "#compdef _assetcp assetcp"},
		{"fish", "complete -c assetcp"},
		{"powershell", "Register-ArgumentCompleter"},
	}

	for _, useCase := range useCases {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs([]string{"completion", useCase.shell})
		err := rootCmd.Execute()
		require.NoError(t, err, useCase.shell)
		assert.Contains(t, buf.String(), useCase.expect, useCase.shell)
	}
	rootCmd.SetOut(nil)
	rootCmd.SetArgs(nil)
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"completion", "tcsh"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	assert.Error(t, rootCmd.Execute())
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "assetcp "+assetcpVersion+" (pattern file version 1)\n", buf.String())
}
