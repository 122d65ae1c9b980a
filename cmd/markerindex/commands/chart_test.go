package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/markerindex/cmd/markerindex/commands"
)

const chartTestSource = `package sample

type Thing struct{}

func DoSomething() int {
	return 1
}
`

func TestChartCommand_WritesHTMLFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.go")
	outputPath := filepath.Join(dir, "chart.html")
	require.NoError(t, os.WriteFile(inputPath, []byte(chartTestSource), 0o600))

	cmd := commands.NewChartCommand()
	cmd.SetArgs([]string{inputPath, "--output", outputPath})

	err := cmd.Execute()
	require.NoError(t, err)

	data, readErr := os.ReadFile(outputPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "<html>")
}

func TestChartCommand_MissingOutputFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "sample.go")
	require.NoError(t, os.WriteFile(inputPath, []byte(chartTestSource), 0o600))

	cmd := commands.NewChartCommand()
	cmd.SetArgs([]string{inputPath})

	err := cmd.Execute()
	require.Error(t, err)
}
