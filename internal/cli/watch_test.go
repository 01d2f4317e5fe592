package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/botforge"
	"github.com/aretw0/botforge/internal/cli"
	"github.com/aretw0/botforge/internal/config"
	"github.com/aretw0/botforge/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWatch_RegeneratesOnChange(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectYAML)
	out := filepath.Join(dir, "bot.py")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var report bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- cli.RunWatch(ctx, botforge.New(), config.Default(), cli.GenerateOptions{
			ProjectPath: path,
			OutPath:     out,
			ReportOut:   &report,
		}, logging.NewNop())
	}()

	readOut := func() string {
		data, _ := os.ReadFile(out)
		return string(data)
	}
	require.Eventually(t, func() bool {
		return strings.Contains(readOut(), `"Info"`)
	}, 5*time.Second, 20*time.Millisecond)

	updated := strings.Replace(projectYAML, "messageText: Info", "messageText: Updated", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		return strings.Contains(readOut(), `"Updated"`)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.Contains(t, report.String(), "Change detected")
}

func TestRunWatch_KeepsLastProgramOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeProject(t, dir, projectYAML)
	out := filepath.Join(dir, "bot.py")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- cli.RunWatch(ctx, botforge.New(), config.Default(), cli.GenerateOptions{
			ProjectPath: path,
			OutPath:     out,
			ReportOut:   &bytes.Buffer{},
		}, logging.NewNop())
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat(out)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
	good, err := os.ReadFile(out)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(brokenYAML), 0o644))
	time.Sleep(500 * time.Millisecond)

	after, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, string(good), string(after))

	cancel()
	<-done
}
