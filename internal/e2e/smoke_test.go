package e2e

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mainPage = `<html><body data-app-data='{"locale":"en","userId":42,"csrf-token":"tok"}'>
<div class="user-link-name">seller42</div></body></html>`

const chatsFragment = `<a class="contact-item unread" data-id="7" data-node-msg="31" data-user-msg="30">
<div class="media-user-name">buyer</div><div class="contact-item-message">is it available?</div></a>`

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	site := httptest.NewServer(fakeSite())
	defer site.Close()

	_, stderr, err := runFP(t, binaryPath, home, site.URL, "auth", "set", "--golden-key", "gk-test")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err := runFP(t, binaryPath, home, site.URL, "whoami")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "seller42 (main)")

	stdout, stderr, err = runFP(t, binaryPath, home, site.URL, "chats")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "is it available?")
}

func TestListenStreamsJSONEvents(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	site := httptest.NewServer(fakeSite())
	defer site.Close()

	_, stderr, err := runFP(t, binaryPath, home, site.URL, "auth", "set", "--golden-key", "gk-test")
	require.NoError(t, err, "stderr: %s", stderr)

	cmd := exec.Command(binaryPath, "listen", "--sink", "json", "--emit-initial", "--mode", "concurrent")
	cmd.Env = environ(home, site.URL)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	var listenStderr bytes.Buffer
	cmd.Stderr = &listenStderr
	require.NoError(t, cmd.Start())

	lines := make(chan string, 4)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	select {
	case line := <-lines:
		var envelope struct {
			Kind string `json:"kind"`
			Seq  uint64 `json:"seq"`
			Chat *struct {
				ID int64 `json:"id"`
			} `json:"chat"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &envelope), line)
		assert.Equal(t, "initial_chat", envelope.Kind)
		assert.Equal(t, uint64(1), envelope.Seq)
		require.NotNil(t, envelope.Chat)
		assert.Equal(t, int64(7), envelope.Chat.ID)
	case <-time.After(30 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatalf("no event received, stderr: %s", listenStderr.String())
	}

	require.NoError(t, cmd.Process.Signal(os.Interrupt))
	for range lines {
	}
	require.NoError(t, cmd.Wait(), "stderr: %s", listenStderr.String())
}

func fakeSite() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			_, _ = w.Write([]byte(mainPage))
		case r.URL.Path == "/runner/":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"objects":  []map[string]any{{"type": "chat_bookmarks", "data": map[string]any{"html": chatsFragment}}},
				"response": false,
			})
		case r.URL.Path == "/orders/trade":
			_, _ = w.Write([]byte(`<html><body><a class="tc-item info"><div class="tc-order">#A1</div><div class="tc-price">10 $</div></a></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "fp-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/fp")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build fp binary: %s", string(output))
	return binaryPath
}

func environ(home, siteURL string) []string {
	return append(os.Environ(),
		"HOME="+home,
		"PASSWORD_STORE_DIR="+filepath.Join(home, ".password-store"),
		"FP_SESSION_BASE_URL="+siteURL,
		"FP_SESSION_MAX_ATTEMPTS=1",
		"FP_LOG_LEVEL=warn",
	)
}

func runFP(t *testing.T, binaryPath, home, siteURL string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = environ(home, siteURL)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
