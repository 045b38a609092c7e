package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteMainPage = `<html><body data-app-data='{"locale":"en","userId":42,"csrf-token":"tok"}'>
<div class="user-link-name">seller42</div></body></html>`

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestAuthSetRequiresGoldenKey(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "auth", "set", "--account", "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a golden key is required")
}

func TestAuthSetRejectsMalformedGoldenKey(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "auth", "set", "--golden-key", "abc def")
	require.Error(t, err)
}

func TestAuthSetThenAccountList(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "auth", "set", "--golden-key", "gk-secret", "--name", "Shop")
	require.NoError(t, err)
	assert.Contains(t, stdout, "golden key stored for account main")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Equal(t, "main\tShop\tunverified\n", stdout)

	accounts, err := os.ReadFile(filepath.Join(home, ".funpay", "accounts.toml"))
	require.NoError(t, err)
	assert.NotContains(t, string(accounts), "gk-secret")
	assert.Contains(t, string(accounts), `secret_ref = "funpay://main/golden_key"`)
}

func TestAuthSetReadsKeyFromStdin(t *testing.T) {
	home := t.TempDir()

	root := newRootCmdForHome(t, home)
	root.SetIn(strings.NewReader("gk-from-stdin\n"))
	root.SetArgs([]string{"auth", "set", "--account", "shop", "--stdin"})
	require.NoError(t, root.Execute())

	stdout, _, err := executeCLI(t, home, "account", "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"ID": "shop"`)
	assert.Contains(t, stdout, `"HasCredential": true`)
}

func TestAccountSelectionIsAmbiguousWithSeveralAccounts(t *testing.T) {
	home := t.TempDir()
	_, _, err := executeCLI(t, home, "auth", "set", "--account", "a", "--golden-key", "k1")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "auth", "set", "--account", "b", "--golden-key", "k2")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "account", "rename", "shop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--account")
}

func TestAccountRenameAndRemove(t *testing.T) {
	home := t.TempDir()
	_, _, err := executeCLI(t, home, "auth", "set", "--golden-key", "k1")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "account", "rename", "Storefront")
	require.NoError(t, err)
	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Storefront")

	_, _, err = executeCLI(t, home, "account", "remove", "--account", "main")
	require.NoError(t, err)
	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestAuthRemoveKeepsAccount(t *testing.T) {
	home := t.TempDir()
	_, _, err := executeCLI(t, home, "auth", "set", "--golden-key", "k1")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "auth", "remove", "--account", "main")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Equal(t, "main\tAccount main\tno key\n", stdout)
}

func TestWhoamiVerifiesAgainstSite(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("golden_key")
		if err != nil || cookie.Value != "gk-secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(siteMainPage))
	}))
	defer site.Close()

	home := t.TempDir()
	t.Setenv("FP_SESSION_BASE_URL", site.URL)
	_, _, err := executeCLI(t, home, "auth", "set", "--golden-key", "gk-secret")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, stdout, "seller42 (main)")
	assert.Contains(t, stdout, "user id: 42")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Equal(t, "main\tAccount main\tverified as seller42\n", stdout)
}

func TestOrdersFollowsPagination(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			_, _ = w.Write([]byte(siteMainPage))
		case r.URL.Path == "/orders/trade" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`<html><body><a class="tc-item info"><div class="tc-order">#A1</div><div class="tc-price">10 $</div></a>
<input type="hidden" name="continue" value="A1"></body></html>`))
		case r.URL.Path == "/orders/trade" && r.Method == http.MethodPost:
			_, _ = w.Write([]byte(`<html><body><a class="tc-item"><div class="tc-order">#A0</div><div class="tc-price">5 $</div></a></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer site.Close()

	home := t.TempDir()
	t.Setenv("FP_SESSION_BASE_URL", site.URL)
	t.Setenv("FP_SESSION_MAX_ATTEMPTS", "1")
	_, _, err := executeCLI(t, home, "auth", "set", "--golden-key", "gk")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "orders")
	require.NoError(t, err)
	assert.Contains(t, stdout, "orders: 2")
	assert.Less(t, strings.Index(stdout, "#A1"), strings.Index(stdout, "#A0"))
}

func TestListenRejectsUnknownSinkAndMode(t *testing.T) {
	home := t.TempDir()
	_, _, err := executeCLI(t, home, "auth", "set", "--golden-key", "gk")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "listen", "--mode", "threaded")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mode")

	_, _, err = executeCLI(t, home, "listen", "--sink", "kafka")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported sink")
}

func TestSendRejectsInvalidChatID(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "send", "abc", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid chat id")
}

func TestUnknownCommandIsRejected(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "pool")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"pool\"")
}

func newRootCmdForHome(t *testing.T, home string) *cobra.Command {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("PASSWORD_STORE_DIR", filepath.Join(home, ".password-store"))
	t.Setenv("FP_GOLDEN_KEY", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmdForHome(t, home)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
