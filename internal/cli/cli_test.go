package cli

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"francoggm/pagseguro-transparente/internal/app/storage"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrderJSON = `{
  "number": 1234,
  "customerName": "Nome",
  "customerEmail": "cliente@email.com",
  "customerPhone": ["21", "99999999"],
  "shippingMethod": "pac",
  "shippingCost": "14.00",
  "discount": "4.00",
  "items": [
    {"sku": "PROD01", "name": "Produto 1", "unitPrice": "40.00", "quantity": 1},
    {"sku": "PROD02", "name": "Produto 2", "unitPrice": "50.00", "quantity": 1}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStatusCmd(t *testing.T) {
	out, err := run(t, "status", "3", "4", "7")

	require.NoError(t, err)
	assert.Equal(t, "3\tpaid\n4\tunknown\n7\tcancelled\n", out)
}

func TestPayloadCmd(t *testing.T) {
	configPath := writeFile(t, "config.yaml", `
app:
  store_id: 8
  public_url: http://localhost:5000
gateway:
  applications:
    pagseguro:
      app_id: app-id
      app_key: app-secret
`)
	orderPath := writeFile(t, "order.json", testOrderJSON)

	out, err := run(t, "payload", orderPath, "--config", configPath, "--next-url", "url-next")
	require.NoError(t, err)

	var rendered map[string]any
	require.NoError(t, sonic.Unmarshal([]byte(out), &rendered))
	assert.Equal(t, "app-id", rendered["appId"])
	assert.Equal(t, "-4.00", rendered["extraAmount"])
	assert.Equal(t, float64(1), rendered["shippingType"])
	assert.Equal(t, "50.00", rendered["itemAmount2"])
	assert.Equal(t, "http://localhost:5000/pagador/meio-pagamento/pstransparente/retorno/8/resultado?next_url=url-next&referencia=1234", rendered["redirectURL"])

	form, err := run(t, "payload", orderPath, "--config", configPath, "--next-url", "url-next", "--form")
	require.NoError(t, err)
	assert.Contains(t, form, "extraAmount=-4.00")
	assert.Contains(t, form, "itemId1=PROD01")
}

func TestPayloadCmd_InvalidOrder(t *testing.T) {
	orderPath := writeFile(t, "order.json", `{"number": 1, "customerPhone": ["21"], "items": [{"sku": "A"}]}`)

	_, err := run(t, "payload", orderPath)

	assert.ErrorContains(t, err, "customer phone")
}

func TestSearchCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/transactions", r.URL.Path)
		assert.Equal(t, "2024-01-01T00:00", r.URL.Query().Get("initialDate"))
		_, _ = io.WriteString(w, `<transactionSearchResult><currentPage>1</currentPage><totalPages>1</totalPages><transactions>
<transaction><reference>1001</reference><status>3</status></transaction>
</transactions></transactionSearchResult>`)
	}))
	t.Cleanup(srv.Close)

	configPath := writeFile(t, "config.yaml", `
app:
  store_id: 8
gateway:
  ws_base_url: `+srv.URL+`
  authorization_code: AUTH
  applications:
    pagseguro:
      app_id: app-id
      app_key: app-secret
`)

	out, err := run(t, "search", "--config", configPath, "--initial", "2024-01-01T00:00")

	require.NoError(t, err)
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "paid")
	assert.Contains(t, out, "page 1 of 1")
}

func TestSearchCmd_RequiresCredentials(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "app:\n  store_id: 8\n")

	_, err := run(t, "search", "--config", configPath)

	assert.ErrorContains(t, err, "credentials")
}

func TestWatchCmd(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	configPath := writeFile(t, "config.yaml", "cache:\n  host: "+host+"\n  port: \""+port+"\"\n")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"watch", "1234", "--config", configPath, "--count", "1"})

	done := make(chan error, 1)
	go func() { done <- cmd.Execute() }()

	channel := storage.StatusChannel(1234)
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(channel)[channel] == 1
	}, 2*time.Second, 5*time.Millisecond)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	_, err = storage.NewStorageService(rdb).ApplyDelta(context.Background(), 1234,
		models.PaymentDelta{TransactionID: "code-id", Status: models.StatusPaid})
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return")
	}
	assert.Contains(t, out.String(), "unknown -> paid\tcode-id")
}

func TestWatchCmd_InvalidOrderNumber(t *testing.T) {
	_, err := run(t, "watch", "pedido")

	assert.ErrorContains(t, err, "invalid order number")
}
