package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"estate_addendum/internal/app/service"
	"estate_addendum/internal/infrastructure/configloader"
	networkdefinition "estate_addendum/internal/infrastructure/network/definition"

	"github.com/gin-gonic/gin"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}

func testSessionRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	networks, err := networkdefinition.NewRegistry(
		[]configloader.NetworkConfig{{ID: "ethereum"}}, nopLogger{})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	handler := NewSessionHandler(service.NewSessionRegistry(nopLogger{}), networks)

	router := gin.New()
	router.POST("/sessions", handler.ConnectHandler)
	router.GET("/sessions", handler.ListHandler)
	return router
}

// A connect event carrying a wei balance comes back with the balance
// rendered in display units.
func TestConnectHandler_FormatsNativeBalance(t *testing.T) {
	router := testSessionRouter(t)

	body := `{"connectorName":"metamask","address":"0xAbCdEF0000000000000000000000000000000001","chainId":1,"nativeBalance":"1500000000000000000"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Session struct {
			SessionKey    string `json:"sessionKey"`
			NativeBalance string `json:"nativeBalance"`
		} `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Session.NativeBalance != "1.5" {
		t.Errorf("native balance: got %q, want 1.5", resp.Session.NativeBalance)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	var list struct {
		Sessions []struct {
			NativeBalance string `json:"nativeBalance"`
		} `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Sessions) != 1 || list.Sessions[0].NativeBalance != "1.5" {
		t.Errorf("unexpected session list: %s", rec.Body.String())
	}
}

// An event without a balance must not invent one.
func TestConnectHandler_OmitsUnknownBalance(t *testing.T) {
	router := testSessionRouter(t)

	body := `{"connectorName":"metamask","address":"0xAbCdEF0000000000000000000000000000000001","chainId":1}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), `"nativeBalance"`) {
		t.Errorf("balance must be omitted when unknown: %s", rec.Body.String())
	}
}
