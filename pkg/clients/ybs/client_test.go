package ybs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopmetrics/ybscontrol/internal/config"
)

func portalServer(t *testing.T, loginBody string) (*httptest.Server, config.PortalConfig) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/index.php", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		if r.PostFormValue("action") != "signin" {
			http.Error(w, "missing action", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(loginBody))
	})
	mux.HandleFunc("/manage.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<tbody id='table'></tbody>"))
	})
	mux.HandleFunc("/queue.html", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<tbody></tbody>"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, config.PortalConfig{
		LoginURL:  srv.URL + "/index.php",
		OrdersURL: srv.URL + "/manage.html",
		QueueURL:  srv.URL + "/queue.html",
		Username:  "operator@example.com",
		Password:  "secret",
	}
}

func TestLoginDetectsSession(t *testing.T) {
	_, cfg := portalServer(t, `<html><a href="/logout">Logout</a></html>`)
	client := NewClient(cfg)

	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestLoginRejectedWithoutSessionMarkers(t *testing.T) {
	_, cfg := portalServer(t, `<html>Invalid email or password</html>`)
	client := NewClient(cfg)

	err := client.Login(context.Background())
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("err = %v, want ErrLoginFailed", err)
	}
}

func TestFetchPages(t *testing.T) {
	_, cfg := portalServer(t, `<html><a href="/logout">Logout</a></html>`)
	client := NewClient(cfg)

	pages, err := client.FetchPages(context.Background())
	if err != nil {
		t.Fatalf("FetchPages: %v", err)
	}
	if pages.OrdersHTML == "" || pages.QueueHTML == "" {
		t.Fatalf("pages = %+v, want both documents populated", pages)
	}
}
