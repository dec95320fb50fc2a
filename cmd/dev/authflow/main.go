package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"shopauth/pkg/config"
)

// Drives the oauth flow against a locally running API: mints a fresh state
// via /v1/auth/install, optionally replays the callback with a real
// authorization code, then lists the registered shops.
func main() {
	var (
		baseURL = flag.String("base-url", "", "local api base url (defaults to http://localhost<PORT>)")
		code    = flag.String("code", "", "authorization code to replay against the callback (optional)")
		apiKey  = flag.String("api-key", "", "service api key for /v1/shops (defaults to SERVICE_API_KEY)")
	)
	flag.Parse()

	cfg := config.Load()
	if *baseURL == "" {
		*baseURL = defaultBaseURL(cfg.HTTPAddr)
	}
	if *apiKey == "" {
		*apiKey = cfg.ServiceAPIKey
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Keep the 302 so we can read the consent url instead of
			// following it to the platform.
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(*baseURL + "/v1/auth/install")
	if err != nil {
		fmt.Fprintf(os.Stderr, "install: %v\n", err)
		fmt.Fprintf(os.Stderr, "tip: is the API running, and is PORT set correctly? base_url=%s\n", *baseURL)
		os.Exit(1)
	}
	defer resp.Body.Close()
	loc := resp.Header.Get("Location")
	if resp.StatusCode != http.StatusFound || loc == "" {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "install status=%d body=%s\n", resp.StatusCode, string(b))
		os.Exit(1)
	}

	u, err := url.Parse(loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse consent url: %v\n", err)
		os.Exit(1)
	}
	state := u.Query().Get("state")

	fmt.Printf("consent_url=%s\n", loc)
	fmt.Printf("state=%s\n", state)

	if *code == "" {
		fmt.Printf("\nNext steps:\n")
		fmt.Printf("- Open the consent url in a browser and approve the app.\n")
		fmt.Printf("- The platform redirects to %s/v1/auth/callback?code=...&state=...\n", strings.TrimRight(cfg.PublicBaseURL, "/"))
		fmt.Printf("- Or re-run with -code <auth_code> to replay the callback using the state above.\n")
		return
	}

	cb := *baseURL + "/v1/auth/callback?code=" + url.QueryEscape(*code) + "&state=" + url.QueryEscape(state)
	cbResp, err := client.Get(cb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "callback: %v\n", err)
		os.Exit(1)
	}
	defer cbResp.Body.Close()
	cbBody, _ := io.ReadAll(cbResp.Body)
	if cbResp.StatusCode < 200 || cbResp.StatusCode >= 300 {
		fmt.Fprintf(os.Stderr, "callback status=%d body=%s\n", cbResp.StatusCode, string(cbBody))
		os.Exit(1)
	}
	fmt.Printf("callback ok: %s\n", strings.TrimSpace(string(cbBody)))

	req, err := http.NewRequest(http.MethodGet, *baseURL+"/v1/shops", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new request: %v\n", err)
		os.Exit(1)
	}
	if *apiKey != "" {
		req.Header.Set("X-Api-Key", *apiKey)
	}
	listResp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "list shops: %v\n", err)
		os.Exit(1)
	}
	defer listResp.Body.Close()

	var out struct {
		Shops []struct {
			ShopID   string `json:"shopId"`
			ShopName string `json:"shopName"`
			Region   string `json:"region"`
			Status   string `json:"status"`
		} `json:"shops"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&out); err != nil {
		fmt.Fprintf(os.Stderr, "decode shops: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("shops:\n")
	for _, s := range out.Shops {
		fmt.Printf("  - shop_id=%s name=%q region=%s status=%s\n", s.ShopID, s.ShopName, s.Region, s.Status)
	}
}

func defaultBaseURL(httpAddr string) string {
	// httpAddr is typically ":8080" or "0.0.0.0:8080".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		return "http://localhost:8080"
	}
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	if strings.HasPrefix(addr, "0.0.0.0:") {
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	}
	return "http://" + addr
}
