package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"shopauth/pkg/tiktok"
)

type paramList []string

func (p *paramList) String() string { return strings.Join(*p, ",") }

func (p *paramList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

// Computes request signatures for manual checks against the platform's
// signature examples, either the bare hex digest or the full signed
// parameter set the client would send.
func main() {
	var params paramList
	var (
		secret      = flag.String("secret", "", "app secret used as the hmac key")
		path        = flag.String("path", "", "request path, e.g. /api/products/search")
		bodyFile    = flag.String("body", "", "path to a json body file signed alongside the params (optional)")
		full        = flag.Bool("full", false, "print the full signed query string instead of just the signature")
		appKey      = flag.String("app-key", "", "app key (-full only)")
		accessToken = flag.String("access-token", "", "access token (-full only, optional)")
		shopID      = flag.String("shop-id", "", "shop id (-full only, optional)")
	)
	flag.Var(&params, "param", "query parameter as key=value (repeatable)")
	flag.Parse()

	if *secret == "" {
		fmt.Fprintln(os.Stderr, "missing -secret")
		os.Exit(2)
	}
	if *path == "" {
		fmt.Fprintln(os.Stderr, "missing -path")
		os.Exit(2)
	}

	p := tiktok.Params{}
	for _, kv := range params {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			fmt.Fprintf(os.Stderr, "bad -param %q, want key=value\n", kv)
			os.Exit(2)
		}
		p[k] = v
	}

	var body []byte
	if *bodyFile != "" {
		b, err := os.ReadFile(*bodyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read body: %v\n", err)
			os.Exit(2)
		}
		body = b
	}

	if *full {
		if *appKey == "" {
			fmt.Fprintln(os.Stderr, "missing -app-key")
			os.Exit(2)
		}
		signed := tiktok.SignedParams(*appKey, *secret, *path, p, *accessToken, *shopID, time.Now())
		if body != nil {
			delete(signed, "sign")
			signed["sign"] = tiktok.Sign(*secret, *path, signed, body)
		}
		fmt.Println(signed.Values().Encode())
		return
	}

	fmt.Println(tiktok.Sign(*secret, *path, p, body))
}
