package tiktok

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// HMAC-SHA256("s3cr3t", "/api/products/searchqshoe"), computed out of band.
const pinnedSearchSign = "955deccdc5d89c4a3cbfa001d57a31f00cfb92312b40d7d4af12cf454145064f"

func TestSign_PinnedVector(t *testing.T) {
	got := Sign("s3cr3t", "/api/products/search", Params{"q": "shoe"}, nil)
	if got != pinnedSearchSign {
		t.Fatalf("sign mismatch: got %s want %s", got, pinnedSearchSign)
	}
}

func TestSign_Deterministic(t *testing.T) {
	p := Params{"q": "shoe", "page_size": "20"}
	first := Sign("s3cr3t", "/api/products/search", p, nil)
	for i := 0; i < 5; i++ {
		if got := Sign("s3cr3t", "/api/products/search", p, nil); got != first {
			t.Fatalf("signature not stable: %s vs %s", got, first)
		}
	}
	if len(first) != 64 {
		t.Fatalf("want 64 hex chars, got %d", len(first))
	}
}

func TestSign_KeyOrderCanonicalized(t *testing.T) {
	a := Sign("s3cr3t", "/api/products/search", Params{"b": "2", "a": "1"}, nil)
	b := Sign("s3cr3t", "/api/products/search", Params{"a": "1", "b": "2"}, nil)
	if a != b {
		t.Fatalf("order-dependent signature: %s vs %s", a, b)
	}

	// Base string: /api/products/searchapp_keyabc123qshoetimestamp1700000000
	got := Sign("s3cr3t", "/api/products/search", Params{
		"q":         "shoe",
		"app_key":   "abc123",
		"timestamp": "1700000000",
	}, nil)
	const want = "8aa4197012d349c6b3d83839041e3167bf00dcb4ab416b19b5584ab79cf55675"
	if got != want {
		t.Fatalf("sorted-key sign mismatch: got %s want %s", got, want)
	}
}

func TestSign_NilValueSkipped(t *testing.T) {
	withNil := Sign("s3cr3t", "/api/products/search", Params{"q": "shoe", "page_token": nil}, nil)
	without := Sign("s3cr3t", "/api/products/search", Params{"q": "shoe"}, nil)
	if withNil != without {
		t.Fatalf("nil value affected signature: %s vs %s", withNil, without)
	}
	if withNil != pinnedSearchSign {
		t.Fatalf("sign mismatch: got %s want %s", withNil, pinnedSearchSign)
	}
}

func TestSign_BodyChangesSignature(t *testing.T) {
	noBody := Sign("s3cr3t", "/api/products/search", Params{"q": "shoe"}, nil)
	withBody := Sign("s3cr3t", "/api/products/search", Params{"q": "shoe"}, []byte(`{"page":1}`))
	if noBody == withBody {
		t.Fatalf("body not part of signature: %s", noBody)
	}

	// Base string: /api/products/searchqshoe{"page":1}
	const want = "5c2c96fc85707d017adeebd30924b395da66a513f7e6287713308be2e9a6218a"
	if withBody != want {
		t.Fatalf("body sign mismatch: got %s want %s", withBody, want)
	}
}

func TestSign_StringifiesConsistently(t *testing.T) {
	typed := Sign("s3cr3t", "/api/products/search", Params{
		"page_size":   20,
		"is_active":   true,
		"price_floor": decimal.RequireFromString("19.90"),
	}, nil)
	strung := Sign("s3cr3t", "/api/products/search", Params{
		"page_size":   "20",
		"is_active":   "true",
		"price_floor": "19.90",
	}, nil)
	if typed != strung {
		t.Fatalf("typed values stringify differently: %s vs %s", typed, strung)
	}
}

func TestSignedParams_BuildsFullSet(t *testing.T) {
	now := time.Unix(1700000000, 0)

	full := SignedParams("ak", "sek", "/api/products/search", Params{"q": "shoe"}, "tok", "7000001", now)

	if full["app_key"] != "ak" {
		t.Fatalf("app_key missing: %v", full)
	}
	if full["timestamp"] != "1700000000" {
		t.Fatalf("timestamp mismatch: %v", full["timestamp"])
	}
	if full["q"] != "shoe" {
		t.Fatalf("caller params not merged: %v", full)
	}
	if full["access_token"] != "tok" || full["shop_id"] != "7000001" {
		t.Fatalf("conditional params missing: %v", full)
	}

	// The sign must cover everything else in the set.
	rest := Params{}
	for k, v := range full {
		if k == "sign" {
			continue
		}
		rest[k] = v
	}
	if want := Sign("sek", "/api/products/search", rest, nil); full["sign"] != want {
		t.Fatalf("sign mismatch: got %v want %s", full["sign"], want)
	}
}

func TestSignedParams_OmitsEmptyTokenAndShop(t *testing.T) {
	now := time.Unix(1700000000, 0)

	full := SignedParams("ak", "sek", "/api/v2/token/get", Params{"auth_code": "c0de"}, "", "", now)
	if _, ok := full["access_token"]; ok {
		t.Fatalf("access_token should be absent: %v", full)
	}
	if _, ok := full["shop_id"]; ok {
		t.Fatalf("shop_id should be absent: %v", full)
	}
}

func TestSignedParams_FreshTimestampChangesSign(t *testing.T) {
	now := time.Unix(1700000000, 0)

	a := SignedParams("ak", "sek", "/api/products/search", Params{"q": "shoe"}, "", "", now)
	b := SignedParams("ak", "sek", "/api/products/search", Params{"q": "shoe"}, "", "", now.Add(time.Second))
	if a["sign"] == b["sign"] {
		t.Fatalf("sign did not change across seconds: %v", a["sign"])
	}
}

func TestParamsValues_MatchesStringification(t *testing.T) {
	p := Params{"page_size": 20, "q": "shoe", "cursor": nil}
	vals := p.Values()
	if vals.Get("page_size") != "20" || vals.Get("q") != "shoe" {
		t.Fatalf("unexpected values: %v", vals)
	}
	if _, ok := vals["cursor"]; ok {
		t.Fatalf("nil param leaked onto the wire: %v", vals)
	}
}
