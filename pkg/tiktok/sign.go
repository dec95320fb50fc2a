package tiktok

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Params holds the query parameters of a platform call. Values may be any
// string-convertible type; nil values are treated as absent and skipped.
type Params map[string]any

// Sign computes the request signature the platform verifies: path, then every
// non-nil parameter as key immediately followed by its value in ascending key
// order with no separators, then the raw body if present; HMAC-SHA256 keyed
// with secret, lowercase hex.
//
// Inputs are not validated. The platform accepts exactly this
// canonicalization, so stringification must stay byte-stable across calls.
func Sign(secret, path string, params Params, body []byte) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(stringify(params[k]))
	}
	if body != nil {
		b.Write(body)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedParams builds the full outbound parameter set for a platform call:
// app_key, a fresh Unix timestamp, the caller's params, access_token and
// shop_id when non-empty, and the computed sign over the whole set.
//
// The timestamp comes from now, so calls in different seconds sign
// differently and a captured request cannot be replayed indefinitely.
func SignedParams(appKey, appSecret, path string, params Params, accessToken, shopID string, now time.Time) Params {
	return signRequest(appKey, appSecret, path, params, accessToken, shopID, nil, now)
}

func signRequest(appKey, appSecret, path string, params Params, accessToken, shopID string, body []byte, now time.Time) Params {
	full := Params{
		"app_key":   appKey,
		"timestamp": strconv.FormatInt(now.Unix(), 10),
	}
	for k, v := range params {
		full[k] = v
	}
	if accessToken != "" {
		full["access_token"] = accessToken
	}
	if shopID != "" {
		full["shop_id"] = shopID
	}
	full["sign"] = Sign(appSecret, path, full, body)
	return full
}

// Values renders p as url.Values using the same stringification the signature
// was computed over, so the wire form matches the signed form exactly.
func (p Params) Values() url.Values {
	vals := make(url.Values, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		vals.Set(k, stringify(v))
	}
	return vals
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
