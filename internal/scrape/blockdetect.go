package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockRobotPage  BlockType = "robot_page"
)

// DetectBlock checks a fetched page for signs of anti-bot protection. The
// club site serves an interstitial mentioning robots or a captcha challenge
// instead of a hard error status, so the body is inspected as well as the
// response metadata.
func DetectBlock(statusCode int, header http.Header, body []byte) (bool, BlockType) {
	// Cloudflare: 403/503 with cf-* headers.
	if statusCode == 403 || statusCode == 503 {
		if header.Get("cf-ray") != "" || header.Get("cf-cache-status") != "" {
			return true, BlockCloudflare
		}
		if header.Get("server") == "cloudflare" {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	// Cloudflare challenge page markers.
	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") {
		return true, BlockCloudflare
	}

	// Captcha markers.
	if strings.Contains(lower, "captcha") ||
		strings.Contains(lower, "recaptcha") ||
		strings.Contains(lower, "hcaptcha") {
		return true, BlockCaptcha
	}

	// Interstitial "are you a robot" page.
	if strings.Contains(lower, "robot") {
		return true, BlockRobotPage
	}

	return false, BlockNone
}
