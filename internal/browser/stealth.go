package browser

// Launch flags that strip the usual automation tells from Chromium.
var launchArgs = []string{
	"--disable-gpu",
	"--disable-dev-shm-usage",
	"--disable-setuid-sandbox",
	"--no-sandbox",
	"--disable-web-security",
	"--disable-features=IsolateOrigins,site-per-process",
	"--disable-blink-features=AutomationControlled",
	"--disable-extensions",
	"--disable-default-apps",
	"--disable-popup-blocking",
	"--disable-notifications",
	"--disable-background-networking",
	"--disable-background-timer-throttling",
	"--disable-backgrounding-occluded-windows",
	"--disable-breakpad",
	"--disable-component-extensions-with-background-pages",
	"--disable-features=TranslateUI,BlinkGenPropertyTrees",
	"--disable-ipc-flooding-protection",
	"--disable-renderer-backgrounding",
	"--enable-features=NetworkService,NetworkServiceInProcess",
	"--force-color-profile=srgb",
	"--metrics-recording-only",
	"--mute-audio",
	"--window-size=1920,1080",
	"--start-maximized",
}

// Modern desktop user agents; each context draws one at random.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2.1 Safari/605.1.15",
}

// stealthInitScript runs before any page script in a fresh context and
// rewrites the navigator properties that betray an automated origin.
const stealthInitScript = `
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined
});
Object.defineProperty(navigator, 'plugins', {
    get: () => [1, 2, 3, 4, 5]
});
Object.defineProperty(navigator, 'languages', {
    get: () => ['en-US', 'en']
});
Object.defineProperty(navigator, 'platform', {
    get: () => 'Win32'
});
Object.defineProperty(navigator, 'hardwareConcurrency', {
    get: () => 8
});
Object.defineProperty(navigator, 'deviceMemory', {
    get: () => 8
});
Object.defineProperty(navigator, 'maxTouchPoints', {
    get: () => 0
});
Object.defineProperty(navigator, 'vendor', {
    get: () => 'Google Inc.'
});
Object.defineProperty(navigator, 'appVersion', {
    get: () => '5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36'
});
Object.defineProperty(navigator, 'appName', {
    get: () => 'Netscape'
});
Object.defineProperty(navigator, 'appCodeName', {
    get: () => 'Mozilla'
});
Object.defineProperty(navigator, 'product', {
    get: () => 'Gecko'
});
Object.defineProperty(navigator, 'productSub', {
    get: () => '20030107'
});
Object.defineProperty(navigator, 'oscpu', {
    get: () => undefined
});
Object.defineProperty(navigator, 'buildID', {
    get: () => undefined
});
Object.defineProperty(navigator, 'doNotTrack', {
    get: () => null
});
Object.defineProperty(navigator, 'cookieEnabled', {
    get: () => true
});
Object.defineProperty(navigator, 'onLine', {
    get: () => true
});
Object.defineProperty(navigator, 'serviceWorker', {
    get: () => undefined
});
Object.defineProperty(navigator, 'connection', {
    get: () => ({
        effectiveType: '4g',
        rtt: 50,
        downlink: 10,
        saveData: false
    })
});
`

// stealthHeaders returns the realistic header set applied to a page before
// navigation when stealth mode is on.
func stealthHeaders() map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Accept-Encoding":           "gzip, deflate, br",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
		"Cache-Control":             "max-age=0",
		"DNT":                       "1",
		"Sec-Ch-Ua":                 `"Not A(Brand";v="99", "Google Chrome";v="121", "Chromium";v="121"`,
		"Sec-Ch-Ua-Mobile":          "?0",
		"Sec-Ch-Ua-Platform":        `"Windows"`,
	}
}
