package handler

import (
	"github.com/gofiber/fiber/v2"
)

// embedScript is the browser-side gate. Host pages load it with a
// data-key attribute; the dashboard origin defaults to the script's own
// origin. It checks the lock state exactly once per page load and fails
// open on missing configuration, network failure or a malformed payload.
const embedScript = `(function () {
  "use strict";

  var script = document.currentScript;
  if (!script) {
    return;
  }

  var key = script.getAttribute("data-key");
  var dashboard = script.getAttribute("data-dashboard");
  if (!dashboard && script.src) {
    try {
      dashboard = new URL(script.src).origin;
    } catch (e) {
      dashboard = "";
    }
  }

  if (!key || !dashboard) {
    console.warn("[site-lock] Missing data-key or data-dashboard");
    return;
  }

  var message = script.getAttribute("data-message") || "ACCESS RESTRICTED";
  var subtitle =
    script.getAttribute("data-subtitle") ||
    "Please contact the site administrator.";

  fetch(dashboard + "/api/check-status?key=" + encodeURIComponent(key))
    .then(function (response) {
      return response.json();
    })
    .then(function (data) {
      if (data && data.locked === true) {
        whenReady(render);
      }
    })
    .catch(function (error) {
      // Fail open: a monitoring outage must not brick the host site.
      console.error("[site-lock] Failed to check status:", error);
    });

  function whenReady(fn) {
    if (document.body) {
      fn();
    } else {
      document.addEventListener("DOMContentLoaded", fn);
    }
  }

  function render() {
    var style = document.createElement("style");
    style.textContent =
      "@keyframes siteLockPulse {" +
      "0%, 100% { opacity: 1; transform: scale(1); }" +
      "50% { opacity: 0.5; transform: scale(1.2); }" +
      "}";
    document.head.appendChild(style);

    var overlay = document.createElement("div");
    overlay.style.cssText =
      "position:fixed;top:0;left:0;right:0;bottom:0;width:100vw;height:100vh;" +
      "z-index:999999;background-color:rgba(0,0,0,0.95);" +
      "backdrop-filter:blur(20px);-webkit-backdrop-filter:blur(20px);" +
      "display:flex;flex-direction:column;align-items:center;justify-content:center;" +
      "font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;" +
      "color:#ffffff;user-select:none;";

    var indicator = document.createElement("div");
    indicator.style.cssText =
      "width:12px;height:12px;border-radius:50%;background-color:#ef4444;" +
      "margin-bottom:32px;animation:siteLockPulse 2s ease-in-out infinite;";

    var headline = document.createElement("h1");
    headline.textContent = message;
    headline.style.cssText =
      "font-size:clamp(2rem,8vw,4rem);font-weight:600;letter-spacing:-0.02em;" +
      "margin:0;text-align:center;padding:0 24px;";

    var sub = document.createElement("p");
    sub.textContent = subtitle;
    sub.style.cssText =
      "font-size:clamp(0.875rem,2vw,1.125rem);color:rgba(255,255,255,0.6);" +
      "margin-top:16px;text-align:center;padding:0 24px;";

    overlay.appendChild(indicator);
    overlay.appendChild(headline);
    overlay.appendChild(sub);
    document.body.appendChild(overlay);
  }
})();
`

// HandleEmbedScript serves the gate script for third-party sites.
func HandleEmbedScript(c *fiber.Ctx) error {
	setCORSHeaders(c)
	c.Set("Content-Type", "application/javascript; charset=utf-8")
	c.Set("Cache-Control", "public, max-age=300")
	return c.SendString(embedScript)
}
