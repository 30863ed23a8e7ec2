package gate

import (
	"fmt"
	"html"
)

// OverlayHTML renders the blocking overlay for server-rendered host
// pages. The markup covers the full viewport at top z-order with no
// escape affordance.
func (g *Gate) OverlayHTML() string {
	return fmt.Sprintf(overlayTemplate,
		html.EscapeString(g.cfg.Message),
		html.EscapeString(g.cfg.Subtitle),
	)
}

const overlayTemplate = `<div style="position:fixed;top:0;left:0;right:0;bottom:0;width:100vw;height:100vh;z-index:999999;background-color:rgba(0,0,0,0.95);backdrop-filter:blur(20px);-webkit-backdrop-filter:blur(20px);display:flex;flex-direction:column;align-items:center;justify-content:center;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;color:#ffffff;user-select:none;">
  <div style="width:12px;height:12px;border-radius:50%%;background-color:#ef4444;margin-bottom:32px;animation:siteLockPulse 2s ease-in-out infinite;"></div>
  <h1 style="font-size:clamp(2rem,8vw,4rem);font-weight:600;letter-spacing:-0.02em;margin:0;text-align:center;padding:0 24px;">%s</h1>
  <p style="font-size:clamp(0.875rem,2vw,1.125rem);color:rgba(255,255,255,0.6);margin-top:16px;text-align:center;padding:0 24px;">%s</p>
  <style>@keyframes siteLockPulse{0%%,100%%{opacity:1;transform:scale(1)}50%%{opacity:0.5;transform:scale(1.2)}}</style>
</div>`
