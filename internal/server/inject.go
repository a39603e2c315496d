// Package server provides the theme preview server: demo paginated routes
// rendered through the pagination package, with live reload when view or
// locale files change.
package server

import (
	"bytes"
	"fmt"
	"regexp"
)

// wsPath is where the live reload WebSocket is served.
const wsPath = "/__pagelinks/ws"

// liveReloadScript reloads the page when the server broadcasts "reload".
// The first verb is the nonce, the second the WebSocket path.
const liveReloadScript = `<script nonce="%s">
(function() {
  var url = "ws://" + location.host + "%s";
  function connect() {
    var ws = new WebSocket(url);
    ws.onmessage = function(e) {
      if (e.data === "reload") {
        location.reload();
      }
    };
    ws.onclose = function() {
      setTimeout(connect, 1000);
    };
  }
  connect();
})();
</script>`

// InjectLiveReload inserts the live reload script immediately before the
// last </body>, or appends it when the document has none.
func InjectLiveReload(html []byte, nonce string) []byte {
	script := fmt.Appendf(nil, liveReloadScript, nonce, wsPath)

	idx := bytes.LastIndex(html, []byte("</body>"))
	if idx == -1 {
		return append(html, script...)
	}

	result := make([]byte, 0, len(html)+len(script))
	result = append(result, html[:idx]...)
	result = append(result, script...)
	result = append(result, html[idx:]...)
	return result
}

// scriptTagRe matches opening <script ...> tags (including the closing >).
var scriptTagRe = regexp.MustCompile(`(?i)<script([^>]*)>`)

// InjectScriptNonces adds a nonce attribute to inline JavaScript <script>
// tags that have neither a src nor a nonce. User themes may ship such
// scripts.
func InjectScriptNonces(html []byte, nonce string) []byte {
	nonceAttr := fmt.Appendf(nil, ` nonce="%s"`, nonce)
	return scriptTagRe.ReplaceAllFunc(html, func(match []byte) []byte {
		lower := bytes.ToLower(match)
		if bytes.Contains(lower, []byte("src=")) || bytes.Contains(lower, []byte("nonce=")) {
			return match
		}
		if bytes.Contains(lower, []byte("type=")) &&
			!bytes.Contains(lower, []byte("text/javascript")) &&
			!bytes.Contains(lower, []byte("module")) {
			return match
		}
		insertPos := len("<script")
		result := make([]byte, 0, len(match)+len(nonceAttr))
		result = append(result, match[:insertPos]...)
		result = append(result, nonceAttr...)
		result = append(result, match[insertPos:]...)
		return result
	})
}
