package interactions

import (
	"encoding/json"
	"strings"
)

// bridgeTemplate is injected into each rendered page. It only posts messages to the
// host and removes itself when the page is hidden, so two mounted pages never share it.
const bridgeTemplate = `(function () {
  var slideId = __SLIDE_ID__;
  function send(capability, payload) {
    window.parent.postMessage({ type: "studio-bridge", version: "__VERSION__", slideId: slideId, capability: capability, payload: payload }, "*");
  }
  window.StudioBridge = Object.freeze({
    version: "__VERSION__",
    track: function (itemId, action, targetUrl) {
      var payload = { itemId: String(itemId), action: String(action) };
      if (targetUrl) { payload.targetUrl = String(targetUrl); }
      send("track", payload);
    },
    sendQuickReply: function (text) { send("sendQuickReply", { text: String(text) }); },
    sendMessage: function (text) { send("sendMessage", { text: String(text) }); }
  });
  window.addEventListener("pagehide", function () { delete window.StudioBridge; }, { once: true });
})();
`

// hostTemplate runs in the page that frames rendered slides and forwards bridge messages to the server
const hostTemplate = `(function () {
  window.addEventListener("message", function (event) {
    var msg = event.data;
    if (!msg || msg.type !== "studio-bridge" || msg.version !== "__VERSION__" || !msg.slideId) { return; }
    fetch("__API_BASE__/slides/" + encodeURIComponent(msg.slideId) + "/interactions", {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({ version: msg.version, capability: msg.capability, payload: msg.payload })
    }).catch(function (err) { console.warn("studio bridge relay failed", err); });
  });
})();
`

// BridgeScript returns the bridge for one rendered slide
func BridgeScript(slideID string) string {
	// json.Marshal escapes <, > and & so the literal cannot close a script element
	id, _ := json.Marshal(slideID)
	return strings.NewReplacer(
		"__SLIDE_ID__", string(id),
		"__VERSION__", ProtocolVersion,
	).Replace(bridgeTemplate)
}

// HostScript returns the listener the hosting page installs once. apiBase is the API prefix, e.g. "/api".
func HostScript(apiBase string) string {
	return strings.NewReplacer(
		"__API_BASE__", strings.TrimSuffix(apiBase, "/"),
		"__VERSION__", ProtocolVersion,
	).Replace(hostTemplate)
}
