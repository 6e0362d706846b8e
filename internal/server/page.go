package server

import (
	"regexp"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// statusPage is a self-contained live view of the telemetry stream.
const statusPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>inputmapper</title>
  <style>
    body { font-family: system-ui, sans-serif; background: #1d1f21; color: #c5c8c6; margin: 2em; }
    h1 { font-size: 1.2em; }
    .off { color: #cc6666; }
    .on { color: #b5bd68; }
    table { border-collapse: collapse; }
    td { padding: 2px 12px 2px 0; }
    .bar { display: inline-block; height: 8px; background: #81a2be; }
    button { margin-right: 6px; }
  </style>
</head>
<body>
  <h1>inputmapper <span id="live" class="off">no device</span> <span id="ctx"></span></h1>
  <table id="axes"></table>
  <p id="buttons"></p>
  <p id="toggles"></p>
  <p>
    <button data-cmd="rescan">Rescan</button>
    <button data-cmd="reload">Reload config</button>
    <button data-cmd="save">Save config</button>
    <button data-cmd="flycam">Toggle flycam</button>
    <button data-cmd="select" data-active="true">Select</button>
    <button data-cmd="select" data-active="false">Deselect</button>
  </p>
  <script>
    var state = { axes: {}, buttons: {}, toggles: {} };
    function render() {
      var live = document.getElementById("live");
      live.textContent = state.live ? "live" : "no device";
      live.className = state.live ? "on" : "off";
      document.getElementById("ctx").textContent = state.context || "";
      var rows = "";
      Object.keys(state.axes).sort().forEach(function (k) {
        var v = state.axes[k];
        rows += "<tr><td>" + k + "</td><td>" + v.toFixed(3) + "</td><td><span class=bar style=width:" +
          Math.min(200, Math.abs(v) * 100) + "px></span></td></tr>";
      });
      document.getElementById("axes").innerHTML = rows;
      document.getElementById("buttons").textContent = Object.keys(state.buttons)
        .filter(function (k) { return state.buttons[k]; }).join(" ");
      var t = state.toggles;
      document.getElementById("toggles").textContent =
        "run " + !!t.running + "  fly " + !!t.flying + "  mouselook " + !!t.mouselook;
    }
    function merge(c) {
      if (c.live !== undefined) state.live = c.live;
      if (c.context !== undefined) state.context = c.context;
      if (c.toggles) state.toggles = c.toggles;
      for (var k in c.axes || {}) state.axes[k] = c.axes[k];
      for (var b in c.buttons || {}) state.buttons[b] = c.buttons[b];
    }
    var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
    ws.onmessage = function (e) {
      var m = JSON.parse(e.data);
      if (m.type === "full" || m.type === "event") state = m.data;
      else if (m.type === "delta") merge(m.changes);
      render();
    };
    document.querySelectorAll("button").forEach(function (b) {
      b.onclick = function () {
        ws.send(JSON.stringify({ type: b.dataset.cmd, active: b.dataset.active === "true" }));
      };
    });
  </script>
</body>
</html>
`

// minifiedPage returns statusPage with its HTML, CSS and script minified.
func minifiedPage() ([]byte, error) {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)

	out, err := m.String("text/html", statusPage)
	if err != nil {
		return nil, errors.Wrap(err, "minify status page")
	}
	return []byte(out), nil
}
