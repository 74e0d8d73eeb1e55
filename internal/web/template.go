package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/bin-sensor/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bin Sensor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Bin Sensor{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>State</h2>
<table>
<tr><th>Status</th><td>{{.StateText}}{{if not .Calibration.Done}} ({{.Calibration.Samples}}/{{.Calibration.Needed}}){{end}}</td></tr>
<tr><th>Wet</th><td id="wet-state" class="{{if .Reading.CombinedWet}}on{{else}}off{{end}}">{{onOff .Reading.CombinedWet}}</td></tr>
<tr><th>Full</th><td id="full-state" class="{{if .Reading.Full}}on{{else}}off{{end}}">{{onOff .Reading.Full}}</td></tr>
<tr><th>Fill</th><td id="fill-pct">{{.Reading.FillPct}}%</td></tr>
<tr><th>Alert Pattern</th><td id="pattern">{{if .Reading.Pattern}}{{.Reading.Pattern}}{{else}}NONE{{end}}</td></tr>
<tr><th>Muted</th><td>{{if .Reading.Muted}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Sensors</h2>
<table>
<tr><th>Gas</th><td>{{.Reading.Gas}}{{if .Calibration.Done}} (baseline {{.Calibration.GasBaseline}}){{end}}</td></tr>
<tr><th>Moisture</th><td>{{.Reading.Moisture}}</td></tr>
<tr><th>Distance</th><td>{{printf "%.1f" .Reading.Distance}} cm</td></tr>
<tr><th>Sensor Wet</th><td>{{onOff .Reading.SensorWet}}</td></tr>
</table>

<h2>Classifier</h2>
<table>
<tr><th>Prediction</th><td>{{if .ML.Prediction}}{{.ML.Prediction}}{{else}}-{{end}}</td></tr>
<tr><th>Confidence</th><td>{{printf "%.1f" .ML.Confidence}}%</td></tr>
<tr><th>ML Wet</th><td>{{onOff .Reading.MLWet}}</td></tr>
<tr><th>Last Poll</th><td>{{if .ML.LastPoll.IsZero}}never{{else}}{{.ML.LastPoll.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Collector</th><td>{{.Config.ServerURL}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>WET ON</th><td>{{.Counts.WetOn}}</td></tr>
<tr><th>WET OFF</th><td>{{.Counts.WetOff}}</td></tr>
<tr><th>FULL ON</th><td>{{.Counts.FullOn}}</td></tr>
<tr><th>FULL OFF</th><td>{{.Counts.FullOff}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "waste/bin/sensor/events";
  var dot = document.getElementById("live-dot");
  var wetEl = document.getElementById("wet-state");
  var fullEl = document.getElementById("full-state");
  var fillEl = document.getElementById("fill-pct");
  var patternEl = document.getElementById("pattern");

  function setState(el, state) {
    el.textContent = state;
    el.className = state === "ON" ? "on" : "off";
  }

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.bin) {
        setState(wetEl, msg.bin.wet.state);
        setState(fullEl, msg.bin.full.state);
        fillEl.textContent = msg.bin.fill_pct + "%";
        patternEl.textContent = msg.bin.pattern;
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
