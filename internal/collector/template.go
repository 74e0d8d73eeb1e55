package collector

import (
	"html/template"
	"io"
)

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"onOff": func(v int) string {
		if v != 0 {
			return "ON"
		}
		return "OFF"
	},
}).Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Waste Bin Monitor</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.alert { color: red; font-weight: bold; }
button { font-family: monospace; padding: 6px 14px; margin-right: 8px; }
</style>
</head>
<body>
<h1>Waste Bin Monitor</h1>

<h2>Bin</h2>
<table>
<tr><th>Status</th><td id="status">{{.Data.Status}}</td></tr>
<tr><th>Fill</th><td id="fill">{{.Data.Fill}}%</td></tr>
<tr><th>Wet</th><td id="wet" class="{{if .Data.Wet}}on{{else}}off{{end}}">{{onOff .Data.Wet}}</td></tr>
<tr><th>Full</th><td id="full" class="{{if .Data.Full}}on{{else}}off{{end}}">{{onOff .Data.Full}}</td></tr>
<tr><th>Distance</th><td id="distance">{{printf "%.1f" .Data.Distance}} cm</td></tr>
<tr><th>Gas</th><td id="gas">{{.Data.Gas}}</td></tr>
<tr><th>Moisture</th><td id="moisture">{{.Data.Moisture}}</td></tr>
</table>

<h2>Classifier</h2>
<table>
<tr><th>Prediction</th><td id="prediction">{{.Data.MLPrediction}}</td></tr>
<tr><th>Confidence</th><td id="confidence">{{printf "%.1f" .Data.MLConfidence}}%</td></tr>
<tr><th>Organic Detected</th><td id="ml-wet">{{if .Data.MLWetDetected}}yes{{else}}no{{end}}</td></tr>
<tr><th>Next Scan</th><td id="next-scan">-</td></tr>
</table>

<h2>Buzzer</h2>
<p id="buzzer-state">{{if .Muted}}muted{{else}}active{{end}}</p>
<p>
<button id="mute-btn">Mute</button>
<button id="unmute-btn">Unmute</button>
</p>

<p><a href="/sensor-data">JSON</a> | <a href="/history">History</a></p>

<script>
(function() {
  function text(id, value) {
    document.getElementById(id).textContent = value;
  }

  function state(id, on) {
    var el = document.getElementById(id);
    el.textContent = on ? "ON" : "OFF";
    el.className = on ? "on" : "off";
  }

  function refresh() {
    fetch("/sensor-data").then(function(r) { return r.json(); }).then(function(d) {
      text("status", d.status);
      text("fill", d.fill + "%");
      state("wet", d.wet !== 0);
      state("full", d.full !== 0);
      text("distance", d.distance.toFixed(1) + " cm");
      text("gas", d.gas);
      text("moisture", d.moisture);
      text("prediction", d.ml_prediction);
      text("confidence", d.ml_confidence.toFixed(1) + "%");
      text("ml-wet", d.ml_wet_detected ? "yes" : "no");
    }).catch(function() {});

    fetch("/ml-status").then(function(r) { return r.json(); }).then(function(d) {
      text("next-scan", d.time_until_next_scan.toFixed(1) + "s");
    }).catch(function() {});

    fetch("/buzzer").then(function(r) { return r.json(); }).then(function(d) {
      text("buzzer-state", d.stop ? "muted" : "active");
    }).catch(function() {});
  }

  function setBuzzer(state) {
    fetch("/buzzer", {
      method: "POST",
      headers: { "Content-Type": "application/x-www-form-urlencoded" },
      body: "state=" + state
    }).then(refresh).catch(function() {});
  }

  document.getElementById("mute-btn").addEventListener("click", function() { setBuzzer("stop"); });
  document.getElementById("unmute-btn").addEventListener("click", function() { setBuzzer("start"); });

  refresh();
  setInterval(refresh, 1000);
})();
</script>
</body>
</html>
`

type dashboardData struct {
	Data  SensorData
	Muted bool
}

func renderDashboard(w io.Writer, data SensorData, muted bool) {
	dashboardTmpl.Execute(w, dashboardData{Data: data, Muted: muted})
}
